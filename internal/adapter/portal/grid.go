package portal

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/charter-search/charter-availability/internal/domain"
)

// Results grid column positions.
const (
	colFlightNumber = iota
	colDeparture
	colArrival
	colSeats
	colPrice
	colFirstClass
)

// ParseGrid extracts the data rows of a results grid. Rows with fewer than minCells
// cells (headers, spacers, "no flights" banners) are skipped. Cells past the seats
// column are optional and left empty when absent.
func ParseGrid(html string, minCells int) ([]domain.RawFlightRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results grid: %w", err)
	}

	rows := make([]domain.RawFlightRow, 0)
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td").Map(func(_ int, td *goquery.Selection) string {
			return cellText(td)
		})
		if len(cells) < minCells || len(cells) <= colSeats {
			return
		}

		rows = append(rows, domain.RawFlightRow{
			FlightNumber:        cells[colFlightNumber],
			DepartureText:       cells[colDeparture],
			ArrivalText:         cells[colArrival],
			SeatsAvailableText:  cells[colSeats],
			PriceText:           cellAt(cells, colPrice),
			FirstClassPriceText: cellAt(cells, colFirstClass),
		})
	})

	return rows, nil
}

func cellText(td *goquery.Selection) string {
	return strings.Join(strings.Fields(td.Text()), " ")
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
