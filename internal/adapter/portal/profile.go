package portal

import (
	"strings"
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
)

// Profile describes one reservation platform: where its pages live and how to find things on them.
type Profile struct {
	// Name identifies the platform (e.g., "airmax")
	Name string

	// BaseURL is the portal origin, without trailing slash
	BaseURL string

	// LoginPath and SearchPath are appended to BaseURL
	LoginPath  string
	SearchPath string

	Login   LoginSelectors
	Search  SearchSelectors
	Results ResultSelectors
	Modal   ModalSelectors

	// DateLayout is the Go layout the search form expects its date in
	DateLayout string
}

// LoginSelectors locate the login form.
type LoginSelectors struct {
	Username string
	Password string
	Submit   string
	// ErrorMarker is present after a rejected login
	ErrorMarker string
}

// SearchSelectors locate the availability search form.
type SearchSelectors struct {
	Origin      string
	Destination string
	Date        string
	Submit      string
}

// ResultSelectors locate the results grid.
type ResultSelectors struct {
	Grid string
	// MinCells is the fewest <td> cells a data row carries
	MinCells int
}

// ModalSelectors locate interstitial dialogs and their close controls.
type ModalSelectors struct {
	Dialog       string
	CloseButtons []string
}

// Timeouts bound every wait against the portal.
type Timeouts struct {
	// Modal bounds the wait for a dialog to appear and to disappear
	Modal time.Duration
	// Navigation bounds page loads and form submissions
	Navigation time.Duration
	// Results bounds the wait for the results grid
	Results time.Duration
}

// DefaultTimeouts returns the waits used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Modal:      3 * time.Second,
		Navigation: 30 * time.Second,
		Results:    30 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Modal <= 0 {
		t.Modal = d.Modal
	}
	if t.Navigation <= 0 {
		t.Navigation = d.Navigation
	}
	if t.Results <= 0 {
		t.Results = d.Results
	}
	return t
}

// XaelProfile is the XAEL Suite (AirMax) reservation portal.
func XaelProfile() Profile {
	return Profile{
		Name:       "airmax",
		BaseURL:    "https://xaelsuite.com",
		LoginPath:  "/login.aspx",
		SearchPath: "/Reservations/NewReservation.aspx",
		Login: LoginSelectors{
			Username:    "#txtUserName",
			Password:    "#txtPassword",
			Submit:      "#btnLogin",
			ErrorMarker: ".login-error",
		},
		Search: SearchSelectors{
			Origin:      "#DropDownList_Origin",
			Destination: "#DropDownList_Dest",
			Date:        "#DatePicker_Travel",
			Submit:      "#ButtonInquiry",
		},
		Results: ResultSelectors{
			Grid:     ".flight-grid",
			MinCells: 4,
		},
		Modal: ModalSelectors{
			Dialog: `div[role="dialog"]`,
			CloseButtons: []string{
				`button[class*="close"]`,
				`button[class*="modal-close"]`,
				`button[aria-label="Close"]`,
				".modal-close-button",
				".close-button",
			},
		},
		DateLayout: domain.DateLayout,
	}
}

// WithBaseURL returns a copy of p served from baseURL. An empty value keeps the default.
func (p Profile) WithBaseURL(baseURL string) Profile {
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		p.BaseURL = baseURL
	}
	return p
}

// LoginURL is the absolute login page address.
func (p Profile) LoginURL() string {
	return strings.TrimRight(p.BaseURL, "/") + p.LoginPath
}

// SearchURL is the absolute search page address.
func (p Profile) SearchURL() string {
	return strings.TrimRight(p.BaseURL, "/") + p.SearchPath
}

func (p Profile) minCells() int {
	if p.Results.MinCells > 0 {
		return p.Results.MinCells
	}
	return 4
}
