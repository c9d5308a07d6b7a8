package domain

import "time"

// ValidityWindow is how long a quoted fare and seat count are trusted after retrieval.
const ValidityWindow = 15 * time.Minute

// ResultState summarizes a search outcome for the presentation boundary.
type ResultState string

const (
	// StateOK means every operator answered and at least one flight matched
	StateOK ResultState = "ok"

	// StatePartial means some operators failed but others returned flights
	StatePartial ResultState = "partial"

	// StateEmpty means operators answered but nothing matched
	StateEmpty ResultState = "empty"

	// StateAllFailed means no operator could be searched
	StateAllFailed ResultState = "all_failed"
)

// ResultItem pairs an availability with the charter that offers it.
type ResultItem struct {
	Charter      CharterSummary     `json:"charter"`
	Leg          Leg                `json:"leg"`
	Availability FlightAvailability `json:"availability"`
}

// OperatorFailure records why one operator contributed nothing to a search.
type OperatorFailure struct {
	OperatorID  string      `json:"operatorId"`
	DisplayName string      `json:"title"`
	Leg         Leg         `json:"leg"`
	Kind        FailureKind `json:"kind"`
	Message     string      `json:"message"`
}

// SearchMetadata contains information about the search execution.
type SearchMetadata struct {
	// TotalResults is the number of items returned after filtering
	TotalResults int `json:"totalResults"`

	// OperatorsQueried is the number of operators searched
	OperatorsQueried int `json:"operatorsQueried"`

	// OperatorsSucceeded is the number of operators with at least one successful leg
	OperatorsSucceeded int `json:"operatorsSucceeded"`

	// OperatorsFailed is the number of operators where every leg failed
	OperatorsFailed int `json:"operatorsFailed"`

	// CacheHits counts legs served from the availability cache
	CacheHits int `json:"cacheHits"`

	// SearchTimeMs is the total search duration in milliseconds
	SearchTimeMs int64 `json:"searchTimeMs"`
}

// SearchResult is the merged outcome of one multi-operator search.
// It is produced fresh per query and never persisted.
type SearchResult struct {
	SearchID    string            `json:"searchId"`
	Params      SearchParams      `json:"searchCriteria"`
	Items       []ResultItem      `json:"results"`
	Failures    []OperatorFailure `json:"failures,omitempty"`
	RetrievedAt time.Time         `json:"retrievedAt"`
	ValidUntil  time.Time         `json:"validUntil"`
	Metadata    SearchMetadata    `json:"metadata"`
}

// State classifies the result for display.
func (r *SearchResult) State() ResultState {
	switch {
	case r.Metadata.OperatorsQueried > 0 && r.Metadata.OperatorsSucceeded == 0:
		return StateAllFailed
	case len(r.Items) == 0:
		return StateEmpty
	case len(r.Failures) > 0:
		return StatePartial
	default:
		return StateOK
	}
}

// AllFailed reports whether no operator could be searched.
func (r *SearchResult) AllFailed() bool {
	return r.State() == StateAllFailed
}

// WithItems returns a shallow copy of the result carrying the given items.
func (r *SearchResult) WithItems(items []ResultItem) *SearchResult {
	out := *r
	if items == nil {
		items = []ResultItem{}
	}
	out.Items = items
	out.Metadata.TotalResults = len(items)
	return &out
}
