package domain

import "fmt"

// DefaultSeatsTotal is the capacity assumed when an operator does not declare one.
const DefaultSeatsTotal = 10

// Operator is a charter airline whose availability is scraped from a reservation portal.
type Operator struct {
	// ID is the stable operator identifier (e.g., "xael")
	ID string `json:"id" bson:"_id"`

	// DisplayName is the brand shown to travellers (e.g., "XAEL Charters")
	DisplayName string `json:"title" bson:"title"`

	// System names the reservation platform the operator runs on (e.g., "airmax")
	System string `json:"system,omitempty" bson:"system,omitempty"`

	// PortalURL overrides the platform's default base URL when set
	PortalURL string `json:"portalUrl,omitempty" bson:"portalUrl,omitempty"`

	// SeatsTotal is the aircraft capacity; 0 means DefaultSeatsTotal
	SeatsTotal int `json:"seatsTotal,omitempty" bson:"seatsTotal,omitempty"`

	// Credentials are used to log into the portal and are never serialized
	Credentials OperatorCredentials `json:"-" bson:"-"`
}

// Capacity returns the operator's seat capacity, falling back to DefaultSeatsTotal.
func (o Operator) Capacity() int {
	if o.SeatsTotal > 0 {
		return o.SeatsTotal
	}
	return DefaultSeatsTotal
}

// Summary returns the public charter metadata attached to search results.
func (o Operator) Summary() CharterSummary {
	return CharterSummary{
		ID:     o.ID,
		Title:  o.DisplayName,
		System: o.System,
	}
}

// OperatorCredentials are the portal login details for one operator.
// They are supplied by the directory for a single call and never persisted.
type OperatorCredentials struct {
	OperatorID string
	Username   string
	Secret     string
}

// IsZero reports whether no login details were supplied.
func (c OperatorCredentials) IsZero() bool {
	return c.Username == "" && c.Secret == ""
}

// String redacts the secret so credentials are safe to log.
func (c OperatorCredentials) String() string {
	return fmt.Sprintf("OperatorCredentials{operator=%s, username=%s, secret=[REDACTED]}", c.OperatorID, c.Username)
}

// GoString redacts the secret for %#v formatting.
func (c OperatorCredentials) GoString() string {
	return c.String()
}

// CharterSummary is the operator metadata shown next to each availability.
type CharterSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	System string `json:"system,omitempty"`
}
