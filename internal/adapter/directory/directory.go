// Package directory loads the charter operators the service can query.
package directory

import (
	"strings"

	"github.com/charter-search/charter-availability/internal/domain"
)

// record is the shared serialized form of an operator with its login details.
type record struct {
	ID         string `json:"id" bson:"_id"`
	Title      string `json:"title" bson:"title"`
	System     string `json:"system,omitempty" bson:"system,omitempty"`
	PortalURL  string `json:"portalUrl,omitempty" bson:"portalUrl,omitempty"`
	SeatsTotal int    `json:"seatsTotal,omitempty" bson:"seatsTotal,omitempty"`
	Username   string `json:"username" bson:"username"`
	Secret     string `json:"secret,omitempty" bson:"-"`
	SecretEnv  string `json:"secretEnv,omitempty" bson:"secretEnv,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty" bson:"enabled,omitempty"`
}

func (r record) enabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// operator converts r, resolving a secret held in the environment through lookup.
func (r record) operator(lookup func(string) string) domain.Operator {
	id := strings.TrimSpace(r.ID)
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = id
	}

	secret := r.Secret
	if secret == "" && r.SecretEnv != "" && lookup != nil {
		secret = lookup(r.SecretEnv)
	}

	return domain.Operator{
		ID:          id,
		DisplayName: title,
		System:      strings.TrimSpace(r.System),
		PortalURL:   strings.TrimSpace(r.PortalURL),
		SeatsTotal:  r.SeatsTotal,
		Credentials: domain.OperatorCredentials{
			OperatorID: id,
			Username:   r.Username,
			Secret:     secret,
		},
	}
}
