package directory

import (
	"github.com/charter-search/charter-availability/internal/domain"
)

// EnvOperator describes the single operator configured through environment variables.
type EnvOperator struct {
	ID         string
	Title      string
	System     string
	PortalURL  string
	SeatsTotal int
	Username   string
	Secret     string
}

// NewEnv returns a directory holding exactly one operator.
func NewEnv(op EnvOperator) (*domain.OperatorRegistry, error) {
	if op.ID == "" {
		return nil, domain.ErrNoOperators
	}

	r := record{
		ID:         op.ID,
		Title:      op.Title,
		System:     op.System,
		PortalURL:  op.PortalURL,
		SeatsTotal: op.SeatsTotal,
		Username:   op.Username,
		Secret:     op.Secret,
	}
	return domain.NewOperatorRegistry(r.operator(nil)), nil
}
