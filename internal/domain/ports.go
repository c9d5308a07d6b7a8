package domain

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=domain

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// AvailabilitySource retrieves live availability for one operator and leg.
// Implementations own session handling, extraction and normalization.
type AvailabilitySource interface {
	Fetch(ctx context.Context, operator Operator, query AvailabilityQuery) ([]FlightAvailability, error)
}

// OperatorDirectory supplies the operators to search, including their credentials.
type OperatorDirectory interface {
	List(ctx context.Context) ([]Operator, error)
}

// AvailabilityCache stores normalized scrapes by key.
type AvailabilityCache interface {
	Get(key CacheKey) ([]FlightAvailability, bool)
	Put(key CacheKey, value []FlightAvailability)
	Clear()
	Entries() []CacheEntry
}

// OperatorRegistry is an in-memory operator directory.
type OperatorRegistry struct {
	mu        sync.RWMutex
	operators map[string]Operator
	order     []string
}

// NewOperatorRegistry creates a registry holding the given operators in order.
func NewOperatorRegistry(operators ...Operator) *OperatorRegistry {
	r := &OperatorRegistry{operators: make(map[string]Operator)}
	for _, op := range operators {
		r.Register(op)
	}
	return r
}

// Register adds or replaces an operator. Ids are matched case-insensitively.
func (r *OperatorRegistry) Register(op Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(op.ID)
	if _, exists := r.operators[key]; !exists {
		r.order = append(r.order, key)
	}
	if op.Credentials.OperatorID == "" {
		op.Credentials.OperatorID = op.ID
	}
	r.operators[key] = op
}

// Get returns the operator with the given id.
func (r *OperatorRegistry) Get(id string) (Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[strings.ToLower(id)]
	return op, ok
}

// List returns all operators in registration order.
func (r *OperatorRegistry) List(_ context.Context) ([]Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Operator, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.operators[key])
	}
	return out, nil
}

// IDs returns the sorted operator ids.
func (r *OperatorRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.operators))
	for _, op := range r.operators {
		ids = append(ids, op.ID)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered operators.
func (r *OperatorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.operators)
}

var _ OperatorDirectory = (*OperatorRegistry)(nil)
