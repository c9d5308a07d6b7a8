package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charter-search/charter-availability/internal/domain"
)

// LoadFile reads a JSON array of operators. ${VAR} references anywhere in the file are
// expanded from the environment, and secretEnv names a variable holding the secret.
// Disabled entries are skipped.
func LoadFile(path string) (*domain.OperatorRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read operators file: %w", err)
	}
	return Parse(data, os.Getenv)
}

// Parse decodes an operators document using lookup for variable expansion.
func Parse(data []byte, lookup func(string) string) (*domain.OperatorRegistry, error) {
	if lookup == nil {
		lookup = func(string) string { return "" }
	}
	expanded := os.Expand(string(data), lookup)

	dec := json.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.DisallowUnknownFields()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode operators file: %w", err)
	}

	registry := domain.NewOperatorRegistry()
	for i, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("operator %d: id is required", i)
		}
		if !r.enabled() {
			continue
		}
		registry.Register(r.operator(lookup))
	}

	if registry.Len() == 0 {
		return nil, domain.ErrNoOperators
	}
	return registry, nil
}
