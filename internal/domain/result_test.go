package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResult_State(t *testing.T) {
	one := []ResultItem{item("xael", "08:00", 300, 5)}
	failure := []OperatorFailure{{OperatorID: "cubazul", Kind: FailureAuthentication}}

	tests := []struct {
		name   string
		result SearchResult
		want   ResultState
	}{
		{
			name:   "ok",
			result: SearchResult{Items: one, Metadata: SearchMetadata{OperatorsQueried: 1, OperatorsSucceeded: 1}},
			want:   StateOK,
		},
		{
			name:   "partial",
			result: SearchResult{Items: one, Failures: failure, Metadata: SearchMetadata{OperatorsQueried: 2, OperatorsSucceeded: 1, OperatorsFailed: 1}},
			want:   StatePartial,
		},
		{
			name:   "empty",
			result: SearchResult{Metadata: SearchMetadata{OperatorsQueried: 2, OperatorsSucceeded: 2}},
			want:   StateEmpty,
		},
		{
			name:   "all failed",
			result: SearchResult{Failures: failure, Metadata: SearchMetadata{OperatorsQueried: 1, OperatorsFailed: 1}},
			want:   StateAllFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.State())
			assert.Equal(t, tt.want == StateAllFailed, tt.result.AllFailed())
		})
	}
}

func TestSearchResult_WithItems(t *testing.T) {
	r := &SearchResult{SearchID: "abc", Items: []ResultItem{item("xael", "08:00", 300, 5)}}

	narrowed := r.WithItems(nil)
	require.NotNil(t, narrowed.Items)
	assert.Empty(t, narrowed.Items)
	assert.Equal(t, 0, narrowed.Metadata.TotalResults)
	assert.Equal(t, "abc", narrowed.SearchID)
	assert.Len(t, r.Items, 1)
}

func TestOperatorRegistry(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		lookup    string
		wantCount int
		wantFound bool
	}{
		{name: "empty registry", ids: nil, lookup: "xael", wantCount: 0, wantFound: false},
		{name: "single operator", ids: []string{"xael"}, lookup: "xael", wantCount: 1, wantFound: true},
		{name: "case-insensitive lookup", ids: []string{"xael", "cubazul"}, lookup: "CubAzul", wantCount: 2, wantFound: true},
		{name: "re-registering replaces", ids: []string{"xael", "XAEL"}, lookup: "xael", wantCount: 1, wantFound: true},
		{name: "missing operator", ids: []string{"xael"}, lookup: "nope", wantCount: 1, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewOperatorRegistry()
			for _, id := range tt.ids {
				registry.Register(Operator{ID: id, DisplayName: id})
			}

			list, err := registry.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, list, tt.wantCount)
			assert.Equal(t, tt.wantCount, registry.Len())
			assert.Len(t, registry.IDs(), tt.wantCount)

			op, ok := registry.Get(tt.lookup)
			assert.Equal(t, tt.wantFound, ok)
			if ok {
				assert.Equal(t, op.ID, op.Credentials.OperatorID)
			}
		})
	}
}

func TestOperatorRegistry_PreservesOrder(t *testing.T) {
	registry := NewOperatorRegistry(
		Operator{ID: "xael"},
		Operator{ID: "cubazul"},
		Operator{ID: "havana-air"},
	)

	list, err := registry.List(context.Background())
	require.NoError(t, err)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"xael", "cubazul", "havana-air"}, ids)
}
