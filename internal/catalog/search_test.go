package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/domain"
	"github.com/vitrine/storefront/internal/localstore"
	"github.com/vitrine/storefront/internal/store"
)

type memLocal struct {
	entries map[string][]byte
}

func newMemLocal() *memLocal {
	return &memLocal{entries: map[string][]byte{}}
}

func (m *memLocal) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.entries[key]
	if !ok {
		return nil, localstore.ErrKeyNotFound
	}
	return v, nil
}

func (m *memLocal) Set(_ context.Context, key string, value []byte) error {
	m.entries[key] = value
	return nil
}

func (m *memLocal) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memLocal) Close() error { return nil }

func newRecent(t *testing.T) *store.RecentSearches {
	t.Helper()
	return store.NewRecentSearches(context.Background(), newMemLocal(), "recentSearches", testLogger())
}

func TestSuggestions(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"too short", "c", nil},
		{"empty", "", nil},
		{"case insensitive substring", "cal", []string{"Calças", "Calçados"}},
		{"accented match", "eletrô", []string{"Eletrônicos"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggestions(tt.query)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchRun_RecordsRecent(t *testing.T) {
	b := &mockBackend{
		list: &backend.ProductList{Products: []domain.Product{{ID: "prod_1"}}},
	}
	recent := newRecent(t)
	s := NewSearch(b, recent, testLogger())

	s.Run(context.Background(), "camiseta")

	snap := s.Snapshot()
	assert.Equal(t, "camiseta", snap.Query)
	require.Len(t, snap.Results, 1)
	assert.Equal(t, []string{"camiseta"}, recent.List())
}

func TestSearchRun_FailureKeepsResultsAndHistory(t *testing.T) {
	b := &mockBackend{listErr: assert.AnError}
	recent := newRecent(t)
	s := NewSearch(b, recent, testLogger())

	s.Run(context.Background(), "camiseta")

	snap := s.Snapshot()
	assert.Empty(t, snap.Results)
	assert.Empty(t, recent.List(), "failed searches are not recorded")
	assert.False(t, snap.Loading)
}

func TestSearchRun_StaleResponseDiscarded(t *testing.T) {
	started := map[string]chan struct{}{
		"old": make(chan struct{}),
		"new": make(chan struct{}),
	}
	release := map[string]chan struct{}{
		"old": make(chan struct{}),
		"new": make(chan struct{}),
	}

	b := &mockBackend{}
	b.listFn = func(q backend.ProductQuery) (*backend.ProductList, error) {
		close(started[q.Query])
		<-release[q.Query]
		return &backend.ProductList{
			Products: []domain.Product{{ID: "result_" + q.Query}},
		}, nil
	}

	s := NewSearch(b, newRecent(t), testLogger())

	oldDone := make(chan struct{})
	go func() {
		defer close(oldDone)
		s.Run(context.Background(), "old")
	}()
	<-started["old"]

	newDone := make(chan struct{})
	go func() {
		defer close(newDone)
		s.Run(context.Background(), "new")
	}()
	<-started["new"]

	// The newer query completes first, then the superseded one trickles in.
	close(release["new"])
	<-newDone
	close(release["old"])
	<-oldDone

	snap := s.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, "result_new", snap.Results[0].ID, "stale response must not overwrite newer results")
	assert.Equal(t, []string{"new"}, snap.Recent)
}

func TestSearchClear(t *testing.T) {
	b := &mockBackend{
		list: &backend.ProductList{Products: []domain.Product{{ID: "prod_1"}}},
	}
	s := NewSearch(b, newRecent(t), testLogger())

	s.Run(context.Background(), "camiseta")
	s.Clear()

	snap := s.Snapshot()
	assert.Empty(t, snap.Query)
	assert.Empty(t, snap.Results)
}

func TestSearchRun_EmptyQueryIsNoop(t *testing.T) {
	b := &mockBackend{}
	s := NewSearch(b, newRecent(t), testLogger())

	s.Run(context.Background(), "")

	assert.Empty(t, b.queries())
}
