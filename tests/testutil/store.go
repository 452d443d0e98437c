package testutil

import (
	"testing"

	"github.com/nhle/itodo/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with the schema applied and
// the default list seeded. It automatically closes the store when the test
// completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewClockedStore is NewTestStore driven by a fresh Clock starting at start.
func NewClockedStore(t *testing.T, start string) (*store.SQLiteStore, *Clock) {
	t.Helper()

	clock := NewClock(t, start)
	return NewTestStore(t, store.WithClock(clock.Now)), clock
}
