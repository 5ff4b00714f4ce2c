package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q) error: %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{Source: "manager", Kind: "ready", Component: "manager", Detail: "3 components"},
		{Source: "trigger", Kind: "fired", Component: "lights.1", Detail: "motion detected"},
	}
	for _, e := range entries {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record(%+v) error: %v", e, err)
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("Recent() returned %d entries, want %d", len(got), len(entries))
	}
	// Recent orders newest first.
	if got[0].Component != "lights.1" || got[1].Component != "manager" {
		t.Errorf("Recent() order = %+v, want newest-first", got)
	}
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := s.Record(ctx, Entry{Source: "manager", Kind: "ready", Component: "manager"}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent() returned %d entries, want 1", len(got))
	}
	if got[0].Timestamp.Before(before) {
		t.Errorf("recorded timestamp %v is before the call", got[0].Timestamp)
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.Record(ctx, Entry{Source: "manager", Kind: "poll", Component: "manager"}); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Recent(limit=2) returned %d entries, want 2", len(got))
	}
}
