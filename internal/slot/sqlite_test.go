package slot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLite(path, DefaultKey)
	if err != nil {
		t.Fatalf("new sqlite slot: %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := s.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty table, got %v", err)
	}

	doc := []byte(`{"people":[{"id":"1"}]}`)
	if err := s.Write(ctx, doc); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("round trip mismatch: %s", got)
	}

	// Upsert keeps a single row per slot.
	if err := s.Write(ctx, []byte(`{"people":[]}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 state row, got %d", count)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := NewSQLite(path, DefaultKey)
	if err != nil {
		t.Fatalf("new sqlite slot: %v", err)
	}
	if err := s.Write(ctx, []byte(`{"trips":[]}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	again, err := NewSQLite(path, DefaultKey)
	if err != nil {
		t.Fatalf("reopen sqlite slot: %v", err)
	}
	defer func() { _ = again.Close() }()
	got, err := again.Read(ctx)
	if err != nil {
		t.Fatalf("read after reopen: %v", err)
	}
	if string(got) != `{"trips":[]}` {
		t.Fatalf("document lost across reopen: %s", got)
	}
}
