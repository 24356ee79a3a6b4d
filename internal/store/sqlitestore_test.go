package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	in := testDoc{Name: "abc", Items: []string{"a", "b"}}
	if err := s.Save(ctx, "u1/doc", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out testDoc
	if err := s.Load(ctx, "u1/doc", &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Name != in.Name || len(out.Items) != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestSQLiteOverwrite(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "doc", testDoc{Name: "first"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "doc", testDoc{Name: "second"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	var out testDoc
	if err := s.Load(ctx, "doc", &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Name != "second" {
		t.Fatalf("got %q", out.Name)
	}
}

func TestSQLiteMissingIsEmpty(t *testing.T) {
	s := newSQLiteStore(t)

	out := testDoc{Name: "leftover"}
	if err := s.Load(context.Background(), "nope", &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Name != "leftover" {
		t.Fatalf("missing doc must not touch v: %+v", out)
	}
}
