package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestMeta(t *testing.T) *MetaStore {
	t.Helper()
	m, err := NewMetaStore(filepath.Join(t.TempDir(), "meta.db"))
	if err != nil {
		t.Fatalf("create meta store: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestBumpInvocations(t *testing.T) {
	ctx := context.Background()
	m := newTestMeta(t)

	for want := 1; want <= 3; want++ {
		n, err := m.BumpInvocations(ctx, "skills/s/p/common_patterns.md")
		if err != nil {
			t.Fatalf("bump: %v", err)
		}
		if n != want {
			t.Errorf("expected counter %d, got %d", want, n)
		}
	}

	// Independent per location.
	n, _ := m.BumpInvocations(ctx, "skills/s/p/other.md")
	if n != 1 {
		t.Errorf("expected fresh counter 1, got %d", n)
	}
}

func TestInvocationsUnknownLocation(t *testing.T) {
	m := newTestMeta(t)
	n, err := m.Invocations(context.Background(), "projects/p/never.md")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected 0 for unknown location, got %d", n)
	}
}

func TestClearLocation(t *testing.T) {
	ctx := context.Background()
	m := newTestMeta(t)

	m.BumpInvocations(ctx, "projects/p/f.md")
	if err := m.ClearLocation(ctx, "projects/p/f.md"); err != nil {
		t.Fatal(err)
	}
	n, _ := m.Invocations(ctx, "projects/p/f.md")
	if n != 0 {
		t.Errorf("expected counter reset after clear, got %d", n)
	}
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	m := newTestMeta(t)

	m.LogWrite(ctx, "create", "projects/p/a.md")
	m.LogWrite(ctx, "append", "projects/p/a.md")
	m.LogWrite(ctx, "delete", "projects/p/b.md")

	entries, err := m.RecentWrites(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(entries))
	}
	// ULIDs sort by creation time, so newest first.
	if entries[0].Op != "delete" {
		t.Errorf("expected newest entry first, got %q", entries[0].Op)
	}

	counts, err := m.WriteCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts["create"] != 1 || counts["append"] != 1 || counts["delete"] != 1 {
		t.Errorf("unexpected write counts %v", counts)
	}
}
