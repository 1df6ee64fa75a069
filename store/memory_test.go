package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryClient_FetchFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient()

	seed := map[string]map[string]any{
		"a": {"status": "completed", "completed_at": "2025-01-01T08:00:00Z"},
		"b": {"status": "completed", "completed_at": "2025-01-03T08:00:00Z"},
		"c": {"status": "completed", "completed_at": "2025-01-02T08:00:00Z"},
		"d": {"status": "open"},
	}
	for id, doc := range seed {
		if err := m.Set(ctx, "moves", id, doc); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	docs, err := m.Fetch(ctx, "moves", Query{}.
		Where("status", "completed").
		OrderBy("completed_at", true).
		WithLimit(2))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}
	if docs[0]["completed_at"] != "2025-01-03T08:00:00Z" || docs[1]["completed_at"] != "2025-01-02T08:00:00Z" {
		t.Fatalf("descending order broken: %v", docs)
	}
}

func TestMemoryClient_OrderFieldOmitsMissingDocs(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient()
	m.Set(ctx, "moves", "a", map[string]any{"completed_at": "2025-01-01T08:00:00Z"})
	m.Set(ctx, "moves", "b", map[string]any{"status": "open"})

	docs, err := m.Fetch(ctx, "moves", Query{}.OrderBy("completed_at", false))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1; ordering must omit docs missing the order field", len(docs))
	}
}

func TestMemoryClient_GetMissing(t *testing.T) {
	m := NewMemoryClient()
	if _, err := m.Get(context.Background(), "moves", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryClient_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient()
	m.Set(ctx, "moves", "a", map[string]any{"status": "open", "trailer_id": "100"})

	if err := m.Update(ctx, "moves", "a", map[string]any{"status": "completed"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	doc, _ := m.Get(ctx, "moves", "a")
	if doc["status"] != "completed" || doc["trailer_id"] != "100" {
		t.Fatalf("merge broken: %v", doc)
	}

	if err := m.Update(ctx, "moves", "missing", map[string]any{"status": "open"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryClient_FetchReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient()
	m.Set(ctx, "moves", "a", map[string]any{"status": "open"})

	docs, _ := m.Fetch(ctx, "moves", Query{})
	docs[0]["status"] = "mutated"

	doc, _ := m.Get(ctx, "moves", "a")
	if doc["status"] != "open" {
		t.Fatal("fetched documents alias the stored maps")
	}
}
