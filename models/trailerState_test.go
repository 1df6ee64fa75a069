package models

import (
	"context"
	"errors"
	"testing"

	"github.com/simpleym/yard_backend/store"
)

func completedMove(id, trailerID, completedAt, toLocation string) map[string]any {
	return map[string]any{
		"id":           id,
		"trailer_id":   trailerID,
		"status":       MoveStatusCompleted,
		"completed_at": completedAt,
		"to_wh_yard":   toLocation,
		"from_wh_yard": "YARD",
		"from_door":    "D1",
		"to_door":      "D2",
		"timestamp":    completedAt,
	}
}

func TestDeriveLastKnownLocations_NewestMoveWinsPerTrailer(t *testing.T) {
	moves := []map[string]any{
		completedMove("m1", "100", "2025-01-01T08:00:00Z", "FRZ"),
		completedMove("m3", "100", "2025-01-03T08:00:00Z", "CLR"),
		completedMove("m2", "100", "2025-01-02T08:00:00Z", "SEAS"),
	}

	snapshots := DeriveLastKnownLocations(moves)
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
	}
	if snapshots[0].TrailerID != "100" {
		t.Errorf("trailer id = %q, want 100", snapshots[0].TrailerID)
	}
	if snapshots[0].LastLocation != "CLR" {
		t.Errorf("last location = %q, want CLR (newest completed move)", snapshots[0].LastLocation)
	}
	if snapshots[0].Timestamp != "2025-01-03T08:00:00Z" {
		t.Errorf("timestamp = %q, want the max completion timestamp", snapshots[0].Timestamp)
	}
}

func TestDeriveLastKnownLocations_SortsNumericBeforeLexical(t *testing.T) {
	moves := []map[string]any{
		completedMove("m1", "100", "2025-01-01T08:00:00Z", "FRZ"),
		completedMove("m2", "9", "2025-01-01T09:00:00Z", "CLR"),
		completedMove("m3", "DOCK-A", "2025-01-01T10:00:00Z", "SEAS"),
		completedMove("m4", "20", "2025-01-01T11:00:00Z", "YARD"),
		completedMove("m5", "ALPHA", "2025-01-01T12:00:00Z", "WAWA"),
	}

	snapshots := DeriveLastKnownLocations(moves)
	got := make([]string, len(snapshots))
	for i, s := range snapshots {
		got[i] = s.TrailerID
	}
	want := []string{"9", "20", "100", "ALPHA", "DOCK-A"}
	if len(got) != len(want) {
		t.Fatalf("expected %d snapshots, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDeriveLastKnownLocations_TieBreakIsDeterministic(t *testing.T) {
	a := completedMove("move_a", "100", "2025-01-01T08:00:00Z", "FRZ")
	b := completedMove("move_b", "100", "2025-01-01T08:00:00Z", "CLR")

	first := DeriveLastKnownLocations([]map[string]any{a, b})
	second := DeriveLastKnownLocations([]map[string]any{b, a})

	if first[0].LastLocation != second[0].LastLocation {
		t.Fatalf("tie-break depends on input order: %q vs %q", first[0].LastLocation, second[0].LastLocation)
	}
	// Larger move id wins among equal completion timestamps.
	if first[0].LastLocation != "CLR" {
		t.Errorf("last location = %q, want CLR from move_b", first[0].LastLocation)
	}
}

func TestDeriveLastKnownLocations_EmptyInput(t *testing.T) {
	snapshots := DeriveLastKnownLocations(nil)
	if snapshots == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(snapshots) != 0 {
		t.Fatalf("expected 0 snapshots, got %d", len(snapshots))
	}
}

func TestDeriveLastKnownLocations_FallsBackToGenericTimestamp(t *testing.T) {
	move := completedMove("m1", "100", "", "FRZ")
	delete(move, "completed_at")
	move["timestamp"] = "2025-02-01T08:00:00Z"

	snapshots := DeriveLastKnownLocations([]map[string]any{move})
	if snapshots[0].Timestamp != "2025-02-01T08:00:00Z" {
		t.Errorf("timestamp = %q, want the generic timestamp fallback", snapshots[0].Timestamp)
	}
}

func TestDeriveLastKnownLocations_SkipsMovesWithoutTrailer(t *testing.T) {
	move := completedMove("m1", "", "2025-01-01T08:00:00Z", "FRZ")
	if got := DeriveLastKnownLocations([]map[string]any{move}); len(got) != 0 {
		t.Fatalf("expected no snapshots for trailerless moves, got %d", len(got))
	}
}

func TestDeriveTrailerStatistics_Counts(t *testing.T) {
	moves := []map[string]any{
		completedMove("m1", "100", "2025-01-01T08:00:00Z", "FRZ"),
		{
			"id":         "m2",
			"trailer_id": "200",
			"status":     MoveStatusOpen,
			"timestamp":  "2025-01-01T09:00:00Z",
		},
	}

	stats := DeriveTrailerStatistics(moves)
	if stats.TotalTrailersWithMoves != 2 {
		t.Errorf("total = %d, want 2", stats.TotalTrailersWithMoves)
	}
	if stats.TrailersInMotion != 1 {
		t.Errorf("in motion = %d, want 1", stats.TrailersInMotion)
	}
	if stats.TrailersAtRest != 1 {
		t.Errorf("at rest = %d, want 1", stats.TrailersAtRest)
	}
}

func TestDeriveTrailerStatistics_LatestTimestampWinsNotScanOrder(t *testing.T) {
	newer := map[string]any{
		"id":         "m_new",
		"trailer_id": "100",
		"status":     MoveStatusOpen,
		"timestamp":  "2025-01-02T08:00:00Z",
	}
	older := completedMove("m_old", "100", "2025-01-01T08:00:00Z", "FRZ")

	// The older completed move arriving later in the scan must not
	// override the newer open move.
	for _, order := range [][]map[string]any{{newer, older}, {older, newer}} {
		stats := DeriveTrailerStatistics(order)
		if stats.TrailersInMotion != 1 || stats.TrailersAtRest != 0 {
			t.Fatalf("in_motion=%d at_rest=%d, want 1/0 regardless of scan order",
				stats.TrailersInMotion, stats.TrailersAtRest)
		}
	}
}

func TestDeriveTrailerStatistics_UnknownStatusCountedInTotalOnly(t *testing.T) {
	stats := DeriveTrailerStatistics([]map[string]any{{
		"id":         "m1",
		"trailer_id": "100",
		"timestamp":  "2025-01-01T08:00:00Z",
	}})
	if stats.TotalTrailersWithMoves != 1 {
		t.Fatalf("total = %d, want 1", stats.TotalTrailersWithMoves)
	}
	if stats.TrailersInMotion+stats.TrailersAtRest != 0 {
		t.Fatalf("statusless move counted as in motion or at rest")
	}
}

func TestTrailerStateEngine_AgainstStore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryClient()
	repo := &MoveRepository{Store: mem}
	engine := &TrailerStateEngine{Moves: repo}

	seed := []map[string]any{
		completedMove("m1", "100", "2025-01-01T08:00:00Z", "FRZ"),
		completedMove("m2", "100", "2025-01-02T08:00:00Z", "CLR"),
		{
			"id":         "m3",
			"trailer_id": "200",
			"status":     MoveStatusOpen,
			"timestamp":  "2025-01-02T09:00:00Z",
		},
	}
	for _, move := range seed {
		if _, err := repo.Record(ctx, move); err != nil {
			t.Fatalf("seed move: %v", err)
		}
	}

	result, err := engine.LastKnownLocations(ctx)
	if err != nil {
		t.Fatalf("LastKnownLocations: %v", err)
	}
	if result.Count != 1 || len(result.LastKnownLocations) != 1 {
		t.Fatalf("count = %d, want 1 (only trailer 100 has completed moves)", result.Count)
	}
	if result.LastKnownLocations[0].LastLocation != "CLR" {
		t.Errorf("last location = %q, want CLR", result.LastKnownLocations[0].LastLocation)
	}
	if result.GeneratedAt == "" {
		t.Error("generated_at not set")
	}

	stats, err := engine.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalTrailersWithMoves != 2 || stats.TrailersInMotion != 1 || stats.TrailersAtRest != 1 {
		t.Fatalf("stats = %+v, want total 2, in motion 1, at rest 1", stats)
	}
}

func TestTrailerStateEngine_IncludesMovesWithoutCompletedAt(t *testing.T) {
	ctx := context.Background()
	repo := &MoveRepository{Store: store.NewMemoryClient()}
	engine := &TrailerStateEngine{Moves: repo}

	// Completed moves written before completed_at stamping existed carry
	// only the generic create timestamp; they must still surface.
	seed := []map[string]any{
		{
			"id":         "legacy",
			"trailer_id": "300",
			"status":     MoveStatusCompleted,
			"timestamp":  "2024-06-01T08:00:00Z",
			"to_wh_yard": "DRY FRONT",
		},
		completedMove("m1", "100", "2025-01-01T08:00:00Z", "FRZ"),
	}
	for _, move := range seed {
		if _, err := repo.Record(ctx, move); err != nil {
			t.Fatalf("seed move: %v", err)
		}
	}

	result, err := engine.LastKnownLocations(ctx)
	if err != nil {
		t.Fatalf("LastKnownLocations: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("count = %d, want 2 (legacy move must not be dropped)", result.Count)
	}
	var legacy *TrailerSnapshot
	for i := range result.LastKnownLocations {
		if result.LastKnownLocations[i].TrailerID == "300" {
			legacy = &result.LastKnownLocations[i]
		}
	}
	if legacy == nil {
		t.Fatalf("trailer 300 missing: %v", result.LastKnownLocations)
	}
	if legacy.Timestamp != "2024-06-01T08:00:00Z" || legacy.LastLocation != "DRY FRONT" {
		t.Errorf("legacy snapshot = %+v", legacy)
	}
}

func TestTrailerStateEngine_SurfacesStoreErrors(t *testing.T) {
	mem := store.NewMemoryClient()
	mem.FailFetch = errors.New("store unreachable")
	engine := &TrailerStateEngine{Moves: &MoveRepository{Store: mem}}

	if _, err := engine.LastKnownLocations(context.Background()); err == nil {
		t.Error("LastKnownLocations: expected error when the store read fails")
	}
	if _, err := engine.Statistics(context.Background()); err == nil {
		t.Error("Statistics: expected error when the store read fails")
	}
}
