package models

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/simpleym/yard_backend/utils"
)

// TrailerSnapshot summarizes a trailer's most recent completed move.
type TrailerSnapshot struct {
	TrailerID    string `json:"trailer_id"`
	LastLocation string `json:"last_location"`
	Timestamp    string `json:"timestamp"`
	FromLocation string `json:"from_location"`
	FromDoor     string `json:"from_door"`
	ToDoor       string `json:"to_door"`
}

type LastKnownLocationsResult struct {
	LastKnownLocations []TrailerSnapshot `json:"last_known_locations"`
	Count              int               `json:"count"`
	GeneratedAt        string            `json:"generated_at"`
}

type TrailerStatistics struct {
	TotalTrailersWithMoves int    `json:"total_trailers_with_moves"`
	TrailersInMotion       int    `json:"trailers_in_motion"`
	TrailersAtRest         int    `json:"trailers_at_rest"`
	GeneratedAt            string `json:"generated_at"`
}

// TrailerStateEngine reconstructs per-trailer current state from the move
// history. Derivations are pure functions of the fetched move set; the
// engine only adds the store read and the generation timestamp.
type TrailerStateEngine struct {
	Moves *MoveRepository
}

func (e *TrailerStateEngine) LastKnownLocations(ctx context.Context) (*LastKnownLocationsResult, error) {
	moves, err := e.Moves.CompletedMoves(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := DeriveLastKnownLocations(moves)
	_, local := utils.CurrentTimestamps()
	return &LastKnownLocationsResult{
		LastKnownLocations: snapshots,
		Count:              len(snapshots),
		GeneratedAt:        local,
	}, nil
}

func (e *TrailerStateEngine) Statistics(ctx context.Context) (*TrailerStatistics, error) {
	moves, err := e.Moves.AllMoves(ctx)
	if err != nil {
		return nil, err
	}

	stats := DeriveTrailerStatistics(moves)
	_, local := utils.CurrentTimestamps()
	stats.GeneratedAt = local
	return stats, nil
}

// DeriveLastKnownLocations reduces a set of completed moves to one snapshot
// per trailer: the destination of that trailer's most recent completed
// move. The input order is irrelevant; moves are sorted by completion
// timestamp descending with the move ID (descending) as the deterministic
// tie-break, then the first occurrence of each trailer wins.
func DeriveLastKnownLocations(completedMoves []map[string]any) []TrailerSnapshot {
	ordered := make([]map[string]any, len(completedMoves))
	copy(ordered, completedMoves)
	sort.SliceStable(ordered, func(i, j int) bool {
		cmp := compareEventTimes(snapshotTime(ordered[i]), snapshotTime(ordered[j]))
		if cmp != 0 {
			return cmp > 0
		}
		return utils.StringField(ordered[i], "id") > utils.StringField(ordered[j], "id")
	})

	seen := map[string]bool{}
	snapshots := []TrailerSnapshot{}
	for _, move := range ordered {
		trailerID := utils.StringField(move, "trailer_id")
		if trailerID == "" || seen[trailerID] {
			continue
		}
		seen[trailerID] = true
		snapshots = append(snapshots, TrailerSnapshot{
			TrailerID:    trailerID,
			LastLocation: fieldOrUnknown(move, "to_location", "to_wh_yard"),
			Timestamp:    snapshotTime(move),
			FromLocation: fieldOrUnknown(move, "from_wh_yard"),
			FromDoor:     fieldOrUnknown(move, "from_door"),
			ToDoor:       fieldOrUnknown(move, "to_door"),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return trailerIDLess(snapshots[i].TrailerID, snapshots[j].TrailerID)
	})
	return snapshots
}

// DeriveTrailerStatistics tracks, per trailer, the status carried by the
// move with the latest available timestamp. The store gives no ordering
// guarantee for an unfiltered scan, so a trailer's tracked status is
// replaced only when a move's timestamp is strictly newer; scan order
// alone must never decide.
func DeriveTrailerStatistics(moves []map[string]any) *TrailerStatistics {
	type tracked struct {
		status    string
		timestamp string
	}
	latest := map[string]tracked{}

	for _, move := range moves {
		trailerID := utils.StringField(move, "trailer_id")
		if trailerID == "" {
			continue
		}
		status := utils.StringField(move, "status")
		if status == "" {
			status = "unknown"
		}
		ts := snapshotTime(move)

		current, ok := latest[trailerID]
		if !ok || compareEventTimes(ts, current.timestamp) > 0 {
			latest[trailerID] = tracked{status: status, timestamp: ts}
		}
	}

	stats := &TrailerStatistics{TotalTrailersWithMoves: len(latest)}
	for _, t := range latest {
		switch t.status {
		case MoveStatusOpen, MoveStatusPickedUp:
			stats.TrailersInMotion++
		case MoveStatusCompleted:
			stats.TrailersAtRest++
		}
	}
	return stats
}

// snapshotTime is the timestamp a move contributes to reconstruction:
// completed_at when present, the generic create timestamp otherwise.
func snapshotTime(move map[string]any) string {
	if ts := utils.StringField(move, "completed_at"); ts != "" {
		return ts
	}
	return utils.StringField(move, utils.FieldTimestamp)
}

// compareEventTimes compares two stored timestamps. Values are RFC 3339
// strings; when both parse they are compared as instants so differing
// offsets or precision cannot skew the result, otherwise lexically.
func compareEventTimes(a, b string) int {
	at, aerr := time.Parse(time.RFC3339Nano, a)
	bt, berr := time.Parse(time.RFC3339Nano, b)
	if aerr == nil && berr == nil {
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// trailerIDLess orders trailer IDs numerically when both parse as
// integers; numeric IDs come before non-numeric ones, and non-numeric IDs
// order lexically among themselves.
func trailerIDLess(a, b string) bool {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return an < bn
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}

func fieldOrUnknown(record map[string]any, fields ...string) string {
	for _, field := range fields {
		if v := utils.StringField(record, field); v != "" {
			return v
		}
	}
	return "Unknown"
}
