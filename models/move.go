package models

import (
	"context"
	"fmt"

	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

// Move lifecycle: created with status "open", then "picked up", then
// "completed". A completed move carries a completed_at timestamp.
const (
	MoveStatusOpen      = "open"
	MoveStatusPickedUp  = "picked up"
	MoveStatusCompleted = "completed"
)

// MoveEvent names a lifecycle event whose timestamp pair can be stamped
// onto a move.
type MoveEvent string

const (
	MoveEventCreated   MoveEvent = "created"
	MoveEventPickedUp  MoveEvent = "picked_up"
	MoveEventCompleted MoveEvent = "completed"
)

// eventField maps an event to the UTC field it stamps; the local rendering
// goes to the same name with the _EST suffix.
func (e MoveEvent) eventField() (string, bool) {
	switch e {
	case MoveEventCreated:
		return "created_at", true
	case MoveEventPickedUp:
		return "picked_up_at", true
	case MoveEventCompleted:
		return "completed_at", true
	}
	return "", false
}

// MoveRepository reads and writes trailer relocation events.
type MoveRepository struct {
	Store store.Client
}

// Record persists a move keyed by its id, generating one when absent.
func (r *MoveRepository) Record(ctx context.Context, move map[string]any) (string, error) {
	id := utils.StringField(move, "id")
	if id == "" {
		id = utils.GeneratedRecordID(CollectionMoves)
		move["id"] = id
	}
	if err := r.Store.Set(ctx, CollectionMoves, id, move); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateEvent stamps the timestamp pair for one lifecycle event, leaving
// the other event fields untouched. It does not enforce event ordering;
// callers sequence created -> picked_up -> completed.
func (r *MoveRepository) UpdateEvent(ctx context.Context, moveID string, event MoveEvent) error {
	field, ok := event.eventField()
	if !ok {
		return utils.NewValidationError("Invalid event type.")
	}

	if _, err := r.Store.Get(ctx, CollectionMoves, moveID); err != nil {
		return err
	}

	utc, local := utils.CurrentTimestamps()
	return r.Store.Update(ctx, CollectionMoves, moveID, map[string]any{
		field:          utc,
		field + "_EST": local,
	})
}

// CompletedMoves returns every completed move, in undefined order. No
// store-side ordering: ordering by completed_at would omit completed moves
// recorded before that field existed (the store drops documents missing
// the order field), and the reconstruction engine sorts deterministically
// itself, falling back to the generic timestamp for those moves.
func (r *MoveRepository) CompletedMoves(ctx context.Context) ([]map[string]any, error) {
	moves, err := r.Store.Fetch(ctx, CollectionMoves, store.Query{}.
		Where("status", MoveStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("fetch completed moves: %w", err)
	}
	return moves, nil
}

// AllMoves returns every move regardless of status, in undefined order.
func (r *MoveRepository) AllMoves(ctx context.Context) ([]map[string]any, error) {
	moves, err := r.Store.Fetch(ctx, CollectionMoves, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("fetch moves: %w", err)
	}
	return moves, nil
}
