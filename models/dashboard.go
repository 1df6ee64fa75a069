package models

import (
	"context"

	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

const dashboardRecentLimit = 10

type DashboardData struct {
	OpenMoves      []map[string]any `json:"open_moves"`
	CompletedMoves []map[string]any `json:"completed_moves"`
	ActiveUsers    []string         `json:"active_users"`
	TempChecks     []map[string]any `json:"temp_checks"`
}

// DashboardService aggregates the landing-page reads: open moves, the ten
// most recent completed moves, the ids of active yard-role users, and the
// ten most recent temperature checks. Four independent scans, no snapshot
// isolation across them.
type DashboardService struct {
	Store store.Client
}

func (s *DashboardService) Fetch(ctx context.Context) (*DashboardData, error) {
	openMoves, err := s.Store.Fetch(ctx, CollectionMoves, store.Query{}.
		Where("status", MoveStatusOpen))
	if err != nil {
		return nil, err
	}

	completedMoves, err := s.Store.Fetch(ctx, CollectionMoves, store.Query{}.
		Where("status", MoveStatusCompleted).
		OrderBy(utils.FieldTimestamp, true).
		WithLimit(dashboardRecentLimit))
	if err != nil {
		return nil, err
	}

	yardUsers, err := s.Store.Fetch(ctx, CollectionUsers, store.Query{}.
		Where("role", "yard"))
	if err != nil {
		return nil, err
	}
	activeUsers := []string{}
	for _, user := range yardUsers {
		activeUsers = append(activeUsers, utils.StringField(user, "id"))
	}

	tempChecks, err := s.Store.Fetch(ctx, CollectionTempChecks, store.Query{}.
		OrderBy(utils.FieldTimestamp, true).
		WithLimit(dashboardRecentLimit))
	if err != nil {
		return nil, err
	}

	if openMoves == nil {
		openMoves = []map[string]any{}
	}
	if completedMoves == nil {
		completedMoves = []map[string]any{}
	}
	if tempChecks == nil {
		tempChecks = []map[string]any{}
	}
	return &DashboardData{
		OpenMoves:      openMoves,
		CompletedMoves: completedMoves,
		ActiveUsers:    activeUsers,
		TempChecks:     tempChecks,
	}, nil
}
