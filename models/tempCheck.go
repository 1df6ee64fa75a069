package models

import (
	"context"
	"fmt"
	"time"

	"github.com/simpleym/yard_backend/config"
	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

// TempCheckRepository appends temperature checks. Checks are never updated
// after the fact.
type TempCheckRepository struct {
	Store store.Client
}

// Add stamps the local-zone timestamp, generates a TC-prefixed id when the
// caller supplies none, and writes the check.
func (r *TempCheckRepository) Add(ctx context.Context, check map[string]any) (string, error) {
	check[utils.FieldTimestamp] = time.Now().In(config.LocalZone()).Format(time.RFC3339Nano)

	id := utils.StringField(check, "id")
	if id == "" {
		id = fmt.Sprintf("TC%d", time.Now().UTC().Unix())
		check["id"] = id
	}

	if err := r.Store.Set(ctx, CollectionTempChecks, id, check); err != nil {
		return "", err
	}
	return id, nil
}
