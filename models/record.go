package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/simpleym/yard_backend/config"
	"github.com/simpleym/yard_backend/identity"
	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

// RecordRepository is the uniform CRUD surface over any named collection.
// Inserts and updates stamp the audit timestamp pairs; deletes cascade to
// the identity provider for the user collection.
type RecordRepository struct {
	Store    store.Client
	Identity identity.Provider
}

func (r *RecordRepository) FetchAll(ctx context.Context, collection string) ([]map[string]any, error) {
	docs, err := r.Store.Fetch(ctx, collection, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	if docs == nil {
		docs = []map[string]any{}
	}
	return docs, nil
}

// Insert writes each record keyed by its id, generating ids and stamping
// the create timestamp pair. Returns the number of records written.
func (r *RecordRepository) Insert(ctx context.Context, collection string, records []map[string]any) (int, error) {
	for _, record := range records {
		if utils.StringField(record, "id") == "" {
			record["id"] = utils.GeneratedRecordID(collection)
		}
		utils.StampCreate(record)
	}
	// Writes are sequential and non-transactional; a failure mid-batch
	// leaves earlier documents in place.
	for i, record := range records {
		id := utils.StringField(record, "id")
		if err := r.Store.Set(ctx, collection, id, record); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

// UpdateOne merges a single record into an existing document, stamping the
// update timestamp pair. The record must carry its id.
func (r *RecordRepository) UpdateOne(ctx context.Context, collection string, record map[string]any) error {
	id := utils.StringField(record, "id")
	if id == "" {
		return utils.NewValidationError("Record ID is required for updates.")
	}

	utils.StampUpdate(record)
	err := r.Store.Update(ctx, collection, id, record)
	if errors.Is(err, store.ErrNotFound) {
		return utils.ErrorRecordNotFound
	}
	return err
}

// Delete removes a document by id, failing with ErrorRecordNotFound when
// absent. For the user collection the identity account is deleted first;
// an already-absent account is fine, any other identity failure is logged
// and the store delete proceeds regardless.
func (r *RecordRepository) Delete(ctx context.Context, collection, id string) error {
	if _, err := r.Store.Get(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.ErrorRecordNotFound
		}
		return err
	}

	if collection == CollectionUsers && r.Identity != nil {
		if err := r.Identity.DeleteUser(ctx, id); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
			config.LogError(ctx, config.GetLogger(), "record.go", "Delete", "delete identity account "+id, nil, err)
		}
	}

	return r.Store.Delete(ctx, collection, id)
}
