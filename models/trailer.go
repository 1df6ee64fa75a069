package models

import (
	"context"

	"github.com/simpleym/yard_backend/store"
)

// TrailerRepository reads the trailer reference data. Trailers are managed
// through the generic CRUD surface; reconstruction never writes them.
type TrailerRepository struct {
	Store store.Client
}

// Exists reports whether a trailer with the given id is registered.
func (r *TrailerRepository) Exists(ctx context.Context, trailerID string) (bool, error) {
	docs, err := r.Store.Fetch(ctx, CollectionTrailers, store.Query{}.Where("id", trailerID))
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}
