package models

import (
	"context"
	"sort"

	"github.com/simpleym/yard_backend/config"
	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

// LocationRepository serves the yard location list. The stored collection
// wins when it has named entries; an empty collection or a store error
// falls back to the built-in list so the move screens keep working.
type LocationRepository struct {
	Store store.Client
}

func (r *LocationRepository) Names(ctx context.Context) []string {
	docs, err := r.Store.Fetch(ctx, CollectionLocations, store.Query{})
	if err != nil {
		config.LogError(ctx, config.GetLogger(), "location.go", "Names", "fetch locations", nil, err)
		return config.FallbackLocations()
	}

	var names []string
	for _, doc := range docs {
		if name := utils.StringField(doc, "name"); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return config.FallbackLocations()
	}
	sort.Strings(names)
	return names
}
