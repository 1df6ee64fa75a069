// Package store abstracts the hosted document database: named collections
// of ID-keyed records, with equality filters, single-field ordering and a
// result limit. Components take a Client so they can run against the real
// Firestore backend or the in-memory one in tests.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by document-level operations when no document
// exists under the given ID.
var ErrNotFound = errors.New("document not found")

// Filter is an equality condition on a single field.
type Filter struct {
	Field string
	Value any
}

// Query describes a collection read. The zero value fetches every document
// in undefined order.
type Query struct {
	Filters    []Filter
	OrderField string
	Descending bool
	Limit      int
}

func (q Query) Where(field string, value any) Query {
	q.Filters = append(q.Filters, Filter{Field: field, Value: value})
	return q
}

func (q Query) OrderBy(field string, descending bool) Query {
	q.OrderField = field
	q.Descending = descending
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

type Client interface {
	// Fetch returns the documents of a collection matching the query.
	// Documents missing the order field are omitted when ordering is set,
	// matching Firestore semantics.
	Fetch(ctx context.Context, collection string, q Query) ([]map[string]any, error)

	// Get returns a single document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]any, error)

	// Set writes the full document under the given ID (create or replace).
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Update merges fields into an existing document, or ErrNotFound.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent document is not an
	// error; callers that need existence checks Get first.
	Delete(ctx context.Context, collection, id string) error
}
