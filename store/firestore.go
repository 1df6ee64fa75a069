package store

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreClient implements Client on top of a Cloud Firestore database.
type FirestoreClient struct {
	client *firestore.Client
}

func NewFirestoreClient(client *firestore.Client) *FirestoreClient {
	return &FirestoreClient{client: client}
}

func (f *FirestoreClient) Fetch(ctx context.Context, collection string, q Query) ([]map[string]any, error) {
	query := f.client.Collection(collection).Query
	for _, filter := range q.Filters {
		query = query.Where(filter.Field, "==", filter.Value)
	}
	if q.OrderField != "" {
		direction := firestore.Asc
		if q.Descending {
			direction = firestore.Desc
		}
		query = query.OrderBy(q.OrderField, direction)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var docs []map[string]any
	it := query.Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", collection, err)
		}
		data := snap.Data()
		if _, ok := data["id"]; !ok {
			data["id"] = snap.Ref.ID
		}
		docs = append(docs, data)
	}
	return docs, nil
}

func (f *FirestoreClient) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	snap, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	data := snap.Data()
	if _, ok := data["id"]; !ok {
		data["id"] = snap.Ref.ID
	}
	return data, nil
}

func (f *FirestoreClient) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if _, err := f.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *FirestoreClient) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	// Deterministic update order; Firestore applies them atomically anyway.
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	updates := make([]firestore.Update, 0, len(fields))
	for _, path := range paths {
		updates = append(updates, firestore.Update{Path: path, Value: fields[path]})
	}

	_, err := f.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *FirestoreClient) Delete(ctx context.Context, collection, id string) error {
	if _, err := f.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}
