package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// MemoryClient is an in-process Client used by tests and local development.
// It mirrors the semantics the rest of the code relies on: per-document
// atomicity, no ordering guarantee for unordered fetches, and omission of
// documents missing the order field.
type MemoryClient struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any

	// FailFetch simulates an unreachable store for read paths.
	FailFetch error
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{collections: map[string]map[string]map[string]any{}}
}

func (m *MemoryClient) Fetch(ctx context.Context, collection string, q Query) ([]map[string]any, error) {
	if m.FailFetch != nil {
		return nil, m.FailFetch
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []map[string]any
	for _, doc := range m.collections[collection] {
		if !matches(doc, q.Filters) {
			continue
		}
		if q.OrderField != "" {
			if _, ok := doc[q.OrderField]; !ok {
				continue
			}
		}
		docs = append(docs, copyDoc(doc))
	}

	if q.OrderField != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			cmp := compareValues(docs[i][q.OrderField], docs[j][q.OrderField])
			if q.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (m *MemoryClient) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (m *MemoryClient) Set(ctx context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection] == nil {
		m.collections[collection] = map[string]map[string]any{}
	}
	m.collections[collection][id] = copyDoc(data)
	return nil
}

func (m *MemoryClient) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for field, value := range fields {
		doc[field] = value
	}
	return nil
}

func (m *MemoryClient) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

func matches(doc map[string]any, filters []Filter) bool {
	for _, filter := range filters {
		value, ok := doc[filter.Field]
		if !ok || !reflect.DeepEqual(value, filter.Value) {
			return false
		}
	}
	return true
}

func copyDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for field, value := range doc {
		out[field] = value
	}
	return out
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case float64:
		if bv, ok := toFloat(b); ok {
			fv, _ := toFloat(av)
			switch {
			case fv < bv:
				return -1
			case fv > bv:
				return 1
			}
			return 0
		}
	case int, int64:
		if bv, ok := toFloat(b); ok {
			fv, _ := toFloat(av)
			switch {
			case fv < bv:
				return -1
			case fv > bv:
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
