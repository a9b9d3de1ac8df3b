package sheetstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/yourusername/po-workflow/internal/domain/entity"
)

type stubCache struct {
	data map[string]string
	dels int
}

func newStubCache() *stubCache { return &stubCache{data: map[string]string{}} }

func (c *stubCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (c *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *stubCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	c.dels++
	return nil
}

type countingStore struct {
	rows    [][]any
	gets    int
	updates int
	failErr error
}

func (s *countingStore) GetAll(context.Context, string) ([][]any, error) {
	s.gets++
	return s.rows, nil
}

func (s *countingStore) Update(context.Context, string, int, []any) error {
	s.updates++
	return s.failErr
}

func (s *countingStore) Insert(context.Context, string, []any) error { return nil }

func (s *countingStore) BatchInsert(context.Context, string, [][]any, int) error { return nil }

func (s *countingStore) UploadFile(context.Context, entity.Attachment) (string, error) {
	return "u", nil
}

func TestCachedStoreReadThroughAndInvalidate(t *testing.T) {
	next := &countingStore{rows: [][]any{{"h"}, {"ts", "IN-1", 5}}}
	cache := newStubCache()
	s := NewCachedStore(next, cache, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rows, err := s.GetAll(ctx, "INDENT")
		if err != nil || len(rows) != 2 {
			t.Fatalf("GetAll() = %v,%v", rows, err)
		}
	}
	if next.gets != 1 {
		t.Fatalf("store gets = %d, want 1", next.gets)
	}
	rows, _ := s.GetAll(ctx, "INDENT")
	if _, ok := rows[1][2].(json.Number); !ok {
		t.Fatalf("cached number = %#v, want json.Number", rows[1][2])
	}

	next.failErr = errors.New("boom")
	if err := s.Update(ctx, "INDENT", 2, []any{"x"}); err == nil {
		t.Fatalf("Update() should pass the store error through")
	}
	if _, ok := cache.data[cacheKey("INDENT")]; ok {
		t.Fatalf("cache not invalidated after failed write")
	}
	_, _ = s.GetAll(ctx, "INDENT")
	if next.gets != 2 {
		t.Fatalf("store gets after invalidate = %d, want 2", next.gets)
	}
}
