package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, TableProperties, Item{"id": "p1", "title": "loft", "price": 1500.0}))

	item, err := s.Get(ctx, TableProperties, "p1")
	require.NoError(t, err)
	assert.Equal(t, "loft", item["title"])

	// partial update merges and preserves untouched fields
	updated, err := s.Update(ctx, TableProperties, "p1", Item{"price": 1600.0})
	require.NoError(t, err)
	assert.Equal(t, 1600.0, updated["price"])
	assert.Equal(t, "loft", updated["title"])

	require.NoError(t, s.Delete(ctx, TableProperties, "p1"))
	_, err = s.Get(ctx, TableProperties, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, TableUsers, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, TableUsers, "nope", Item{"x": 1})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, TableUsers, "nope"), ErrNotFound)

	// put without id is rejected
	assert.Error(t, s.Put(ctx, TableUsers, Item{"email": "a@b.c"}))
}

func TestMemoryStoreScan(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, TablePayments, Item{"id": "1", "renterId": "r1"}))
	require.NoError(t, s.Put(ctx, TablePayments, Item{"id": "2", "renterId": "r2"}))
	require.NoError(t, s.Put(ctx, TablePayments, Item{"id": "3", "renterId": "r1"}))

	items, total, err := s.Scan(ctx, TablePayments, func(item Item) bool {
		return item["renterId"] == "r1"
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	// nil filter scans the whole table
	_, total, err = s.Scan(ctx, TablePayments, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, TableUsers, Item{"id": "u1", "email": "a@b.c"}))

	item, err := s.Get(ctx, TableUsers, "u1")
	require.NoError(t, err)
	item["email"] = "mutated"

	fresh, err := s.Get(ctx, TableUsers, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", fresh["email"])
}
