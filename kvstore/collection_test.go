package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestCollection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	col := NewCollection[record](store, "article")

	id := NewID()
	require.NoError(t, col.Put(ctx, id, record{ID: id, Title: "Budget"}))
	require.NoError(t, col.Put(ctx, "z", record{ID: "z", Title: "Zeta"}))
	//belongs to another collection sharing the prefix stem
	require.NoError(t, store.Set(ctx, "articles:x", []byte(`{"id":"x"}`)))

	got, err := col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Budget", got.Title)

	ok, err := col.Exists(ctx, "z")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := col.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, col.Delete(ctx, "z"))
	_, err = col.Get(ctx, "z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionSkipsUndecodable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	col := NewCollection[record](store, "job")
	require.NoError(t, store.Set(ctx, "job:bad", []byte(`"just a string"`)))
	require.NoError(t, col.Put(ctx, "good", record{ID: "good"}))

	list, err := col.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "good", list[0].ID)
}
