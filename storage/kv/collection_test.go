package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func TestCollection(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	id := func(n note) string { return n.ID }

	c, err := LoadCollection(ctx, kv, "notes", "note", id)
	require.NoError(t, err)
	all, _ := c.QueryAll(ctx)
	assert.Empty(t, all)

	_, err = c.Create(ctx, note{ID: "1", Text: "first"})
	require.NoError(t, err)
	_, err = c.Create(ctx, note{ID: "2", Text: "second"})
	require.NoError(t, err)
	_, err = c.Update(ctx, note{ID: "1", Text: "first!"})
	require.NoError(t, err)

	raw, err := kv.Get(ctx, "notes")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"2","text":"second"},{"id":"1","text":"first!"}]`, string(raw))

	n, err := c.Delete(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reloaded, err := LoadCollection(ctx, kv, "notes", "note", id)
	require.NoError(t, err)
	all, _ = reloaded.QueryAll(ctx)
	assert.Equal(t, []note{{ID: "1", Text: "first!"}}, all)

	require.NoError(t, kv.Set(ctx, "broken", []byte("{")))
	_, err = LoadCollection(ctx, kv, "broken", "note", id)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	val, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	src := []byte("true")
	require.NoError(t, kv.Set(ctx, "k", src))
	src[0] = 'X'
	val, _ = kv.Get(ctx, "k")
	assert.Equal(t, "true", string(val), "values are copied")
}
