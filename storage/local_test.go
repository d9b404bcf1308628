package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	err = store.Save(ctx, "abc123.pdf", strings.NewReader("hello"), 5, "application/pdf")
	require.NoError(t, err)

	r, err := store.Open(ctx, "abc123.pdf")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, "abc123.pdf"))

	_, err = store.Open(ctx, "abc123.pdf")
	assert.Error(t, err)
}

func TestLocalStoreDeleteMissingIsFine(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never-existed"))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), "../escape", strings.NewReader("x"), 1, "")
	assert.Error(t, err)

	_, err = store.Open(context.Background(), "a/b")
	assert.Error(t, err)
}
