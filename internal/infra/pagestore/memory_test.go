package pagestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms/internal/domain/page"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p, err := store.CreatePage(ctx, "Home", "home", "", page.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, page.StatusDraft, p.Status)

	_, err = store.CreatePage(ctx, "Home again", "home", "", page.CreateOptions{})
	assert.ErrorIs(t, err, page.ErrSlugTaken)

	updated, err := store.UpdatePage(ctx, p.ID, page.Update{Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Content)
	assert.Equal(t, "Home", updated.Title)

	got, err := store.GetPageByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Content)

	list, err := store.ListPages(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryStoreMissingPage(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetPageByID(context.Background(), "nope")
	assert.ErrorIs(t, err, page.ErrPageNotFound)

	_, err = store.UpdatePage(context.Background(), "nope", page.Update{})
	assert.ErrorIs(t, err, page.ErrPageNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(page.Page{ID: "p-1", Slug: "home", Content: "a"})

	got, err := store.GetPageByID(context.Background(), "p-1")
	require.NoError(t, err)
	got.Content = "mutated"

	again, err := store.GetPageByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Content)
}
