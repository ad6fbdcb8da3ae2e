package filestore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := createLocalStore(map[string]interface{}{"dir": t.TempDir()})
	require.NoError(t, err)
	return store
}

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	content := "# Pricing\n\nOur basic plan costs $10 per month."

	require.NoError(t, store.Save(ctx, "pricing", strings.NewReader(content), int64(len(content))))

	rc, err := store.Open(ctx, "pricing")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, content, string(got))

	require.NoError(t, store.Delete(ctx, "pricing"))
	_, err = store.Open(ctx, "pricing")
	require.Error(t, err)
}

func TestLocalStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "faq", strings.NewReader("v1"), 2))
	require.NoError(t, store.Save(ctx, "faq", strings.NewReader("v2 longer"), 9))

	rc, err := store.Open(ctx, "faq")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "v2 longer", string(got))
}

func TestLocalStore_RejectsPathKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.Error(t, store.Save(ctx, "../escape", strings.NewReader("x"), 1))
	require.Error(t, store.Save(ctx, "a/b", strings.NewReader("x"), 1))
	_, err := store.Open(ctx, "..\\escape")
	require.Error(t, err)
}

func TestLocalStore_DeleteMissingIsNoop(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Delete(context.Background(), "never-saved"))
}
