package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLocalStore_OpenReadAt(t *testing.T) {
	root := t.TempDir()
	data := []byte("hello world, this is a dataset blob")
	writeFile(t, root, "data-001.bin", data)

	store := NewLocalStore(root)
	ctx := context.Background()

	blob, err := store.Open(ctx, "data-001.bin")
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	// short read at the tail
	buf = make([]byte, 10)
	n, err = blob.ReadAt(ctx, buf, int64(len(data)-4))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, n)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, b)
}

func TestLocalStore_Closed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.bin", []byte("abc"))

	store := NewLocalStore(root)
	blob, err := store.Open(context.Background(), "a.bin")
	require.NoError(t, err)
	require.NoError(t, blob.Close())
	require.NoError(t, blob.Close())

	_, err = blob.ReadAt(context.Background(), make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLocalStore_NotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "missing.fvecs")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStore_List(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sift/base.fvecs", []byte{1})
	writeFile(t, root, "sift/query.fvecs", []byte{2})
	writeFile(t, root, "glove/base.fvecs", []byte{3})

	store := NewLocalStore(root)
	names, err := store.List(context.Background(), "sift/")
	require.NoError(t, err)
	assert.Equal(t, []string{"sift/base.fvecs", "sift/query.fvecs"}, names)

	all, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	missing := NewLocalStore(filepath.Join(root, "nope"))
	names, err = missing.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_EmptyFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "empty", nil)

	store := NewLocalStore(root)
	blob, err := store.Open(context.Background(), "empty")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(0), blob.Size())
	r, err := NewReader(context.Background(), blob)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
