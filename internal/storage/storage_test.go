package storage_test

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lashodia/internal/storage"
)

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "http://localhost:4000/media/")
	require.NoError(t, err)

	u, err := store.Put(context.Background(), "product_1700000000000.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/media/product_1700000000000.png", u)

	b, err := os.ReadFile(filepath.Join(dir, "product_1700000000000.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	// Names are never overwritten.
	_, err = store.Put(context.Background(), "product_1700000000000.png", "image/png", strings.NewReader("again"))
	assert.Error(t, err)
}

func TestLocalPutRejectsPaths(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir(), "http://x/media")
	require.NoError(t, err)
	for _, name := range []string{"", "../evil.png", "a/b.png", ".hidden"} {
		_, err := store.Put(context.Background(), name, "", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrBadName, name)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestLocalPutCleansUpOnReadError(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "http://x/media")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "product_1.png", "image/png", failingReader{})
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "product_1.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPublicURL(t *testing.T) {
	raw := storage.PublicURL("lashodia-images", "product_1700000000000.png")
	assert.Equal(t, "https://storage.googleapis.com/lashodia-images/product_1700000000000.png", raw)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.True(t, strings.HasSuffix(u.Path, ".png"))
}
