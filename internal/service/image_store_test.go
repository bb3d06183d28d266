package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"outfitted/internal/config"
	"outfitted/internal/models"
	"outfitted/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImageStore(t *testing.T, maxMB int) *ImageStore {
	t.Helper()
	return NewImageStore(&config.Config{
		UploadDir:       t.TempDir(),
		UploadURLPrefix: "/static/images/",
		UploadMaxSizeMB: maxMB,
	})
}

func TestImageStore_SaveAndRemove(t *testing.T) {
	t.Parallel()
	store := newTestImageStore(t, 1)
	ctx := context.Background()

	url, err := store.Save(ctx, ImageUpload{
		Filename:    "look.png",
		ContentType: "image/png",
		Content:     testutil.PNGBytes(t, 4, 4),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "/static/images/")
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, url))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	// Removing twice is harmless.
	assert.NoError(t, store.Remove(ctx, url))
}

func TestImageStore_SaveRejectsBadUploads(t *testing.T) {
	t.Parallel()
	store := newTestImageStore(t, 1)
	png := testutil.PNGBytes(t, 2, 2)

	tests := []struct {
		name string
		in   ImageUpload
	}{
		{name: "empty", in: ImageUpload{Filename: "a.png"}},
		{name: "not an image", in: ImageUpload{Filename: "a.png", Content: []byte("hello, world")}},
		{name: "too large", in: ImageUpload{Filename: "a.png", Content: append(append([]byte{}, png...), make([]byte, 1024*1024)...)}},
		{name: "declared type mismatch", in: ImageUpload{Filename: "a.png", ContentType: "image/gif", Content: png}},
		{name: "truncated png", in: ImageUpload{Filename: "a.png", Content: png[:16]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(context.Background(), tt.in)
			assertValidationError(t, err)
		})
	}

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImageStore_RemoveIgnoresForeignURLs(t *testing.T) {
	t.Parallel()
	store := newTestImageStore(t, 1)

	outside := filepath.Join(filepath.Dir(store.Dir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	for _, url := range []string{
		"https://cdn.example.com/a.png",
		"/static/images/",
		"/static/images/../keep.txt",
		"/static/images/nested/a.png",
		"/other/a.png",
	} {
		assert.NoError(t, store.Remove(context.Background(), url), url)
	}
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestNewImageStore_Defaults(t *testing.T) {
	t.Parallel()
	store := NewImageStore(nil)
	assert.Equal(t, DefaultImageUploadDir, store.Dir())
	assert.Equal(t, DefaultImageURLPrefix, store.URLPrefix())

	_, err := store.Save(context.Background(), ImageUpload{})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}
