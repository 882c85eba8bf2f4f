package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, path string, w, h int) *image.NRGBA {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return img
}

func TestMapResolver(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	r := MapResolver{"heart": img}

	got, err := r.Resolve("heart")
	assert.NoError(t, err)
	assert.Same(t, img, got)

	_, err = r.Resolve("star")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDirResolver_ResolvesByExtension(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "heart.png"), 4, 3)
	writeImage(t, filepath.Join(dir, "star.jpg"), 5, 5)

	r, err := NewDirResolver(dir, 0)
	require.NoError(t, err)

	img, err := r.Resolve("heart")
	assert.NoError(err)
	assert.Equal(image.Rect(0, 0, 4, 3), img.Bounds())

	img, err = r.Resolve("star")
	assert.NoError(err)
	assert.Equal(image.Rect(0, 0, 5, 5), img.Bounds())

	_, err = r.Resolve("heart.png")
	assert.NoError(err)

	_, err = r.Resolve("crown")
	assert.True(errors.Is(err, ErrNotFound))
	_, err = r.Resolve("../heart")
	assert.True(errors.Is(err, ErrNotFound))
	_, err = r.Resolve("/etc/passwd")
	assert.True(errors.Is(err, ErrNotFound))
}

func TestDirResolver_Cache(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	heart := filepath.Join(dir, "heart.png")
	star := filepath.Join(dir, "star.png")
	writeImage(t, heart, 2, 2)
	writeImage(t, star, 2, 2)

	r, err := NewDirResolver(dir, 1)
	require.NoError(t, err)

	first, err := r.Resolve("heart")
	require.NoError(t, err)
	require.NoError(t, os.Remove(heart))

	// Served from the cache once the file is gone.
	second, err := r.Resolve("heart")
	assert.NoError(err)
	assert.Same(first, second)
	assert.Equal(1, r.Cached())

	// A cache of one evicts heart when star is decoded.
	_, err = r.Resolve("star")
	assert.NoError(err)
	_, err = r.Resolve("heart")
	assert.True(errors.Is(err, ErrNotFound))

	r.Purge()
	assert.Equal(0, r.Cached())
}

func TestDirResolver_InvalidRoot(t *testing.T) {
	_, err := NewDirResolver(filepath.Join(t.TempDir(), "missing"), 0)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.png")
	writeImage(t, file, 1, 1)
	_, err = NewDirResolver(file, 0)
	assert.Error(t, err)
}

func TestDecodePhoto(t *testing.T) {
	var buf bytes.Buffer
	src := imaging.New(6, 4, color.NRGBA{R: 255, A: 255})
	require.NoError(t, imaging.Encode(&buf, src, imaging.PNG))

	img, err := DecodePhoto(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	_, err = DecodePhoto(strings.NewReader("definitely not an image, just some text"))
	assert.True(t, errors.Is(err, ErrNotImage))

	_, err = DecodePhoto(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNotImage))
}

func TestLoadPhoto(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	writeImage(t, path, 8, 6)

	img, err := LoadPhoto(context.Background(), path)
	assert.NoError(err)
	assert.Equal(image.Rect(0, 0, 8, 6), img.Bounds())

	_, err = LoadPhoto(context.Background(), filepath.Join(dir, "missing.jpg"))
	assert.Error(err)
}

func TestLoadPhoto_URL(t *testing.T) {
	assert := assert.New(t)
	data, err := os.ReadFile(func() string {
		p := filepath.Join(t.TempDir(), "photo.png")
		writeImage(t, p, 3, 7)
		return p
	}())
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer ts.Close()

	assert.True(IsURL(ts.URL + "/photo.png"))
	assert.False(IsURL("photo.png"))
	assert.False(IsURL("ftp://example.com/photo.png"))

	img, err := LoadPhoto(context.Background(), ts.URL+"/photo.png")
	assert.NoError(err)
	assert.Equal(image.Rect(0, 0, 3, 7), img.Bounds())

	_, err = LoadPhoto(context.Background(), ts.URL+"/missing.png")
	assert.Error(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadPhoto(ctx, ts.URL+"/photo.png")
	assert.True(errors.Is(err, context.Canceled))
}
