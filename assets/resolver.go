// Package assets resolves the image resources referenced by an edit state
// and loads the captured photo.
package assets

import (
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no image exists for a resource name.
var ErrNotFound = errors.New("asset not found")

// Resolver maps an image resource name to its pixels.
type Resolver interface {
	Resolve(name string) (image.Image, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (image.Image, error)

func (f ResolverFunc) Resolve(name string) (image.Image, error) { return f(name) }

// MapResolver resolves names from an in-memory map.
type MapResolver map[string]image.Image

// Resolve implements Resolver.
func (m MapResolver) Resolve(name string) (image.Image, error) {
	img, ok := m[name]
	if !ok || img == nil {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return img, nil
}

// Extensions lists the file extensions tried, in order, for names without one.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// DefaultCacheSize is the number of decoded images kept by a DirResolver.
const DefaultCacheSize = 64

// DirResolver resolves names to image files under a root directory.
// Decoded images are kept in an LRU cache. It is safe for concurrent use;
// the returned images are shared and must not be modified.
type DirResolver struct {
	root  string
	cache *lru.Cache[string, *image.NRGBA]
	log   logrus.FieldLogger
}

// DirOption configures a DirResolver.
type DirOption func(*DirResolver)

// WithLogger sets the logger used to report decoded assets.
func WithLogger(l logrus.FieldLogger) DirOption {
	return func(d *DirResolver) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDirResolver creates a resolver reading from root. A cache size of
// zero or less selects DefaultCacheSize.
func NewDirResolver(root string, cacheSize int, opts ...DirOption) (*DirResolver, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open the assets directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *image.NRGBA](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create the assets cache")
	}

	d := &DirResolver{root: root, cache: cache, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Resolve implements Resolver.
func (d *DirResolver) Resolve(name string) (image.Image, error) {
	if img, ok := d.cache.Get(name); ok {
		return img, nil
	}
	if !filepath.IsLocal(name) {
		return nil, errors.Wrapf(ErrNotFound, "%q is outside the assets directory", name)
	}

	path, err := d.lookup(name)
	if err != nil {
		return nil, err
	}
	src, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode asset %q", name)
	}
	img := imaging.Clone(src)
	d.cache.Add(name, img)

	d.log.WithFields(logrus.Fields{
		"asset": name,
		"path":  path,
		"size":  img.Bounds().Size(),
	}).Debug("asset decoded")

	return img, nil
}

// Cached returns the number of decoded images held in the cache.
func (d *DirResolver) Cached() int { return d.cache.Len() }

// Purge drops every cached image.
func (d *DirResolver) Purge() { d.cache.Purge() }

func (d *DirResolver) lookup(name string) (string, error) {
	base := filepath.Join(d.root, name)
	candidates := []string{base}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, base+ext)
		}
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", errors.Wrapf(ErrNotFound, "%q", name)
}
