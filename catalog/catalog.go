// Package catalog describes the filters and sticker packs which can be placed
// on a photo, and decides which of them the user is entitled to.
package catalog

import (
	"io"
	"os"

	"github.com/esimov/stickr/editor"
	"github.com/esimov/stickr/imop"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownContent is returned for ids the catalog does not list.
	ErrUnknownContent = errors.New("unknown content")
	// ErrLocked is returned for content the user is not entitled to.
	ErrLocked = errors.New("content is locked")
)

// Filter is a full-frame overlay image.
type Filter struct {
	ID     string    `yaml:"id"`
	Name   string    `yaml:"name"`
	Image  string    `yaml:"image"`
	Blend  imop.Mode `yaml:"blend,omitempty"`
	Price  float64   `yaml:"price,omitempty"`
	Secret bool      `yaml:"secret,omitempty"`
}

// Free reports whether the filter can be used without an entitlement.
func (f Filter) Free() bool { return f.Price == 0 && !f.Secret }

// Ref returns the reference stored in the edit state.
func (f Filter) Ref() *editor.FilterRef {
	return &editor.FilterRef{ID: f.ID, Image: f.Image, Blend: f.Blend}
}

// Sticker is a single sticker image belonging to a pack.
type Sticker struct {
	ID    string `yaml:"id"`
	Image string `yaml:"image"`
	Pack  string `yaml:"-"`
}

// Ref returns the reference stored in the edit state.
func (s Sticker) Ref() editor.AssetRef {
	return editor.AssetRef{ID: s.ID, Image: s.Image}
}

// StickerPack groups stickers sold and unlocked together.
type StickerPack struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Preview  string    `yaml:"preview,omitempty"`
	Price    float64   `yaml:"price,omitempty"`
	Secret   bool      `yaml:"secret,omitempty"`
	Stickers []Sticker `yaml:"stickers"`
}

// Free reports whether the pack can be used without an entitlement.
func (p StickerPack) Free() bool { return p.Price == 0 && !p.Secret }

// Catalog is an indexed, read-only collection of content.
type Catalog struct {
	filters  []Filter
	packs    []StickerPack
	filterIx map[string]int
	stickers map[string]Sticker
	packIx   map[string]int
}

type document struct {
	Filters []Filter      `yaml:"filters"`
	Packs   []StickerPack `yaml:"packs"`
}

// New builds a catalog. Ids must be unique across filters and sticker packs,
// and sticker ids must be unique across packs.
func New(filters []Filter, packs []StickerPack) (*Catalog, error) {
	c := &Catalog{
		filterIx: make(map[string]int, len(filters)),
		stickers: make(map[string]Sticker),
		packIx:   make(map[string]int, len(packs)),
	}
	seen := make(map[string]bool)
	claim := func(id string) error {
		if id == "" {
			return errors.New("catalog entry without an id")
		}
		if seen[id] {
			return errors.Errorf("duplicate catalog id %q", id)
		}
		seen[id] = true
		return nil
	}

	for _, f := range filters {
		if err := claim(f.ID); err != nil {
			return nil, err
		}
		if !imop.Supported(f.Blend) {
			return nil, errors.Wrapf(imop.ErrUnsupportedMode, "filter %q uses %q", f.ID, f.Blend)
		}
		c.filterIx[f.ID] = len(c.filters)
		c.filters = append(c.filters, f)
	}
	for _, p := range packs {
		if err := claim(p.ID); err != nil {
			return nil, err
		}
		stickers := make([]Sticker, 0, len(p.Stickers))
		for _, s := range p.Stickers {
			if err := claim(s.ID); err != nil {
				return nil, err
			}
			s.Pack = p.ID
			stickers = append(stickers, s)
			c.stickers[s.ID] = s
		}
		p.Stickers = stickers
		c.packIx[p.ID] = len(c.packs)
		c.packs = append(c.packs, p)
	}
	return c, nil
}

// Load decodes a YAML catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "cannot decode the catalog")
	}
	return New(doc.Filters, doc.Packs)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open the catalog")
	}
	defer f.Close()
	return Load(f)
}

// Filters returns every filter in catalog order.
func (c *Catalog) Filters() []Filter { return append([]Filter(nil), c.filters...) }

// Packs returns every sticker pack in catalog order.
func (c *Catalog) Packs() []StickerPack { return append([]StickerPack(nil), c.packs...) }

// Filter looks up a filter by id.
func (c *Catalog) Filter(id string) (Filter, error) {
	i, ok := c.filterIx[id]
	if !ok {
		return Filter{}, errors.Wrapf(ErrUnknownContent, "filter %q", id)
	}
	return c.filters[i], nil
}

// Pack looks up a sticker pack by id.
func (c *Catalog) Pack(id string) (StickerPack, error) {
	i, ok := c.packIx[id]
	if !ok {
		return StickerPack{}, errors.Wrapf(ErrUnknownContent, "pack %q", id)
	}
	return c.packs[i], nil
}

// Sticker looks up a sticker by id.
func (c *Catalog) Sticker(id string) (Sticker, error) {
	s, ok := c.stickers[id]
	if !ok {
		return Sticker{}, errors.Wrapf(ErrUnknownContent, "sticker %q", id)
	}
	return s, nil
}

// UsableFilter returns the filter if the oracle allows it.
// Free filters are always usable, everything else needs an unlock.
func (c *Catalog) UsableFilter(o Oracle, id string) (Filter, error) {
	f, err := c.Filter(id)
	if err != nil {
		return Filter{}, err
	}
	if !f.Free() && !o.IsUnlocked(f.ID) {
		return Filter{}, errors.Wrapf(ErrLocked, "filter %q", id)
	}
	return f, nil
}

// UsableSticker returns the sticker if the oracle allows its pack.
func (c *Catalog) UsableSticker(o Oracle, id string) (Sticker, error) {
	s, err := c.Sticker(id)
	if err != nil {
		return Sticker{}, err
	}
	p := c.packs[c.packIx[s.Pack]]
	if !p.Free() && !o.IsUnlocked(p.ID) {
		return Sticker{}, errors.Wrapf(ErrLocked, "sticker %q of pack %q", id, p.ID)
	}
	return s, nil
}
