package catalog

import (
	"strings"
	"testing"

	"github.com/esimov/stickr/imop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Default(t *testing.T) {
	assert := assert.New(t)
	c := Default()

	assert.Len(c.Filters(), 9)
	assert.Len(c.Packs(), 4)

	f, err := c.Filter(SecretGoldenFilter)
	require.NoError(t, err)
	assert.True(f.Secret)
	assert.False(f.Free())
	assert.Equal(imop.Overlay, f.Ref().Blend)

	s, err := c.Sticker("sticker.rare.fire")
	require.NoError(t, err)
	assert.Equal(SecretRarePack, s.Pack)
	assert.Equal("sticker_fire", s.Ref().Image)

	_, err = c.Filter("filter.none")
	assert.True(errors.Is(err, ErrUnknownContent))
	_, err = c.Sticker("sticker.none")
	assert.True(errors.Is(err, ErrUnknownContent))
	_, err = c.Pack("stickers.none")
	assert.True(errors.Is(err, ErrUnknownContent))
}

func TestCatalog_Load(t *testing.T) {
	doc := `
filters:
  - {id: f1, image: one, blend: multiply}
packs:
  - id: p1
    price: 0.5
    stickers:
      - {id: s1, image: img1}
`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	p, err := c.Pack("p1")
	require.NoError(t, err)
	assert.False(t, p.Free())
	assert.Equal(t, "p1", p.Stickers[0].Pack)

	empty, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Filters())
}

func TestCatalog_LoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"duplicate id":      "filters: [{id: a}, {id: a}]",
		"id shared":         "filters: [{id: a}]\npacks: [{id: a}]",
		"missing id":        "packs: [{id: p, stickers: [{image: x}]}]",
		"unknown blend":     "filters: [{id: a, blend: dissolve}]",
		"malformed yaml":    "filters: {",
		"duplicate sticker": "packs: [{id: p, stickers: [{id: s}]}, {id: q, stickers: [{id: s}]}]",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestCatalog_Gating(t *testing.T) {
	assert := assert.New(t)
	c := Default()
	ent := NewEntitlements()

	_, err := c.UsableFilter(ent, "filter.basic.glow")
	assert.NoError(err)
	_, err = c.UsableFilter(ent, "filter.galaxy")
	assert.True(errors.Is(err, ErrLocked))
	_, err = c.UsableFilter(ent, SecretGoldenFilter)
	assert.True(errors.Is(err, ErrLocked))

	_, err = c.UsableSticker(ent, "sticker.free.star")
	assert.NoError(err)
	_, err = c.UsableSticker(ent, "sticker.food.taco")
	assert.True(errors.Is(err, ErrLocked))

	// Stickers are unlocked per pack.
	ent.Unlock("stickers.food")
	_, err = c.UsableSticker(ent, "sticker.food.taco")
	assert.NoError(err)
	_, err = c.UsableSticker(ent, "sticker.fancy.cane")
	assert.True(errors.Is(err, ErrLocked))

	_, err = c.UsableFilter(ent, "filter.unknown")
	assert.True(errors.Is(err, ErrUnknownContent))

	all := OracleFunc(func(string) bool { return true })
	_, err = c.UsableSticker(all, "sticker.rare.diamond")
	assert.NoError(err)
}
