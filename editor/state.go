package editor

import (
	"slices"

	"github.com/esimov/stickr/imop"
	"github.com/google/uuid"
)

// AssetRef points at a sticker asset owned by the content catalog.
type AssetRef struct {
	ID    string
	Image string
}

// FilterRef points at a full-frame filter overlay owned by the content catalog.
type FilterRef struct {
	ID    string
	Image string
	Blend imop.Mode
}

// StickerInstance is one sticker placed on the photo.
type StickerInstance struct {
	ID        uuid.UUID
	Asset     AssetRef
	Transform Transform
	ZOrder    int
}

// EditState is the full editable configuration at one point in time.
// Stickers are kept in insertion order; the drawing order is given by RenderOrder.
type EditState struct {
	Filter   *FilterRef
	Stickers []StickerInstance
}

// Clone returns a deep copy of the state.
func (s EditState) Clone() EditState {
	var c EditState
	if s.Filter != nil {
		f := *s.Filter
		c.Filter = &f
	}
	if s.Stickers != nil {
		c.Stickers = slices.Clone(s.Stickers)
	}
	return c
}

// Sticker returns the sticker with the given id.
func (s EditState) Sticker(id uuid.UUID) (StickerInstance, bool) {
	if i := s.index(id); i >= 0 {
		return s.Stickers[i], true
	}
	return StickerInstance{}, false
}

// RenderOrder returns the stickers sorted by ascending z-order. Stickers with
// the same z-order keep their insertion order.
func (s EditState) RenderOrder() []StickerInstance {
	out := slices.Clone(s.Stickers)
	slices.SortStableFunc(out, func(a, b StickerInstance) int {
		return a.ZOrder - b.ZOrder
	})
	return out
}

// MaxZOrder returns the highest z-order in use, or 0 when there are no stickers.
func (s EditState) MaxZOrder() int {
	m := 0
	for i, st := range s.Stickers {
		if i == 0 || st.ZOrder > m {
			m = st.ZOrder
		}
	}
	return m
}

func (s EditState) index(id uuid.UUID) int {
	return slices.IndexFunc(s.Stickers, func(st StickerInstance) bool {
		return st.ID == id
	})
}
