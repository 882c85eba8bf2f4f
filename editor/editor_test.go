package editor

import (
	"math"
	"testing"

	"github.com/esimov/stickr/imop"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	heart = AssetRef{ID: "sticker.heart", Image: "heart"}
	star  = AssetRef{ID: "sticker.star", Image: "star"}
	sepia = &FilterRef{ID: "filter.sepia", Image: "sepia", Blend: imop.Multiply}
)

// sequentialIDs returns deterministic ids 1, 2, 3...
func sequentialIDs() func() uuid.UUID {
	var n byte
	return func() uuid.UUID {
		n++
		var id uuid.UUID
		id[15] = n
		return id
	}
}

func TestEditor_AddSticker(t *testing.T) {
	assert := assert.New(t)
	e := New()

	s := e.AddSticker(heart)
	require.Len(t, s.Stickers, 1)
	st := s.Stickers[0]
	assert.NotEqual(uuid.Nil, st.ID)
	assert.Equal(heart, st.Asset)
	assert.Equal(DefaultTransform(), st.Transform)
	assert.Equal(0, st.ZOrder)
	assert.Equal(st.ID, e.Selected())

	s = e.AddSticker(star)
	assert.Equal(1, s.Stickers[1].ZOrder)
	assert.NotEqual(s.Stickers[0].ID, s.Stickers[1].ID)
	assert.Equal(2, e.UndoDepth())
}

func TestEditor_UndoRedoInvolution(t *testing.T) {
	assert := assert.New(t)
	e := New(WithIDGenerator(sequentialIDs()))

	steps := []func(){
		func() { e.SelectFilter(sepia) },
		func() { e.AddSticker(heart) },
		func() { e.AddSticker(star) },
		func() { e.DeleteSelectedSticker() },
		func() { e.SelectFilter(nil) },
	}
	var history []EditState
	for _, step := range steps {
		history = append(history, e.State())
		step()
	}
	final := e.State()

	for i := len(history) - 1; i >= 0; i-- {
		assert.Equal(history[i], e.Undo())
	}
	assert.False(e.CanUndo())
	assert.Equal(len(steps), e.RedoDepth())

	for i := 1; i < len(history); i++ {
		assert.Equal(history[i], e.Redo())
	}
	assert.Equal(final, e.Redo())
	assert.False(e.CanRedo())

	// Undo then redo is the identity, as is redo then undo.
	e.Undo()
	assert.Equal(final, e.Redo())
	before := e.Undo()
	e.Redo()
	assert.Equal(before, e.Undo())
}

func TestEditor_MutationClearsRedo(t *testing.T) {
	e := New()
	e.AddSticker(heart)
	e.Undo()
	require.True(t, e.CanRedo())

	e.SelectFilter(sepia)
	assert.False(t, e.CanRedo())
}

func TestEditor_SameFilterTwiceSnapshotsTwice(t *testing.T) {
	assert := assert.New(t)
	e := New()

	e.SelectFilter(sepia)
	e.SelectFilter(sepia)
	assert.Equal(2, e.UndoDepth())

	s := e.Undo()
	assert.Equal(sepia, s.Filter)
	s = e.Undo()
	assert.Nil(s.Filter)
	assert.False(e.CanUndo())
}

func TestEditor_TransformUpdatesAreNotUndoable(t *testing.T) {
	assert := assert.New(t)
	e := New()

	s := e.AddSticker(heart)
	id := s.Stickers[0].ID

	e.UpdateTransform(id, NewTransform(10, 20, 2, 1))
	e.BringToFront(id)
	assert.Equal(1, e.UndoDepth())

	st, ok := e.State().Sticker(id)
	require.True(t, ok)
	assert.Equal(Transform{X: 10, Y: 20, Scale: 2, Rotation: 1}, st.Transform)

	// A single undo removes the sticker along with its transform.
	assert.Empty(e.Undo().Stickers)
}

func TestEditor_UpdateTransformNormalizes(t *testing.T) {
	e := New()
	id := e.AddSticker(heart).Stickers[0].ID

	s := e.UpdateTransform(id, Transform{X: 1, Y: 2, Scale: 10, Rotation: -math.Pi / 2})
	assert.Equal(t, MaxScale, s.Stickers[0].Transform.Scale)
	assert.InDelta(t, 3*math.Pi/2, s.Stickers[0].Transform.Rotation, 1e-12)
}

func TestEditor_StaleIdsAreNoops(t *testing.T) {
	assert := assert.New(t)
	e := New()
	e.AddSticker(heart)
	before := e.State()

	stale := uuid.New()
	assert.Equal(before, e.UpdateTransform(stale, NewTransform(1, 1, 1, 1)))
	assert.Equal(before, e.BringToFront(stale))

	e.SelectSticker(stale)
	assert.Equal(before, e.DeleteSelectedSticker())
	assert.Equal(1, e.UndoDepth())

	e.SelectSticker(uuid.Nil)
	assert.Equal(before, e.DeleteSelectedSticker())
	assert.Equal(1, e.UndoDepth())

	empty := New()
	assert.Equal(EditState{}, empty.BringToFront(stale))
	assert.Equal(EditState{}, empty.Undo())
	assert.Equal(EditState{}, empty.Redo())
}

func TestEditor_DeleteSelectedSticker(t *testing.T) {
	assert := assert.New(t)
	e := New()

	a := e.AddSticker(heart).Stickers[0].ID
	b := e.AddSticker(star).Stickers[1].ID

	e.SelectSticker(a)
	s := e.DeleteSelectedSticker()
	require.Len(t, s.Stickers, 1)
	assert.Equal(b, s.Stickers[0].ID)
	assert.Equal(uuid.Nil, e.Selected())
	assert.Equal(3, e.UndoDepth())

	s = e.Undo()
	require.Len(t, s.Stickers, 2)
	assert.Equal(a, s.Stickers[0].ID)
}

func TestEditor_BringToFront(t *testing.T) {
	assert := assert.New(t)
	e := New()

	for _, a := range []AssetRef{heart, star, heart} {
		e.AddSticker(a)
	}
	first := e.State().Stickers[0].ID

	s := e.BringToFront(first)
	st, _ := s.Sticker(first)
	assert.Equal(3, st.ZOrder)
	for _, other := range s.Stickers {
		if other.ID != first {
			assert.Less(other.ZOrder, st.ZOrder)
		}
	}

	order := e.RenderOrder()
	assert.Equal(first, order[len(order)-1].ID)
}

func TestEditor_RenderOrderIsStable(t *testing.T) {
	s := EditState{Stickers: []StickerInstance{
		{ID: uuid.New(), ZOrder: 2},
		{ID: uuid.New(), ZOrder: 1},
		{ID: uuid.New(), ZOrder: 2},
		{ID: uuid.New(), ZOrder: 0},
	}}
	order := s.RenderOrder()

	assert.Equal(t, []uuid.UUID{s.Stickers[3].ID, s.Stickers[1].ID, s.Stickers[0].ID, s.Stickers[2].ID},
		[]uuid.UUID{order[0].ID, order[1].ID, order[2].ID, order[3].ID})
	// The state itself keeps insertion order.
	assert.Equal(t, 2, s.Stickers[0].ZOrder)
}

func TestEditor_StateIsACopy(t *testing.T) {
	e := New()
	e.SelectFilter(sepia)
	e.AddSticker(heart)

	s := e.State()
	s.Filter.ID = "changed"
	s.Stickers[0].ZOrder = 42

	fresh := e.State()
	assert.Equal(t, "filter.sepia", fresh.Filter.ID)
	assert.Equal(t, 0, fresh.Stickers[0].ZOrder)

	// Mutating the caller's filter after selection has no effect either.
	f := &FilterRef{ID: "filter.mono"}
	e.SelectFilter(f)
	f.ID = "filter.other"
	assert.Equal(t, "filter.mono", e.State().Filter.ID)
}

func TestEditor_HistoryLimit(t *testing.T) {
	assert := assert.New(t)
	e := New(WithHistoryLimit(2))

	for i := 0; i < 5; i++ {
		e.AddSticker(heart)
	}
	assert.Equal(2, e.UndoDepth())

	e.Undo()
	s := e.Undo()
	assert.Len(s.Stickers, 3)
	assert.False(e.CanUndo())
	assert.Equal(2, e.RedoDepth())

	assert.Len(e.Redo().Stickers, 4)
	assert.Len(e.Redo().Stickers, 5)
}

func TestEditor_Subscribe(t *testing.T) {
	assert := assert.New(t)
	e := New()

	var actions []Action
	var last EditState
	unsubscribe := e.Subscribe(func(a Action, s EditState) {
		actions = append(actions, a)
		last = s
	})

	e.AddSticker(heart)
	e.SelectFilter(sepia)
	e.Undo()
	assert.Equal([]Action{ActionAddSticker, ActionSelectFilter, ActionUndo}, actions)
	assert.Nil(last.Filter)
	assert.Len(last.Stickers, 1)

	unsubscribe()
	e.Redo()
	assert.Len(actions, 3)
}
