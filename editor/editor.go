// Package editor holds the live edit state of a photo editing session and its
// linear undo/redo history.
//
// Only filter selection, sticker addition and sticker deletion record a
// snapshot. Transform updates and bring to front change the state in place
// and are not undoable. Stale sticker ids and empty history stacks are silent
// no-ops. An Editor is not safe for concurrent use.
package editor

import "github.com/google/uuid"

// Action names the editor operation reported to observers.
type Action string

const (
	ActionSelectFilter  Action = "select_filter"
	ActionAddSticker    Action = "add_sticker"
	ActionUpdate        Action = "update_transform"
	ActionSelectSticker Action = "select_sticker"
	ActionDelete        Action = "delete_sticker"
	ActionBringToFront  Action = "bring_to_front"
	ActionUndo          Action = "undo"
	ActionRedo          Action = "redo"
)

// Observer is notified after every operation with the resulting state.
type Observer func(Action, EditState)

// Editor applies edit actions to the current EditState.
type Editor struct {
	state     EditState
	selected  uuid.UUID
	history   *History
	newID     func() uuid.UUID
	observers map[int]Observer
	nextObs   int
}

// Option configures an Editor.
type Option func(*Editor)

// WithHistoryLimit bounds the number of undo snapshots kept. Zero means unbounded.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) {
		e.history = NewHistory(n)
	}
}

// WithIDGenerator replaces the generator of sticker instance ids.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New creates an editor seeded with an empty state.
func New(opts ...Option) *Editor {
	e := &Editor{
		history:   NewHistory(0),
		newID:     uuid.New,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SelectFilter records a snapshot and sets the filter. A nil filter clears it.
// Selecting the filter already in use still records a snapshot.
func (e *Editor) SelectFilter(f *FilterRef) EditState {
	e.history.Push(e.state)
	if f != nil {
		c := *f
		f = &c
	}
	e.state.Filter = f
	return e.notify(ActionSelectFilter)
}

// AddSticker records a snapshot and appends a new sticker with the default
// transform. The new sticker becomes the selected one.
func (e *Editor) AddSticker(asset AssetRef) EditState {
	e.history.Push(e.state)
	st := StickerInstance{
		ID:        e.newID(),
		Asset:     asset,
		Transform: DefaultTransform(),
		ZOrder:    len(e.state.Stickers),
	}
	e.state.Stickers = append(e.state.Stickers, st)
	e.selected = st.ID
	return e.notify(ActionAddSticker)
}

// UpdateTransform replaces the transform of a sticker without recording a snapshot.
func (e *Editor) UpdateTransform(id uuid.UUID, t Transform) EditState {
	if i := e.state.index(id); i >= 0 {
		e.state.Stickers[i].Transform = t.Normalized()
	}
	return e.notify(ActionUpdate)
}

// SelectSticker sets the selected sticker. uuid.Nil clears the selection.
func (e *Editor) SelectSticker(id uuid.UUID) EditState {
	e.selected = id
	return e.notify(ActionSelectSticker)
}

// DeleteSelectedSticker records a snapshot, removes the selected sticker and
// clears the selection. Nothing happens when the selection names no sticker.
func (e *Editor) DeleteSelectedSticker() EditState {
	i := e.state.index(e.selected)
	if e.selected == uuid.Nil || i < 0 {
		return e.notify(ActionDelete)
	}
	e.history.Push(e.state)
	e.state.Stickers = append(e.state.Stickers[:i:i], e.state.Stickers[i+1:]...)
	e.selected = uuid.Nil
	return e.notify(ActionDelete)
}

// BringToFront moves the sticker above every other one without recording a snapshot.
func (e *Editor) BringToFront(id uuid.UUID) EditState {
	if i := e.state.index(id); i >= 0 {
		e.state.Stickers[i].ZOrder = e.state.MaxZOrder() + 1
	}
	return e.notify(ActionBringToFront)
}

// Undo restores the previous snapshot. The sticker selection is left untouched.
func (e *Editor) Undo() EditState {
	e.state, _ = e.history.Undo(e.state)
	return e.notify(ActionUndo)
}

// Redo restores the snapshot last undone.
func (e *Editor) Redo() EditState {
	e.state, _ = e.history.Redo(e.state)
	return e.notify(ActionRedo)
}

// State returns a copy of the current state.
func (e *Editor) State() EditState { return e.state.Clone() }

// Selected returns the selected sticker id, or uuid.Nil.
func (e *Editor) Selected() uuid.UUID { return e.selected }

// RenderOrder returns the current stickers in drawing order.
func (e *Editor) RenderOrder() []StickerInstance { return e.state.RenderOrder() }

func (e *Editor) CanUndo() bool  { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool  { return e.history.CanRedo() }
func (e *Editor) UndoDepth() int { return e.history.UndoDepth() }
func (e *Editor) RedoDepth() int { return e.history.RedoDepth() }

// Subscribe registers an observer and returns the function removing it.
func (e *Editor) Subscribe(fn Observer) (unsubscribe func()) {
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	return func() { delete(e.observers, id) }
}

func (e *Editor) notify(a Action) EditState {
	s := e.state.Clone()
	for _, fn := range e.observers {
		fn(a, s.Clone())
	}
	return s
}
