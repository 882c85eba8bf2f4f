package editor

// History holds the undo and redo stacks of state snapshots.
// The zero value is an unbounded, empty history.
type History struct {
	undo  []EditState
	redo  []EditState
	limit int
}

// NewHistory creates a history keeping at most limit undo entries.
// A limit of zero or less means no limit.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records the state preceding a mutating action and clears the redo stack.
func (h *History) Push(s EditState) {
	h.pushUndo(s.Clone())
	h.redo = nil
}

// Undo pops the latest snapshot and stores current on the redo stack.
// It reports false when there is nothing to undo.
func (h *History) Undo(current EditState) (EditState, bool) {
	if len(h.undo) == 0 {
		return current, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return prev.Clone(), true
}

// Redo is the mirror of Undo.
func (h *History) Redo(current EditState) (EditState, bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.pushUndo(current.Clone())
	return next.Clone(), true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) UndoDepth() int { return len(h.undo) }
func (h *History) RedoDepth() int { return len(h.redo) }

// Clear drops every snapshot.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}

func (h *History) pushUndo(s EditState) {
	h.undo = append(h.undo, s)
	if h.limit > 0 && len(h.undo) > h.limit {
		// Evict the oldest entries.
		n := copy(h.undo, h.undo[len(h.undo)-h.limit:])
		clear(h.undo[n:])
		h.undo = h.undo[:n]
	}
}
