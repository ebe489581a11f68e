package domain

// History is a linear undo/redo stack of records with a cursor.
// Entries are deep copies and are never modified after they are pushed.
type History struct {
	entries []Record
	cursor  int
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{cursor: -1}
}

// Snapshot stores a deep copy of r after the cursor, discarding any redo
// entries, and moves the cursor to the new tail.
func (h *History) Snapshot(r Record) {
	h.entries = append(h.entries[:h.cursor+1], r.Clone())
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back one entry and returns a copy of that entry.
// ok is false when there is nothing to undo.
func (h *History) Undo() (Record, bool) {
	if !h.CanUndo() {
		return Record{}, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo moves the cursor forward one entry and returns a copy of that entry.
// ok is false when there is nothing to redo.
func (h *History) Redo() (Record, bool) {
	if !h.CanRedo() {
		return Record{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// PeekUndo returns a copy of the entry Undo would move to without moving
func (h *History) PeekUndo() (Record, bool) {
	if !h.CanUndo() {
		return Record{}, false
	}
	return h.entries[h.cursor-1].Clone(), true
}

// PeekRedo returns a copy of the entry Redo would move to without moving
func (h *History) PeekRedo() (Record, bool) {
	if !h.CanRedo() {
		return Record{}, false
	}
	return h.entries[h.cursor+1].Clone(), true
}

// CanUndo reports whether Undo would move the cursor
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether Redo would move the cursor
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Cursor returns the index of the active entry, or -1 when empty
func (h *History) Cursor() int {
	return h.cursor
}

// Len returns the number of entries, including redo entries
func (h *History) Len() int {
	return len(h.entries)
}

// Current returns a copy of the active entry
func (h *History) Current() (Record, bool) {
	if h.cursor < 0 {
		return Record{}, false
	}
	return h.entries[h.cursor].Clone(), true
}
