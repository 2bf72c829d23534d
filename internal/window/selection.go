package window

import "logpane/internal/model"

type ExtendMode int

const (
	ExtendReplace ExtendMode = iota
	ExtendAppend
)

// Select makes the record at visible index i the only selected record and
// the anchor. An index with no record empties the selection.
func (w *Window) Select(i int) {
	w.selected = map[uint64]uint64{}
	w.hasAnchor = false
	if r, ok := w.At(i); ok {
		w.addSelected(r.ID)
		w.anchor, w.hasAnchor = r.ID, true
	}
	w.notify(true)
}

// ToggleSelection flips the record at visible index i. Removing a record
// moves the anchor to the most recently added remaining record.
func (w *Window) ToggleSelection(i int) {
	r, ok := w.At(i)
	if !ok {
		return
	}
	if _, sel := w.selected[r.ID]; sel {
		w.dropSelected(r.ID)
		w.anchor, w.hasAnchor = w.latestSelected()
	} else {
		w.addSelected(r.ID)
		w.anchor, w.hasAnchor = r.ID, true
	}
	w.notify(true)
}

// ExtendSelection selects the contiguous range between the anchor and
// index i, clamped to the view. The anchor does not move. With an empty
// selection, or an anchor that is no longer visible, it behaves as Select.
func (w *Window) ExtendSelection(i int, mode ExtendMode) {
	if len(w.selected) == 0 || len(w.visible) == 0 {
		w.Select(i)
		return
	}
	from := -1
	if w.hasAnchor {
		from = w.IndexOf(w.anchor)
	}
	if from < 0 {
		w.Select(i)
		return
	}
	to := clamp(i, 0, len(w.visible)-1)
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	if mode == ExtendReplace {
		w.selected = make(map[uint64]uint64, hi-lo+1)
	}
	for _, r := range w.visible[lo : hi+1] {
		w.addSelected(r.ID)
	}
	w.notify(true)
}

func (w *Window) ClearSelection() {
	w.selected = map[uint64]uint64{}
	w.hasAnchor = false
	w.notify(true)
}

// SelectAll selects every visible record and anchors on the last one.
func (w *Window) SelectAll() {
	if len(w.visible) == 0 {
		return
	}
	for _, r := range w.visible {
		w.addSelected(r.ID)
	}
	w.anchor, w.hasAnchor = w.visible[len(w.visible)-1].ID, true
	w.notify(true)
}

func (w *Window) IsSelected(i int) bool {
	r, ok := w.At(i)
	if !ok {
		return false
	}
	_, sel := w.selected[r.ID]
	return sel
}

func (w *Window) SelectionEmpty() bool { return len(w.selected) == 0 }

func (w *Window) SelectionCount() int { return len(w.selected) }

// Anchor returns the visible index of the selection anchor.
func (w *Window) Anchor() (int, bool) {
	if !w.hasAnchor {
		return -1, false
	}
	i := w.IndexOf(w.anchor)
	return i, i >= 0
}

// SelectedRecords returns the selected records in buffer order.
func (w *Window) SelectedRecords() []model.Record {
	out := make([]model.Record, 0, len(w.selected))
	if len(w.selected) == 0 {
		return out
	}
	for _, r := range w.all {
		if _, ok := w.selected[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// addSelected keeps the original insertion position of ids already present.
func (w *Window) addSelected(id uint64) {
	if _, ok := w.selected[id]; ok {
		return
	}
	w.selSeq++
	w.selected[id] = w.selSeq
}

func (w *Window) dropSelected(id uint64) {
	delete(w.selected, id)
	if w.hasAnchor && w.anchor == id {
		w.hasAnchor = false
	}
}

func (w *Window) latestSelected() (uint64, bool) {
	var id, best uint64
	found := false
	for k, seq := range w.selected {
		if !found || seq > best {
			id, best, found = k, seq, true
		}
	}
	return id, found
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
