package window

import (
	"logpane/internal/filter"
	"logpane/internal/model"
)

// SetLimit changes the capacity. n <= 0 means unbounded. When the buffer
// holds more than n records the oldest ones are evicted.
func (w *Window) SetLimit(n int) {
	n = normalizeLimit(n)
	if n == w.limit {
		return
	}
	w.limit = n
	selChanged := false
	if w.bounded() && len(w.all) > n {
		selChanged = w.evictFront(len(w.all) - n)
	}
	w.notify(selChanged)
}

// Append pushes records to the back of the buffer, evicting from the front
// to stay within the limit. Only the last limit records of an oversized
// batch are kept. IDs are assigned here; any ID set by the caller is
// overwritten.
func (w *Window) Append(records ...model.Record) {
	w.stats.Total += uint64(len(records))
	incoming := records
	if w.bounded() && len(incoming) > w.limit {
		w.stats.Evicted += uint64(len(incoming) - w.limit)
		incoming = incoming[len(incoming)-w.limit:]
	}

	selChanged := false
	if w.bounded() {
		if over := len(w.all) + len(incoming) - w.limit; over > 0 {
			selChanged = w.evictFront(over)
		}
	}

	for _, r := range incoming {
		w.nextID++
		r.ID = w.nextID
		w.all = append(w.all, r)
		if w.match(r) {
			w.visible = append(w.visible, r)
		}
	}
	// an empty batch still renders
	w.notify(selChanged)
}

// SetFilter replaces the active filter and recomputes the view. Selected
// records that are no longer visible are deselected and focus is cleared.
func (w *Window) SetFilter(s *filter.Spec) {
	if s.Empty() {
		s = nil
	}
	w.spec = s
	w.match = filter.Build(s)

	visible := make([]model.Record, 0, len(w.visible))
	keep := make(map[uint64]struct{}, len(w.selected))
	for _, r := range w.all {
		if !w.match(r) {
			continue
		}
		visible = append(visible, r)
		if _, ok := w.selected[r.ID]; ok {
			keep[r.ID] = struct{}{}
		}
	}
	w.visible = visible

	selChanged := false
	for id := range w.selected {
		if _, ok := keep[id]; !ok {
			w.dropSelected(id)
			selChanged = true
		}
	}
	w.setFocus(-1)
	w.notify(selChanged)
}

// Clear empties the buffer, the view and the selection, and clears focus.
// The limit, filter and counters are kept.
func (w *Window) Clear() {
	selChanged := len(w.selected) > 0
	w.all = nil
	w.visible = nil
	w.selected = map[uint64]uint64{}
	w.hasAnchor = false
	w.setFocus(-1)
	w.notify(selChanged)
}

// evictFront drops the oldest k records, their contribution to the view,
// the selection and the focus. It reports whether the selection changed.
func (w *Window) evictFront(k int) bool {
	if k <= 0 {
		return false
	}
	if k > len(w.all) {
		k = len(w.all)
	}
	last := w.all[k-1].ID
	selChanged := false
	for _, r := range w.all[:k] {
		if _, ok := w.selected[r.ID]; ok {
			delete(w.selected, r.ID)
			selChanged = true
		}
		if w.hasAnchor && w.anchor == r.ID {
			w.hasAnchor = false
		}
	}
	clear(w.all[:k])
	w.all = w.all[k:]
	w.stats.Evicted += uint64(k)

	// the view is an ordered subsequence, so the evicted part is a prefix
	v := 0
	for v < len(w.visible) && w.visible[v].ID <= last {
		v++
	}
	if v > 0 {
		clear(w.visible[:v])
		w.visible = w.visible[v:]
		w.shiftFocus(v)
	}
	return selChanged
}

func (w *Window) notify(selChanged bool) {
	if selChanged {
		w.listener.SelectionChanged()
	}
	w.listener.Render()
}
