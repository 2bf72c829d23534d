package window

type Direction int

const (
	Up Direction = iota
	Down
)

// Range is an inclusive span of visible indices, typically the rows
// currently scrolled into view.
type Range struct {
	First, Last int
}

// Focus moves focus to visible index i. Out of range indices are ignored.
func (w *Window) Focus(i int) {
	if i < 0 || i >= len(w.visible) {
		return
	}
	w.setFocus(i)
}

func (w *Window) ClearFocus() { w.setFocus(-1) }

func (w *Window) Focused() (int, bool) { return w.focus, w.focus >= 0 }

// MoveFocus steps focus one row, stopping at either end. Without a focus it
// enters from the edge of rng nearest to the direction of travel: the last
// row when moving up, the first when moving down.
func (w *Window) MoveFocus(d Direction, rng *Range) {
	if w.focus < 0 {
		if rng == nil {
			return
		}
		if d == Up {
			w.Focus(rng.Last)
		} else {
			w.Focus(rng.First)
		}
		return
	}
	switch d {
	case Up:
		if w.focus > 0 {
			w.setFocus(w.focus - 1)
		}
	case Down:
		if w.focus < len(w.visible)-1 {
			w.setFocus(w.focus + 1)
		}
	}
}

func (w *Window) IsFocusedIndexInRange(r Range) bool {
	return w.focus >= 0 && w.focus >= r.First && w.focus <= r.Last
}

// shiftFocus follows the focused record after k rows left the front of the
// view, or drops focus when the focused record was among them.
func (w *Window) shiftFocus(k int) {
	if w.focus < 0 || k <= 0 {
		return
	}
	if k <= w.focus {
		w.setFocus(w.focus - k)
	} else {
		w.setFocus(-1)
	}
}

func (w *Window) setFocus(i int) {
	if i < 0 {
		i = -1
	}
	if i == w.focus {
		return
	}
	w.focus = i
	w.listener.FocusChanged(i, i >= 0)
}
