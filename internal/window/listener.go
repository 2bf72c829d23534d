package window

// Listener receives notifications from a Window. Calls happen synchronously
// on the goroutine that invoked the Window method.
type Listener interface {
	// Render is called after any state-changing operation.
	Render()
	// SelectionChanged is called when the selected set changed composition.
	SelectionChanged()
	// FocusChanged carries the new focused visible index, or ok=false for none.
	FocusChanged(index int, ok bool)
}

// Funcs adapts plain functions to a Listener. Nil fields are skipped.
type Funcs struct {
	OnRender           func()
	OnSelectionChanged func()
	OnFocusChanged     func(index int, ok bool)
}

func (f Funcs) Render() {
	if f.OnRender != nil {
		f.OnRender()
	}
}

func (f Funcs) SelectionChanged() {
	if f.OnSelectionChanged != nil {
		f.OnSelectionChanged()
	}
}

func (f Funcs) FocusChanged(index int, ok bool) {
	if f.OnFocusChanged != nil {
		f.OnFocusChanged(index, ok)
	}
}

type nopListener struct{}

func (nopListener) Render()                 {}
func (nopListener) SelectionChanged()       {}
func (nopListener) FocusChanged(int, bool) {}

// NopListener discards every notification.
var NopListener Listener = nopListener{}
