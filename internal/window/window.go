// Package window keeps a capacity-bounded log buffer, its filtered view, a
// selection and a keyboard focus consistent with each other.
//
// A Window is not safe for concurrent use. Hosts serialize calls, usually by
// driving it from a single UI update loop.
package window

import (
	"sort"
	"strconv"
	"strings"

	"logpane/internal/filter"
	"logpane/internal/model"
)

// Unbounded is the limit value meaning no capacity bound.
const Unbounded = 0

type Stats struct {
	Total   uint64 // records ever passed to Append
	Evicted uint64 // records dropped by capacity, including oversized batches
}

type Window struct {
	listener Listener

	limit   int
	all     []model.Record
	visible []model.Record
	spec    *filter.Spec
	match   filter.Predicate

	nextID uint64
	stats  Stats

	selected  map[uint64]uint64 // record id -> insertion sequence
	selSeq    uint64
	anchor    uint64
	hasAnchor bool

	focus int // -1 when nothing is focused
}

// New returns an empty window. limit <= 0 means unbounded.
func New(limit int, l Listener) *Window {
	if l == nil {
		l = NopListener
	}
	return &Window{
		listener: l,
		limit:    normalizeLimit(limit),
		match:    filter.All,
		selected: map[uint64]uint64{},
		focus:    -1,
	}
}

func (w *Window) SetListener(l Listener) {
	if l == nil {
		l = NopListener
	}
	w.listener = l
}

func normalizeLimit(n int) int {
	if n <= 0 {
		return Unbounded
	}
	return n
}

// ParseLimit reads a limit typed by a user. Anything that is not a positive
// integer means Unbounded.
func ParseLimit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Unbounded
	}
	return normalizeLimit(n)
}

func (w *Window) bounded() bool { return w.limit != Unbounded }

func (w *Window) Limit() int { return w.limit }

func (w *Window) Len() int { return len(w.all) }

// Visible returns the filtered view. Callers must not modify it.
func (w *Window) Visible() []model.Record { return w.visible }

func (w *Window) VisibleCount() int { return len(w.visible) }

func (w *Window) Stats() Stats { return w.stats }

// Filter returns the filter currently applied, nil when unfiltered.
func (w *Window) Filter() *filter.Spec { return w.spec }

// At returns the visible record at index i.
func (w *Window) At(i int) (model.Record, bool) {
	if i < 0 || i >= len(w.visible) {
		return model.Record{}, false
	}
	return w.visible[i], true
}

// IndexOf returns the visible index of the record with the given id, or -1.
// Ids increase along the view.
func (w *Window) IndexOf(id uint64) int {
	i := sort.Search(len(w.visible), func(i int) bool { return w.visible[i].ID >= id })
	if i < len(w.visible) && w.visible[i].ID == id {
		return i
	}
	return -1
}
