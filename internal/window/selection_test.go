package window

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeSelectionClamps(t *testing.T) {
	w := New(0, nil)
	w.Append(records(0, 10)...)
	w.ToggleSelection(2)
	w.ExtendSelection(10000, ExtendReplace)
	require.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9}, selectedIndices(w))

	w.ExtendSelection(-50, ExtendReplace)
	require.Equal(t, []int{0, 1, 2}, selectedIndices(w))
}

func TestExtendAppendUnions(t *testing.T) {
	w := New(0, nil)
	w.Append(records(0, 10)...)
	w.Select(7)
	w.ToggleSelection(1) // anchor 1
	w.ExtendSelection(3, ExtendAppend)
	require.Equal(t, []int{1, 2, 3, 7}, selectedIndices(w))
	a, ok := w.Anchor()
	require.True(t, ok)
	require.Equal(t, 1, a, "extend does not move the anchor")
}

func TestExtendOnEmptySelectionSelects(t *testing.T) {
	rec := &recorder{}
	w := New(0, rec)
	w.Append(records(0, 5)...)
	w.ExtendSelection(3, ExtendAppend)
	require.Equal(t, []int{3}, selectedIndices(w))
	a, _ := w.Anchor()
	require.Equal(t, 3, a)
	require.Equal(t, 1, rec.selection)
}

func TestSelectOutOfRangeEmpties(t *testing.T) {
	rec := &recorder{}
	w := New(0, rec)
	w.Append(records(0, 5)...)
	w.Select(1)
	w.Select(99)
	require.True(t, w.SelectionEmpty())
	_, ok := w.Anchor()
	require.False(t, ok)
	require.Equal(t, 2, rec.selection)
	require.Equal(t, 3, rec.renders)
}

func TestToggleOutOfRangeIsNoop(t *testing.T) {
	rec := &recorder{}
	w := New(0, rec)
	w.Append(records(0, 3)...)
	w.ToggleSelection(3)
	w.ToggleSelection(-1)
	require.Zero(t, rec.selection)
	require.Equal(t, 1, rec.renders)
}

func TestToggleOffReassignsAnchorToLatest(t *testing.T) {
	w := New(0, nil)
	w.Append(records(0, 10)...)
	w.ToggleSelection(5)
	w.ToggleSelection(2)
	w.ToggleSelection(8)
	w.ToggleSelection(8)
	a, ok := w.Anchor()
	require.True(t, ok)
	require.Equal(t, 2, a)

	w.ToggleSelection(2)
	w.ToggleSelection(5)
	_, ok = w.Anchor()
	require.False(t, ok)
	require.True(t, w.SelectionEmpty())
}

func TestSelectAll(t *testing.T) {
	rec := &recorder{}
	w := New(0, rec)
	w.SelectAll()
	require.Zero(t, rec.selection, "nothing to select")

	w.Append(records(0, 4)...)
	w.SelectAll()
	require.Equal(t, 4, w.SelectionCount())
	a, _ := w.Anchor()
	require.Equal(t, 3, a)
	require.Equal(t, 1, rec.selection)
}

func TestSelectedRecordsInBufferOrder(t *testing.T) {
	w := New(0, nil)
	w.Append(records(0, 6)...)
	w.ToggleSelection(4)
	w.ToggleSelection(0)
	w.ToggleSelection(2)
	require.Equal(t, []string{"Message 00000", "Message 00002", "Message 00004"}, messages(w.SelectedRecords()))
}

func TestClearSelection(t *testing.T) {
	rec := &recorder{}
	w := New(0, rec)
	w.Append(records(0, 3)...)
	w.SelectAll()
	w.ClearSelection()
	require.True(t, w.SelectionEmpty())
	require.Zero(t, w.SelectionCount())
	require.False(t, w.IsSelected(0))
	require.Equal(t, 2, rec.selection)
}
