package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"logpane/internal/config"
	"logpane/internal/detect"
	"logpane/internal/ingest"
	"logpane/internal/parse"
	"logpane/internal/window"
)

func newTestModel(t *testing.T, limit int) *Model {
	t.Helper()
	m := initialModel(context.Background(), &config.Config{Limit: limit, Theme: config.ThemeDark, Offline: true})
	s, err := detect.Forced("logfmt")
	if err != nil {
		t.Fatalf("forced: %v", err)
	}
	p, err := parse.NewParser(s, "")
	if err != nil {
		t.Fatalf("parser: %v", err)
	}
	m.schema, m.parser = s, p
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 12}) // 10 list rows
	return m
}

func lines(from, n int) []ingest.Line {
	out := make([]ingest.Line, n)
	for i := range out {
		lvl := "info"
		if (from+i)%5 == 0 {
			lvl = "error"
		}
		out[i] = ingest.Line{Text: fmt.Sprintf(`level=%s seq=%d msg="line %d"`, lvl, from+i, from+i), Source: "test"}
	}
	return out
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "shift+up":
			msg = tea.KeyMsg{Type: tea.KeyShiftUp}
		case "shift+down":
			msg = tea.KeyMsg{Type: tea.KeyShiftDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+a":
			msg = tea.KeyMsg{Type: tea.KeyCtrlA}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestTailsNewestRowsUntilFocused(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 30))
	if m.offset != 20 {
		t.Fatalf("offset: got %d, want 20", m.offset)
	}
	m.ingestLines(lines(31, 5))
	if m.offset != 25 {
		t.Fatalf("offset after append: got %d, want 25", m.offset)
	}
	if m.renders < 2 {
		t.Fatalf("expected a render per append, got %d", m.renders)
	}
}

func TestArrowKeysEnterFromVisibleEdge(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 30))

	press(m, "down")
	if f, ok := m.win.Focused(); !ok || f != 20 {
		t.Fatalf("down without focus: got %d %v, want first visible row 20", f, ok)
	}
	press(m, "esc", "up")
	if f, ok := m.win.Focused(); !ok || f != 29 {
		t.Fatalf("up without focus: got %d %v, want last visible row 29", f, ok)
	}
}

func TestFocusScrollsList(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 30))
	press(m, "g")
	if f, _ := m.win.Focused(); f != 0 || m.offset != 0 {
		t.Fatalf("top: focus=%d offset=%d", f, m.offset)
	}
	// new records no longer drag the list once a row is focused
	m.ingestLines(lines(31, 10))
	if m.offset != 0 {
		t.Fatalf("offset moved while focused: %d", m.offset)
	}
	press(m, "G")
	if f, _ := m.win.Focused(); f != 39 || m.offset != 30 {
		t.Fatalf("bottom: focus=%d offset=%d", f, m.offset)
	}
}

func TestSelectionKeys(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 10))
	press(m, "g", " ", "down", "down", " ")
	if m.win.SelectionCount() != 2 || !m.win.IsSelected(0) || !m.win.IsSelected(2) {
		t.Fatalf("toggle: got %d selected", m.win.SelectionCount())
	}
	press(m, "enter")
	if m.win.SelectionCount() != 1 || !m.win.IsSelected(2) {
		t.Fatalf("enter should select only the focused row")
	}
	press(m, "shift+down", "shift+down")
	if m.win.SelectionCount() != 3 || !m.win.IsSelected(4) {
		t.Fatalf("extend: got %d selected", m.win.SelectionCount())
	}
	if a, ok := m.win.Anchor(); !ok || a != 2 {
		t.Fatalf("anchor: got %d %v", a, ok)
	}
	press(m, "ctrl+a")
	if m.win.SelectionCount() != 10 {
		t.Fatalf("select all: got %d", m.win.SelectionCount())
	}
	press(m, "esc")
	if !m.win.SelectionEmpty() {
		t.Fatalf("esc should clear the selection")
	}
	if _, ok := m.win.Focused(); ok {
		t.Fatalf("esc should clear focus")
	}
}

func TestFilterBar(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 20))
	press(m, "/")
	if m.inline != inlineFilter {
		t.Fatalf("filter bar not open")
	}
	press(m, "level=ERROR", "enter")
	if m.inline != inlineNone {
		t.Fatalf("filter bar still open")
	}
	if got := m.win.VisibleCount(); got != 4 {
		t.Fatalf("filtered rows: got %d, want 4", got)
	}
	if !strings.Contains(m.View(), "filter: level=ERROR") {
		t.Fatalf("view does not show the active filter")
	}
	press(m, "F")
	if m.win.Filter() != nil || m.win.VisibleCount() != 20 {
		t.Fatalf("clear filter: %d rows", m.win.VisibleCount())
	}
}

func TestFilterBarEscKeepsFilter(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 20))
	press(m, "/", "line 3", "enter")
	before := m.win.VisibleCount()
	press(m, "/", "zzz", "esc")
	if m.win.VisibleCount() != before {
		t.Fatalf("esc changed the filter")
	}
}

func TestLimitInput(t *testing.T) {
	m := newTestModel(t, 100)
	m.ingestLines(lines(1, 50))
	press(m, "B")
	if m.inline != inlineLimit || m.input.Value() != "100" {
		t.Fatalf("limit input: mode=%v value=%q", m.inline, m.input.Value())
	}
	m.input.SetValue("20")
	press(m, "enter")
	if m.win.Limit() != 20 || m.win.Len() != 20 || m.win.Stats().Evicted != 30 {
		t.Fatalf("limit: %d len=%d evicted=%d", m.win.Limit(), m.win.Len(), m.win.Stats().Evicted)
	}

	press(m, "B")
	m.input.SetValue("lots")
	press(m, "enter")
	if m.inline != inlineNone || m.win.Limit() != window.Unbounded {
		t.Fatalf("non-numeric limit should mean unbounded, got %d", m.win.Limit())
	}
}

func TestTickDrainsLinesUntilClosed(t *testing.T) {
	m := newTestModel(t, 0)
	ch := make(chan ingest.Line, 10)
	m.lines = ch
	for _, l := range lines(1, 3) {
		ch <- l
	}
	_, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Fatalf("tick must reschedule itself")
	}
	if m.win.Len() != 3 {
		t.Fatalf("len: got %d, want 3", m.win.Len())
	}

	press(m, "p")
	ch <- lines(4, 1)[0]
	m.Update(tickMsg{})
	if m.win.Len() != 3 {
		t.Fatalf("paused tick ingested records")
	}
	press(m, "p")
	close(ch)
	m.Update(tickMsg{})
	if m.win.Len() != 4 || !m.eof {
		t.Fatalf("len=%d eof=%v", m.win.Len(), m.eof)
	}
}

func TestDetectedMsgReplaysBufferedLines(t *testing.T) {
	m := initialModel(context.Background(), &config.Config{Limit: 10, Theme: config.ThemeLight, Offline: true})
	msg := detectFormat([]ingest.Line{
		{Text: `{"level":"warn","msg":"disk low","host":"a"}`},
		{Text: `{"level":"info","msg":"ok","host":"b"}`},
	}, true, "", "")
	if msg.schema.ParseStrategy != "json" {
		t.Fatalf("strategy: got %q", msg.schema.ParseStrategy)
	}
	m.Update(msg)
	if m.win.Len() != 2 || !m.eof {
		t.Fatalf("len=%d eof=%v", m.win.Len(), m.eof)
	}
	r, _ := m.win.At(0)
	if r.Message != "disk low" || !r.HasMeta("host", "a") {
		t.Fatalf("record: %+v", r)
	}
}

func TestSampleLines(t *testing.T) {
	ch := make(chan ingest.Line, 2)
	ch <- ingest.Line{Text: "a"}
	close(ch)
	got, eof, ok := sampleLines(context.Background(), ch, time.Hour)
	if !ok || !eof || len(got) != 1 {
		t.Fatalf("got %d lines eof=%v ok=%v", len(got), eof, ok)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, ok := sampleLines(ctx, make(chan ingest.Line), time.Hour); ok {
		t.Fatalf("cancelled context should stop sampling")
	}
}

func TestModals(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 3))
	press(m, "v")
	if m.modal != modalNone {
		t.Fatalf("inspector needs a focused row")
	}
	press(m, "g", "v")
	if m.modal != modalInspector || !strings.Contains(m.body, `"message": "line 1"`) {
		t.Fatalf("inspector: modal=%v body=%s", m.modal, m.body)
	}
	press(m, "down")
	if f, _ := m.win.Focused(); f != 0 {
		t.Fatalf("keys leaked through the modal")
	}
	press(m, "esc", "L")
	if m.modal != modalLogs {
		t.Fatalf("app logs modal not open")
	}
	press(m, "q")
	if m.modal != modalNone {
		t.Fatalf("q should close the modal")
	}
}

func TestExplainDisabledOffline(t *testing.T) {
	m := newTestModel(t, 0)
	m.ingestLines(lines(1, 3))
	press(m, "g")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	if cmd != nil || m.aiBusy {
		t.Fatalf("explain must not run offline")
	}
	if !strings.Contains(m.lastMsg, "disabled") {
		t.Fatalf("lastMsg: %q", m.lastMsg)
	}
}

func TestViewShowsStatus(t *testing.T) {
	m := newTestModel(t, 5)
	m.ingestLines(lines(1, 8))
	press(m, "g", " ")
	v := m.View()
	for _, want := range []string{"rows:5/5", "limit:5", "sel:1", "evicted:3", "line 4"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
}
