package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"logpane/internal/export"
	"logpane/internal/filter"
	"logpane/internal/ingest"
	"logpane/internal/model"
	"logpane/internal/util/logx"
	"logpane/internal/window"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.modal != modalNone {
			m.resizeModal()
		}
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if m.inline != inlineNone {
			return m.updateInline(msg)
		}
		return m.updateList(msg)

	case detectedMsg:
		m.schema, m.parser = msg.schema, msg.parser
		m.lastMsg = "format: " + m.schema.FormatName
		m.ingestLines(msg.buffered)
		if msg.eof {
			m.eof = true
			logx.Infof("ingest: source exhausted after %d lines", len(msg.buffered))
		}
		return m, nil

	case tickMsg:
		if !m.paused && m.parser != nil && !m.eof {
			batch, closed := ingest.Drain(m.lines, maxBatch)
			m.ingestLines(batch)
			if closed {
				m.eof = true
				logx.Infof("ingest: source exhausted")
			}
		}
		m.drainErrors()
		return m, tick()

	case explainDoneMsg:
		m.aiBusy = false
		if msg.err != nil {
			logx.Errorf("ai: explain: %v", msg.err)
			m.lastMsg = "explain failed (see app logs)"
			return m, nil
		}
		m.lastMsg = ""
		m.openModal(modalExplain, "Explanation", msg.text)
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	n := m.win.VisibleCount()
	switch {
	case key.Matches(msg, km.Quit):
		return m.quit()

	case key.Matches(msg, km.Up):
		m.win.MoveFocus(window.Up, m.visibleRange())
	case key.Matches(msg, km.Down):
		m.win.MoveFocus(window.Down, m.visibleRange())
	case key.Matches(msg, km.ExtendUp):
		m.extend(window.Up)
	case key.Matches(msg, km.ExtendDown):
		m.extend(window.Down)
	case key.Matches(msg, km.PageUp):
		m.page(-1)
	case key.Matches(msg, km.PageDown):
		m.page(1)
	case key.Matches(msg, km.Top):
		if n > 0 {
			m.win.Focus(0)
		}
	case key.Matches(msg, km.Bottom):
		if n > 0 {
			m.win.Focus(n - 1)
		}

	case key.Matches(msg, km.Toggle):
		if f, ok := m.win.Focused(); ok {
			m.win.ToggleSelection(f)
		}
	case key.Matches(msg, km.Select):
		if f, ok := m.win.Focused(); ok {
			m.win.Select(f)
		}
	case key.Matches(msg, km.SelectAll):
		m.win.SelectAll()
	case key.Matches(msg, km.Escape):
		m.win.ClearSelection()
		m.win.ClearFocus()
		m.tailing = true
		m.clampOffset()

	case key.Matches(msg, km.Filter):
		value := ""
		if s := m.win.Filter(); s != nil {
			value = s.String()
		}
		m.openInline(inlineFilter, "filter: ", value, "text, key=value, =exact, /regex/, ?expression")
		return m, nil
	case key.Matches(msg, km.ClearFilter):
		m.win.SetFilter(nil)
		m.lastMsg = "filter cleared"
	case key.Matches(msg, km.Limit):
		m.openInline(inlineLimit, "limit: ", strconv.Itoa(m.win.Limit()), "records kept, 0 = unbounded")
		return m, nil
	case key.Matches(msg, km.Pause):
		m.paused = !m.paused
		logx.Infof("ui: paused=%v", m.paused)
	case key.Matches(msg, km.Clear):
		m.win.Clear()
		m.offset = 0
		m.tailing = true
		m.lastMsg = "buffer cleared"

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Export):
		m.exportSelection()
	case key.Matches(msg, km.Explain):
		if m.aiBusy {
			return m, nil
		}
		return m, m.explainCmd()
	case key.Matches(msg, km.Inspect):
		if r, ok := m.focusedRecord(); ok {
			m.openModal(modalInspector, fmt.Sprintf("Record #%d", r.ID), r.PrettyJSON())
		}
	case key.Matches(msg, km.AppLogs):
		m.openModal(modalLogs, "Application Logs", logx.Dump())
	case key.Matches(msg, km.Help):
		m.openModal(modalHelp, "Help", m.help.FullHelpView(m.keymap.FullHelp()))
	}
	return m, nil
}

func (m *Model) updateInline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInline()
		return m, nil
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		switch m.inline {
		case inlineFilter:
			m.win.SetFilter(filter.ParseQuery(q))
			logx.Infof("filter: %q -> %d/%d rows", q, m.win.VisibleCount(), m.win.Len())
			if q == "" {
				m.lastMsg = "filter cleared"
			}
		case inlineLimit:
			m.win.SetLimit(window.ParseLimit(q))
			logx.Infof("window: limit=%d", m.win.Limit())
		}
		m.closeInline()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.modal = modalNone
		return m, nil
	case "c":
		m.copyText(stripANSI(m.body))
		m.lastMsg = "copied to clipboard"
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.ingestCancel != nil {
		m.ingestCancel()
	}
	return m, tea.Quit
}

func (m *Model) openInline(mode inlineMode, prompt, value, placeholder string) {
	m.inline = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInline() {
	m.inline = inlineNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) extend(d window.Direction) {
	m.win.MoveFocus(d, m.visibleRange())
	if f, ok := m.win.Focused(); ok {
		m.win.ExtendSelection(f, window.ExtendReplace)
	}
}

func (m *Model) page(dir int) {
	n, h := m.win.VisibleCount(), m.listHeight()
	if n == 0 {
		return
	}
	if f, ok := m.win.Focused(); ok {
		m.win.Focus(clampInt(f+dir*h, 0, n-1))
		return
	}
	m.tailing = false
	m.offset += dir * h
	m.clampOffset()
}

func (m *Model) listHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// visibleRange is the span of view indices currently on screen, or nil when
// nothing is.
func (m *Model) visibleRange() *window.Range {
	n := m.win.VisibleCount()
	if n == 0 {
		return nil
	}
	m.clampOffset()
	last := m.offset + m.listHeight() - 1
	if last > n-1 {
		last = n - 1
	}
	return &window.Range{First: m.offset, Last: last}
}

func (m *Model) scrollTo(i int) {
	h := m.listHeight()
	if i < m.offset {
		m.offset = i
	} else if i >= m.offset+h {
		m.offset = i - h + 1
	}
	m.clampOffset()
}

func (m *Model) clampOffset() {
	n, h := m.win.VisibleCount(), m.listHeight()
	if _, focused := m.win.Focused(); m.tailing && !focused {
		m.offset = n - h
	}
	if m.offset > n-h {
		m.offset = n - h
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) focusedRecord() (model.Record, bool) {
	f, ok := m.win.Focused()
	if !ok {
		return model.Record{}, false
	}
	return m.win.At(f)
}

// actionRecords is the selection, or the focused record when nothing is
// selected.
func (m *Model) actionRecords() []model.Record {
	if !m.win.SelectionEmpty() {
		return m.win.SelectedRecords()
	}
	if r, ok := m.focusedRecord(); ok {
		return []model.Record{r}
	}
	return nil
}

func (m *Model) copySelection() {
	records := m.actionRecords()
	if len(records) == 0 {
		m.lastMsg = "nothing to copy"
		return
	}
	raw := make([]string, len(records))
	for i, r := range records {
		raw[i] = r.Raw
	}
	m.copyText(strings.Join(raw, "\n"))
	m.lastMsg = fmt.Sprintf("copied %d records", len(records))
}

func (m *Model) copyText(s string) {
	if err := clipboard.WriteAll(s); err != nil {
		logx.Debugf("clipboard: %v; using OSC52", err)
		copyToClipboard(s)
	}
}

// exportSelection writes the selection, or the whole view when nothing is
// selected.
func (m *Model) exportSelection() {
	records := m.win.SelectedRecords()
	if len(records) == 0 {
		records = m.win.Visible()
	}
	f := export.FormatCSV
	if m.cfg.ExportFormat != "" {
		if pf, err := export.ParseFormat(m.cfg.ExportFormat); err == nil {
			f = pf
		}
	}
	path := m.cfg.ExportOut
	if path == "" {
		path = fmt.Sprintf("logpane-%s.%s", time.Now().Format("20060102-150405"), f)
	}
	if err := export.ToFile(path, f, records); err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			m.lastMsg = "nothing to export"
			return
		}
		logx.Errorf("export: %v", err)
		m.lastMsg = "export failed (see app logs)"
		return
	}
	logx.Infof("export: %d records -> %s", len(records), path)
	m.lastMsg = fmt.Sprintf("exported %d records to %s", len(records), path)
}
