package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"logpane/internal/model"
	"logpane/internal/window"
)

const tsLayout = "15:04:05.000"

var flatten = strings.NewReplacer("\r", "", "\n", " ", "\t", " ")

func (m *Model) View() string {
	v := lipgloss.JoinVertical(lipgloss.Left, m.renderList(), m.renderBar(), m.renderStatus())
	if m.modal != modalNone {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderList() string {
	h := m.listHeight()
	rows := make([]string, 0, h)
	visible := m.win.Visible()
	for i := m.offset; i < len(visible) && len(rows) < h; i++ {
		rows = append(rows, m.renderRow(i, visible[i]))
	}
	if len(visible) == 0 {
		msg := "waiting for input..."
		if m.win.Len() > 0 {
			msg = "no records match the filter"
		} else if m.eof {
			msg = "source is empty"
		}
		rows = append(rows, m.styles.Help.Render(msg))
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderRow(i int, r model.Record) string {
	selected := m.win.IsSelected(i)
	f, ok := m.win.Focused()
	focused := ok && f == i

	mark := " "
	if selected {
		mark = "●"
	}
	ts := strings.Repeat(" ", len(tsLayout))
	if !r.Timestamp.IsZero() {
		ts = r.Timestamp.Format(tsLayout)
	}
	lvl := ""
	if v := r.MetaValues("level"); len(v) > 0 {
		lvl = v[0]
	}
	msg := flatten.Replace(r.Message)
	meta := metaSummary(r)

	if focused || selected {
		line := fmt.Sprintf("%s %s %-5s %s", mark, ts, lvl, msg)
		if meta != "" {
			line += "  " + meta
		}
		st := m.styles.Selected
		if focused {
			st = m.styles.Focused
		}
		return st.Render(padRight(truncateRunes(line, m.width), m.width))
	}
	line := m.styles.Marker.Render(mark) + " " + m.styles.Time.Render(ts) + " " + m.styles.level(lvl) + " " + m.styles.Base.Render(msg)
	if meta != "" {
		line += "  " + m.styles.Meta.Render(meta)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// metaSummary renders metadata other than the level as name=value pairs.
func metaSummary(r model.Record) string {
	parts := make([]string, 0, len(r.Metadata))
	for _, md := range r.Metadata {
		if md.Name == "level" {
			continue
		}
		parts = append(parts, md.Name+"="+flatten.Replace(md.Value))
	}
	return strings.Join(parts, " ")
}

// renderBar shows the inline input while one is open, otherwise the active
// filter or a short key hint.
func (m *Model) renderBar() string {
	switch {
	case m.inline != inlineNone:
		return m.input.View() + m.styles.Help.Render("    [enter]=apply [esc]=cancel")
	case m.win.Filter() != nil:
		return m.styles.Bar.Render("filter: "+m.win.Filter().String()) + m.styles.Help.Render("    [/]=edit [F]=clear")
	}
	return m.help.ShortHelpView(m.keymap.ShortHelp())
}

func (m *Model) renderStatus() string {
	st := m.win.Stats()
	state := "live"
	switch {
	case m.paused:
		state = "PAUSED"
	case m.eof:
		state = "done"
	case m.parser == nil:
		state = "detecting"
	}
	limit := "∞"
	if m.win.Limit() != window.Unbounded {
		limit = fmt.Sprint(m.win.Limit())
	}
	pos := "-"
	if f, ok := m.win.Focused(); ok {
		pos = fmt.Sprint(f + 1)
	}
	status := fmt.Sprintf("[%s] %s | row:%s rows:%d/%d limit:%s sel:%d evicted:%d",
		state, m.source, pos, m.win.VisibleCount(), m.win.Len(), limit, m.win.SelectionCount(), st.Evicted)
	if m.aiBusy {
		status += " | explaining..."
	}
	if m.lastMsg != "" {
		status += " | " + m.lastMsg
	}
	return m.styles.Status.Render(truncateRunes(status, m.width))
}

func (m *Model) openModal(kind modalKind, title, body string) {
	m.modal = kind
	m.title = title
	m.body = body
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.width - 6
	h := m.height - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	if m.modal == modalHelp {
		m.body = m.help.FullHelpView(m.keymap.FullHelp())
	}
	m.modalVP.SetContent(m.body)
	if m.modal == modalLogs {
		m.modalVP.GotoBottom()
	}
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modal {
	case modalHelp:
		content = m.modalVP.View() + "\n[esc]=close"
	case modalLogs:
		header := []string{
			"Status:",
			fmt.Sprintf("format: %s (%s)", m.schema.FormatName, m.schema.ParseStrategy),
			fmt.Sprintf("records: %d  ingested: %d  evicted: %d", m.win.Len(), m.win.Stats().Total, m.win.Stats().Evicted),
			fmt.Sprintf("source: %s  follow: %v", m.source, m.cfg.Follow),
		}
		h := m.styles.Help.Render(strings.Join(header, "\n"))
		content = h + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	}
	boxW := m.width - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.title)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
