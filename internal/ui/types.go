package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"logpane/internal/ai"
	"logpane/internal/config"
	"logpane/internal/ingest"
	"logpane/internal/model"
	"logpane/internal/parse"
	"logpane/internal/util/logx"
	"logpane/internal/window"
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineFilter
	inlineLimit
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspector
	modalLogs
	modalExplain
)

// maxBatch bounds how many lines one tick moves into the window.
const maxBatch = 5000

type Model struct {
	ctx context.Context
	cfg *config.Config
	// cancel function for the ingest pipeline
	ingestCancel context.CancelFunc

	// Pipeline
	lines  <-chan ingest.Line
	errs   <-chan error
	parser parse.Parser
	schema model.Schema
	source string
	eof    bool

	win *window.Window
	ai  *ai.Client

	// UI
	styles  Styles
	keymap  KeyMap
	help    help.Model
	input   textinput.Model
	modalVP viewport.Model
	width   int
	height  int
	offset  int  // first list row on screen
	tailing bool // keep the newest rows on screen while nothing is focused
	paused  bool
	inline  inlineMode
	modal   modalKind
	title   string
	body    string
	lastMsg string
	aiBusy  bool
	renders int // window Render notifications
}

// Window listener: the Model is the host of its window.

func (m *Model) Render() {
	m.renders++
	m.clampOffset()
}

func (m *Model) SelectionChanged() {
	logx.Debugf("ui: selection now %d records", m.win.SelectionCount())
}

func (m *Model) FocusChanged(index int, ok bool) {
	if !ok {
		return
	}
	m.tailing = false
	m.scrollTo(index)
}

var _ window.Listener = (*Model)(nil)
