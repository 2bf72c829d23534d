package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"logpane/internal/config"
	"logpane/internal/filter"
	"logpane/internal/util/logx"
	"logpane/internal/window"
)

func initialModel(ctx context.Context, cfg *config.Config) *Model {
	m := &Model{
		ctx:     ctx,
		cfg:     cfg,
		help:    help.New(),
		styles:  NewStyles(cfg.Theme != config.ThemeLight),
		keymap:  DefaultKeyMap(),
		input:   textinput.New(),
		modalVP: viewport.New(80, 20),
		tailing: true,
		width:   80,
		height:  24,
		ai:      newAIClient(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, cfg.OpenAITimeoutSec, cfg.Offline),
	}
	m.input.CharLimit = 256
	m.win = window.New(cfg.Limit, m)
	if q := cfg.Filter; q != "" {
		m.win.SetFilter(filter.ParseQuery(q))
		logx.Infof("filter: initial %q", q)
	}
	return m
}

func Run(ctx context.Context, cfg *config.Config) error {
	m := initialModel(ctx, cfg)
	defer func() {
		if m.ingestCancel != nil {
			m.ingestCancel()
		}
	}()
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startPipeline(), tick())
}
