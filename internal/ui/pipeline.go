package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"logpane/internal/ai"
	"logpane/internal/detect"
	"logpane/internal/ingest"
	"logpane/internal/model"
	"logpane/internal/parse"
	"logpane/internal/util/logx"
)

const (
	tickEvery   = 100 * time.Millisecond
	detectAfter = time.Second
	maxSample   = 200
)

type tickMsg struct{}

// detectedMsg carries the lines buffered while the format was being guessed
// so none of them are lost.
type detectedMsg struct {
	schema   model.Schema
	parser   parse.Parser
	buffered []ingest.Line
	eof      bool
}

type explainDoneMsg struct {
	text string
	err  error
}

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

// IO and pipeline orchestration
func (m *Model) startPipeline() tea.Cmd {
	src := ingest.SourceDemo
	if m.cfg.UseStdin {
		src = ingest.SourceStdin
	}
	if !m.cfg.UseStdin && m.cfg.FilePath != "" {
		src = ingest.SourceFile
	}
	m.source = string(src)
	if src == ingest.SourceFile {
		m.source = m.cfg.FilePath
	}
	block := int64(0)
	if !m.cfg.Follow && m.cfg.BlockSizeMB > 0 {
		block = int64(m.cfg.BlockSizeMB) * 1024 * 1024
	}
	if m.ingestCancel != nil {
		m.ingestCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.ingestCancel = cancel
	m.lines, m.errs = ingest.Read(ctx, ingest.Options{Source: src, Path: m.cfg.FilePath, Follow: m.cfg.Follow, ScanBufSize: 1024 * 1024, BlockSizeBytes: block})
	logx.Infof("ingest: source=%s path=%s follow=%v blockBytes=%d", src, m.cfg.FilePath, m.cfg.Follow, block)

	lines, root := m.lines, m.ctx
	forced, layout := m.cfg.ForceFormat, m.cfg.TimeLayout
	return func() tea.Msg {
		buffered, eof, ok := sampleLines(root, lines, detectAfter)
		if !ok {
			return tea.QuitMsg{}
		}
		return detectFormat(buffered, eof, forced, layout)
	}
}

// sampleLines waits at least d and for at least one line, keeping everything
// read meanwhile. ok is false when ctx ends first.
func sampleLines(ctx context.Context, lines <-chan ingest.Line, d time.Duration) (buffered []ingest.Line, eof, ok bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	elapsed := false
	for !eof && !(elapsed && len(buffered) > 0) {
		select {
		case l, open := <-lines:
			if !open {
				eof = true
				break
			}
			buffered = append(buffered, l)
		case <-timer.C:
			elapsed = true
		case <-ctx.Done():
			return nil, false, false
		}
	}
	return buffered, eof, true
}

func detectFormat(buffered []ingest.Line, eof bool, forced, layout string) detectedMsg {
	sample := make([]string, 0, maxSample)
	for i := 0; i < len(buffered) && i < maxSample; i++ {
		sample = append(sample, buffered[i].Text)
	}
	g := detect.Heuristics(sample)
	schema := g.Schema
	logx.Infof("detect: heuristics format=%s strategy=%s conf=%.2f", schema.FormatName, schema.ParseStrategy, g.Confidence)
	if forced != "" {
		if s, err := detect.Forced(forced); err != nil {
			logx.Warnf("detect: %v; keeping %s", err, schema.FormatName)
		} else {
			schema = s
			logx.Infof("detect: forced format=%s -> strategy=%s", forced, schema.ParseStrategy)
		}
	}
	p, err := parse.NewParser(schema, layout)
	if err != nil {
		logx.Errorf("detect: parser for %s: %v; falling back to plain text", schema.FormatName, err)
		schema, _ = detect.Forced("text")
		p, _ = parse.NewParser(schema, layout)
	}
	return detectedMsg{schema: schema, parser: p, buffered: buffered, eof: eof}
}

// ingestLines parses lines and hands them to the window in one batch.
func (m *Model) ingestLines(lines []ingest.Line) {
	if m.parser == nil || len(lines) == 0 {
		return
	}
	records := make([]model.Record, 0, len(lines))
	for _, l := range lines {
		records = append(records, m.parser.Parse(l.Text, l.Source))
	}
	m.win.Append(records...)
}

func (m *Model) drainErrors() {
	for i := 0; i < 20; i++ {
		select {
		case err, ok := <-m.errs:
			if !ok {
				m.errs = nil
				return
			}
			logx.Errorf("ingest error: %v", err)
			m.lastMsg = "ingest error (see app logs)"
		default:
			return
		}
	}
}

func (m *Model) explainCmd() tea.Cmd {
	records := m.actionRecords()
	if len(records) == 0 {
		m.lastMsg = "nothing to explain"
		return nil
	}
	if !m.ai.Enabled() {
		m.lastMsg = "explain disabled (offline or OPENAI_API_KEY unset)"
		return nil
	}
	m.aiBusy = true
	m.lastMsg = "asking model..."
	client, ctx := m.ai, m.ctx
	logx.Infof("ai: explaining %d records", len(records))
	return func() tea.Msg {
		text, err := client.Explain(ctx, records)
		return explainDoneMsg{text: text, err: err}
	}
}

func newAIClient(apiKey, baseURL, modelName string, timeoutSec int, offline bool) *ai.Client {
	if offline {
		return nil
	}
	if timeoutSec <= 0 {
		timeoutSec = 120
	}
	return ai.NewClient(apiKey, baseURL, modelName, time.Duration(timeoutSec)*time.Second)
}
