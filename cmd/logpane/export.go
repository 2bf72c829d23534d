package main

import (
	"context"
	"fmt"

	"logpane/internal/config"
	"logpane/internal/detect"
	"logpane/internal/export"
	"logpane/internal/filter"
	"logpane/internal/ingest"
	"logpane/internal/model"
	"logpane/internal/parse"
	"logpane/internal/util/logx"
	"logpane/internal/window"
)

const detectSample = 200

// exportBatch reads the whole source through a window with the configured
// limit and filter, then writes what is visible. Follow is ignored since the
// source has to end.
func exportBatch(ctx context.Context, cfg *config.Config) (int, error) {
	f, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return 0, err
	}
	src := ingest.SourceFile
	if cfg.FilePath == "" {
		if !cfg.UseStdin {
			return 0, fmt.Errorf("export needs --file or piped input")
		}
		src = ingest.SourceStdin
	}
	block := int64(cfg.BlockSizeMB) * 1024 * 1024
	lines, errs := ingest.Read(ctx, ingest.Options{Source: src, Path: cfg.FilePath, ScanBufSize: 1024 * 1024, BlockSizeBytes: block})

	w := window.New(cfg.Limit, window.NopListener)
	if cfg.Filter != "" {
		w.SetFilter(filter.ParseQuery(cfg.Filter))
	}

	var (
		parser  parse.Parser
		pending []ingest.Line
	)
	flush := func() error {
		if parser == nil {
			schema, err := pickSchema(pending, cfg.ForceFormat)
			if err != nil {
				return err
			}
			if parser, err = parse.NewParser(schema, cfg.TimeLayout); err != nil {
				return fmt.Errorf("parser for %s: %w", schema.FormatName, err)
			}
		}
		records := make([]model.Record, 0, len(pending))
		for _, l := range pending {
			records = append(records, parser.Parse(l.Text, l.Source))
		}
		w.Append(records...)
		pending = pending[:0]
		return nil
	}

	for l := range lines {
		pending = append(pending, l)
		if len(pending) >= detectSample {
			if err := flush(); err != nil {
				return 0, err
			}
		}
	}
	if len(pending) > 0 {
		if err := flush(); err != nil {
			return 0, err
		}
	}
	select {
	case err := <-errs:
		if err != nil {
			return 0, err
		}
	default:
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	st := w.Stats()
	logx.Infof("export: read=%d evicted=%d visible=%d", st.Total, st.Evicted, w.VisibleCount())
	if err := export.ToFile(cfg.ExportOut, f, w.Visible()); err != nil {
		return 0, err
	}
	return w.VisibleCount(), nil
}

func pickSchema(sample []ingest.Line, forced string) (model.Schema, error) {
	if forced != "" {
		return detect.Forced(forced)
	}
	texts := make([]string, len(sample))
	for i, l := range sample {
		texts[i] = l.Text
	}
	g := detect.Heuristics(texts)
	logx.Infof("detect: heuristics format=%s strategy=%s conf=%.2f", g.Schema.FormatName, g.Schema.ParseStrategy, g.Confidence)
	return g.Schema, nil
}
