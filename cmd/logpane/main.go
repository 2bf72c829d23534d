package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"logpane/internal/config"
	"logpane/internal/ui"
	"logpane/internal/util/logx"
	"logpane/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println(version.Name, version.String())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting %s %s: %s", version.Name, version.String(), cfg.String())
	if cfg.ExportFormat != "" {
		n, err := exportBatch(ctx, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "export error:", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "exported %d records to %s\n", n, cfg.ExportOut)
		return
	}

	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("%s exited with error: %v", version.Name, err)
		os.Exit(1)
	}
}
