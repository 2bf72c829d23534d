// Command loggen writes synthetic log lines for exercising logpane: bursts
// big enough to hit the buffer limit, metadata to filter on, and a mix of
// levels.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
)

func main() {
	var (
		format   string
		rate     float64
		count    int
		outPath  string
		duration time.Duration
		seed     int64
	)
	flag.StringVarP(&format, "format", "f", formatLogfmt, "line format: text|json|logfmt|apache")
	flag.Float64VarP(&rate, "rate", "r", 5, "lines per second (0 = as fast as possible)")
	flag.IntVarP(&count, "count", "n", 0, "stop after n lines (0 = unlimited)")
	flag.StringVarP(&outPath, "out", "o", "", "append to this file instead of stdout")
	flag.DurationVar(&duration, "duration", 0, "stop after this long (0 = until interrupted)")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	flag.Parse()

	format = normalizeFormat(format)
	if !isSupported(format) {
		fmt.Fprintf(os.Stderr, "unsupported format: %s\n", format)
		os.Exit(2)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", outPath, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
		fmt.Fprintf(os.Stderr, "generating %s logs -> %s at %.2f lines/s\n", format, outPath, rate)
	}

	w := bufio.NewWriter(out)
	defer w.Flush()
	g := newGenerator(format, rand.New(rand.NewSource(seed)))
	if err := run(ctx, w, g, rate, count); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
}

// run writes lines until ctx ends or count lines are out. With a rate the
// writer is flushed after every line so followers see them immediately.
func run(ctx context.Context, w *bufio.Writer, g *generator, rate float64, count int) error {
	var tick <-chan time.Time
	if rate > 0 {
		interval := time.Duration(float64(time.Second) / rate)
		if interval <= 0 {
			interval = time.Millisecond
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}
	for n := 0; count == 0 || n < count; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		if _, err := w.WriteString(g.line(time.Now()) + "\n"); err != nil {
			return err
		}
		if tick != nil {
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}
