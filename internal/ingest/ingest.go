package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nxadm/tail"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
	SourceDemo  SourceKind = "demo"
)

type Options struct {
	Source         SourceKind
	Path           string
	Follow         bool
	ScanBufSize    int   // per-line max (bytes); 0 uses bufio's default
	BlockSizeBytes int64 // only for non-follow file read; 0 = all
}

// Line is one raw line read from a source.
type Line struct {
	Text   string
	Source string
	When   time.Time
}

// Read starts reading opt.Source in a goroutine. Both channels are closed
// when the source is exhausted or ctx is done.
func Read(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			readFromReader(ctx, os.Stdin, "stdin", opt.ScanBufSize, out, errs)
		case SourceFile:
			if opt.Follow {
				readFromTail(ctx, opt.Path, out, errs)
			} else if opt.BlockSizeBytes > 0 {
				readFromFileBlock(ctx, opt.Path, opt.BlockSizeBytes, opt.ScanBufSize, out, errs)
			} else {
				f, err := os.Open(opt.Path)
				if err != nil {
					report(errs, fmt.Errorf("open %s: %w", opt.Path, err))
					return
				}
				defer f.Close()
				readFromReader(ctx, f, opt.Path, opt.ScanBufSize, out, errs)
			}
		case SourceDemo:
			demo(ctx, out)
		default:
			report(errs, fmt.Errorf("unknown source kind %q", opt.Source))
		}
	}()

	return out, errs
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Line, errs chan<- error) {
	scanner := bufio.NewScanner(r)
	if maxBuf > 0 {
		scanner.Buffer(make([]byte, 0, 64*1024), maxBuf)
	}
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		select {
		case out <- Line{Text: scanner.Text(), Source: src, When: time.Now()}:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		report(errs, fmt.Errorf("read %s: %w", src, err))
	}
}

func readFromTail(ctx context.Context, path string, out chan<- Line, errs chan<- error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		report(errs, fmt.Errorf("tail %s: %w", path, err))
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				report(errs, l.Err)
				continue
			}
			select {
			case out <- Line{Text: l.Text, Source: path, When: l.Time}:
			case <-ctx.Done():
				t.Stop()
				return
			}
		}
	}
}

func readFromFileBlock(ctx context.Context, path string, blockBytes int64, maxBuf int, out chan<- Line, errs chan<- error) {
	f, err := os.Open(path)
	if err != nil {
		report(errs, fmt.Errorf("open %s: %w", path, err))
		return
	}
	defer f.Close()
	// Determine start offset
	var start int64 = 0
	if blockBytes > 0 {
		if st, err := f.Stat(); err == nil {
			if st.Size() > blockBytes {
				start = st.Size() - blockBytes
			}
		}
	}
	if start > 0 {
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			report(errs, err)
			return
		}
		// Drop partial first line
		br := bufio.NewReader(f)
		if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
			report(errs, err)
			return
		}
		// Continue with scanner on remaining reader
		readFromReader(ctx, br, path, maxBuf, out, errs)
		return
	}
	readFromReader(ctx, f, path, maxBuf, out, errs)
}

// report never blocks; only the first pending error is kept.
func report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}

// Drain collects up to max lines already waiting on ch without blocking.
// closed reports that ch has been closed.
func Drain(ch <-chan Line, max int) (batch []Line, closed bool) {
	for len(batch) < max {
		select {
		case l, ok := <-ch:
			if !ok {
				return batch, true
			}
			batch = append(batch, l)
		default:
			return batch, false
		}
	}
	return batch, false
}

func demo(ctx context.Context, out chan<- Line) {
	services := []string{"api", "worker", "billing"}
	levels := []string{"info", "info", "debug", "warn", "error"}
	msgs := []string{"request served", "cache miss", "retrying upstream call", "slow query", "connection reset by peer"}
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			text := fmt.Sprintf(`time=%s level=%s service=%s seq=%d msg="%s"`,
				now.UTC().Format(time.RFC3339), levels[i%len(levels)], services[i%len(services)], i, msgs[i%len(msgs)])
			select {
			case out <- Line{Text: text, Source: "demo", When: now}:
			case <-ctx.Done():
				return
			}
		}
	}
}
