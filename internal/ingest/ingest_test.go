package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func collect(t *testing.T, lines <-chan Line) []string {
	t.Helper()
	var out []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case l, ok := <-lines:
			if !ok {
				return out
			}
			out = append(out, l.Text)
		case <-timeout:
			t.Fatalf("timed out after %d lines", len(out))
		}
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestReadWholeFile(t *testing.T) {
	p := writeFile(t, "one\ntwo\nthree\n")
	lines, errs := Read(context.Background(), Options{Source: SourceFile, Path: p})
	got := collect(t, lines)
	if strings.Join(got, ",") != "one,two,three" {
		t.Fatalf("got %v", got)
	}
	if err := <-errs; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadFileBlockDropsPartialLine(t *testing.T) {
	p := writeFile(t, "aaaaaaaaaa\nbbbb\ncccc\n")
	lines, _ := Read(context.Background(), Options{Source: SourceFile, Path: p, BlockSizeBytes: 8})
	got := collect(t, lines)
	if strings.Join(got, ",") != "cccc" {
		t.Fatalf("got %v", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	lines, errs := Read(context.Background(), Options{Source: SourceFile, Path: filepath.Join(t.TempDir(), "nope")})
	collect(t, lines)
	if err := <-errs; err == nil {
		t.Fatalf("expected an error")
	}
}

func TestDemoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines, _ := Read(ctx, Options{Source: SourceDemo})
	first := <-lines
	if !strings.Contains(first.Text, "service=") {
		t.Fatalf("demo line: %q", first.Text)
	}
	cancel()
	collect(t, lines)
}

func TestDrain(t *testing.T) {
	ch := make(chan Line, 5)
	for i := 0; i < 3; i++ {
		ch <- Line{Text: "x"}
	}
	batch, closed := Drain(ch, 2)
	if len(batch) != 2 || closed {
		t.Fatalf("batch=%d closed=%v", len(batch), closed)
	}
	close(ch)
	batch, closed = Drain(ch, 10)
	if len(batch) != 1 || !closed {
		t.Fatalf("batch=%d closed=%v", len(batch), closed)
	}
}
