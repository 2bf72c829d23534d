package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"logpane/internal/model"
)

func sample() []model.Record {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return []model.Record{
		{ID: 1, Timestamp: ts, Message: "started", Metadata: []model.Meta{{Name: "level", Value: "INFO"}}},
		{ID: 2, Timestamp: ts, Message: "a, b", Metadata: []model.Meta{{Name: "tag", Value: "x"}, {Name: "tag", Value: "y"}}},
	}
}

func TestToCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ToCSV(&buf, sample()); err != nil {
		t.Fatalf("csv: %v", err)
	}
	want := "ts,message,level,tag\n" +
		"2025-01-01T12:00:00Z,started,INFO,\n" +
		"2025-01-01T12:00:00Z,\"a, b\",,x|y\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s", buf.String())
	}
	if err := ToCSV(&buf, nil); err != ErrNoRecords {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestToNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ToNDJSON(&buf, sample()); err != nil {
		t.Fatalf("ndjson: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: %d", len(lines))
	}
	var r model.Record
	if err := json.Unmarshal([]byte(lines[1]), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Message != "a, b" || len(r.MetaValues("tag")) != 2 {
		t.Fatalf("record: %+v", r)
	}
}

func TestToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.csv")
	if err := ToFile(p, FormatCSV, sample()); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "ts,message") {
		t.Fatalf("content: %s", b)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected format error")
	}
}
