package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"logpane/internal/model"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json", "ndjson", "jsonl":
		return FormatNDJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

var ErrNoRecords = errors.New("no records")

// ToCSV writes a header of ts, message and every metadata name, then one row
// per record. Repeated metadata values are joined with "|".
func ToCSV(w io.Writer, records []model.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	cw := csv.NewWriter(w)
	names := model.MetaNames(records)
	cols := append([]string{"ts", "message"}, names...)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, r := range records {
		row := make([]string, len(cols))
		if !r.Timestamp.IsZero() {
			row[0] = r.Timestamp.Format(time.RFC3339Nano)
		}
		row[1] = r.Message
		for i, n := range names {
			row[i+2] = strings.Join(r.MetaValues(n), "|")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ToNDJSON(w io.Writer, records []model.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ToFile writes records to path in the given format.
func ToFile(path string, f Format, records []model.Record) (err error) {
	if len(records) == 0 {
		return ErrNoRecords
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	switch f {
	case FormatCSV:
		return ToCSV(out, records)
	case FormatNDJSON:
		return ToNDJSON(out, records)
	}
	return fmt.Errorf("unsupported export format %q", f)
}
