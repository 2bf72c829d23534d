package filter

import "testing"

func TestParseQuery(t *testing.T) {
	if ParseQuery("   ") != nil {
		t.Fatalf("empty query should be nil")
	}

	s := ParseQuery("level=WARN  disk full")
	if len(s.Metadata) != 1 || s.Metadata[0] != (Constraint{"level", "WARN"}) {
		t.Fatalf("metadata: %+v", s.Metadata)
	}
	if s.Message == nil || s.Message.Mode != ModeLoose || s.Message.Value != "disk full" {
		t.Fatalf("message: %+v", s.Message)
	}

	s = ParseQuery("/time(out|d)/i")
	if s.Message.Mode != ModeRegex || s.Message.Value != "/time(out|d)/i" {
		t.Fatalf("regex: %+v", s.Message)
	}

	s = ParseQuery("=Disk Full ")
	if s.Message.Mode != ModeStrict || s.Message.Value != "Disk Full" {
		t.Fatalf("strict: %+v", s.Message)
	}

	s = ParseQuery(`? status >= 500`)
	if s.Expr != "status >= 500" || s.Message != nil {
		t.Fatalf("expr: %+v", s)
	}
}

func TestSpecStringRoundTrip(t *testing.T) {
	for _, q := range []string{"level=WARN disk full", "/x+/i", "=Exact", "?a == 1"} {
		if got := ParseQuery(q).String(); got != q {
			t.Errorf("%q rendered as %q", q, got)
		}
	}
}
