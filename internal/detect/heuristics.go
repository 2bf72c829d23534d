package detect

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"logpane/internal/model"
)

var (
	reApacheCombined = regexp.MustCompile(`^\S+ \S+ \S+ \[[^\]]+\] "[A-Z]+ [^\s]+ [^"]+" \d{3} \d+ "[^"]*" "[^"]*"`)
	reSyslogRFC5424  = regexp.MustCompile(`^<\d+>1 \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	reLogfmtKV       = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*=`)
)

type Guess struct {
	Schema     model.Schema
	Confidence float64
}

type counts struct {
	lines, json, logfmt, apache, syslog int
}

func tally(sample []string) counts {
	var c counts
	for _, l := range sample {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		c.lines++
		switch {
		case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
			c.json++
		case reApacheCombined.MatchString(s):
			c.apache++
		case reSyslogRFC5424.MatchString(s):
			c.syslog++
		case reLogfmtKV.MatchString(s):
			c.logfmt++
		}
	}
	return c
}

// Heuristics picks a schema from a small sample of raw lines. The format
// matching at least half of the non-empty lines wins; apache and syslog
// need only a single hit since their patterns are strict.
func Heuristics(sample []string) Guess {
	c := tally(sample)
	switch {
	case c.lines == 0:
		return Guess{Schema: unknownSchema()}
	case c.json*2 >= c.lines && c.json >= c.logfmt:
		return Guess{Schema: jsonSchema(), Confidence: conf(c.lines, c.json)}
	case c.logfmt*2 >= c.lines && c.logfmt >= c.apache && c.logfmt >= c.syslog:
		return Guess{Schema: logfmtSchema(), Confidence: conf(c.lines, c.logfmt)}
	case c.apache > 0 && c.apache >= c.syslog:
		return Guess{Schema: apacheSchema(), Confidence: conf(c.lines, c.apache)}
	case c.syslog > 0:
		return Guess{Schema: syslogSchema(), Confidence: conf(c.lines, c.syslog)}
	}
	return Guess{Schema: unknownSchema()}
}

// Forced returns the schema for a --format value.
func Forced(name string) (model.Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "json_lines":
		return jsonSchema(), nil
	case "logfmt", "kv":
		return logfmtSchema(), nil
	case "apache":
		return apacheSchema(), nil
	case "syslog":
		return syslogSchema(), nil
	case "text", "plain":
		return unknownSchema(), nil
	}
	return model.Schema{}, fmt.Errorf("unknown format %q", name)
}

func conf(lines, hits int) float64 {
	if lines == 0 {
		return 0
	}
	return float64(hits) / float64(lines)
}

func jsonSchema() model.Schema {
	return model.Schema{
		FormatName:    "json_lines",
		ParseStrategy: "json",
		TimeLayout:    time.RFC3339,
		LevelMapping:  map[string]string{"warn": "WARN", "warning": "WARN", "info": "INFO", "error": "ERROR", "debug": "DEBUG", "fatal": "FATAL", "trace": "TRACE"},
	}
}

func logfmtSchema() model.Schema {
	return model.Schema{
		FormatName:    "logfmt",
		ParseStrategy: "logfmt",
		TimeLayout:    time.RFC3339,
		LevelMapping:  map[string]string{"warn": "WARN", "warning": "WARN", "info": "INFO", "error": "ERROR", "debug": "DEBUG", "fatal": "FATAL", "trace": "TRACE"},
	}
}

func apacheSchema() model.Schema {
	return model.Schema{
		FormatName:    "apache_combined",
		ParseStrategy: "regex",
		RegexPattern:  `^(?P<ip>\S+) \S+ \S+ \[(?P<ts>[^\]]+)\] "(?P<method>[A-Z]+) (?P<path>[^\s]+) [^"]+" (?P<status>\d{3}) (?P<size>\d+) "(?P<ref>[^"]*)" "(?P<ua>[^"]*)"`,
		TimeLayout:    "02/Jan/2006:15:04:05 -0700",
	}
}

func syslogSchema() model.Schema {
	return model.Schema{
		FormatName:    "syslog_rfc5424",
		ParseStrategy: "regex",
		RegexPattern:  `^<(?P<pri>\d+)>1 (?P<ts>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})) (?P<host>\S+) (?P<app>\S+) \S+ \S+ - (?P<msg>.*)$`,
		TimeLayout:    time.RFC3339,
	}
}

func unknownSchema() model.Schema {
	return model.Schema{FormatName: "unknown", ParseStrategy: "regex", RegexPattern: `^(?P<msg>.*)$`}
}
