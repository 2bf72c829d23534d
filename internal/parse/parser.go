package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"logpane/internal/model"
)

type Parser interface {
	Parse(line, source string) model.Record
}

func NewParser(s model.Schema, forcedLayout string) (Parser, error) {
	layout := fallbackLayout(s.TimeLayout, forcedLayout)
	switch s.ParseStrategy {
	case "json":
		return &JSONParser{schema: s, layout: layout}, nil
	case "logfmt", "kv":
		return &LogfmtParser{schema: s, layout: layout}, nil
	}
	return NewRegexParser(s, forcedLayout)
}

func fallbackLayout(a, forced string) string {
	if forced != "" {
		return forced
	}
	if a != "" {
		return a
	}
	return time.RFC3339
}

var (
	messageKeys = []string{"msg", "message", "log"}
	timeKeys    = []string{"ts", "time", "timestamp"}
	levelKeys   = []string{"level", "lvl", "severity"}
)

// builder collects fields and turns them into a record. Message, time and
// level keys are lifted out; everything else becomes metadata.
type builder struct {
	schema model.Schema
	layout string
	fields map[string][]string
}

func newBuilder(s model.Schema, layout string) *builder {
	return &builder{schema: s, layout: layout, fields: map[string][]string{}}
}

func (b *builder) add(name, value string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	b.fields[name] = append(b.fields[name], value)
}

// addAny flattens a decoded JSON value. Arrays fan out into repeated names,
// objects into dotted names.
func (b *builder) addAny(name string, v any) {
	switch t := v.(type) {
	case nil:
	case string:
		b.add(name, t)
	case float64:
		b.add(name, strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		b.add(name, strconv.FormatBool(t))
	case []any:
		for _, it := range t {
			b.addAny(name, it)
		}
	case map[string]any:
		for k, it := range t {
			b.addAny(name+"."+k, it)
		}
	default:
		b.add(name, fmt.Sprint(t))
	}
}

func (b *builder) take(keys []string) string {
	for _, k := range keys {
		if vs, ok := b.fields[k]; ok && len(vs) > 0 {
			delete(b.fields, k)
			return vs[0]
		}
	}
	return ""
}

func (b *builder) build(line, source string) model.Record {
	r := model.Record{Raw: line, Source: source}
	r.Message = b.take(messageKeys)
	if r.Message == "" {
		r.Message = line
	}
	if ts := b.take(timeKeys); ts != "" {
		if t, err := time.Parse(b.layout, ts); err == nil {
			r.Timestamp = t
		} else {
			b.add("ts", ts)
		}
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if lvl := b.take(levelKeys); lvl != "" {
		r.Metadata = append(r.Metadata, model.Meta{Name: "level", Value: normalizeLevel(b.schema, lvl)})
	}
	names := make([]string, 0, len(b.fields))
	for k := range b.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		for _, v := range b.fields[k] {
			r.Metadata = append(r.Metadata, model.Meta{Name: k, Value: v})
		}
	}
	return r
}

// JSON lines
type JSONParser struct {
	schema model.Schema
	layout string
}

func (p *JSONParser) Parse(line, source string) model.Record {
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		return newBuilder(p.schema, p.layout).build(line, source)
	}
	b := newBuilder(p.schema, p.layout)
	// Container runtimes wrap the application's own JSON in a string field
	// such as `log`; merge its keys so they become metadata too.
	for _, key := range messageKeys {
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		t := strings.TrimSpace(s)
		if !strings.HasPrefix(t, "{") || !strings.HasSuffix(t, "}") {
			continue
		}
		var inner map[string]any
		if err := json.Unmarshal([]byte(t), &inner); err == nil {
			delete(m, key)
			for k, v := range inner {
				if _, exists := m[k]; !exists {
					m[k] = v
				}
			}
			break
		}
	}
	for k, v := range m {
		b.addAny(k, v)
	}
	return b.build(line, source)
}

// Regex parser
type RegexParser struct {
	schema model.Schema
	layout string
	re     *regexp.Regexp
}

func NewRegexParser(s model.Schema, forced string) (Parser, error) {
	p := &RegexParser{schema: s, layout: fallbackLayout(s.TimeLayout, forced)}
	if s.RegexPattern == "" {
		return p, nil
	}
	re, err := regexp.Compile(s.RegexPattern)
	if err != nil {
		return p, fmt.Errorf("compile %s pattern: %w", s.FormatName, err)
	}
	p.re = re
	return p, nil
}

func (p *RegexParser) Parse(line, source string) model.Record {
	b := newBuilder(p.schema, p.layout)
	if p.re == nil {
		return b.build(line, source)
	}
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return b.build(line, source)
	}
	for i, name := range p.re.SubexpNames() {
		if i == 0 || name == "" || m[i] == "" {
			continue
		}
		b.add(name, m[i])
	}
	return b.build(line, source)
}

// logfmt parser (very basic, supports quoted values)
type LogfmtParser struct {
	schema model.Schema
	layout string
}

func (p *LogfmtParser) Parse(line, source string) model.Record {
	b := newBuilder(p.schema, p.layout)
	for _, kv := range splitLogfmt(line) {
		b.add(kv[0], kv[1])
	}
	return b.build(line, source)
}

func splitLogfmt(s string) [][2]string {
	var res [][2]string
	var cur strings.Builder
	inQuote := false
	key := ""
	haveKey := false
	flush := func() {
		if haveKey && key != "" {
			res = append(res, [2]string{key, cur.String()})
		}
		key, haveKey = "", false
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuote && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
		case !inQuote && (c == ' ' || c == '\t'):
			flush()
		case !inQuote && c == '=' && !haveKey:
			key = cur.String()
			haveKey = true
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return res
}

func normalizeLevel(s model.Schema, lvl string) string {
	l := strings.ToUpper(strings.TrimSpace(lvl))
	for k, v := range s.LevelMapping {
		if strings.ToUpper(k) == l {
			return strings.ToUpper(v)
		}
	}
	switch l {
	case "WARN", "WARNING":
		return "WARN"
	case "ERROR", "ERR":
		return "ERROR"
	case "FATAL", "CRITICAL":
		return "FATAL"
	}
	return l
}
