package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"logpane/internal/model"
)

type Mode string

const (
	ModeLoose  Mode = "loose"
	ModeStrict Mode = "strict"
	ModeRegex  Mode = "regex"
)

type MessageFilter struct {
	Mode  Mode
	Value string
}

// Constraint requires a metadata entry Name with the given Value.
type Constraint struct {
	Name  string
	Value string
}

type Spec struct {
	Message  *MessageFilter
	Metadata []Constraint
	Expr     string // govaluate expression over metadata, message and ts
}

// Empty reports whether s constrains nothing.
func (s *Spec) Empty() bool {
	if s == nil {
		return true
	}
	msgEmpty := s.Message == nil || s.Message.Value == "" ||
		(s.Message.Mode != ModeStrict && s.Message.Mode != ModeRegex && strings.TrimSpace(s.Message.Value) == "")
	return msgEmpty && len(s.Metadata) == 0 && strings.TrimSpace(s.Expr) == ""
}

type Predicate func(model.Record) bool

func All(model.Record) bool  { return true }
func None(model.Record) bool { return false }

// Build compiles spec into a predicate. A nil spec matches everything.
// Patterns or expressions that fail to compile match nothing.
func Build(s *Spec) Predicate {
	if s == nil {
		return All
	}
	msg := messagePredicate(s.Message)
	meta := metadataPredicate(s.Metadata)
	expr := exprPredicate(s.Expr)
	return func(r model.Record) bool {
		return msg(r) && meta(r) && expr(r)
	}
}

func messagePredicate(f *MessageFilter) Predicate {
	if f == nil {
		return All
	}
	switch f.Mode {
	case ModeStrict:
		v := f.Value
		return func(r model.Record) bool { return strings.Contains(r.Message, v) }
	case ModeRegex:
		re, err := CompileRegex(f.Value)
		if err != nil {
			return None
		}
		return func(r model.Record) bool { return re.MatchString(r.Message) }
	default:
		tokens := looseTokens(f.Value)
		if len(tokens) == 0 {
			return All
		}
		return func(r model.Record) bool {
			msg := strings.ToLower(r.Message)
			for _, t := range tokens {
				if !strings.Contains(msg, t) {
					return false
				}
			}
			return true
		}
	}
}

func looseTokens(v string) []string {
	v = strings.ToLower(strings.TrimSpace(v))
	var out []string
	for _, t := range strings.Split(v, " ") {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

var reWrapped = regexp.MustCompile(`^/(.*)/([a-z]*)$`)

// CompileRegex accepts either a bare pattern or the /pattern/flags form.
// Flags i, m and s map to Go inline flags; g, u and y are ignored.
func CompileRegex(v string) (*regexp.Regexp, error) {
	pattern := v
	if m := reWrapped.FindStringSubmatch(v); m != nil {
		pattern = m[1]
		inline := ""
		for _, f := range m[2] {
			switch f {
			case 'i', 'm', 's':
				if !strings.ContainsRune(inline, f) {
					inline += string(f)
				}
			case 'g', 'u', 'y':
			default:
				return nil, fmt.Errorf("invalid regex flag %q", f)
			}
		}
		if inline != "" {
			pattern = "(?" + inline + ")" + pattern
		}
	}
	return regexp.Compile(pattern)
}

// metadataPredicate ORs values within a name and ANDs across names.
func metadataPredicate(cs []Constraint) Predicate {
	if len(cs) == 0 {
		return All
	}
	var names []string
	allowed := map[string]map[string]bool{}
	for _, c := range cs {
		set, ok := allowed[c.Name]
		if !ok {
			set = map[string]bool{}
			allowed[c.Name] = set
			names = append(names, c.Name)
		}
		set[c.Value] = true
	}
	return func(r model.Record) bool {
		for _, name := range names {
			set := allowed[name]
			hit := false
			for _, m := range r.Metadata {
				if m.Name == name && set[m.Value] {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		}
		return true
	}
}

func exprPredicate(src string) Predicate {
	if strings.TrimSpace(src) == "" {
		return All
	}
	expr, err := govaluate.NewEvaluableExpression(src)
	if err != nil {
		return None
	}
	return func(r model.Record) bool {
		params := map[string]any{}
		for _, m := range r.Metadata {
			params[m.Name] = scalar(m.Value)
		}
		params["message"] = r.Message
		if !r.Timestamp.IsZero() {
			params["ts"] = r.Timestamp.Format("2006-01-02T15:04:05Z07:00")
		}
		result, err := expr.Evaluate(params)
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		return ok && b
	}
}

// scalar lets numeric metadata take part in govaluate comparisons.
func scalar(v string) any {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
