package filter

import (
	"regexp"
	"strings"
)

var reConstraint = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.\-]*)=(.+)$`)

// ParseQuery turns the filter bar text into a Spec.
//
//	?level == "ERROR"      govaluate expression
//	=Exact Text            strict substring
//	/time(out|d)/i         regex
//	level=WARN disk full   metadata constraints plus loose tokens
//
// An empty query yields nil, which matches everything.
func ParseQuery(q string) *Spec {
	t := strings.TrimSpace(q)
	switch {
	case t == "":
		return nil
	case strings.HasPrefix(t, "?"):
		return &Spec{Expr: strings.TrimSpace(t[1:])}
	case strings.HasPrefix(t, "="):
		return &Spec{Message: &MessageFilter{Mode: ModeStrict, Value: t[1:]}}
	case len(t) > 2 && reWrapped.MatchString(t):
		return &Spec{Message: &MessageFilter{Mode: ModeRegex, Value: t}}
	}
	s := &Spec{}
	var words []string
	for _, tok := range strings.Fields(t) {
		if m := reConstraint.FindStringSubmatch(tok); m != nil {
			s.Metadata = append(s.Metadata, Constraint{Name: m[1], Value: m[2]})
			continue
		}
		words = append(words, tok)
	}
	if len(words) > 0 {
		s.Message = &MessageFilter{Mode: ModeLoose, Value: strings.Join(words, " ")}
	}
	return s
}

// String renders a spec back into filter bar syntax where possible.
func (s *Spec) String() string {
	if s == nil {
		return ""
	}
	if strings.TrimSpace(s.Expr) != "" {
		return "?" + s.Expr
	}
	var parts []string
	for _, c := range s.Metadata {
		parts = append(parts, c.Name+"="+c.Value)
	}
	if s.Message != nil && s.Message.Value != "" {
		switch s.Message.Mode {
		case ModeStrict:
			return "=" + s.Message.Value
		case ModeRegex:
			v := s.Message.Value
			if !reWrapped.MatchString(v) {
				v = "/" + v + "/"
			}
			return v
		default:
			parts = append(parts, s.Message.Value)
		}
	}
	return strings.Join(parts, " ")
}
