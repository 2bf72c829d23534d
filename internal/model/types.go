package model

import (
	"encoding/json"
	"sort"
	"time"
)

// Meta is one metadata pair attached to a record. Names may repeat.
type Meta struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Record struct {
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Message   string    `json:"message"`
	Metadata  []Meta    `json:"metadata,omitempty"`
	Raw       string    `json:"raw,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// MetaValues returns every value stored under name, in order.
func (r Record) MetaValues(name string) []string {
	var out []string
	for _, m := range r.Metadata {
		if m.Name == name {
			out = append(out, m.Value)
		}
	}
	return out
}

func (r Record) HasMeta(name, value string) bool {
	for _, m := range r.Metadata {
		if m.Name == name && m.Value == value {
			return true
		}
	}
	return false
}

// MetaMap flattens metadata into a map. Repeated names keep the last value.
func (r Record) MetaMap() map[string]any {
	out := make(map[string]any, len(r.Metadata))
	for _, m := range r.Metadata {
		out[m.Name] = m.Value
	}
	return out
}

// MetaNames returns the distinct metadata names of all records, sorted.
func MetaNames(records []Record) []string {
	set := map[string]struct{}{}
	for _, r := range records {
		for _, m := range r.Metadata {
			set[m.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r Record) PrettyJSON() string {
	b, _ := json.MarshalIndent(r, "", "  ")
	return string(b)
}

// Schema describes how raw lines are turned into records.
type Schema struct {
	FormatName    string            `json:"formatName"`
	ParseStrategy string            `json:"parseStrategy"` // json|regex|logfmt|kv
	TimeLayout    string            `json:"timeLayout"`
	LevelMapping  map[string]string `json:"levelMapping"`
	RegexPattern  string            `json:"regexPattern,omitempty"`
}
