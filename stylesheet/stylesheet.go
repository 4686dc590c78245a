// Package stylesheet resolves tag, class and id rules into the attribute
// bag a node is created with.
//
// A sheet is a YAML mapping from selector keys to attribute bags:
//
//	Label:
//	  color: "#333"
//	.title:
//	  font: bold
//	"#header":
//	  height: 44
package stylesheet

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sheet maps "Tag", ".class" and "#id" keys to attribute bags. The zero value
// and a nil *Sheet are empty sheets.
type Sheet struct {
	rules map[string]map[string]any
}

// New returns an empty sheet.
func New() *Sheet {
	return &Sheet{rules: make(map[string]map[string]any)}
}

// Parse decodes a YAML sheet.
func Parse(data []byte) (*Sheet, error) {
	var rules map[string]map[string]any
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("stylesheet: %w", err)
	}
	s := New()
	for k, v := range rules {
		s.Set(k, v)
	}
	return s, nil
}

// Load decodes a YAML sheet from r.
func Load(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stylesheet: %w", err)
	}
	return Parse(data)
}

// LoadFile decodes the YAML sheet at path.
func LoadFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stylesheet: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Set replaces the rule for key.
func (s *Sheet) Set(key string, attrs map[string]any) {
	if s.rules == nil {
		s.rules = make(map[string]map[string]any)
	}
	s.rules[key] = maps.Clone(attrs)
}

// Rule returns the bag for key.
func (s *Sheet) Rule(key string) (map[string]any, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.rules[key]
	return r, ok
}

// Len returns the number of rules.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Merge returns a new sheet with the rules of s overlaid by those of o.
// Bags for the same key are merged attribute by attribute.
func (s *Sheet) Merge(o *Sheet) *Sheet {
	out := New()
	for _, src := range []*Sheet{s, o} {
		if src == nil {
			continue
		}
		for k, bag := range src.rules {
			merged := out.rules[k]
			if merged == nil {
				merged = make(map[string]any, len(bag))
			}
			maps.Copy(merged, bag)
			out.rules[k] = merged
		}
	}
	return out
}

// Resolve builds the property bag for a node of the given tag. Bags are
// applied in order: tag, each class, id, then attrs itself. A "stylesheet"
// entry in attrs overlays s for this call only. "className" and "id" are
// returned as metadata and left out of the bag.
func (s *Sheet) Resolve(tag string, attrs map[string]any) (map[string]any, string, string) {
	sheet := s
	if local, ok := attrs["stylesheet"]; ok {
		sheet = s.Merge(fromValue(local))
	}

	className := stringValue(attrs["className"])
	id := stringValue(attrs["id"])

	props := make(map[string]any)
	if r, ok := sheet.Rule(tag); ok {
		maps.Copy(props, r)
	}
	for _, c := range strings.Fields(className) {
		if r, ok := sheet.Rule("." + c); ok {
			maps.Copy(props, r)
		}
	}
	if id != "" {
		if r, ok := sheet.Rule("#" + id); ok {
			maps.Copy(props, r)
		}
	}
	for k, v := range attrs {
		switch k {
		case "className", "id", "stylesheet":
		default:
			props[k] = v
		}
	}
	return props, className, id
}

// fromValue accepts a *Sheet or a mapping of rules as found in attribute
// bags.
func fromValue(v any) *Sheet {
	switch x := v.(type) {
	case *Sheet:
		return x
	case map[string]map[string]any:
		s := New()
		for k, bag := range x {
			s.Set(k, bag)
		}
		return s
	case map[string]any:
		s := New()
		for k, bag := range x {
			if m, ok := bag.(map[string]any); ok {
				s.Set(k, m)
			}
		}
		return s
	}
	return nil
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
