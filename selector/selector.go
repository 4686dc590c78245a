// Package selector implements the restricted selector grammar used to query
// the immediate children of a node.
//
// A selector is a whitespace separated list of clauses:
//
//	Tag         tag equality
//	.class      class token membership
//	#id         user id equality (first match only)
//	[attr]      property presence
//	[attr=val]  property equality
//
// Each clause is evaluated against the same set of children and the results
// are unioned in first-seen order. There are no combinators.
package selector

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/tdollar/element"
)

// Kind identifies a clause type.
type Kind int

const (
	KindTag Kind = iota
	KindClass
	KindID
	KindAttribute
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindClass:
		return "class"
	case KindID:
		return "id"
	case KindAttribute:
		return "attribute"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Clause is one selector term.
type Clause struct {
	Kind Kind
	Name string
	// Value and HasValue are set for [attr=value] clauses.
	Value    string
	HasValue bool
}

func (c Clause) String() string {
	switch c.Kind {
	case KindClass:
		return "." + c.Name
	case KindID:
		return "#" + c.Name
	case KindAttribute:
		if c.HasValue {
			return "[" + c.Name + "=" + c.Value + "]"
		}
		return "[" + c.Name + "]"
	}
	return c.Name
}

// Node is what a clause can be matched against.
type Node interface {
	ID() string
	Tag() string
	IDAttr() string
	HasClass(name string) bool
	Property(name string) (any, bool)
}

// Match reports whether n satisfies the clause.
func (c Clause) Match(n Node) bool {
	switch c.Kind {
	case KindTag:
		return n.Tag() == c.Name
	case KindClass:
		return n.HasClass(c.Name)
	case KindID:
		return c.Name != "" && n.IDAttr() == c.Name
	case KindAttribute:
		v, ok := n.Property(c.Name)
		if !ok {
			return false
		}
		if !c.HasValue {
			return true
		}
		return fmt.Sprint(v) == c.Value
	}
	return false
}

// Selector is a parsed clause list.
type Selector []Clause

func (s Selector) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Parse splits a selector string into clauses. It never fails: malformed
// bracket clauses have their brackets stripped and a clause without "=" is
// a presence test.
func Parse(s string) Selector {
	fields := strings.Fields(s)
	sel := make(Selector, 0, len(fields))
	for _, f := range fields {
		sel = append(sel, parseClause(f))
	}
	return sel
}

func parseClause(f string) Clause {
	switch f[0] {
	case '#':
		return Clause{Kind: KindID, Name: f[1:]}
	case '.':
		return Clause{Kind: KindClass, Name: f[1:]}
	case '[':
		text := strings.NewReplacer("[", "", "]", "").Replace(f)
		name, value, ok := strings.Cut(text, "=")
		c := Clause{Kind: KindAttribute, Name: strings.TrimSpace(name)}
		if ok {
			c.Value = unquote(strings.TrimSpace(value))
			c.HasValue = true
		}
		return c
	}
	return Clause{Kind: KindTag, Name: f}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// Compile parses v, which must be a string.
func Compile(v any) (Selector, error) {
	s, ok := v.(string)
	if !ok {
		return nil, element.ErrInvalidSelector(fmt.Sprintf("only strings can be used as selectors, got %T", v))
	}
	return Parse(s), nil
}

// Filter evaluates sel against children and returns the union of matches,
// ordered by first sighting and de-duplicated by ID. Children without an ID
// are never matched.
func Filter[N Node](children []N, sel Selector) []N {
	var out []N
	seen := make(map[string]bool)
	for _, c := range sel {
		for _, child := range children {
			id := child.ID()
			if id == "" || !c.Match(child) {
				continue
			}
			if !seen[id] {
				seen[id] = true
				out = append(out, child)
			}
			if c.Kind == KindID {
				break
			}
		}
	}
	return out
}
