// Package element decorates host nodes with the identity and metadata the
// rest of tdollar relies on: a process-unique id, the tag, the class string,
// the user id and a back-reference to the parent.
package element

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/tdollar/host"
)

// Element is a decorated host node. The host owns the node; Element only
// holds secondary metadata about it.
type Element struct {
	id        string
	tag       string
	className string
	idAttr    string

	parent *Element
	// group is the containing group (a tab holding a window). It is set
	// alongside parent and cleared with it.
	group *Element

	// visible caches the last visibility set through this element. nil
	// means it was never set.
	visible *bool

	node host.Node
}

// ID returns the process-unique identifier, or "" for a nil element.
func (e *Element) ID() string {
	if e == nil {
		return ""
	}
	return e.id
}

func (e *Element) Tag() string       { return e.tag }
func (e *Element) ClassName() string { return e.className }
func (e *Element) IDAttr() string    { return e.idAttr }
func (e *Element) Node() host.Node   { return e.node }
func (e *Element) Parent() *Element  { return e.parent }
func (e *Element) Group() *Element   { return e.group }

// Valid reports whether e is a decorated element.
func (e *Element) Valid() bool {
	return e != nil && e.id != "" && e.node != nil
}

// Classes returns the class tokens in order, without duplicates.
func (e *Element) Classes() []string {
	fields := strings.Fields(e.className)
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// HasClass reports whether name is one of the class tokens. Empty names and
// names containing whitespace never match.
func (e *Element) HasClass(name string) bool {
	if name == "" || strings.ContainsAny(name, " \t\n\r\f") {
		return false
	}
	for _, c := range strings.Fields(e.className) {
		if c == name {
			return true
		}
	}
	return false
}

// SetParent records p as the parent.
func (e *Element) SetParent(p *Element) {
	e.parent = p
}

// SetGroup records g as the containing group.
func (e *Element) SetGroup(g *Element) {
	e.group = g
}

// ClearParent drops the parent and the containing group.
func (e *Element) ClearParent() {
	e.parent = nil
	e.group = nil
}

// BackfillID copies the host "id" property into the user id when none was
// recorded yet.
func (e *Element) BackfillID() {
	if e.idAttr != "" || e.node == nil {
		return
	}
	if v, ok := e.node.Get("id"); ok {
		if s, ok := v.(string); ok {
			e.idAttr = s
		}
	}
}

// Get reads a property. "className" and "id" come from metadata; the rest
// is forwarded to the host node.
func (e *Element) Get(name string) (any, bool) {
	switch name {
	case "className":
		return e.className, true
	case "id":
		if e.idAttr != "" {
			return e.idAttr, true
		}
	}
	if e.node == nil {
		return nil, false
	}
	return e.node.Get(name)
}

// Property is Get under the name the selector engine expects.
func (e *Element) Property(name string) (any, bool) {
	return e.Get(name)
}

// Set writes a property. "className" and "id" update metadata only; the
// rest is forwarded to the host node.
func (e *Element) Set(name string, value any) error {
	switch name {
	case "className":
		e.className = stringOf(value)
		return nil
	case "id":
		e.idAttr = stringOf(value)
		return nil
	case "visible":
		if b, ok := value.(bool); ok {
			e.SetVisible(b)
			return nil
		}
	}
	if e.node == nil {
		return fmt.Errorf("element %s has no host node", e.id)
	}
	return e.node.Set(name, value)
}

// SetVisible forwards to the host and caches the value.
func (e *Element) SetVisible(v bool) {
	e.visible = &v
	if e.node != nil {
		e.node.SetVisible(v)
	}
}

// Visible reports visibility. Hosts that report their own state are
// asked directly; otherwise the cached value is used, defaulting to visible.
// The cache can drift from the host when visibility changes elsewhere.
func (e *Element) Visible() bool {
	if r, ok := e.node.(host.VisibilityReporter); ok {
		return r.Visible()
	}
	if e.visible == nil {
		return true
	}
	return *e.visible
}

func (e *Element) AddEventListener(name string, l host.EventListener) {
	e.node.AddEventListener(name, l)
}

func (e *Element) RemoveEventListener(name string, l host.EventListener) {
	e.node.RemoveEventListener(name, l)
}

func (e *Element) String() string {
	var sb strings.Builder
	sb.WriteString(e.tag)
	if e.idAttr != "" {
		sb.WriteString("#" + e.idAttr)
	}
	for _, c := range e.Classes() {
		sb.WriteString("." + c)
	}
	return sb.String()
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
