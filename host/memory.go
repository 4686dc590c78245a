package host

import (
	"fmt"
	"sort"
)

// DefaultTags are the tags the in-memory host creates out of the box.
var DefaultTags = []string{
	Window, View, ScrollView, Label, Button, TextField, ImageView,
	TabGroup, Tab, TableView, TableViewSection, TableViewRow,
}

// Memory is a host that keeps the whole tree in process memory. It backs the
// CLI, the script runner and most tests.
type Memory struct {
	tags map[string]bool
}

// NewMemory returns a Memory host creating the given tags, or DefaultTags
// when none are given.
func NewMemory(tags ...string) *Memory {
	if len(tags) == 0 {
		tags = DefaultTags
	}
	m := &Memory{tags: make(map[string]bool, len(tags))}
	for _, t := range tags {
		m.tags[t] = true
	}
	return m
}

// Tags returns the supported tags in sorted order.
func (m *Memory) Tags() []string {
	out := make([]string, 0, len(m.tags))
	for t := range m.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Create builds a MemoryNode. The property bag is copied.
func (m *Memory) Create(tag string, props map[string]any) (Node, error) {
	if !m.tags[tag] {
		return nil, fmt.Errorf("memory host: no factory for %q", tag)
	}
	n := &MemoryNode{
		typ:       tag,
		props:     make(map[string]any, len(props)),
		listeners: make(map[string][]EventListener),
		visible:   true,
	}
	for k, v := range props {
		if err := n.Set(k, v); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// MemoryNode is a node of the Memory host. It implements every optional
// interface in this package.
type MemoryNode struct {
	typ       string
	props     map[string]any
	children  []Node
	tabs      []Node
	rows      []Node
	data      []Node
	window    Node
	listeners map[string][]EventListener
	visible   bool
	opened    bool
}

func (n *MemoryNode) Type() string { return n.typ }

// Get reads a property. "children", "tabs", "rows", "data", "window",
// "visible" and "opened" reflect structural state rather than the bag.
func (n *MemoryNode) Get(name string) (any, bool) {
	switch name {
	case "children":
		return copyNodes(n.children), true
	case "tabs":
		return copyNodes(n.tabs), true
	case "rows":
		return copyNodes(n.rows), true
	case "data":
		return copyNodes(n.data), true
	case "window":
		return n.window, n.window != nil
	case "visible":
		return n.visible, true
	case "opened":
		return n.opened, true
	}
	v, ok := n.props[name]
	return v, ok
}

// Set writes a property.
func (n *MemoryNode) Set(name string, value any) error {
	switch name {
	case "children", "tabs", "rows", "opened":
		return fmt.Errorf("memory host: %s is read-only", name)
	case "data":
		switch v := value.(type) {
		case nil:
			n.data = nil
		case []Node:
			n.data = copyNodes(v)
		default:
			return fmt.Errorf("memory host: data must be []host.Node, got %T", value)
		}
		return nil
	case "window":
		if value == nil {
			n.window = nil
			return nil
		}
		w, ok := value.(Node)
		if !ok {
			return fmt.Errorf("memory host: window must be a host.Node, got %T", value)
		}
		n.window = w
		return nil
	case "visible":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("memory host: visible must be bool, got %T", value)
		}
		n.visible = b
		return nil
	}
	n.props[name] = value
	return nil
}

// Props returns a copy of the plain property bag.
func (n *MemoryNode) Props() map[string]any {
	out := make(map[string]any, len(n.props))
	for k, v := range n.props {
		out[k] = v
	}
	return out
}

func (n *MemoryNode) Children() []Node { return copyNodes(n.children) }

func (n *MemoryNode) Add(child Node) error {
	if child == nil {
		return fmt.Errorf("memory host: add nil child to %s", n.typ)
	}
	n.children = append(n.children, child)
	return nil
}

func (n *MemoryNode) Remove(child Node) error {
	if child == nil {
		return fmt.Errorf("memory host: remove nil child from %s", n.typ)
	}
	var ok bool
	n.children, ok = without(n.children, child)
	if !ok {
		return fmt.Errorf("memory host: %s is not a child of %s", child.Type(), n.typ)
	}
	return nil
}

func (n *MemoryNode) AddTab(tab Node) error {
	n.tabs = append(n.tabs, tab)
	return nil
}

func (n *MemoryNode) RemoveTab(tab Node) error {
	var ok bool
	n.tabs, ok = without(n.tabs, tab)
	if !ok {
		return fmt.Errorf("memory host: tab is not in %s", n.typ)
	}
	return nil
}

func (n *MemoryNode) AddRow(row Node) error {
	n.rows = append(n.rows, row)
	return nil
}

func (n *MemoryNode) RemoveRow(row Node) error {
	var ok bool
	n.rows, ok = without(n.rows, row)
	if !ok {
		return fmt.Errorf("memory host: row is not in %s", n.typ)
	}
	return nil
}

func (n *MemoryNode) OpenWindow(win Node) error {
	if n.window != win {
		return fmt.Errorf("memory host: window does not belong to %s", n.typ)
	}
	if m, ok := win.(*MemoryNode); ok {
		m.opened = true
	}
	return nil
}

func (n *MemoryNode) CloseWindow(win Node) error {
	if m, ok := win.(*MemoryNode); ok {
		m.opened = false
	}
	return nil
}

func (n *MemoryNode) Open() error {
	n.opened = true
	return nil
}

func (n *MemoryNode) Close() error {
	n.opened = false
	return nil
}

// AddEventListener registers l for name. Registering the same listener twice
// is a no-op.
func (n *MemoryNode) AddEventListener(name string, l EventListener) {
	for _, existing := range n.listeners[name] {
		if existing == l {
			return
		}
	}
	n.listeners[name] = append(n.listeners[name], l)
}

func (n *MemoryNode) RemoveEventListener(name string, l EventListener) {
	list := n.listeners[name]
	for i, existing := range list {
		if existing == l {
			n.listeners[name] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(n.listeners[name]) == 0 {
		delete(n.listeners, name)
	}
}

// ListenerCount returns the number of listeners registered for name.
func (n *MemoryNode) ListenerCount(name string) int {
	return len(n.listeners[name])
}

// Dispatch delivers an event to a snapshot of the listeners registered for
// name at the time of the call.
func (n *MemoryNode) Dispatch(name string, data ...any) {
	listeners := make([]EventListener, len(n.listeners[name]))
	copy(listeners, n.listeners[name])
	e := &Event{Type: name, Source: n, Data: data}
	for _, l := range listeners {
		l.HandleEvent(e)
	}
}

func (n *MemoryNode) SetVisible(visible bool) { n.visible = visible }

func (n *MemoryNode) Visible() bool { return n.visible }

func copyNodes(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

func without(nodes []Node, target Node) ([]Node, bool) {
	for i, n := range nodes {
		if n == target {
			return append(nodes[:i:i], nodes[i+1:]...), true
		}
	}
	return nodes, false
}
