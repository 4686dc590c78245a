// Package ui renders tdollar elements with Fyne. Host creates Fyne widgets
// and containers for the common tags and forwards generic properties to
// them through their Set<Name> methods and exported fields.
package ui

import (
	"errors"
	"fmt"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/chrisuehlinger/tdollar/host"
)

// aliases maps generic property names to the widget property behind them.
var aliases = map[string]map[string]string{
	host.Button:    {"title": "text"},
	host.TextField: {"value": "text", "hintText": "placeHolder"},
}

// Host is a host.Host backed by Fyne widgets.
type Host struct{}

// NewHost returns a Fyne host.
func NewHost() *Host {
	return &Host{}
}

// Tags returns the tags this host can create.
func (h *Host) Tags() []string {
	return []string{
		host.Window, host.View, host.ScrollView, host.Label, host.Button,
		host.TextField, host.TabGroup, host.Tab,
	}
}

// Create builds the widget for tag and applies props in key order.
func (h *Host) Create(tag string, props map[string]any) (host.Node, error) {
	n := &Node{
		tag:       tag,
		props:     make(map[string]any),
		listeners: make(map[string][]host.EventListener),
	}
	switch tag {
	case host.Window, host.View:
		n.box = container.NewVBox()
		n.obj = n.box
	case host.ScrollView:
		n.box = container.NewVBox()
		n.obj = container.NewVScroll(n.box)
	case host.Label:
		n.obj = widget.NewLabel("")
	case host.Button:
		n.obj = widget.NewButton("", func() { n.Dispatch("click") })
	case host.TextField:
		e := widget.NewEntry()
		e.OnChanged = func(s string) { n.Dispatch("change", s) }
		e.OnSubmitted = func(s string) { n.Dispatch("return", s) }
		n.obj = e
	case host.TabGroup:
		n.tabs = container.NewAppTabs()
		n.tabs.OnSelected = func(item *container.TabItem) { n.Dispatch("focus", item.Text) }
		n.obj = n.tabs
	case host.Tab:
		n.item = container.NewTabItem("", container.NewVBox())
	default:
		return nil, fmt.Errorf("fyne host: no widget for %q", tag)
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := n.Set(k, props[k]); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Node is a Fyne-backed host node.
type Node struct {
	tag  string
	obj  fyne.CanvasObject
	box  *fyne.Container
	tabs *container.AppTabs
	item *container.TabItem

	owner    *Node
	children []host.Node
	tabList  []host.Node
	window   *Node

	props     map[string]any
	listeners map[string][]host.EventListener
}

// CanvasObject returns the Fyne object for the node. Tabs have none.
func (n *Node) CanvasObject() fyne.CanvasObject {
	return n.obj
}

func (n *Node) Type() string { return n.tag }

func (n *Node) target() any {
	if n.item != nil {
		return n.item
	}
	return n.obj
}

func (n *Node) alias(name string) string {
	if a, ok := aliases[n.tag][name]; ok {
		return a
	}
	return name
}

// Get reads a property from the widget, falling back to the property bag.
func (n *Node) Get(name string) (any, bool) {
	switch name {
	case "visible":
		return n.Visible(), true
	case "children":
		return append([]host.Node(nil), n.children...), true
	case "tabs":
		return append([]host.Node(nil), n.tabList...), true
	case "window":
		if n.window == nil {
			return nil, false
		}
		return host.Node(n.window), true
	case "title":
		if n.item != nil {
			return n.item.Text, true
		}
	}
	if v, ok := host.Reflect(n.target()).Get(n.alias(name)); ok {
		return v, true
	}
	v, ok := n.props[name]
	return v, ok
}

// Set writes a property to the widget. Names the widget has no accessor for
// are kept in the property bag.
func (n *Node) Set(name string, value any) error {
	switch name {
	case "visible":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("fyne host: visible must be bool, got %T", value)
		}
		n.SetVisible(b)
		return nil
	case "title":
		if n.item != nil {
			n.item.Text = fmt.Sprint(value)
			n.refreshOwner()
			return nil
		}
	case "window":
		return n.setWindow(value)
	}
	err := host.Reflect(n.target()).Set(n.alias(name), value)
	var missing *host.ErrNoAccessor
	if errors.As(err, &missing) {
		n.props[name] = value
		return nil
	}
	return err
}

func (n *Node) setWindow(value any) error {
	if n.item == nil {
		return fmt.Errorf("fyne host: %s cannot hold a window", n.tag)
	}
	if value == nil {
		n.window = nil
		n.item.Content = container.NewVBox()
		n.refreshOwner()
		return nil
	}
	w, ok := value.(*Node)
	if !ok || w.obj == nil {
		return fmt.Errorf("fyne host: window must be a fyne node, got %T", value)
	}
	n.window = w
	n.item.Content = w.obj
	n.refreshOwner()
	return nil
}

func (n *Node) refreshOwner() {
	if n.owner != nil && n.owner.tabs != nil {
		n.owner.tabs.Refresh()
	}
}

func (n *Node) Children() []host.Node {
	return append([]host.Node(nil), n.children...)
}

func (n *Node) Add(child host.Node) error {
	c, ok := child.(*Node)
	if !ok || c.obj == nil {
		return fmt.Errorf("fyne host: cannot add %T", child)
	}
	if n.box == nil {
		return fmt.Errorf("fyne host: %s cannot hold children", n.tag)
	}
	n.box.Add(c.obj)
	n.children = append(n.children, c)
	c.owner = n
	return nil
}

func (n *Node) Remove(child host.Node) error {
	c, ok := child.(*Node)
	if !ok {
		return fmt.Errorf("fyne host: cannot remove %T", child)
	}
	var found bool
	n.children, found = without(n.children, c)
	if !found {
		return fmt.Errorf("fyne host: %s is not a child of %s", c.tag, n.tag)
	}
	if n.box != nil && c.obj != nil {
		n.box.Remove(c.obj)
	}
	c.owner = nil
	return nil
}

func (n *Node) AddTab(tab host.Node) error {
	t, ok := tab.(*Node)
	if !ok || t.item == nil {
		return fmt.Errorf("fyne host: %T is not a tab", tab)
	}
	if n.tabs == nil {
		return fmt.Errorf("fyne host: %s cannot hold tabs", n.tag)
	}
	n.tabs.Append(t.item)
	n.tabList = append(n.tabList, t)
	t.owner = n
	return nil
}

func (n *Node) RemoveTab(tab host.Node) error {
	t, ok := tab.(*Node)
	if !ok || n.tabs == nil {
		return fmt.Errorf("fyne host: cannot remove %T from %s", tab, n.tag)
	}
	var found bool
	n.tabList, found = without(n.tabList, t)
	if !found {
		return fmt.Errorf("fyne host: tab is not in %s", n.tag)
	}
	n.tabs.Remove(t.item)
	t.owner = nil
	return nil
}

// OpenWindow shows the tab's window as the tab content.
func (n *Node) OpenWindow(win host.Node) error {
	w, ok := win.(*Node)
	if !ok || n.item == nil || n.window != w {
		return fmt.Errorf("fyne host: window does not belong to %s", n.tag)
	}
	n.item.Content = w.obj
	w.SetVisible(true)
	if n.owner != nil && n.owner.tabs != nil {
		n.owner.tabs.Select(n.item)
	}
	return nil
}

// CloseWindow hides the tab's window.
func (n *Node) CloseWindow(win host.Node) error {
	w, ok := win.(*Node)
	if !ok {
		return fmt.Errorf("fyne host: cannot close %T", win)
	}
	w.SetVisible(false)
	return nil
}

// Open shows a top-level node.
func (n *Node) Open() error {
	n.SetVisible(true)
	return nil
}

// Close hides a top-level node.
func (n *Node) Close() error {
	n.SetVisible(false)
	return nil
}

func (n *Node) AddEventListener(name string, l host.EventListener) {
	for _, existing := range n.listeners[name] {
		if existing == l {
			return
		}
	}
	n.listeners[name] = append(n.listeners[name], l)
}

func (n *Node) RemoveEventListener(name string, l host.EventListener) {
	list := n.listeners[name]
	for i, existing := range list {
		if existing == l {
			n.listeners[name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Dispatch delivers name to the listeners registered when it is called.
func (n *Node) Dispatch(name string, data ...any) {
	listeners := append([]host.EventListener(nil), n.listeners[name]...)
	e := &host.Event{Type: name, Source: n, Data: data}
	for _, l := range listeners {
		l.HandleEvent(e)
	}
}

func (n *Node) SetVisible(visible bool) {
	if n.obj == nil {
		return
	}
	if visible {
		n.obj.Show()
	} else {
		n.obj.Hide()
	}
}

func (n *Node) Visible() bool {
	if n.obj == nil {
		return true
	}
	return n.obj.Visible()
}

func without(nodes []host.Node, target *Node) ([]host.Node, bool) {
	for i, n := range nodes {
		if n == host.Node(target) {
			return append(nodes[:i:i], nodes[i+1:]...), true
		}
	}
	return nodes, false
}
