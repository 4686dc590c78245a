package stack

import (
	"fmt"
	"slices"

	"github.com/chrisuehlinger/tdollar/host"
)

// PairOps replaces the generic Add/Remove for one (parent tag, child tag)
// pair.
type PairOps struct {
	Add    func(parent, child host.Node) error
	Remove func(parent, child host.Node) error
}

type pairKey struct{ parent, child string }

// PairTable routes tree mutations for special tag pairs.
type PairTable struct {
	pairs map[pairKey]PairOps
	// strict holds parent tags that have at least one registered pair.
	// Generic children of such parents are still handled but reported.
	strict map[string]bool
}

// NewPairTable returns a table with the default pairs: tabs in tab groups,
// rows in table sections, rows and sections in table views and windows in
// tabs.
func NewPairTable() *PairTable {
	t := &PairTable{
		pairs:  make(map[pairKey]PairOps),
		strict: make(map[string]bool),
	}
	t.Register(host.TabGroup, host.Tab, PairOps{Add: addTab, Remove: removeTab})
	t.Register(host.TableViewSection, host.TableViewRow, PairOps{Add: addRow, Remove: removeRow})
	t.Register(host.TableView, host.TableViewRow, PairOps{Add: appendData, Remove: dropData})
	t.Register(host.TableView, host.TableViewSection, PairOps{Add: appendData, Remove: dropData})
	t.Register(host.Tab, host.Window, PairOps{Add: setWindow, Remove: unsetWindow})
	return t
}

// Register installs ops for the pair, replacing any previous entry.
func (t *PairTable) Register(parentTag, childTag string, ops PairOps) {
	t.pairs[pairKey{parentTag, childTag}] = ops
	t.strict[parentTag] = true
}

// Lookup returns the ops registered for the pair.
func (t *PairTable) Lookup(parentTag, childTag string) (PairOps, bool) {
	ops, ok := t.pairs[pairKey{parentTag, childTag}]
	return ops, ok
}

// Strict reports whether parentTag has registered pairs.
func (t *PairTable) Strict(parentTag string) bool {
	return t.strict[parentTag]
}

func addTab(parent, child host.Node) error {
	c, ok := parent.(host.TabContainer)
	if !ok {
		return fmt.Errorf("%T does not hold tabs", parent)
	}
	return c.AddTab(child)
}

func removeTab(parent, child host.Node) error {
	c, ok := parent.(host.TabContainer)
	if !ok {
		return fmt.Errorf("%T does not hold tabs", parent)
	}
	return c.RemoveTab(child)
}

func addRow(parent, child host.Node) error {
	c, ok := parent.(host.RowContainer)
	if !ok {
		return fmt.Errorf("%T does not hold rows", parent)
	}
	return c.AddRow(child)
}

func removeRow(parent, child host.Node) error {
	c, ok := parent.(host.RowContainer)
	if !ok {
		return fmt.Errorf("%T does not hold rows", parent)
	}
	return c.RemoveRow(child)
}

// appendData adds child to the "data" list of a table view, which is where
// the table view child accessor reads from.
func appendData(parent, child host.Node) error {
	nodes := slices.Clone(dataNodes(parent))
	return parent.Set("data", append(nodes, child))
}

func dropData(parent, child host.Node) error {
	nodes := slices.Clone(dataNodes(parent))
	i := slices.Index(nodes, child)
	if i < 0 {
		return fmt.Errorf("%s is not in the data of %s", child.Type(), parent.Type())
	}
	return parent.Set("data", slices.Delete(nodes, i, i+1))
}

func dataNodes(n host.Node) []host.Node {
	return PropertyChildren("data")(n)
}

func setWindow(parent, child host.Node) error {
	return parent.Set("window", child)
}

func unsetWindow(parent, child host.Node) error {
	if c, ok := parent.(host.WindowContainer); ok {
		if err := c.CloseWindow(child); err != nil {
			return err
		}
	}
	return parent.Set("window", nil)
}

// ChildAccessor enumerates the immediate children of a node.
type ChildAccessor func(n host.Node) []host.Node

// Children is the default accessor.
func Children(n host.Node) []host.Node {
	return n.Children()
}

// PropertyChildren returns an accessor reading a []host.Node property.
func PropertyChildren(name string) ChildAccessor {
	return func(n host.Node) []host.Node {
		v, ok := n.Get(name)
		if !ok {
			return nil
		}
		switch nodes := v.(type) {
		case []host.Node:
			return nodes
		case host.Node:
			return []host.Node{nodes}
		}
		return nil
	}
}

func defaultAccessors() map[string]ChildAccessor {
	return map[string]ChildAccessor{
		host.TabGroup:         PropertyChildren("tabs"),
		host.TableView:        PropertyChildren("data"),
		host.TableViewSection: PropertyChildren("rows"),
		host.Tab:              PropertyChildren("window"),
	}
}
