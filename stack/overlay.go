package stack

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/host"
)

// Overlay builds the extra capabilities for a stack whose context has a
// given tag. It runs once, when the stack is built.
type Overlay func(s *Stack) any

// Container is the capability of window-like tags.
type Container interface {
	// Open presents every element, through its containing group when it
	// has one. It reports false when any element could not be opened.
	Open() bool
	Close() bool
	Hide() *Stack
}

// List is the capability of list-like tags.
type List interface {
	// SetData replaces the rows. Plain map rows become new rows; stacks and
	// elements are attached as they are.
	SetData(rows ...any) *Stack
	Rows() *Stack
}

func defaultOverlays() map[string]Overlay {
	return map[string]Overlay{
		host.Window:    func(s *Stack) any { return &window{s: s} },
		host.TableView: func(s *Stack) any { return &table{s: s, rowTag: host.TableViewRow} },
	}
}

func (env *Env) overlay(s *Stack) any {
	ctx := s.Context()
	if ctx == nil {
		return nil
	}
	o, ok := env.overlays[ctx.Tag()]
	if !ok {
		return nil
	}
	return o(s)
}

// Extension returns the overlay attached to s, if any.
func (s *Stack) Extension() any { return s.ext }

// Container returns the container capability of s.
func (s *Stack) Container() (Container, bool) {
	c, ok := s.ext.(Container)
	return c, ok
}

// List returns the list capability of s.
func (s *Stack) List() (List, bool) {
	l, ok := s.ext.(List)
	return l, ok
}

type window struct {
	s *Stack
}

func (w *window) Open() bool {
	return w.all("open", func(g host.WindowContainer, win host.Node) error { return g.OpenWindow(win) },
		func(o host.Opener) error { return o.Open() })
}

func (w *window) Close() bool {
	return w.all("close", func(g host.WindowContainer, win host.Node) error { return g.CloseWindow(win) },
		func(o host.Opener) error { return o.Close() })
}

func (w *window) Hide() *Stack {
	return w.s.Hide()
}

// all runs op on every element, through the containing group when there is
// one and directly on parentless windows otherwise.
func (w *window) all(op string, viaGroup func(host.WindowContainer, host.Node) error, direct func(host.Opener) error) bool {
	env := w.s.env
	ok := true
	for _, el := range w.s.elems {
		if err := w.apply(el, op, viaGroup, direct); err != nil {
			env.warn(err, zap.String("id", el.ID()), zap.String("op", op))
			ok = false
		}
	}
	return ok
}

func (w *window) apply(el *element.Element, op string, viaGroup func(host.WindowContainer, host.Node) error, direct func(host.Opener) error) error {
	if g := el.Group(); g != nil {
		wc, ok := g.Node().(host.WindowContainer)
		if !ok {
			return element.ErrMissingBackReference(fmt.Sprintf("%s cannot %s windows", g.Tag(), op))
		}
		return viaGroup(wc, el.Node())
	}
	if el.Parent() == nil {
		if o, ok := el.Node().(host.Opener); ok {
			return direct(o)
		}
	}
	return element.ErrMissingBackReference(fmt.Sprintf("cannot %s a %s without its containing group", op, el.Tag()))
}

type table struct {
	s      *Stack
	rowTag string
}

func (t *table) Rows() *Stack {
	return t.s.Children()
}

func (t *table) SetData(rows ...any) *Stack {
	env := t.s.env
	el := t.s.Context()
	if el == nil {
		return t.s
	}

	var (
		nodes []host.Node
		added []*element.Element
		made  []*element.Element
	)
	for _, r := range rows {
		c, fresh, err := t.row(r)
		if err != nil {
			env.warn(err, zap.String("id", el.ID()))
			continue
		}
		nodes = append(nodes, c.Node())
		added = append(added, c)
		if fresh {
			made = append(made, c)
		}
	}

	previous := env.Children(el)
	if err := el.Set("data", nodes); err != nil {
		env.warn(err, zap.String("id", el.ID()))
		for _, c := range made {
			env.tree.Forget(c)
		}
		return t.s
	}

	// The host already dropped the previous rows; release the ones that
	// were not handed back so their handlers go with them.
	for _, old := range previous {
		if slices.Contains(added, old) {
			continue
		}
		env.events.Unbind(old, "", nil)
		env.events.Forget(old.ID())
		env.empty(old)
		old.ClearParent()
		env.tree.Forget(old)
	}
	for _, c := range added {
		env.link(el, c)
	}
	return t.s
}

func (t *table) row(r any) (*element.Element, bool, error) {
	switch v := r.(type) {
	case map[string]any:
		el, err := t.s.env.tree.Make(t.rowTag, v)
		return el, true, err
	case *Stack:
		if ctx := v.Context(); ctx != nil {
			return ctx, false, nil
		}
		return nil, false, element.ErrAdoption("empty stack given as a row")
	case *element.Element:
		if v.Valid() {
			return v, false, nil
		}
	}
	return nil, false, element.ErrAdoption(fmt.Sprintf("cannot use %T as a row", r))
}
