// Package stack implements the chainable collection over decorated host
// nodes: traversal, querying, tree mutation, attribute bridging, event
// binding and per-tag capability overlays.
package stack

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/host"
	"github.com/chrisuehlinger/tdollar/selector"
)

// Stack is an ordered handle over zero or more elements. The first element
// is the context, the implicit subject of single-node operations. Every
// method is a no-op on an empty Stack.
type Stack struct {
	env   *Env
	elems []*element.Element
	ext   any
}

// Env returns the environment the stack belongs to.
func (s *Stack) Env() *Env { return s.env }

// Len returns the number of elements.
func (s *Stack) Len() int { return len(s.elems) }

// Size is Len.
func (s *Stack) Size() int { return len(s.elems) }

// Context returns the first element, or nil.
func (s *Stack) Context() *element.Element {
	if len(s.elems) == 0 {
		return nil
	}
	return s.elems[0]
}

// El returns the host node of the context, or nil.
func (s *Stack) El() host.Node {
	if ctx := s.Context(); ctx != nil {
		return ctx.Node()
	}
	return nil
}

// Elements returns a copy of the elements.
func (s *Stack) Elements() []*element.Element {
	out := make([]*element.Element, len(s.elems))
	copy(out, s.elems)
	return out
}

// Each calls fn for every element in order and returns s.
func (s *Stack) Each(fn func(el *element.Element, i int)) *Stack {
	for i, el := range s.elems {
		fn(el, i)
	}
	return s
}

// Map calls fn for every element and wraps the results, flattened one
// level, in a new Stack. Results that are not stack values are reported and
// dropped.
func (s *Stack) Map(fn func(el *element.Element, i int) any) *Stack {
	var values []any
	for i, el := range s.elems {
		switch v := fn(el, i).(type) {
		case []any:
			values = append(values, v...)
		default:
			values = append(values, v)
		}
	}
	return s.env.Wrap(values...)
}

// Find returns the children of the context matching sel.
func (s *Stack) Find(sel string) *Stack {
	return s.find(selector.Parse(sel))
}

// Query is Find for selectors of unknown type. Anything but a string fails
// with InvalidSelector.
func (s *Stack) Query(sel any) (*Stack, error) {
	compiled, err := selector.Compile(sel)
	if err != nil {
		return nil, err
	}
	return s.find(compiled), nil
}

func (s *Stack) find(sel selector.Selector) *Stack {
	ctx := s.Context()
	if ctx == nil {
		return s.env.Wrap()
	}
	matches := selector.Filter(s.env.Children(ctx), sel)
	s.env.log.Debug("find", zap.String("id", ctx.ID()), zap.Stringer("selector", sel), zap.Int("matches", len(matches)))
	return s.env.Wrap(matches)
}

// First returns the first element as a new Stack.
func (s *Stack) First() *Stack { return s.At(0) }

// Last returns the last element as a new Stack.
func (s *Stack) Last() *Stack { return s.At(len(s.elems) - 1) }

// At returns the i-th element as a new Stack, empty when out of range.
func (s *Stack) At(i int) *Stack {
	if i < 0 || i >= len(s.elems) {
		return s.env.Wrap()
	}
	return s.env.Wrap(s.elems[i])
}

// Parent wraps the parent of the context.
func (s *Stack) Parent() *Stack {
	ctx := s.Context()
	if ctx == nil || ctx.Parent() == nil {
		return s.env.Wrap()
	}
	return s.env.Wrap(ctx.Parent())
}

// Children wraps the immediate children of the context.
func (s *Stack) Children() *Stack {
	ctx := s.Context()
	if ctx == nil {
		return s.env.Wrap()
	}
	return s.env.Wrap(s.env.Children(ctx))
}

// HasClass reports whether the context carries the class name.
func (s *Stack) HasClass(name string) bool {
	ctx := s.Context()
	return ctx != nil && ctx.HasClass(name)
}

// Show makes every element visible.
func (s *Stack) Show() *Stack {
	return s.Each(func(el *element.Element, _ int) { el.SetVisible(true) })
}

// Hide makes every element invisible.
func (s *Stack) Hide() *Stack {
	return s.Each(func(el *element.Element, _ int) { el.SetVisible(false) })
}

// Toggle flips the visibility of every element.
func (s *Stack) Toggle() *Stack {
	return s.Each(func(el *element.Element, _ int) { el.SetVisible(!el.Visible()) })
}

func (s *Stack) String() string {
	if len(s.elems) == 0 {
		return "[]"
	}
	return fmt.Sprint(s.elems)
}
