package stack

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/host"
)

// Add attaches child under every element of s and returns s.
//
// child is a tag name (a new node is created per element from attrs), a
// *Stack (its context is attached), an *element.Element or a host node
// (adopted first). Failures are logged per element and never stop the chain.
func (s *Stack) Add(child any, attrs map[string]any) *Stack {
	return s.Each(func(el *element.Element, _ int) {
		c, err := s.env.resolveChild(child, attrs)
		if err != nil {
			s.env.warn(err, zap.String("parent", el.ID()))
			return
		}
		c.BackfillID()
		if err := s.env.attach(el, c); err != nil {
			s.env.warn(err, zap.String("parent", el.ID()), zap.String("child", c.ID()))
		}
	})
}

func (env *Env) resolveChild(child any, attrs map[string]any) (*element.Element, error) {
	switch v := child.(type) {
	case string:
		return env.tree.Make(v, maps.Clone(attrs))
	case *Stack:
		if ctx := v.Context(); ctx != nil {
			return ctx, nil
		}
		return nil, element.ErrAdoption("cannot add an empty stack")
	case *element.Element:
		if v.Valid() {
			return v, nil
		}
		return nil, element.ErrAdoption("cannot add an element without identity")
	case host.Node:
		return env.tree.Adopt(v), nil
	}
	return nil, element.ErrAdoption(fmt.Sprintf("cannot add %T", child))
}

// attach performs the host add for the pair and records the parent.
func (env *Env) attach(parent, child *element.Element) error {
	if ops, ok := env.pairs.Lookup(parent.Tag(), child.Tag()); ok && ops.Add != nil {
		if err := ops.Add(parent.Node(), child.Node()); err != nil {
			return fmt.Errorf("add %s to %s: %w", child.Tag(), parent.Tag(), err)
		}
	} else if err := parent.Node().Add(child.Node()); err != nil {
		return fmt.Errorf("add %s to %s: %w", child.Tag(), parent.Tag(), err)
	}
	env.link(parent, child)
	return nil
}

// link records parent as the parent of child. A child still attached to
// another parent is detached from it first, host included.
func (env *Env) link(parent, child *element.Element) {
	if prev := child.Parent(); prev != nil && prev != parent {
		if err := env.detach(prev, child); err != nil {
			env.warn(err, zap.String("id", child.ID()), zap.String("parent", prev.ID()))
		}
	}
	env.tree.Track(child)
	child.SetParent(parent)
	if env.groups[parent.Tag()] {
		child.SetGroup(parent)
	}
}

// detach performs the host removal for the pair and clears the parent.
func (env *Env) detach(parent, child *element.Element) error {
	defer child.ClearParent()
	if ops, ok := env.pairs.Lookup(parent.Tag(), child.Tag()); ok && ops.Remove != nil {
		if err := ops.Remove(parent.Node(), child.Node()); err != nil {
			return fmt.Errorf("remove %s from %s: %w", child.Tag(), parent.Tag(), err)
		}
		return nil
	}
	if env.pairs.Strict(parent.Tag()) {
		env.log.Warn("removing an unpaired child", zap.String("parent", parent.Tag()), zap.String("child", child.Tag()))
	}
	if err := parent.Node().Remove(child.Node()); err != nil {
		return fmt.Errorf("remove %s from %s: %w", child.Tag(), parent.Tag(), err)
	}
	return nil
}

// Remove takes every element out of its parent, emptying it first. Elements
// without a parent are reported unless their tag is a root tag, in which
// case they are emptied and closed.
func (s *Stack) Remove() *Stack {
	return s.Each(func(el *element.Element, _ int) {
		parent := el.Parent()
		if parent == nil {
			if !s.env.roots[el.Tag()] {
				s.env.warn(element.ErrOrphanRemoval("cannot remove an item without knowledge of the parent"),
					zap.String("id", el.ID()), zap.String("tag", el.Tag()))
				return
			}
			s.env.empty(el)
			if o, ok := el.Node().(host.Opener); ok {
				if err := o.Close(); err != nil {
					s.env.warn(err, zap.String("id", el.ID()))
				}
			}
			return
		}
		s.env.empty(el)
		if err := s.env.detach(parent, el); err != nil {
			s.env.warn(err, zap.String("id", el.ID()))
		}
		s.env.tree.Forget(el)
	})
}

// Empty removes every child of every element, releasing the children's
// handlers and emptying them recursively.
func (s *Stack) Empty() *Stack {
	return s.Each(func(el *element.Element, _ int) {
		s.env.empty(el)
	})
}

func (env *Env) empty(el *element.Element) {
	kids, foreign := env.childElements(el)
	if foreign > 0 {
		env.warn(element.ErrAdoption(fmt.Sprintf("%d undecorated children left in %s", foreign, el.Tag())),
			zap.String("id", el.ID()))
	}
	for _, c := range kids {
		env.release(el, c)
	}
}

// release unbinds, empties and detaches child from parent.
func (env *Env) release(parent, child *element.Element) {
	env.events.Unbind(child, "", nil)
	env.events.Forget(child.ID())
	env.empty(child)
	if err := env.detach(parent, child); err != nil {
		env.warn(err, zap.String("id", child.ID()))
	}
	env.tree.Forget(child)
}
