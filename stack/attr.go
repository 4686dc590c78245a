package stack

import (
	"sort"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/element"
)

// Attr reads name from the context. It returns nil on an empty stack or
// when the host has no such property.
func (s *Stack) Attr(name string) any {
	ctx := s.Context()
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Get(name)
	return v
}

// SetAttr writes name on every element. A *Stack or *element.Element value
// is unwrapped to its host node and the sub-element is parented to the
// element being configured, exactly as if it had been added.
func (s *Stack) SetAttr(name string, value any) *Stack {
	return s.Each(func(el *element.Element, _ int) {
		s.env.setAttr(el, name, value)
	})
}

// SetAttrs writes every entry of attrs on every element, in key order.
func (s *Stack) SetAttrs(attrs map[string]any) *Stack {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return s.Each(func(el *element.Element, _ int) {
		for _, k := range keys {
			s.env.setAttr(el, k, attrs[k])
		}
	})
}

func (env *Env) setAttr(el *element.Element, name string, value any) {
	var sub *element.Element
	switch v := value.(type) {
	case *Stack:
		sub = v.Context()
		if sub == nil {
			env.warn(element.ErrAdoption("attribute value is an empty stack"), zap.String("attr", name))
			return
		}
	case *element.Element:
		if !v.Valid() {
			env.warn(element.ErrAdoption("attribute value is an element without identity"), zap.String("attr", name))
			return
		}
		sub = v
	}
	if sub != nil {
		value = sub.Node()
	}
	if err := el.Set(name, value); err != nil {
		env.warn(err, zap.String("id", el.ID()), zap.String("attr", name))
		return
	}
	if sub != nil {
		env.link(el, sub)
	}
}
