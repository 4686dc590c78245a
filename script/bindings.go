package script

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/event"
	"github.com/chrisuehlinger/tdollar/host"
	"github.com/chrisuehlinger/tdollar/stack"
)

// wrap builds the JS view of a Stack.
func (r *Runtime) wrap(s *stack.Stack) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()
	obj.Set("_goStack", s)
	obj.Set("length", s.Len())

	chain := func(fn func(call goja.FunctionCall)) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			fn(call)
			return obj
		}
	}

	obj.Set("size", func(goja.FunctionCall) goja.Value { return vm.ToValue(s.Size()) })
	obj.Set("id", func(goja.FunctionCall) goja.Value {
		if ctx := s.Context(); ctx != nil {
			return vm.ToValue(ctx.ID())
		}
		return goja.Undefined()
	})
	obj.Set("tag", func(goja.FunctionCall) goja.Value {
		if ctx := s.Context(); ctx != nil {
			return vm.ToValue(ctx.Tag())
		}
		return goja.Undefined()
	})

	// Traversal
	obj.Set("find", func(call goja.FunctionCall) goja.Value {
		found, err := s.Query(call.Argument(0).Export())
		if err != nil {
			panic(vm.NewTypeError(err.Error()))
		}
		return r.wrap(found)
	})
	obj.Set("first", func(goja.FunctionCall) goja.Value { return r.wrap(s.First()) })
	obj.Set("last", func(goja.FunctionCall) goja.Value { return r.wrap(s.Last()) })
	obj.Set("at", func(call goja.FunctionCall) goja.Value {
		return r.wrap(s.At(int(call.Argument(0).ToInteger())))
	})
	obj.Set("parent", func(goja.FunctionCall) goja.Value { return r.wrap(s.Parent()) })
	obj.Set("children", func(goja.FunctionCall) goja.Value { return r.wrap(s.Children()) })
	obj.Set("each", chain(func(call goja.FunctionCall) {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("each expects a function"))
		}
		s.Each(func(el *element.Element, i int) {
			r.call(fn, obj, r.wrap(r.env.Wrap(el)), vm.ToValue(i))
		})
	}))
	obj.Set("map", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("map expects a function"))
		}
		return r.wrap(s.Map(func(el *element.Element, i int) any {
			return r.stackValues(r.call(fn, obj, r.wrap(r.env.Wrap(el)), vm.ToValue(i)))
		}))
	})

	// Mutation
	obj.Set("add", chain(func(call goja.FunctionCall) {
		arg := call.Argument(0)
		if child, ok := r.unwrap(arg); ok {
			s.Add(child, nil)
			return
		}
		attrs, subs := r.splitAttrs(call.Argument(1))
		if len(subs) == 0 {
			s.Add(arg.String(), attrs)
			return
		}
		s.Each(func(el *element.Element, _ int) {
			child, err := r.env.Create(arg.String(), attrs)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			r.env.Wrap(el).Add(child.SetAttrs(subs), nil)
		})
	}))
	obj.Set("remove", chain(func(goja.FunctionCall) { s.Remove() }))
	obj.Set("empty", chain(func(goja.FunctionCall) { s.Empty() }))

	// Attributes
	obj.Set("attr", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0)
		if o, ok := name.(*goja.Object); ok {
			for _, k := range o.Keys() {
				s.SetAttr(k, r.export(o.Get(k)))
			}
			return obj
		}
		value := call.Argument(1)
		if goja.IsUndefined(value) || goja.IsNull(value) {
			return r.toJS(s.Attr(name.String()))
		}
		s.SetAttr(name.String(), r.export(value))
		return obj
	})
	obj.Set("hasClass", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(s.HasClass(call.Argument(0).String()))
	})
	obj.Set("show", chain(func(goja.FunctionCall) { s.Show() }))
	obj.Set("hide", chain(func(goja.FunctionCall) { s.Hide() }))
	obj.Set("toggle", chain(func(goja.FunctionCall) { s.Toggle() }))

	// Events
	obj.Set("on", chain(func(call goja.FunctionCall) { r.bind(s, call, s.On) }))
	obj.Set("one", chain(func(call goja.FunctionCall) { r.bind(s, call, s.One) }))
	obj.Set("off", chain(func(call goja.FunctionCall) {
		events := ""
		if a := call.Argument(0); !goja.IsUndefined(a) && !goja.IsNull(a) {
			events = a.String()
		}
		fn := call.Argument(1)
		if goja.IsUndefined(fn) || goja.IsNull(fn) {
			s.Off(events, nil)
			return
		}
		// A function that was never bound has nothing to remove.
		if l := r.lookupListener(fn); l != nil {
			s.Off(events, l)
		}
	}))
	obj.Set("trigger", chain(func(call goja.FunctionCall) {
		var data []any
		for i := 1; i < len(call.Arguments); i++ {
			data = append(data, r.export(call.Arguments[i]))
		}
		s.Trigger(call.Argument(0).String(), data...)
	}))

	// Overlays
	if c, ok := s.Container(); ok {
		obj.Set("open", func(goja.FunctionCall) goja.Value { return vm.ToValue(c.Open()) })
		obj.Set("close", func(goja.FunctionCall) goja.Value { return vm.ToValue(c.Close()) })
	}
	if l, ok := s.List(); ok {
		obj.Set("setData", chain(func(call goja.FunctionCall) {
			var rows []any
			if arr, ok := call.Argument(0).(*goja.Object); ok && arr.ClassName() == "Array" {
				for _, k := range arr.Keys() {
					rows = append(rows, r.export(arr.Get(k)))
				}
			}
			l.SetData(rows...)
		}))
		obj.Set("rows", func(goja.FunctionCall) goja.Value { return r.wrap(l.Rows()) })
	}
	return obj
}

// bind handles on/one: (events, fn) or ({events: fn, ...}).
func (r *Runtime) bind(s *stack.Stack, call goja.FunctionCall, on func(string, *event.Listener) *stack.Stack) {
	first := call.Argument(0)
	if o, ok := first.(*goja.Object); ok {
		if _, isFn := goja.AssertFunction(first); !isFn {
			for _, k := range o.Keys() {
				if l, ok := r.listenerFor(o.Get(k)); ok {
					on(k, l)
				}
			}
			return
		}
	}
	l, ok := r.listenerFor(call.Argument(1))
	if !ok {
		panic(r.vm.NewTypeError("event handler must be a function"))
	}
	on(first.String(), l)
}

// handler adapts a JS function to an event.Handler. The event object is
// both the receiver and the first argument; payload data follows.
func (r *Runtime) handler(fn goja.Callable) event.Handler {
	return func(e *host.Event, data ...any) {
		ev := r.eventValue(e)
		args := make([]goja.Value, 0, len(data)+1)
		args = append(args, ev)
		for _, d := range data {
			args = append(args, r.toJS(d))
		}
		if _, err := fn(ev, args...); err != nil {
			r.log.Warn("script event handler failed", zap.String("event", e.Type), zap.Error(err))
		}
	}
}

func (r *Runtime) eventValue(e *host.Event) *goja.Object {
	ev := r.vm.NewObject()
	ev.Set("type", e.Type)
	data := make([]any, len(e.Data))
	for i, d := range e.Data {
		data[i] = r.toJS(d)
	}
	ev.Set("data", r.vm.NewArray(data...))
	if el, ok := r.env.Tree().Lookup(e.Source); ok {
		ev.Set("source", r.wrap(r.env.Wrap(el)))
	}
	return ev
}

// call invokes fn and rethrows JS exceptions into the calling script.
func (r *Runtime) call(fn goja.Callable, this goja.Value, args ...goja.Value) goja.Value {
	v, err := fn(this, args...)
	if err != nil {
		if exc, ok := err.(*goja.Exception); ok {
			panic(exc.Value())
		}
		panic(r.vm.NewGoError(err))
	}
	return v
}

func (r *Runtime) unwrap(v goja.Value) (*stack.Stack, bool) {
	o, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	g := o.Get("_goStack")
	if g == nil {
		return nil, false
	}
	s, ok := g.Export().(*stack.Stack)
	return s, ok
}

// export converts a JS value to Go, keeping wrapped stacks as *stack.Stack.
func (r *Runtime) export(v goja.Value) any {
	if s, ok := r.unwrap(v); ok {
		return s
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

// splitAttrs exports an attribute object, separating values that are
// wrapped stacks: those must be set after creation so they get parented.
func (r *Runtime) splitAttrs(v goja.Value) (attrs, subs map[string]any) {
	o, ok := v.(*goja.Object)
	if !ok {
		return nil, nil
	}
	attrs = make(map[string]any)
	for _, k := range o.Keys() {
		val := o.Get(k)
		if s, ok := r.unwrap(val); ok {
			if subs == nil {
				subs = make(map[string]any)
			}
			subs[k] = s
			continue
		}
		attrs[k] = r.export(val)
	}
	return attrs, subs
}

// stackValues converts a callback result into stack values for Map.
func (r *Runtime) stackValues(v goja.Value) any {
	if s, ok := r.unwrap(v); ok {
		return s
	}
	if o, ok := v.(*goja.Object); ok && o.ClassName() == "Array" {
		var out []any
		for _, k := range o.Keys() {
			if s, ok := r.unwrap(o.Get(k)); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return r.export(v)
}

// toJS converts a Go value to JS, wrapping host nodes known to the tree.
func (r *Runtime) toJS(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Undefined()
	case *stack.Stack:
		return r.wrap(x)
	case host.Node:
		if el, ok := r.env.Tree().Lookup(x); ok {
			return r.wrap(r.env.Wrap(el))
		}
	case []host.Node:
		return r.wrap(r.env.Wrap(x))
	}
	return r.vm.ToValue(v)
}
