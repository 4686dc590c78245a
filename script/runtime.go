// Package script runs JavaScript against a stack environment. Scripts see a
// global $ that creates and wraps elements with the same chainable API the
// Go Stack offers.
//
//	var row = $("View", {className: "row"});
//	$.root.add(row).find(".row").on("click.menu", function (e) { ... });
package script

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/event"
	"github.com/chrisuehlinger/tdollar/stack"
)

// Runtime wraps a goja runtime bound to one Env.
type Runtime struct {
	vm   *goja.Runtime
	env  *stack.Env
	root *stack.Stack
	out  io.Writer
	log  *zap.Logger

	// listeners maps JS functions to the Listener they were bound as, so
	// off() can find them again.
	listeners []jsListener
}

type jsListener struct {
	fn       goja.Value
	listener *event.Listener
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithOutput sets where console output goes. Default os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		if w != nil {
			r.out = w
		}
	}
}

// New returns a runtime for env. root is exposed as $.root and may be nil.
func New(env *stack.Env, root *stack.Stack, opts ...Option) *Runtime {
	r := &Runtime{
		vm:   goja.New(),
		env:  env,
		root: root,
		out:  os.Stdout,
		log:  env.Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.setupConsole()
	r.setupDollar()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Execute runs code and returns its completion value.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
		}
	}()
	return r.vm.RunString(code)
}

// ExecuteScript compiles and runs code, naming it src in stack traces.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
		}
	}()
	program, err := goja.Compile(src, code, false)
	if err != nil {
		return err
	}
	_, err = r.vm.RunProgram(program)
	return err
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logAt := func(prefix string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				args[i] = a.String()
			}
			line := strings.Join(args, " ")
			if prefix != "" {
				line = prefix + " " + line
			}
			fmt.Fprintln(r.out, line)
			return goja.Undefined()
		}
	}
	console.Set("log", logAt(""))
	console.Set("info", logAt("[INFO]"))
	console.Set("warn", logAt("[WARN]"))
	console.Set("error", logAt("[ERROR]"))
	r.vm.Set("console", console)
}

func (r *Runtime) setupDollar() {
	vm := r.vm
	dollar := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		if s, ok := r.unwrap(arg); ok {
			return r.wrap(s)
		}
		tag, ok := arg.Export().(string)
		if !ok {
			return r.wrap(r.env.Wrap())
		}
		attrs, subs := r.splitAttrs(call.Argument(1))
		s, err := r.env.Create(tag, attrs)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return r.wrap(s.SetAttrs(subs))
	}).ToObject(vm)
	if r.root != nil {
		dollar.Set("root", r.wrap(r.root))
	}
	vm.Set("$", dollar)
}

// listenerFor returns the Listener bound for fn, creating it on first use.
func (r *Runtime) listenerFor(fn goja.Value) (*event.Listener, bool) {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, false
	}
	if l := r.lookupListener(fn); l != nil {
		return l, true
	}
	l := event.Listen(r.handler(callable))
	r.listeners = append(r.listeners, jsListener{fn: fn, listener: l})
	return l, true
}

func (r *Runtime) lookupListener(fn goja.Value) *event.Listener {
	for _, jl := range r.listeners {
		if jl.fn.SameAs(fn) {
			return jl.listener
		}
	}
	return nil
}
