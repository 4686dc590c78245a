package stack

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/event"
	"github.com/chrisuehlinger/tdollar/host"
)

// Env ties a host to the services every Stack needs: the element tree, the
// event registry and the tag policy tables. Stacks from different Envs never
// share state.
type Env struct {
	tree     *element.Tree
	events   *event.Registry
	log      *zap.Logger
	pairs    *PairTable
	children map[string]ChildAccessor
	overlays map[string]Overlay
	roots    map[string]bool
	groups   map[string]bool

	treeOpts []element.TreeOption
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the logger used by the Env, its tree and its registry.
func WithLogger(l *zap.Logger) Option {
	return func(env *Env) {
		if l != nil {
			env.log = l
		}
	}
}

// WithResolver sets the attribute resolver used when creating nodes.
func WithResolver(r element.Resolver) Option {
	return func(env *Env) {
		env.treeOpts = append(env.treeOpts, element.WithResolver(r))
	}
}

// WithIDGenerator sets the node id generator.
func WithIDGenerator(g element.IDGenerator) Option {
	return func(env *Env) {
		env.treeOpts = append(env.treeOpts, element.WithIDGenerator(g))
	}
}

// WithRegistry shares an existing event registry.
func WithRegistry(r *event.Registry) Option {
	return func(env *Env) {
		if r != nil {
			env.events = r
		}
	}
}

// WithPair routes add and remove for the (parent, child) tag pair.
func WithPair(parentTag, childTag string, ops PairOps) Option {
	return func(env *Env) {
		env.pairs.Register(parentTag, childTag, ops)
	}
}

// WithChildren sets the child accessor for a tag.
func WithChildren(tag string, a ChildAccessor) Option {
	return func(env *Env) {
		env.children[tag] = a
	}
}

// WithOverlay attaches extra capabilities to stacks whose context has tag.
func WithOverlay(tag string, o Overlay) Option {
	return func(env *Env) {
		env.overlays[tag] = o
	}
}

// WithRootTags declares tags that legitimately have no parent.
func WithRootTags(tags ...string) Option {
	return func(env *Env) {
		for _, t := range tags {
			env.roots[t] = true
		}
	}
}

// WithGroupTags declares tags that act as the containing group of the
// children added to them.
func WithGroupTags(tags ...string) Option {
	return func(env *Env) {
		for _, t := range tags {
			env.groups[t] = true
		}
	}
}

// NewEnv returns an Env creating nodes through h.
func NewEnv(h host.Host, opts ...Option) *Env {
	env := &Env{
		log:      zap.NewNop(),
		pairs:    NewPairTable(),
		children: defaultAccessors(),
		overlays: defaultOverlays(),
		roots:    map[string]bool{host.Window: true, host.TabGroup: true},
		groups:   map[string]bool{host.Tab: true},
	}
	for _, opt := range opts {
		opt(env)
	}
	if env.events == nil {
		env.events = event.NewRegistry(event.WithLogger(env.log))
	}
	env.tree = element.NewTree(h, append([]element.TreeOption{element.WithLogger(env.log)}, env.treeOpts...)...)
	return env
}

func (env *Env) Tree() *element.Tree     { return env.tree }
func (env *Env) Events() *event.Registry { return env.events }
func (env *Env) Logger() *zap.Logger     { return env.log }
func (env *Env) Pairs() *PairTable       { return env.pairs }
func (env *Env) IsRoot(tag string) bool  { return env.roots[tag] }
func (env *Env) IsGroup(tag string) bool { return env.groups[tag] }

// Create makes a new node and wraps it.
func (env *Env) Create(tag string, attrs map[string]any) (*Stack, error) {
	el, err := env.tree.Make(tag, attrs)
	if err != nil {
		return nil, err
	}
	return env.Wrap(el), nil
}

// MustCreate is Create for static trees; it panics on error.
func (env *Env) MustCreate(tag string, attrs map[string]any) *Stack {
	s, err := env.Create(tag, attrs)
	if err != nil {
		panic(err)
	}
	return s
}

// Adopt decorates host nodes created elsewhere and wraps them.
func (env *Env) Adopt(nodes ...host.Node) *Stack {
	items := make([]any, 0, len(nodes))
	for _, n := range nodes {
		if el := env.tree.Adopt(n); el != nil {
			items = append(items, el)
		}
	}
	return env.Wrap(items...)
}

// Wrap builds a Stack from decorated values: *element.Element,
// []*element.Element, *Stack and host nodes already known to the tree. Nil
// values are skipped silently; anything else is reported and skipped.
func (env *Env) Wrap(items ...any) *Stack {
	s := &Stack{env: env}
	for _, it := range items {
		s.push(it)
	}
	s.ext = env.overlay(s)
	return s
}

func (s *Stack) push(v any) {
	switch x := v.(type) {
	case nil:
	case *element.Element:
		if x == nil {
			return
		}
		if !x.Valid() {
			s.env.warn(element.ErrAdoption("element without identity"))
			return
		}
		s.elems = append(s.elems, x)
	case []*element.Element:
		for _, el := range x {
			s.push(el)
		}
	case *Stack:
		if x != nil {
			s.elems = append(s.elems, x.elems...)
		}
	case host.Node:
		el, ok := s.env.tree.Lookup(x)
		if !ok {
			s.env.warn(element.ErrAdoption(fmt.Sprintf("%s node was never decorated", x.Type())))
			return
		}
		s.elems = append(s.elems, el)
	case []host.Node:
		for _, n := range x {
			s.push(n)
		}
	default:
		s.env.warn(element.ErrAdoption(fmt.Sprintf("tried to add a non tdollar value %T to the stack", v)))
	}
}

// Children returns the decorated immediate children of el, in host order.
// Host children that were never decorated are skipped.
func (env *Env) Children(el *element.Element) []*element.Element {
	kids, _ := env.childElements(el)
	return kids
}

func (env *Env) childElements(el *element.Element) ([]*element.Element, int) {
	if !el.Valid() {
		return nil, 0
	}
	accessor, ok := env.children[el.Tag()]
	if !ok {
		accessor = Children
	}
	var (
		out     []*element.Element
		foreign int
	)
	for _, n := range accessor(el.Node()) {
		if c, ok := env.tree.Lookup(n); ok {
			out = append(out, c)
		} else if n != nil {
			foreign++
		}
	}
	return out, foreign
}

func (env *Env) warn(err error, fields ...zap.Field) {
	env.log.Warn(err.Error(), append(fields, zap.Error(err))...)
}
