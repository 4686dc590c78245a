package element

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/host"
)

// IDGenerator returns a fresh, process-unique identifier on every call.
type IDGenerator func() string

// Sequential returns a generator producing prefix1, prefix2, ...
func Sequential(prefix string) IDGenerator {
	var n atomic.Uint64
	return func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	}
}

// UUIDGenerator produces random identifiers, for hosts whose node ids must
// stay unique across processes.
func UUIDGenerator() string {
	return "tid-" + uuid.NewString()
}

// Resolver turns a tag and a raw attribute bag into the host property bag,
// pulling the class string and user id out as metadata.
type Resolver interface {
	Resolve(tag string, attrs map[string]any) (props map[string]any, className, id string)
}

// plainResolver splits metadata off without any styling.
type plainResolver struct{}

func (plainResolver) Resolve(_ string, attrs map[string]any) (map[string]any, string, string) {
	props := make(map[string]any, len(attrs))
	var className, id string
	for k, v := range attrs {
		switch k {
		case "className":
			className = stringOf(v)
		case "id":
			id = stringOf(v)
		case "stylesheet":
		default:
			props[k] = v
		}
	}
	return props, className, id
}

// Tree creates and adopts host nodes, stamping identity on each and keeping
// an index from host node to Element.
type Tree struct {
	host     host.Host
	ids      IDGenerator
	resolver Resolver
	index    map[host.Node]*Element
	log      *zap.Logger
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithIDGenerator replaces the default sequential generator.
func WithIDGenerator(g IDGenerator) TreeOption {
	return func(t *Tree) {
		if g != nil {
			t.ids = g
		}
	}
}

// WithResolver sets the attribute resolver, typically a stylesheet.
func WithResolver(r Resolver) TreeOption {
	return func(t *Tree) {
		if r != nil {
			t.resolver = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) TreeOption {
	return func(t *Tree) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTree returns a Tree creating nodes through h.
func NewTree(h host.Host, opts ...TreeOption) *Tree {
	t := &Tree{
		host:     h,
		ids:      Sequential("tid"),
		resolver: plainResolver{},
		index:    make(map[host.Node]*Element),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Host returns the node factory.
func (t *Tree) Host() host.Host { return t.host }

// Make creates a host node of the given tag and decorates it.
func (t *Tree) Make(tag string, attrs map[string]any) (*Element, error) {
	if tag == "" {
		return nil, ErrUnknownTag("empty tag")
	}
	props, className, id := t.resolver.Resolve(tag, attrs)
	n, err := t.host.Create(tag, props)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", tag, err)
	}
	if n == nil {
		return nil, ErrUnknownTag(fmt.Sprintf("host returned no node for %s", tag))
	}
	el := &Element{
		id:        t.ids(),
		tag:       tag,
		className: className,
		idAttr:    id,
		node:      n,
	}
	t.index[n] = el
	t.log.Debug("element created", zap.String("id", el.id), zap.String("tag", tag))
	return el, nil
}

// Adopt decorates a node created outside the tree. Nodes already known are
// returned as they are.
func (t *Tree) Adopt(n host.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := t.index[n]; ok {
		return el
	}
	el := &Element{id: t.ids(), tag: n.Type(), node: n}
	if v, ok := n.Get("className"); ok {
		el.className = stringOf(v)
	}
	el.BackfillID()
	t.index[n] = el
	t.log.Debug("element adopted", zap.String("id", el.id), zap.String("tag", el.tag))
	return el
}

// Lookup returns the Element decorating n, if any.
func (t *Tree) Lookup(n host.Node) (*Element, bool) {
	if n == nil {
		return nil, false
	}
	el, ok := t.index[n]
	return el, ok
}

// Track indexes an element that was dropped with Forget and is being
// attached again.
func (t *Tree) Track(el *Element) {
	if el.Valid() {
		t.index[el.node] = el
	}
}

// Forget drops el from the index once it left the tree.
func (t *Tree) Forget(el *Element) {
	if el.Valid() {
		delete(t.index, el.node)
	}
}

// Len returns the number of indexed elements.
func (t *Tree) Len() int { return len(t.index) }
