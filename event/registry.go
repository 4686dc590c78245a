// Package event keeps per-node bookkeeping of bound handlers so they can be
// removed later by event name, namespace or callback.
package event

import (
	"regexp"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/host"
)

// Handler is a user callback. The event is the receiver context; data carries
// any extra payload attached to it.
type Handler func(e *host.Event, data ...any)

// Listener wraps a Handler so it has an identity. Keep the *Listener around
// to unbind it later.
type Listener struct {
	fn Handler
}

// Listen returns a new Listener for fn.
func Listen(fn Handler) *Listener {
	return &Listener{fn: fn}
}

// Call invokes the wrapped handler.
func (l *Listener) Call(e *host.Event, data ...any) {
	if l != nil && l.fn != nil {
		l.fn(e, data...)
	}
}

// Target is a node events can be bound on.
type Target interface {
	ID() string
	AddEventListener(name string, l host.EventListener)
	RemoveEventListener(name string, l host.EventListener)
}

// Record is one bound handler.
type Record struct {
	Event     string
	Namespace string
	Listener  *Listener

	proxy *proxy
	once  bool
}

// Once reports whether the record unbinds itself after the first call.
func (r *Record) Once() bool { return r.once }

// proxy is the listener actually registered with the host.
type proxy struct {
	call Handler
}

func (p *proxy) HandleEvent(e *host.Event) {
	p.call(e, e.Data...)
}

// Registry owns the handler records of every node, keyed by node id.
type Registry struct {
	handlers map[string][]*Record
	log      *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handlers: make(map[string][]*Record),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind registers l for every space separated event string in events.
func (r *Registry) Bind(t Target, events string, l *Listener) {
	r.add(t, events, l, false)
}

// BindAll binds a batch of event strings to their listeners. Event strings
// are processed in sorted order.
func (r *Registry) BindAll(t Target, events map[string]*Listener) {
	keys := make([]string, 0, len(events))
	for k := range events {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.add(t, k, events[k], false)
	}
}

// BindOnce registers l so that it runs at most once. The record is removed
// from inside the first dispatch, before the handler returns.
func (r *Registry) BindOnce(t Target, events string, l *Listener) {
	r.add(t, events, l, true)
}

func (r *Registry) add(t Target, events string, l *Listener, once bool) {
	id := t.ID()
	if id == "" || l == nil {
		r.log.Warn("bind ignored", zap.String("id", id), zap.String("events", events), zap.Bool("listener", l != nil))
		return
	}
	for _, ev := range splitEvents(events) {
		key := ParseKey(ev)
		if key.Name == "" {
			continue
		}
		rec := &Record{
			Event:     key.Name,
			Namespace: key.Namespace(),
			Listener:  l,
			once:      once,
		}
		call := l.Call
		if once {
			call = r.delegate(t, ev, l)
		}
		rec.proxy = &proxy{call: call}
		r.handlers[id] = append(r.handlers[id], rec)
		t.AddEventListener(rec.Event, rec.proxy)
	}
}

// delegate wraps l so the first invocation unbinds it.
func (r *Registry) delegate(t Target, ev string, l *Listener) Handler {
	fired := false
	return func(e *host.Event, data ...any) {
		if fired {
			return
		}
		fired = true
		defer r.Unbind(t, ev, l)
		l.Call(e, data...)
	}
}

// Unbind removes every record matching events and l and detaches it from
// the host. An empty events string matches any event; a nil l matches any
// listener. Unbind(t, "", nil) removes everything bound on t.
func (r *Registry) Unbind(t Target, events string, l *Listener) {
	id := t.ID()
	if id == "" {
		return
	}
	for _, ev := range splitEvents(events) {
		matched := r.find(id, ParseKey(ev), l)
		if len(matched) == 0 {
			continue
		}
		drop := make(map[*Record]bool, len(matched))
		for _, rec := range matched {
			drop[rec] = true
			t.RemoveEventListener(rec.Event, rec.proxy)
		}
		kept := r.handlers[id][:0]
		for _, rec := range r.handlers[id] {
			if !drop[rec] {
				kept = append(kept, rec)
			}
		}
		if len(kept) == 0 {
			delete(r.handlers, id)
		} else {
			r.handlers[id] = kept
		}
	}
}

// Find returns the records on t matching events and l, using the same
// criteria as Unbind.
func (r *Registry) Find(t Target, events string, l *Listener) []*Record {
	var out []*Record
	for _, ev := range splitEvents(events) {
		for _, rec := range r.find(t.ID(), ParseKey(ev), l) {
			if !slices.Contains(out, rec) {
				out = append(out, rec)
			}
		}
	}
	return out
}

func (r *Registry) find(id string, key Key, l *Listener) []*Record {
	records := r.handlers[id]
	if len(records) == 0 {
		return nil
	}
	var out []*Record
	var matcher *regexp.Regexp
	if len(key.Namespaces) > 0 {
		matcher = namespaceMatcher(key.Namespaces)
	}
	for _, rec := range records {
		if key.Name != "" && rec.Event != key.Name {
			continue
		}
		if matcher != nil && !matcher.MatchString(rec.Namespace) {
			continue
		}
		if l != nil && rec.Listener != l {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Handlers returns a copy of the records bound on the node with the given id.
func (r *Registry) Handlers(id string) []*Record {
	records := r.handlers[id]
	out := make([]*Record, len(records))
	copy(out, records)
	return out
}

// Forget drops all records for id without touching the host. It is meant
// for nodes the host already destroyed.
func (r *Registry) Forget(id string) {
	delete(r.handlers, id)
}

// Len returns the number of nodes with at least one record.
func (r *Registry) Len() int { return len(r.handlers) }
