package event

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrisuehlinger/tdollar/host"
)

type target struct {
	id   string
	node *host.MemoryNode
}

func (t *target) ID() string { return t.id }

func (t *target) AddEventListener(name string, l host.EventListener) {
	t.node.AddEventListener(name, l)
}

func (t *target) RemoveEventListener(name string, l host.EventListener) {
	t.node.RemoveEventListener(name, l)
}

func newTarget(t *testing.T, id string) *target {
	t.Helper()
	n, err := host.NewMemory().Create(host.Button, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &target{id: id, node: n.(*host.MemoryNode)}
}

func counter() (*Listener, *int) {
	n := 0
	return Listen(func(*host.Event, ...any) { n++ }), &n
}

func TestBindAndDispatch(t *testing.T) {
	r := NewRegistry()
	tg := newTarget(t, "n1")
	var got []any
	l := Listen(func(e *host.Event, data ...any) {
		if e.Type != "click" {
			t.Errorf("event type %q", e.Type)
		}
		got = data
	})

	r.Bind(tg, "click.menu", l)
	tg.node.Dispatch("click", "payload")
	if len(got) != 1 || got[0] != "payload" {
		t.Errorf("data = %v", got)
	}

	recs := r.Handlers("n1")
	if len(recs) != 1 || recs[0].Event != "click" || recs[0].Namespace != "menu" || recs[0].Listener != l {
		t.Errorf("records = %+v", recs)
	}
}

func TestBindMultipleEvents(t *testing.T) {
	r := NewRegistry()
	tg := newTarget(t, "n1")
	l, n := counter()

	r.Bind(tg, "click  change", l)
	tg.node.Dispatch("click")
	tg.node.Dispatch("change")
	if *n != 2 {
		t.Errorf("calls = %d", *n)
	}
	if got := len(r.Handlers("n1")); got != 2 {
		t.Errorf("records = %d", got)
	}
}

func TestUnbindNamespaces(t *testing.T) {
	tests := []struct {
		name    string
		bind    string
		unbind  string
		removed bool
	}{
		{"subset of namespaces", "click.ns1.ns2", "click.ns2", true},
		{"namespace order", "click.ns2.ns1", "click.ns1.ns2", true},
		{"namespace only", "click.ns1", ".ns1", true},
		{"other event", "click.ns1", "drag.ns1", false},
		{"other namespace", "click.ns1", "click.ns2", false},
		{"superset", "click.ns1", "click.ns1.ns2", false},
		{"event only", "click.ns1", "click", true},
		{"everything", "click.ns1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			tg := newTarget(t, "n1")
			l, n := counter()
			r.Bind(tg, tt.bind, l)
			r.Unbind(tg, tt.unbind, nil)

			tg.node.Dispatch("click")
			removed := *n == 0
			if removed != tt.removed {
				t.Errorf("removed = %v, want %v", removed, tt.removed)
			}
			if removed && r.Len() != 0 {
				t.Errorf("registry still tracks the node")
			}
			if removed != (tg.node.ListenerCount("click") == 0) {
				t.Errorf("host listener count out of sync: %d", tg.node.ListenerCount("click"))
			}
		})
	}
}

func TestUnbindByListener(t *testing.T) {
	r := NewRegistry()
	tg := newTarget(t, "n1")
	keep, kept := counter()
	drop, dropped := counter()

	r.Bind(tg, "click", keep)
	r.Bind(tg, "click", drop)
	r.Unbind(tg, "click", drop)

	tg.node.Dispatch("click")
	if *kept != 1 || *dropped != 0 {
		t.Errorf("kept = %d, dropped = %d", *kept, *dropped)
	}
	if got := len(r.Find(tg, "click", nil)); got != 1 {
		t.Errorf("Find = %d", got)
	}
}

func TestBindOnce(t *testing.T) {
	r := NewRegistry()
	tg := newTarget(t, "n1")
	l, n := counter()

	r.BindOnce(tg, "click.once", l)
	if recs := r.Handlers("n1"); len(recs) != 1 || !recs[0].Once() {
		t.Fatalf("records = %+v", recs)
	}
	tg.node.Dispatch("click")
	tg.node.Dispatch("click")
	if *n != 1 {
		t.Errorf("calls = %d, want 1", *n)
	}
	if got := len(r.Handlers("n1")); got != 0 {
		t.Errorf("records after firing = %d", got)
	}
	if got := tg.node.ListenerCount("click"); got != 0 {
		t.Errorf("host listeners after firing = %d", got)
	}
}

func TestBindOnceReentrant(t *testing.T) {
	r := NewRegistry()
	tg := newTarget(t, "n1")
	calls := 0
	var l *Listener
	l = Listen(func(*host.Event, ...any) {
		calls++
		tg.node.Dispatch("click")
	})
	r.BindOnce(tg, "click", l)
	tg.node.Dispatch("click")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBindAll(t *testing.T) {
	r := NewRegistry()
	tg := newTarget(t, "n1")
	a, _ := counter()
	b, _ := counter()
	r.BindAll(tg, map[string]*Listener{"focus": b, "change": a})

	recs := r.Handlers("n1")
	if len(recs) != 2 || recs[0].Event != "change" || recs[1].Event != "focus" {
		t.Errorf("records = %+v", recs)
	}
}

func TestBindIgnored(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewRegistry(WithLogger(zap.New(core)))
	l, _ := counter()

	r.Bind(newTarget(t, ""), "click", l)
	r.Bind(newTarget(t, "n1"), "click", nil)
	r.Bind(newTarget(t, "n2"), ".onlyns", l)

	if r.Len() != 0 {
		t.Errorf("Len = %d", r.Len())
	}
	if got := logs.FilterMessage("bind ignored").Len(); got != 2 {
		t.Errorf("warnings = %d, want 2", got)
	}
}

func TestForget(t *testing.T) {
	r := NewRegistry()
	tg := newTarget(t, "n1")
	l, _ := counter()
	r.Bind(tg, "click", l)
	r.Forget("n1")
	if r.Len() != 0 || len(r.Handlers("n1")) != 0 {
		t.Error("Forget left records behind")
	}
}
