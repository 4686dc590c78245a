package stack

import (
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/event"
	"github.com/chrisuehlinger/tdollar/host"
)

// On binds l to the space separated event strings on every element.
// Event strings may carry dot separated namespaces: "click.menu".
func (s *Stack) On(events string, l *event.Listener) *Stack {
	return s.Each(func(el *element.Element, _ int) {
		s.env.events.Bind(el, events, l)
	})
}

// OnMap binds a batch of event strings on every element.
func (s *Stack) OnMap(events map[string]*event.Listener) *Stack {
	return s.Each(func(el *element.Element, _ int) {
		s.env.events.BindAll(el, events)
	})
}

// Off removes handlers matching events and l from every element. Off("", nil)
// removes all of them.
func (s *Stack) Off(events string, l *event.Listener) *Stack {
	return s.Each(func(el *element.Element, _ int) {
		s.env.events.Unbind(el, events, l)
	})
}

// One binds l so that it runs once per element and event.
func (s *Stack) One(events string, l *event.Listener) *Stack {
	return s.Each(func(el *element.Element, _ int) {
		s.env.events.BindOnce(el, events, l)
	})
}

// Trigger asks the host to dispatch name on every element. Hosts that cannot
// synthesize events are skipped.
func (s *Stack) Trigger(name string, data ...any) *Stack {
	return s.Each(func(el *element.Element, _ int) {
		d, ok := el.Node().(host.Dispatcher)
		if !ok {
			s.env.log.Debug("host cannot dispatch", zap.String("id", el.ID()), zap.String("event", name))
			return
		}
		d.Dispatch(event.ParseKey(name).Name, data...)
	})
}

// Handlers returns the records bound on the context.
func (s *Stack) Handlers() []*event.Record {
	ctx := s.Context()
	if ctx == nil {
		return nil
	}
	return s.env.events.Handlers(ctx.ID())
}
