package stack

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/event"
	"github.com/chrisuehlinger/tdollar/host"
)

func opened(t *testing.T, s *Stack) bool {
	t.Helper()
	v, _ := s.El().Get("opened")
	return v == true
}

func TestWindowOpensThroughGroup(t *testing.T) {
	env, _ := newEnv(t)
	group := mustCreate(t, env, host.TabGroup, nil)
	group.Add(host.Tab, nil)
	tab := group.Children()
	tab.Add(host.Window, nil)
	win := tab.Children()

	c, ok := win.Container()
	if !ok {
		t.Fatal("window stack has no container capability")
	}
	if !c.Open() || !opened(t, win) {
		t.Fatal("window did not open through its tab")
	}
	if !c.Close() || opened(t, win) {
		t.Error("window did not close through its tab")
	}
	if c.Hide() != win || win.Context().Visible() {
		t.Error("Hide did not hide the window")
	}
}

func TestWindowOpensStandalone(t *testing.T) {
	env, _ := newEnv(t)
	win := mustCreate(t, env, host.Window, nil)
	c, _ := win.Container()
	if !c.Open() || !opened(t, win) {
		t.Error("parentless window did not open")
	}
}

func TestWindowMissingBackReference(t *testing.T) {
	env, logs := newEnv(t)
	root := mustCreate(t, env, host.View, nil)
	root.Add(host.Window, nil)
	win := root.Children()

	c, _ := win.Container()
	if c.Open() {
		t.Error("window without its group opened")
	}
	if got := warnings(logs, element.MissingBackReference); got != 1 {
		t.Errorf("warnings = %d, want 1", got)
	}
}

func TestCapabilitiesFollowContext(t *testing.T) {
	env, _ := newEnv(t)
	label := mustCreate(t, env, host.Label, nil)
	if _, ok := label.Container(); ok {
		t.Error("label has the container capability")
	}
	if _, ok := label.List(); ok {
		t.Error("label has the list capability")
	}
	if label.Extension() != nil {
		t.Error("label has an extension")
	}
	if _, ok := mustCreate(t, env, host.TableView, nil).List(); !ok {
		t.Error("table view lacks the list capability")
	}
}

func TestCustomOverlay(t *testing.T) {
	type marker struct{ s *Stack }
	env, _ := newEnv(t, WithOverlay(host.Label, func(s *Stack) any { return marker{s} }))
	label := mustCreate(t, env, host.Label, nil)
	m, ok := label.Extension().(marker)
	if !ok || m.s != label {
		t.Errorf("extension = %#v", label.Extension())
	}
}

func TestTableSetData(t *testing.T) {
	env, logs := newEnv(t)
	table := mustCreate(t, env, host.TableView, nil)
	list, _ := table.List()

	prebuilt := mustCreate(t, env, host.TableViewRow, map[string]any{"id": "c"})
	list.SetData(map[string]any{"id": "a", "title": "A"}, map[string]any{"id": "b"}, prebuilt, 42)

	rows := list.Rows()
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(rows)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if got := warnings(logs, element.AdoptionWarning); got != 1 {
		t.Errorf("warnings = %d", got)
	}
	rows.Each(func(el *element.Element, _ int) {
		if el.Parent() != table.Context() {
			t.Errorf("%s parent = %v", el.IDAttr(), el.Parent())
		}
	})
	if rows.Context().Tag() != host.TableViewRow {
		t.Errorf("row tag = %s", rows.Context().Tag())
	}

	old := rows.Context()
	rows.On("click", event.Listen(func(*host.Event, ...any) {}))
	list.SetData(map[string]any{"id": "d"})

	if diff := cmp.Diff([]string{"d"}, ids(list.Rows())); diff != "" {
		t.Errorf("rows after reset (-want +got):\n%s", diff)
	}
	if env.Events().Len() != 0 {
		t.Error("handlers of replaced rows survived")
	}
	if old.Parent() != nil {
		t.Error("replaced row keeps its parent")
	}
	if _, ok := env.Tree().Lookup(old.Node()); ok {
		t.Error("replaced row still indexed")
	}

	list.SetData()
	if list.Rows().Len() != 0 {
		t.Error("SetData() did not clear the rows")
	}
}

func TestTableSetDataKeepsHandedBackRows(t *testing.T) {
	env, _ := newEnv(t)
	table := mustCreate(t, env, host.TableView, nil)
	list, _ := table.List()
	list.SetData(map[string]any{"id": "keep"}, map[string]any{"id": "drop"})

	keep := table.Find("#keep")
	keep.On("click", event.Listen(func(*host.Event, ...any) {}))
	table.Find("#drop").On("click", event.Listen(func(*host.Event, ...any) {}))

	list.SetData(keep, map[string]any{"id": "new"})

	if diff := cmp.Diff([]string{"keep", "new"}, ids(list.Rows())); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if len(keep.Handlers()) != 1 {
		t.Error("kept row lost its handlers")
	}
	if env.Events().Len() != 1 {
		t.Errorf("registry tracks %d nodes, want only the kept row", env.Events().Len())
	}
	if keep.Context().Parent() != table.Context() {
		t.Error("kept row lost its parent")
	}
}

// flakyData fails to accept new rows while fail is set.
type flakyData struct {
	host.Node
	fail *bool
}

func (n flakyData) Set(name string, value any) error {
	if name == "data" && *n.fail {
		return errors.New("data rejected")
	}
	return n.Node.Set(name, value)
}

func TestTableSetDataHostFailure(t *testing.T) {
	env, logs := newEnv(t)
	raw, _ := env.Tree().Host().Create(host.TableView, nil)
	fail := false
	table := env.Adopt(flakyData{Node: raw, fail: &fail})
	list, ok := table.List()
	if !ok {
		t.Fatal("adopted table view has no list capability")
	}
	list.SetData(map[string]any{"id": "a"})
	old := table.Find("#a")
	old.On("click", event.Listen(func(*host.Event, ...any) {}))
	before := env.Tree().Len()

	fail = true
	list.SetData(map[string]any{"id": "b"})

	if got := warnings(logs, "data rejected"); got != 1 {
		t.Errorf("warnings = %d", got)
	}
	if diff := cmp.Diff([]string{"a"}, ids(list.Rows())); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if len(old.Handlers()) != 1 || old.Context().Parent() != table.Context() {
		t.Error("previous row was released although the host kept it")
	}
	if env.Tree().Len() != before {
		t.Errorf("index grew from %d to %d", before, env.Tree().Len())
	}
}
