package stack

import (
	"testing"

	"github.com/chrisuehlinger/tdollar/host"
)

func TestAttrRoundTrip(t *testing.T) {
	env, _ := newEnv(t)
	label := mustCreate(t, env, host.Label, map[string]any{"text": "before"})

	if got := label.Attr("text"); got != "before" {
		t.Errorf("text = %v", got)
	}
	label.SetAttr("text", "after")
	if got := label.Attr("text"); got != "after" {
		t.Errorf("text = %v", got)
	}
	if got := label.Attr("missing"); got != nil {
		t.Errorf("missing = %v", got)
	}

	label.SetAttrs(map[string]any{"className": "a b", "id": "lbl", "color": "red"})
	if !label.HasClass("b") || label.Attr("id") != "lbl" || label.Attr("color") != "red" {
		t.Errorf("SetAttrs: %v", label)
	}
}

func TestSetAttrOnEveryElement(t *testing.T) {
	env, _ := newEnv(t)
	root := mustCreate(t, env, host.View, nil)
	root.Add(host.Label, nil).Add(host.Label, nil)
	root.Children().SetAttr("text", "same")

	for _, n := range root.El().Children() {
		if v, _ := n.Get("text"); v != "same" {
			t.Errorf("text = %v", v)
		}
	}
}

func TestSetAttrWithStack(t *testing.T) {
	env, logs := newEnv(t)
	tab := mustCreate(t, env, host.Tab, nil)
	win := mustCreate(t, env, host.Window, map[string]any{"id": "w"})

	tab.SetAttr("window", win)
	if v, _ := tab.El().Get("window"); v != win.El() {
		t.Fatalf("window = %v", v)
	}
	if win.Parent().Context() != tab.Context() || win.Context().Group() != tab.Context() {
		t.Error("sub-element not parented")
	}
	if tab.Find("#w").Len() != 1 {
		t.Error("sub-element not reachable as a child")
	}

	tab.SetAttr("window", env.Wrap())
	if got := warnings(logs, "empty stack"); got != 1 {
		t.Errorf("warnings = %d", got)
	}
}

func TestSetAttrHostError(t *testing.T) {
	env, logs := newEnv(t)
	view := mustCreate(t, env, host.View, nil)
	view.SetAttr("children", "nope")
	if got := warnings(logs, "read-only"); got != 1 {
		t.Errorf("warnings = %d", got)
	}
}

func TestSetAttrMovesSubElement(t *testing.T) {
	env, _ := newEnv(t)
	t1 := mustCreate(t, env, host.Tab, nil)
	t2 := mustCreate(t, env, host.Tab, nil)
	win := mustCreate(t, env, host.Window, map[string]any{"id": "w"})

	t1.SetAttr("window", win)
	t2.SetAttr("window", win)

	if _, ok := t1.El().Get("window"); ok {
		t.Error("first tab still holds the window")
	}
	if t1.Find("#w").Len() != 0 || t2.Find("#w").Len() != 1 {
		t.Error("window not moved to the second tab")
	}
	if win.Parent().Context() != t2.Context() {
		t.Error("parent not updated")
	}
}
