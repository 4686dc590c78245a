package element

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chrisuehlinger/tdollar/host"
)

// opaque hides every optional host interface of the wrapped node.
type opaque struct{ host.Node }

func newTree(t *testing.T, opts ...TreeOption) *Tree {
	t.Helper()
	return NewTree(host.NewMemory(), opts...)
}

func mustMake(t *testing.T, tr *Tree, tag string, attrs map[string]any) *Element {
	t.Helper()
	el, err := tr.Make(tag, attrs)
	if err != nil {
		t.Fatalf("Make(%s): %v", tag, err)
	}
	return el
}

func TestClasses(t *testing.T) {
	tr := newTree(t)
	el := mustMake(t, tr, host.View, map[string]any{"className": "a  b a\tc"})

	if diff := cmp.Diff([]string{"a", "b", "c"}, el.Classes()); diff != "" {
		t.Errorf("Classes mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"a", true},
		{"c", true},
		{"d", false},
		{"", false},
		{"a b", false},
		{"ab", false},
	}
	for _, tt := range tests {
		if got := el.HasClass(tt.name); got != tt.want {
			t.Errorf("HasClass(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetSetMetadata(t *testing.T) {
	tr := newTree(t)
	el := mustMake(t, tr, host.Label, map[string]any{"id": "title", "text": "hi"})

	if v, _ := el.Get("id"); v != "title" {
		t.Errorf("id = %v", v)
	}
	if v, _ := el.Get("text"); v != "hi" {
		t.Errorf("text = %v", v)
	}
	if _, ok := el.Node().Get("id"); ok {
		t.Error("id must stay out of the host property bag")
	}

	if err := el.Set("className", "big"); err != nil {
		t.Fatal(err)
	}
	if !el.HasClass("big") {
		t.Error("className not updated")
	}
	if err := el.Set("text", "bye"); err != nil {
		t.Fatal(err)
	}
	if v, _ := el.Node().Get("text"); v != "bye" {
		t.Errorf("host text = %v", v)
	}
	if got := el.String(); got != "Label#title.big" {
		t.Errorf("String = %q", got)
	}
}

func TestBackfillID(t *testing.T) {
	n, _ := host.NewMemory().Create(host.Label, map[string]any{"id": "fromHost"})
	el := newTree(t).Adopt(n)
	if el.IDAttr() != "fromHost" {
		t.Errorf("IDAttr = %q", el.IDAttr())
	}
}

func TestVisibility(t *testing.T) {
	tr := newTree(t)
	el := mustMake(t, tr, host.View, nil)
	if !el.Visible() {
		t.Error("new element should be visible")
	}
	el.SetVisible(false)
	if el.Visible() {
		t.Error("element still visible")
	}

	n, _ := host.NewMemory().Create(host.View, nil)
	cached := tr.Adopt(opaque{n})
	if !cached.Visible() {
		t.Error("cache defaults to visible")
	}
	if err := cached.Set("visible", false); err != nil {
		t.Fatal(err)
	}
	if cached.Visible() {
		t.Error("cached visibility not updated")
	}
	if v, _ := n.Get("visible"); v != false {
		t.Error("host visibility not forwarded")
	}
}

func TestParentLinks(t *testing.T) {
	tr := newTree(t)
	tab := mustMake(t, tr, host.Tab, nil)
	win := mustMake(t, tr, host.Window, nil)

	win.SetParent(tab)
	win.SetGroup(tab)
	if win.Parent() != tab || win.Group() != tab {
		t.Fatal("links not recorded")
	}
	win.ClearParent()
	if win.Parent() != nil || win.Group() != nil {
		t.Error("ClearParent must drop both links")
	}
}

func TestNilElement(t *testing.T) {
	var el *Element
	if el.ID() != "" {
		t.Error("nil element has an id")
	}
	if el.Valid() {
		t.Error("nil element is valid")
	}
}

func TestErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrOrphanRemoval("no parent"))
	if !Is(err, OrphanRemoval) {
		t.Error("Is should see through wrapping")
	}
	if Is(err, InvalidSelector) {
		t.Error("Is matched the wrong name")
	}
	if got := ErrUnknownTag("Spaceship").Error(); got != "UnknownTag: Spaceship" {
		t.Errorf("Error() = %q", got)
	}
}
