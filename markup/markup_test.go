package markup

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/host"
	"github.com/chrisuehlinger/tdollar/stack"
)

const profileDoc = `
<View class="card" id="profile">
  <Label class="title">Hello</Label>
  <Button title="Save" enabled="true" background-color="red" width="40"/>
</View>
<Label id="footer" visible="false">Bye</Label>
`

func TestBuildAndDump(t *testing.T) {
	env := stack.NewEnv(host.NewMemory())
	s, err := BuildString(env, nil, profileDoc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("top-level elements = %d, want 2", s.Len())
	}

	var buf bytes.Buffer
	if err := Dump(&buf, s); err != nil {
		t.Fatal(err)
	}
	want := `View#profile.card
  Label.title text="Hello"
  Button title="Save"
Label#footer text="Bye" hidden
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}

	btn := s.Find("Button")
	if diff := cmp.Diff(map[string]any{
		"title":           "Save",
		"enabled":         true,
		"backgroundColor": "red",
		"width":           40,
	}, btn.El().(*host.MemoryNode).Props()); diff != "" {
		t.Errorf("button props mismatch (-want +got):\n%s", diff)
	}
	if p := btn.Parent(); p.Context() != s.Context() {
		t.Error("nested element not parented")
	}
}

func TestBuildIntoParent(t *testing.T) {
	env := stack.NewEnv(host.NewMemory())
	win := env.MustCreate(host.Window, nil)

	s, err := BuildString(env, win, "<label>one</label><LABEL>two</LABEL>")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || win.Children().Len() != 2 {
		t.Errorf("built %d, window holds %d", s.Len(), win.Children().Len())
	}
	if got := win.Children().Last().Attr("text"); got != "two" {
		t.Errorf("text = %v", got)
	}
}

func TestBuildPairs(t *testing.T) {
	env := stack.NewEnv(host.NewMemory())
	s, err := BuildString(env, nil, `<TabGroup><Tab id="t"><Window id="w"></Window></Tab></TabGroup>`)
	if err != nil {
		t.Fatal(err)
	}
	tab := s.Find("#t")
	if tab.Len() != 1 {
		t.Fatal("tab not built")
	}
	if tab.Find("#w").Context().Group() != tab.Context() {
		t.Error("window not grouped under its tab")
	}
}

func TestBuildTableRows(t *testing.T) {
	env := stack.NewEnv(host.NewMemory())
	s, err := BuildString(env, nil, `<TableView><TableViewRow id="r"/><TableViewSection><TableViewRow id="n"/></TableViewSection></TableView>`)
	if err != nil {
		t.Fatal(err)
	}
	if s.Find("#r").Len() != 1 || s.Find("#n").Len() != 1 {
		t.Error("table rows not reachable from the table view")
	}
	if got := s.Children().Len(); got != 2 {
		t.Errorf("table view children = %d, want 2", got)
	}
}

func TestBuildUnknownTag(t *testing.T) {
	env := stack.NewEnv(host.NewMemory())
	_, err := BuildString(env, nil, "<View><Spaceship/></View>")
	if !element.Is(err, element.UnknownTag) {
		t.Errorf("err = %v, want UnknownTag", err)
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		key, val string
		wantKey  string
		want     any
	}{
		{"class", "a b", "className", "a b"},
		{"id", "42", "id", "42"},
		{"title", "true", "title", "true"},
		{"enabled", "false", "enabled", false},
		{"max-length", "12", "maxLength", 12},
		{"hint-text", "Name", "hintText", "Name"},
		{"trailing-", "x", "trailing", "x"},
	}
	for _, tt := range tests {
		got := attributes([]html.Attribute{{Key: tt.key, Val: tt.val}})
		if diff := cmp.Diff(map[string]any{tt.wantKey: tt.want}, got); diff != "" {
			t.Errorf("%s=%q mismatch (-want +got):\n%s", tt.key, tt.val, diff)
		}
	}
}
