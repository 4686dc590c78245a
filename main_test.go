package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chrisuehlinger/tdollar/host"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "card.html", `<View id="card"><Label class="title">Hi</Label><Label/></View>`)
	styles := writeFile(t, dir, "styles.yaml", "Label:\n  title: styled\n.title:\n  title: big\n")

	var out bytes.Buffer
	if err := render(doc, styles, &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `Window
  View#card
    Label.title text="Hi" title="big"
    Label title="styled"
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}

	if err := render(filepath.Join(dir, "missing.html"), "", &out); err == nil {
		t.Error("missing markup should fail")
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	js := writeFile(t, dir, "app.js", `
		$.root.add("Button", {id: "b", title: "Go"});
		console.log($.root.children().length);
	`)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", js})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "1\nWindow\n  Button#b title=\"Go\"\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTreeIDScheme(t *testing.T) {
	old := idScheme
	t.Cleanup(func() { idScheme = old })

	idScheme = "uuid"
	_, root, err := buildTree(host.NewMemory(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if id := root.Context().ID(); len(id) < len("tid-")+36 {
		t.Errorf("id = %q, want a uuid", id)
	}

	idScheme = "bogus"
	if _, _, err := buildTree(host.NewMemory(), "", ""); err == nil {
		t.Error("unknown id scheme should fail")
	}
}
