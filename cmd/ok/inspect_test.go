package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mgomes/okaylib/ok"
)

const hierarchyYAML = `views: true
classes:
  - name: Person
    parent: Map
    merge: [defaults]
    members:
      defaults:
        name: anon
      greeting: hello
  - name: Employee
    parent: Person
    members:
      defaults:
        company: acme
  - name: Card
    parent: View
    members:
      classNames: [card]
`

func writeHierarchy(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classes.yaml")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write hierarchy: %v", err)
	}
	return path
}

func TestInspectCommandPrintsResolvedClasses(t *testing.T) {
	path := writeHierarchy(t, hierarchyYAML)

	out, err := captureStdout(t, func() error {
		return inspectCommand([]string{path}, cliConfig{HistoryLimit: 10})
	})
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{
		"chain: Employee > Person > Map > Data > Base > Object",
		"defaults = {company: acme, name: anon}",
		"defaults (union)",
		"greeting = hello",
		"classNames = [ok-view, card]",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInspectCommandFiltersByClass(t *testing.T) {
	path := writeHierarchy(t, hierarchyYAML)

	out, err := captureStdout(t, func() error {
		return inspectCommand([]string{"-class", "Card", path}, cliConfig{HistoryLimit: 10})
	})
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.HasPrefix(out, "Card (#") || strings.Contains(out, "Employee") {
		t.Fatalf("unexpected filtered output:\n%s", out)
	}
}

func TestInspectCommandPrintsYAML(t *testing.T) {
	path := writeHierarchy(t, hierarchyYAML)

	out, err := captureStdout(t, func() error {
		return inspectCommand([]string{"-yaml", "-class", "Employee", path}, cliConfig{HistoryLimit: 10})
	})
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	var got []struct {
		Name    string            `yaml:"name"`
		Parent  string            `yaml:"parent"`
		Merge   map[string]string `yaml:"merge"`
		Members map[string]any    `yaml:"members"`
		Methods []string          `yaml:"methods"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].Name != "Employee" || got[0].Parent != "Person" {
		t.Fatalf("unexpected classes: %+v", got)
	}
	if got[0].Merge["defaults"] != "union" {
		t.Fatalf("unexpected merge policies: %v", got[0].Merge)
	}
	defaults, _ := got[0].Members["defaults"].(map[string]any)
	if defaults["name"] != "anon" || defaults["company"] != "acme" {
		t.Fatalf("unexpected defaults: %v", got[0].Members["defaults"])
	}
	if !slices.Contains(got[0].Methods, "get") {
		t.Fatalf("expected inherited methods, got %v", got[0].Methods)
	}
}

func TestInspectCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "unknown parent",
			source: "classes:\n  - name: A\n    parent: Nope\n",
			want:   `unknown parent "Nope"`,
		},
		{
			name:   "views not loaded",
			source: "classes:\n  - name: A\n    parent: View\n",
			want:   `unknown parent "View"`,
		},
		{
			name:   "missing name",
			source: "classes:\n  - parent: Base\n",
			want:   "name required",
		},
		{
			name:   "declared constructor",
			source: "classes:\n  - name: A\n    members:\n      constructor: 1\n",
			want:   "constructor cannot be declared",
		},
		{
			name:   "bad merge key",
			source: "classes:\n  - name: A\n    members:\n      mergeProperties: 3\n",
			want:   "mergeProperties",
		},
		{
			name:   "invalid yaml",
			source: "classes: [",
			want:   "parse hierarchy",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeHierarchy(t, tc.source)
			_, err := captureStdout(t, func() error {
				return inspectCommand([]string{path}, cliConfig{HistoryLimit: 10})
			})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestInspectCommandRequiresPath(t *testing.T) {
	err := inspectCommand(nil, cliConfig{HistoryLimit: 10})
	if err == nil || !strings.Contains(err.Error(), "hierarchy file required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildHierarchyIncludesEarlierClasses(t *testing.T) {
	f := ok.MustNewFactory(ok.Config{})
	classes, err := buildHierarchy(f, hierarchyFile{Classes: []classSpec{
		{Name: "Named", Members: map[string]any{"label": "x"}},
		{Name: "Widget", Include: []string{"Named"}, Members: map[string]any{"size": 3}},
	}})
	if err != nil {
		t.Fatalf("build hierarchy: %v", err)
	}
	widget := classes[1]
	if got, _ := widget.Member("label"); got.String() != "x" {
		t.Fatalf("include not applied, label=%v", got)
	}
	if widget.Parent() != f.Base() {
		t.Fatalf("default parent should be Base, got %s", widget.Parent().Name())
	}
	inst := widget.MustNew()
	if inst.Get("size").Int() != 3 {
		t.Fatalf("unexpected size %v", inst.Get("size"))
	}

	var buf bytes.Buffer
	writeClass(&buf, widget)
	if !strings.Contains(buf.String(), "methods: ") || !strings.Contains(buf.String(), "on") {
		t.Fatalf("expected inherited methods listed:\n%s", buf.String())
	}
}
