// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package definition

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/open2b/tablesbuilder"
)

// readArchive reads the txtar archive with the given name in testdata and
// returns the data of its files.
func readArchive(t *testing.T, name string) (names []string, files map[string]string) {
	t.Helper()
	arch, err := txtar.ParseFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	files = map[string]string{}
	for _, f := range arch.Files {
		files[f.Name] = string(f.Data)
		if strings.HasSuffix(f.Name, ".yaml") {
			names = append(names, strings.TrimSuffix(f.Name, ".yaml"))
		}
	}
	return names, files
}

func TestDefinitions(t *testing.T) {
	names, files := readArchive(t, "definitions.txtar")
	for _, name := range names {
		expected, ok := files[name+".html"]
		if !ok {
			t.Fatalf("%s: missing %s.html", name, name)
		}
		d, err := Load(strings.NewReader(files[name+".yaml"]))
		if err != nil {
			t.Errorf("%s: unexpected error: %s", name, err)
			continue
		}
		got, err := d.Render(nil)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", name, err)
			continue
		}
		if got != strings.TrimSpace(expected) {
			t.Errorf("%s: expecting\n\t%s\ngot\n\t%s", name, strings.TrimSpace(expected), got)
		}
	}
}

func TestErrors(t *testing.T) {
	names, files := readArchive(t, "errors.txtar")
	for _, name := range names {
		expected, ok := files[name+".err"]
		if !ok {
			t.Fatalf("%s: missing %s.err", name, name)
		}
		_, err := Load(strings.NewReader(files[name+".yaml"]))
		if err == nil {
			t.Errorf("%s: expecting error, got nil", name)
			continue
		}
		var e *SyntaxError
		if !errors.As(err, &e) {
			t.Errorf("%s: expecting *SyntaxError, got %T", name, err)
			continue
		}
		if got := err.Error(); got != strings.TrimSpace(expected) {
			t.Errorf("%s: expecting error %q, got %q", name, strings.TrimSpace(expected), got)
		}
	}
}

func TestLoad(t *testing.T) {
	src := `
description: |
  Users of the **shop**.
attributes: [{id: users}, hidden]
initialize: false
filter: all
options: {pageLength: 10, lengthMenu: [10, 25]}
steps:
  - addHeadColumn: Name
  - addFootAttr: {class: f}
`
	d, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if d.Description != "Users of the **shop**.\n" {
		t.Fatalf("unexpected description %q", d.Description)
	}
	if diff := cmp.Diff(tablesbuilder.Attrs("id", "users").Add("hidden"), d.Attributes); diff != "" {
		t.Fatalf("unexpected attributes (-want +got):\n%s", diff)
	}
	if d.Initialize {
		t.Fatal("expecting initialize false")
	}
	if d.Filter != tablesbuilder.FilterAll {
		t.Fatalf("expecting filter all, got %s", d.Filter)
	}
	if diff := cmp.Diff([]string{"pageLength", "lengthMenu"}, d.Options.Keys()); diff != "" {
		t.Fatalf("unexpected option keys (-want +got):\n%s", diff)
	}
	menu, _ := d.Options.Get("lengthMenu")
	if diff := cmp.Diff([]interface{}{10, 25}, menu); diff != "" {
		t.Fatalf("unexpected lengthMenu (-want +got):\n%s", diff)
	}
	var methods []string
	for _, step := range d.Steps {
		methods = append(methods, step.Method)
	}
	if diff := cmp.Diff([]string{"addHeadColumn", "addFootAttr"}, methods); diff != "" {
		t.Fatalf("unexpected steps (-want +got):\n%s", diff)
	}
	if d.Steps[0].Line != 9 {
		t.Fatalf("expecting line 9, got %d", d.Steps[0].Line)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(strings.NewReader("attributes: [\n"))
	if err == nil {
		t.Fatal("expecting error, got nil")
	}
	if !strings.HasPrefix(err.Error(), "definition: cannot decode: ") {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	d, err := Load(strings.NewReader("attributes: {id: t}\nsteps:\n  - addHead: [a, b]\n"))
	if err != nil {
		t.Fatal(err)
	}
	first, err := d.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	first.AddHeadColumn("c", nil)
	if got := second.Render(false); got != `<table id="t"><thead><tr><th>a</th><th>b</th></tr></thead></table>` {
		t.Fatalf("unexpected %s", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "users.yaml")
	err := os.WriteFile(name, []byte("steps:\n  - addBody: []\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(name)
	if err == nil {
		t.Fatal("expecting error, got nil")
	}
	if expected := name + `:2:5: unknown operation "addBody"`; err.Error() != expected {
		t.Fatalf("expecting error %q, got %q", expected, err)
	}
	var e *UnknownOperationError
	if !errors.As(err, &e) || e.Method != "addBody" {
		t.Fatalf("expecting *UnknownOperationError, got %#v", err)
	}
	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	if !os.IsNotExist(errors.Cause(err)) {
		t.Fatalf("expecting not exist error, got %v", err)
	}
}

func TestDispatch(t *testing.T) {
	var node yaml.Node
	err := yaml.Unmarshal([]byte(`[Name, {text: Email, attributes: {class: wide}}]`), &node)
	if err != nil {
		t.Fatal(err)
	}
	args := node.Content[0]
	table := tablesbuilder.New(tablesbuilder.Attrs("id", "users"), nil)
	if err = Dispatch(table, "addHead", args); err != nil {
		t.Fatal(err)
	}
	expected := `<table id="users"><thead><tr><th>Name</th><th class="wide">Email</th></tr></thead></table>`
	if got := table.Render(false); got != expected {
		t.Fatalf("expecting %s, got %s", expected, got)
	}
	err = Dispatch(table, "addBodyColumn", args)
	var e *UnknownOperationError
	if !errors.As(err, &e) {
		t.Fatalf("expecting *UnknownOperationError, got %v", err)
	}
	if e.Error() != `unknown operation "addBodyColumn"` {
		t.Fatalf("unexpected error %q", e)
	}
	err = Dispatch(table, "addFootAttr", args)
	if err == nil {
		t.Fatal("expecting error, got nil")
	}
	if got := table.Render(false); got != expected {
		t.Fatalf("failed dispatch changes the table: %s", got)
	}
}

func TestOptionsKeepOrder(t *testing.T) {
	src := "options:\n  z: 1\n  a: {y: true, b: null}\n  m: [x, {k: v}]\n"
	d, err := Load(bytes.NewReader([]byte(src)))
	if err != nil {
		t.Fatal(err)
	}
	table, err := d.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, table.Options().Keys()); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestBuildDispatchesSteps(t *testing.T) {
	var args yaml.Node
	err := yaml.Unmarshal([]byte(`[Name, Email]`), &args)
	if err != nil {
		t.Fatal(err)
	}
	d := &Definition{
		Attributes: tablesbuilder.Attrs("id", "users"),
		Steps: []Step{
			{Method: "addHead", Args: args.Content[0]},
			{Method: "addFootColumn"},
			{Method: "addFootAttr"},
			{Method: "addHead"},
		},
	}
	got, err := d.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	expected := `<table id="users"><thead><tr><th>Name</th><th>Email</th></tr></thead>` +
		`<tfoot><tr><th></th></tr></tfoot></table>`
	if got != expected {
		t.Fatalf("expecting %s, got %s", expected, got)
	}

	d.Steps = append(d.Steps, Step{Method: "addBodyColumn"})
	_, err = d.Build(nil)
	var e *UnknownOperationError
	if !errors.As(err, &e) || e.Method != "addBodyColumn" {
		t.Fatalf("expecting *UnknownOperationError, got %v", err)
	}
	if expected := `definition: step 5: unknown operation "addBodyColumn"`; err.Error() != expected {
		t.Fatalf("expecting error %q, got %q", expected, err)
	}
}

func TestDispatchNilArgs(t *testing.T) {
	table := tablesbuilder.New(nil, nil)
	for _, method := range []string{"addHead", "addFoot", "addHeadColumn", "addHeadAttr", "addFootAttr"} {
		if err := Dispatch(table, method, nil); err != nil {
			t.Fatalf("%s: unexpected error: %s", method, err)
		}
	}
	if got := table.Render(false); got != `<table><thead><tr><th></th></tr></thead></table>` {
		t.Fatalf("unexpected %s", got)
	}
}
