// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph_test

import (
	"testing"

	"go.chromium.org/infra/build/depgraph/graph"
)

func TestParseManifest_TopLevelVariableExpansion(t *testing.T) {
	state := graph.NewState()
	text := "builddir = out\n" +
		"rule cc\n" +
		"  command = gcc -c $in -o $out\n" +
		"build $builddir/foo.o: cc foo.c\n"
	if err := graph.ParseManifest(state, text); err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, ok := state.LookupNode("out/foo.o"); !ok {
		t.Errorf("expected node %q from expanding $builddir, not found", "out/foo.o")
	}
}

func TestParseManifest_GeneratorAndRestat(t *testing.T) {
	state := graph.NewState()
	text := "rule regen\n" +
		"  command = gn gen .\n" +
		"  generator = 1\n" +
		"  restat = 1\n" +
		"build build.manifest: regen build.gn\n"
	if err := graph.ParseManifest(state, text); err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	rule, ok := state.LookupRule("regen")
	if !ok {
		t.Fatalf("rule %q not registered", "regen")
	}
	if !rule.Generator() {
		t.Errorf("Generator() = false, want true")
	}
	if !rule.Restat() {
		t.Errorf("Restat() = false, want true")
	}
}

func TestParseManifest_DefaultFallsBackToRootNodes(t *testing.T) {
	state := graph.NewState()
	text := "rule cc\n" +
		"  command = gcc -c $in -o $out\n" +
		"build a.o: cc a.c\n" +
		"build b.o: cc b.c\n"
	if err := graph.ParseManifest(state, text); err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	nodes, err := state.DefaultNodes()
	if err != nil {
		t.Fatalf("DefaultNodes: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("len(DefaultNodes()) = %d, want 2", len(nodes))
	}
}

func TestParseManifest_ExplicitDefault(t *testing.T) {
	state := graph.NewState()
	text := "rule cc\n" +
		"  command = gcc -c $in -o $out\n" +
		"build a.o: cc a.c\n" +
		"build b.o: cc b.c\n" +
		"default a.o\n"
	if err := graph.ParseManifest(state, text); err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	nodes, err := state.DefaultNodes()
	if err != nil {
		t.Fatalf("DefaultNodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Path() != "a.o" {
		t.Fatalf("DefaultNodes() = %v, want [a.o]", nodes)
	}
}

func TestParseManifest_DuplicateOutputIsAnError(t *testing.T) {
	state := graph.NewState()
	text := "rule cc\n" +
		"  command = gcc -c $in -o $out\n" +
		"build a.o: cc a.c\n" +
		"build a.o: cc a2.c\n"
	if err := graph.ParseManifest(state, text); err == nil {
		t.Fatalf("ParseManifest succeeded, want an error for two rules producing a.o")
	}
}

func TestParseManifest_UnknownRuleIsAnError(t *testing.T) {
	state := graph.NewState()
	if err := graph.ParseManifest(state, "build out: nonexistent in\n"); err == nil {
		t.Fatalf("ParseManifest succeeded, want an error for an undeclared rule")
	}
}

func TestParseManifest_DepfileAndRspfileBindings(t *testing.T) {
	state := graph.NewState()
	text := "rule link\n" +
		"  command = link @$out.rsp -o $out\n" +
		"  rspfile = $out.rsp\n" +
		"  rspfile_content = $in\n" +
		"build a.out: link a.o b.o\n"
	if err := graph.ParseManifest(state, text); err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	n, ok := state.LookupNode("a.out")
	if !ok {
		t.Fatalf("node %q not found", "a.out")
	}
	edge, ok := n.InEdge()
	if !ok {
		t.Fatalf("node %q has no producing edge", "a.out")
	}
	if !edge.HasRspFile() {
		t.Fatalf("HasRspFile() = false, want true")
	}
	if got, want := edge.GetRspFile(), "a.out.rsp"; got != want {
		t.Errorf("GetRspFile() = %q, want %q", got, want)
	}
	if got, want := edge.GetRspFileContent(), "a.o b.o"; got != want {
		t.Errorf("GetRspFileContent() = %q, want %q", got, want)
	}
}
