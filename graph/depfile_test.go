// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/depgraph/graph"
)

func TestLoadDepFile(t *testing.T) {
	for _, tc := range []struct {
		name     string
		depfile  string
		wantDeps []string
	}{
		{
			name:     "simple",
			depfile:  "foo.o:\tbar baz qux\n",
			wantDeps: []string{"bar", "baz", "qux"},
		},
		{
			name:     "space in name",
			depfile:  `foo\ bar.o: baz\ qux` + "\n",
			wantDeps: []string{"baz qux"},
		},
		{
			name:     "line continuation",
			depfile:  "foo.o :\tbar\\\n\tbaz\\\r\n  qux\n",
			wantDeps: []string{"bar", "baz", "qux"},
		},
		{
			name:     "comment stripped",
			depfile:  "# generated\nfoo.o: bar baz\n",
			wantDeps: []string{"bar", "baz"},
		},
		{
			name: "multiple rules pool their deps",
			depfile: "out.o: lib.rs tables.rs\n" +
				"lib.rs:\n" +
				"tables.rs:\n",
			wantDeps: []string{"lib.rs", "tables.rs"},
		},
		{
			name:     "canonicalizable path",
			depfile:  "out.o: bar/../foo.cc\n",
			wantDeps: []string{"foo.cc"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			state := graph.NewState()
			rule := graph.NewRule("catdep")
			rule.SetCommand(mustEvalString("cat $in > $out"))
			rule.SetDepfile(mustEvalString("out.o.d"))
			state.AddRule(rule)
			edge := state.AddEdge(rule)
			state.AddIn(edge, "in")
			state.AddOut(edge, "out.o")

			disk := newFakeDisk()
			disk.create("out.o.d", 1, tc.depfile)

			missing, err := graph.LoadDepFile(state, disk, edge)
			if err != nil {
				t.Fatalf("LoadDepFile: %v", err)
			}
			if missing {
				t.Fatalf("LoadDepFile reported missing, want a successful parse")
			}

			var got []string
			for i, in := range edge.Inputs() {
				if edge.IsDepfileImplicit(i) {
					got = append(got, in.Path())
				}
			}
			if diff := cmp.Diff(tc.wantDeps, got); diff != "" {
				t.Errorf("depfile-implicit inputs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadDepFile_Missing(t *testing.T) {
	state := graph.NewState()
	rule := graph.NewRule("catdep")
	rule.SetCommand(mustEvalString("cat $in > $out"))
	rule.SetDepfile(mustEvalString("out.o.d"))
	state.AddRule(rule)
	edge := state.AddEdge(rule)
	state.AddIn(edge, "in")
	state.AddOut(edge, "out.o")

	disk := newFakeDisk()
	missing, err := graph.LoadDepFile(state, disk, edge)
	if err != nil {
		t.Fatalf("LoadDepFile: %v", err)
	}
	if !missing {
		t.Errorf("missing = false, want true for a depfile that does not exist")
	}
}

func TestLoadDepFile_NoDepfileDeclared(t *testing.T) {
	state := graph.NewState()
	rule := graph.NewRule("cat")
	rule.SetCommand(mustEvalString("cat $in > $out"))
	state.AddRule(rule)
	edge := state.AddEdge(rule)
	state.AddIn(edge, "in")
	state.AddOut(edge, "out")

	missing, err := graph.LoadDepFile(state, newFakeDisk(), edge)
	if err != nil {
		t.Fatalf("LoadDepFile: %v", err)
	}
	if missing {
		t.Errorf("missing = true, want false: rule declares no depfile at all")
	}
	if len(edge.Inputs()) != 1 {
		t.Errorf("len(edge.Inputs()) = %d, want 1 (no depfile inputs should be added)", len(edge.Inputs()))
	}
}

func mustEvalString(s string) graph.EvalString {
	state := graph.NewState()
	if err := graph.ParseManifest(state, "rule tmp\n  command = "+s+"\n"); err != nil {
		panic(err)
	}
	rule, _ := state.LookupRule("tmp")
	return rule.Command()
}
