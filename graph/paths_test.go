// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph_test

import (
	"testing"

	"go.chromium.org/infra/build/depgraph/graph"
)

func TestCanonicalizePath(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
	}{
		{name: "already canonical", in: "foo.cc", want: "foo.cc"},
		{name: "leading dot-slash", in: "./out.o", want: "out.o"},
		{name: "dot-dot collapses", in: "bar/../foo.cc", want: "foo.cc"},
		{name: "nested dot-dot", in: "./foo/../implicit.h", want: "implicit.h"},
		{name: "duplicate separators", in: "a//b", want: "a/b"},
		{name: "empty string", in: "", want: ""},
		{name: "bare dot", in: ".", want: "."},
		{name: "trailing slash preserved", in: "a/b/", want: "a/b/"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := graph.CanonicalizePath(tc.in)
			if got != tc.want {
				t.Errorf("CanonicalizePath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestState_GetNode_SamePathSameNode(t *testing.T) {
	state := graph.NewState()
	a := state.GetNode("./out.o")
	b := state.GetNode("bar/../out.o")
	if a != b {
		t.Errorf("GetNode(%q) and GetNode(%q) returned different nodes, want the same one", "./out.o", "bar/../out.o")
	}
}
