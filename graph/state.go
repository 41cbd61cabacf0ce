// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

import "fmt"

// State is the top-level, process-wide-within-one-build-invocation owner
// of the node table (canonical path -> Node) and rule table. Nodes and
// edges are created by the manifest parser, live for the duration of a
// build invocation, and are released together with their owning State.
//
// State is not safe for concurrent use: this core is single-threaded by
// contract (spec'd concurrency model), so the node table is a plain map
// rather than the lock-free sharded map a many-goroutine manifest loader
// would need.
type State struct {
	nodes   map[string]*Node
	rules   map[string]*Rule
	edges   []*Edge
	rootEnv *BindingEnv

	defaults []string
}

// NewState returns an empty State seeded with the reserved phony rule and
// an empty file-scope binding environment.
func NewState() *State {
	s := &State{
		nodes:   make(map[string]*Node),
		rules:   make(map[string]*Rule),
		rootEnv: NewBindingEnv(nil),
	}
	s.rules[phonyRuleName] = phonyRule
	return s
}

// RootEnv returns the file-scope binding environment that every edge's
// own environment parents to.
func (s *State) RootEnv() *BindingEnv { return s.rootEnv }

// GetNode returns the Node for the given canonical-form path, creating it
// if this is the first reference. Two calls with paths that canonicalize
// to the same string always return the same *Node.
func (s *State) GetNode(path string) *Node {
	path = CanonicalizePath(path)
	if n, ok := s.nodes[path]; ok {
		return n
	}
	n := newNode(path)
	s.nodes[path] = n
	return n
}

// LookupNode returns the Node for path if it has already been referenced.
func (s *State) LookupNode(path string) (*Node, bool) {
	n, ok := s.nodes[CanonicalizePath(path)]
	return n, ok
}

// Nodes returns every node known to the state. Iteration order is not
// meaningful.
func (s *State) Nodes() []*Node {
	nodes := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// AddRule registers a rule by name. The manifest parser rejects duplicate
// rule names before calling this.
func (s *State) AddRule(r *Rule) {
	s.rules[r.Name()] = r
}

// LookupRule returns the rule registered under name, if any.
func (s *State) LookupRule(name string) (*Rule, bool) {
	r, ok := s.rules[name]
	return r, ok
}

// AddEdge creates a new edge using rule and records it in construction
// order. The caller fills in inputs/outputs/env/region counts before the
// edge participates in a scan.
func (s *State) AddEdge(rule *Rule) *Edge {
	e := &Edge{rule: rule}
	s.edges = append(s.edges, e)
	return e
}

// Edges returns every edge in construction order.
func (s *State) Edges() []*Edge {
	return s.edges
}

// AddOut appends path as an output of edge, recording edge as the node's
// producing edge. It reports false if some other edge already produces
// that path (a manifest error the parser should surface).
func (s *State) AddOut(edge *Edge, path string) bool {
	n := s.GetNode(path)
	if _, ok := n.InEdge(); ok {
		return false
	}
	n.setInEdge(edge)
	edge.outputs = append(edge.outputs, n)
	return true
}

// AddIn appends path as an input of edge (in whatever region the caller is
// currently filling in; region boundaries are set afterwards via the
// edge's implicitCount/orderOnlyCount fields).
func (s *State) AddIn(edge *Edge, path string) {
	n := s.GetNode(path)
	n.addOutEdge(edge)
	edge.inputs = append(edge.inputs, n)
}

// AddDefault records path as a default target, in the order it was
// declared.
func (s *State) AddDefault(path string) error {
	if _, ok := s.LookupNode(path); !ok {
		return fmt.Errorf("unknown target %q in default statement", path)
	}
	s.defaults = append(s.defaults, CanonicalizePath(path))
	return nil
}

// DefaultNodes returns the nodes named by `default` statements, or every
// root node (a node nothing else depends on) if no defaults were declared.
func (s *State) DefaultNodes() ([]*Node, error) {
	if len(s.defaults) == 0 {
		return s.RootNodes()
	}
	nodes := make([]*Node, 0, len(s.defaults))
	for _, p := range s.defaults {
		n, ok := s.LookupNode(p)
		if !ok {
			return nil, fmt.Errorf("unknown default target %q", p)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// RootNodes returns the nodes that are not consumed as an input by any
// edge: the natural top-level build targets when no default is declared.
func (s *State) RootNodes() ([]*Node, error) {
	var roots []*Node
	for _, n := range s.nodes {
		if len(n.OutEdges()) == 0 {
			roots = append(roots, n)
		}
	}
	return roots, nil
}

// Reset returns every node to mtime=Unexamined, dirty=false, and every
// edge's outputsReady to false, so a second scan can run against possibly
// changed filesystem state without rebuilding the graph. It does not clear
// depfile-appended inputs: those are treated as part of the parsed graph
// once discovered.
func (s *State) Reset() {
	for _, n := range s.nodes {
		n.resetState()
	}
	for _, e := range s.edges {
		e.outputsReady = false
	}
}
