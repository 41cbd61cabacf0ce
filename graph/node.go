// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

// Node is one file in the build graph: a canonicalized path, its cached
// mtime, the dirty flag set by a scan, the edge (if any) that produces it,
// and the edges that consume it as an input.
//
// Two nodes with the same canonical path are always the same *Node: State
// owns a single path->Node table and hands out the same pointer for every
// lookup of a given path.
type Node struct {
	path string

	mtime TimeStamp
	dirty bool

	inEdge *Edge
	outs   []*Edge
}

func newNode(path string) *Node {
	return &Node{path: path, mtime: Unexamined}
}

// Path returns the node's canonicalized path.
func (n *Node) Path() string { return n.path }

func (n *Node) String() string { return n.path }

// Mtime returns the node's cached TimeStamp.
func (n *Node) Mtime() TimeStamp { return n.mtime }

// StatusKnown reports whether the node has been stat'd since the last
// Reset.
func (n *Node) StatusKnown() bool { return n.mtime.StatusKnown() }

// Exists reports whether the node's file is present, i.e. mtime != Missing.
// Calling this before the node has been stat'd is a logic error in the
// caller; RecomputeDirty always stats every input and output it visits.
func (n *Node) Exists() bool { return n.mtime.Exists() }

// Dirty reports whether the node was marked out-of-date by the last scan.
func (n *Node) Dirty() bool { return n.dirty }

// MarkDirty marks the node out-of-date.
func (n *Node) MarkDirty() { n.dirty = true }

// InEdge returns the edge that produces this node, if any.
func (n *Node) InEdge() (*Edge, bool) {
	return n.inEdge, n.inEdge != nil
}

func (n *Node) setInEdge(e *Edge) { n.inEdge = e }

// OutEdges returns the edges that consume this node as an input. Order is
// not meaningful.
func (n *Node) OutEdges() []*Edge { return n.outs }

func (n *Node) addOutEdge(e *Edge) { n.outs = append(n.outs, e) }

// resetState returns the node to not-yet-stat'd, not-dirty, as Reset
// requires.
func (n *Node) resetState() {
	n.mtime = Unexamined
	n.dirty = false
}
