// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

import (
	"context"
	"fmt"

	"go.chromium.org/infra/build/depgraph/o11y/clog"
)

// DependencyScan recomputes the dirty/outputsReady state of a build graph
// against a filesystem and an optional history of previously-run commands.
// It does not schedule or execute any command itself.
type DependencyScan struct {
	state    *State
	disk     DiskInterface
	buildLog BuildLog
}

// NewDependencyScan returns a scan over state using disk for filesystem
// queries. buildLog may be nil, disabling command-hash-based dirtiness.
func NewDependencyScan(state *State, disk DiskInterface, buildLog BuildLog) *DependencyScan {
	return &DependencyScan{state: state, disk: disk, buildLog: buildLog}
}

// RecomputeDirty brings edge and everything it transitively depends on up
// to date with the current filesystem, setting Dirty on every output that
// is out of date and OutputsReady on edge and the edges it recurses into.
//
// It is safe to call RecomputeDirty on the same edge more than once in a
// single scan: the outputsReady short-circuit at the top makes repeat
// visits (a diamond-shaped graph) a no-op past the first.
//
// An edge's outputs are dirty when RecomputeOutputDirty says so, or its
// depfile was missing/empty, or any explicit/implicit input is itself
// already dirty: a rebuilt input invalidates whatever was produced from
// its old contents, independent of mtimes, unless that input's producing
// edge is restat. An order-only input never
// contributes to this: per its contract, its mtime (and, transitively, its
// own dirtiness) never forces a rebuild of the edges that merely order
// after it.
func (d *DependencyScan) RecomputeDirty(ctx context.Context, edge *Edge) error {
	if edge.outputsReady {
		return nil
	}

	depfileMissing := false
	if !edge.rule.depfile.Empty() {
		missing, err := LoadDepFile(d.state, d.disk, edge)
		if err != nil {
			return err
		}
		if missing {
			clog.Infof(ctx, "depfile missing for %v", edge.outputs)
		}
		depfileMissing = missing
	}

	for _, in := range edge.inputs {
		inEdge, hasInEdge := in.InEdge()
		if hasInEdge {
			if err := d.RecomputeDirty(ctx, inEdge); err != nil {
				return err
			}
		}
		if !in.StatusKnown() {
			ts, err := d.disk.Stat(in.path)
			if err != nil {
				return fmt.Errorf("stat %q: %w", in.path, err)
			}
			in.mtime = ts
		}
		// A source input with no producing edge is never visited by the
		// recursion above, so nothing else ever marks it dirty: a missing
		// source file must make every edge reachable from it dirty on its
		// own.
		if !hasInEdge && !in.Exists() {
			in.MarkDirty()
		}
	}

	// inputDirty tracks whether any explicit or implicit input is itself
	// already dirty: a missing source input, or one whose own producing
	// edge decided it needs rebuilding. That propagates directly to this
	// edge's outputs regardless of mtime, except when the producing edge
	// is restat: a restat rule defers its consumers' dirty/ready decision
	// to the post-build mtime comparison instead of an unconditional
	// propagation here. Order-only inputs are excluded from TriggerInputs
	// and so never take part in this check.
	inputDirty := false
	for _, in := range edge.TriggerInputs() {
		if !in.Dirty() {
			continue
		}
		if inEdge, ok := in.InEdge(); ok && inEdge.rule.restat {
			continue
		}
		inputDirty = true
		break
	}

	edge.outputsReady = edge.AllInputsReady()

	var mostRecentInput *Node
	for _, in := range edge.TriggerInputs() {
		if mostRecentInput == nil || in.mtime > mostRecentInput.mtime {
			mostRecentInput = in
		}
	}

	command := edge.EvaluateCommand(true)
	for _, out := range edge.outputs {
		if !out.StatusKnown() {
			ts, err := d.disk.Stat(out.path)
			if err != nil {
				return fmt.Errorf("stat %q: %w", out.path, err)
			}
			out.mtime = ts
		}
		dirty := inputDirty || depfileMissing || d.RecomputeOutputDirty(edge, mostRecentInput, command, out)
		if dirty {
			out.MarkDirty()
			if desc := edge.GetDescription(); desc != "" {
				clog.Infof(ctx, "dirty: %s mtime=%d (%s)", out.path, out.Mtime(), desc)
			} else {
				clog.Infof(ctx, "dirty: %s mtime=%d", out.path, out.Mtime())
			}
		}
	}
	return nil
}

// RecomputeOutputDirty decides whether a single output of edge is out of
// date, given the most recent (non-order-only) input and the edge's fully
// expanded command line. The checks are evaluated in order and the first
// match wins:
//
//  1. edge is phony: dirty iff some explicit input is missing.
//  2. output is missing: dirty.
//  3. mostRecentInput is newer than output: dirty.
//  4. the build log's recorded command hash for output differs from
//     HashCommand(command): dirty.
//  5. the build log has no record at all for output, and edge declares a
//     depfile: dirty, since there is no history to trust.
//  6. otherwise: clean.
func (d *DependencyScan) RecomputeOutputDirty(edge *Edge, mostRecentInput *Node, command string, output *Node) bool {
	if edge.IsPhony() {
		for _, in := range edge.ExplicitInputs() {
			if !in.Exists() {
				return true
			}
		}
		return false
	}
	if !output.Exists() {
		return true
	}
	if mostRecentInput != nil && mostRecentInput.mtime > output.mtime {
		return true
	}
	if d.buildLog != nil {
		hash, ok := d.buildLog.CommandHashForOutput(output.path)
		if ok {
			if hash != HashCommand(command) {
				return true
			}
		} else if !edge.rule.depfile.Empty() {
			return true
		}
	}
	return false
}

// HasNonDepfileDependency reports whether node is reachable from edge by
// following only explicit, order-only, and non-depfile-implicit inputs:
// the depfile-appended suffix of the implicit region is excluded from the
// walk at every level of the recursion, since a depfile's contents are
// discovered output, not something a caller can rely on structurally.
func HasNonDepfileDependency(edge *Edge, node *Node) bool {
	n := len(edge.inputs)
	nonDepfileEnd := n - edge.orderOnlyCount - edge.depfileImplicitCount
	for _, in := range edge.inputs[:nonDepfileEnd] {
		if reaches(in, node) {
			return true
		}
	}
	for _, in := range edge.inputs[n-edge.orderOnlyCount:] {
		if reaches(in, node) {
			return true
		}
	}
	return false
}

func reaches(in, node *Node) bool {
	if in == node {
		return true
	}
	inEdge, ok := in.InEdge()
	return ok && HasNonDepfileDependency(inEdge, node)
}
