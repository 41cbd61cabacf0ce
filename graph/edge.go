// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

import "strings"

// Edge is one build step: a rule instantiation tying input nodes to
// output nodes.
//
// inputs is a single ordered sequence partitioned by index into three
// contiguous regions, in this order: explicit, implicit, order-only.
// Let n = len(inputs), io = orderOnlyCount, ii = implicitCount:
//
//	explicit:   [0, n-io-ii)
//	implicit:   [n-io-ii, n-io)
//	order-only: [n-io, n)
//
// A suffix of the implicit region of length depfileImplicitCount (<= ii)
// holds entries appended by the depfile loader.
type Edge struct {
	rule *Rule
	env  *BindingEnv

	inputs  []*Node
	outputs []*Node

	implicitCount        int
	depfileImplicitCount int
	orderOnlyCount       int

	outputsReady bool
}

// Rule returns the edge's rule.
func (e *Edge) Rule() *Rule { return e.rule }

// Env returns the edge's local binding environment.
func (e *Edge) Env() *BindingEnv { return e.env }

// Inputs returns all input nodes, in explicit/implicit/order-only order.
func (e *Edge) Inputs() []*Node { return e.inputs }

// Outputs returns the edge's output nodes.
func (e *Edge) Outputs() []*Node { return e.outputs }

// OutputsReady reports whether every transitive build prerequisite of this
// edge is either non-dirty or has already been (successfully) produced.
// It is only meaningful after RecomputeDirty has visited this edge.
func (e *Edge) OutputsReady() bool { return e.outputsReady }

func (e *Edge) explicitEnd() int { return len(e.inputs) - e.orderOnlyCount - e.implicitCount }
func (e *Edge) implicitEnd() int { return len(e.inputs) - e.orderOnlyCount }

// ExplicitInputs returns the inputs in the explicit region: those that
// appear on the command line via $in.
func (e *Edge) ExplicitInputs() []*Node {
	return e.inputs[:e.explicitEnd()]
}

// IsDepfileImplicit reports whether inputs[i] is in the depfile-appended
// suffix of the implicit region.
func (e *Edge) IsDepfileImplicit(i int) bool {
	return i >= len(e.inputs)-e.orderOnlyCount-e.depfileImplicitCount && !e.IsOrderOnly(i)
}

// IsOrderOnly reports whether inputs[i] is in the order-only region.
func (e *Edge) IsOrderOnly(i int) bool {
	return i >= e.implicitEnd()
}

// TriggerInputs returns every input that can mark the edge dirty, i.e.
// every input except the order-only region.
func (e *Edge) TriggerInputs() []*Node {
	return e.inputs[:e.implicitEnd()]
}

// IsPhony reports whether this edge uses the reserved phony rule.
func (e *Edge) IsPhony() bool { return e.rule == phonyRule || e.rule.IsPhony() }

// appendDepfileInput inserts n just before the order-only region and bumps
// both implicitCount and depfileImplicitCount, per the depfile loader's
// contract: depfile-discovered deps are appendable without disturbing the
// order-only suffix.
func (e *Edge) appendDepfileInput(n *Node) {
	at := len(e.inputs) - e.orderOnlyCount
	e.inputs = append(e.inputs, nil)
	copy(e.inputs[at+1:], e.inputs[at:])
	e.inputs[at] = n
	e.implicitCount++
	e.depfileImplicitCount++
}

// AllInputsReady reports true iff every input node either has no
// producing edge or its producing edge's OutputsReady is true.
func (e *Edge) AllInputsReady() bool {
	for _, in := range e.inputs {
		if inEdge, ok := in.InEdge(); ok && !inEdge.outputsReady {
			return false
		}
	}
	return true
}

// edgeEnv implements Env over an edge, resolving the special "in"/"out"
// bindings and falling back from the edge's own env to the rule's default
// templates (evaluated recursively, with cycle detection).
type edgeEnv struct {
	edge      *Edge
	recursive bool
	lookups   []string
}

func (ee *edgeEnv) Lookup(key string) string {
	switch key {
	case "in":
		return joinPaths(ee.edge.ExplicitInputs())
	case "out":
		return joinPaths(ee.edge.outputs)
	}
	if ee.recursive {
		for _, s := range ee.lookups {
			if s == key {
				// The manifest parser is responsible for rejecting
				// self-referential bindings; if one slips through, fail
				// loudly rather than spin forever.
				panic("cycle in rule variable " + key)
			}
		}
	}
	ee.lookups = append(ee.lookups, key)
	ee.recursive = true
	v := ee.edge.env.lookupWithFallback(key, ee.ruleBinding(key), ee)
	ee.lookups = ee.lookups[:len(ee.lookups)-1]
	return v
}

func (ee *edgeEnv) ruleBinding(key string) EvalString {
	switch key {
	case "command":
		return ee.edge.rule.command
	case "description":
		return ee.edge.rule.description
	case "depfile":
		return ee.edge.rule.depfile
	case "rspfile":
		return ee.edge.rule.rspfile
	case "rspfile_content":
		return ee.edge.rule.rspfileContent
	default:
		return EvalString{}
	}
}

// quotePath implements the command-construction quoting rule: a path
// containing a space is wrapped in ASCII double quotes, otherwise it is
// emitted verbatim. Paths are joined by single spaces.
func quotePath(p string) string {
	if strings.IndexByte(p, ' ') < 0 {
		return p
	}
	return `"` + p + `"`
}

func joinPaths(nodes []*Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(quotePath(n.path))
	}
	return sb.String()
}

// Binding evaluates a single named binding (e.g. "command", or any
// variable bound in the edge's scope) against the edge's environment.
func (e *Edge) Binding(name string) string {
	env := &edgeEnv{edge: e}
	return env.Lookup(name)
}

// EvaluateCommand expands the rule's command template against the edge's
// env. If inclRspFile is true and the rule declares a non-empty rspfile
// template, the result is "<command>\n<rspfile_content>" with both parts
// fully expanded, so that a build log hash over the result also captures
// response-file content changes.
func (e *Edge) EvaluateCommand(inclRspFile bool) string {
	command := e.Binding("command")
	if inclRspFile && e.HasRspFile() {
		return command + "\n" + e.GetRspFileContent()
	}
	return command
}

// EvaluateDepFile expands the rule's depfile template against the edge's
// env. An empty template evaluates to "", meaning no depfile.
func (e *Edge) EvaluateDepFile() string {
	return e.Binding("depfile")
}

// GetDescription expands the rule's description template; "" if unset.
func (e *Edge) GetDescription() string {
	return e.Binding("description")
}

// HasRspFile reports whether the rule declares a non-empty rspfile
// template.
func (e *Edge) HasRspFile() bool {
	return !e.rule.rspfile.Empty()
}

// GetRspFile returns the expanded response-file path.
func (e *Edge) GetRspFile() string {
	return e.Binding("rspfile")
}

// GetRspFileContent returns the expanded response-file content.
func (e *Edge) GetRspFileContent() string {
	return e.Binding("rspfile_content")
}
