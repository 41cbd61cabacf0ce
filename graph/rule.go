// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

// phonyRuleName is the reserved rule name for alias/grouping edges: no
// command, no description, no depfile, no response file.
const phonyRuleName = "phony"

var phonyRule = &Rule{name: phonyRuleName}

// Rule is a named, immutable bundle of templates plus the generator/restat
// flags. Once returned by the manifest parser a Rule is never mutated.
type Rule struct {
	name string

	command        EvalString
	description    EvalString
	depfile        EvalString
	rspfile        EvalString
	rspfileContent EvalString

	generator bool
	restat    bool
}

// NewRule creates a named rule with no bindings. Callers fill in the
// template fields and flags before handing it to State.AddRule; Rule is
// treated as immutable from that point on.
func NewRule(name string) *Rule {
	return &Rule{name: name}
}

// Name returns the rule's name.
func (r *Rule) Name() string { return r.name }

// Generator reports the rule's generator flag.
func (r *Rule) Generator() bool { return r.generator }

// SetGenerator sets the rule's generator flag.
func (r *Rule) SetGenerator(v bool) { r.generator = v }

// Restat reports the rule's restat flag.
func (r *Rule) Restat() bool { return r.restat }

// SetRestat sets the rule's restat flag.
func (r *Rule) SetRestat(v bool) { r.restat = v }

// Command returns the rule's command template.
func (r *Rule) Command() EvalString { return r.command }

// SetCommand sets the rule's command template. Exposed for tests that
// build a Rule directly without going through the manifest parser.
func (r *Rule) SetCommand(c EvalString) { r.command = c }

// Description returns the rule's description template.
func (r *Rule) Description() EvalString { return r.description }

// SetDescription sets the rule's description template.
func (r *Rule) SetDescription(d EvalString) { r.description = d }

// Depfile returns the rule's depfile path template.
func (r *Rule) Depfile() EvalString { return r.depfile }

// SetDepfile sets the rule's depfile path template.
func (r *Rule) SetDepfile(d EvalString) { r.depfile = d }

// Rspfile returns the rule's response-file path template.
func (r *Rule) Rspfile() EvalString { return r.rspfile }

// SetRspfile sets the rule's response-file path template.
func (r *Rule) SetRspfile(rf EvalString) { r.rspfile = rf }

// RspfileContent returns the rule's response-file content template.
func (r *Rule) RspfileContent() EvalString { return r.rspfileContent }

// SetRspfileContent sets the rule's response-file content template.
func (r *Rule) SetRspfileContent(c EvalString) { r.rspfileContent = c }

// IsPhony reports whether this is the reserved phony rule.
func (r *Rule) IsPhony() bool { return r.name == phonyRuleName }
