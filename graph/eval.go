// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

import "strings"

// Env is a scope for looking up variable bindings during template
// evaluation. Bindings are what Ninja calls variables.
// Further reading: https://ninja-build.org/manual.html#_variables
type Env interface {
	Lookup(name string) string
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenVariable
)

type evalToken struct {
	kind tokenKind
	s    string
}

// EvalString is a pre-parsed command/description/depfile/rspfile template:
// an ordered sequence of literal chunks and variable references, evaluable
// against an Env. It never recurses on variable expansion itself; the
// manifest parser pre-resolves nested definitions before storing a binding.
type EvalString struct {
	toks []evalToken
}

// Evaluate concatenates literals and, for each variable reference, the
// value looked up in env. A missing name resolves to the empty string.
func (e EvalString) Evaluate(env Env) string {
	if len(e.toks) == 1 && e.toks[0].kind == tokenLiteral {
		return e.toks[0].s
	}
	var sb strings.Builder
	for _, t := range e.toks {
		switch t.kind {
		case tokenLiteral:
			sb.WriteString(t.s)
		case tokenVariable:
			sb.WriteString(env.Lookup(t.s))
		}
	}
	return sb.String()
}

// Empty reports whether the template has no content at all, i.e. would
// evaluate to "" against any env.
func (e EvalString) Empty() bool {
	return len(e.toks) == 0
}

func (e *EvalString) addLiteral(s string) {
	if s == "" {
		return
	}
	e.toks = append(e.toks, evalToken{kind: tokenLiteral, s: s})
}

func (e *EvalString) addVar(name string) {
	e.toks = append(e.toks, evalToken{kind: tokenVariable, s: name})
}

// RawString renders the template with ${var} markers instead of evaluating
// it, useful for diagnostics.
func (e EvalString) RawString() string {
	var sb strings.Builder
	for _, t := range e.toks {
		switch t.kind {
		case tokenLiteral:
			sb.WriteString(t.s)
		case tokenVariable:
			sb.WriteString("${")
			sb.WriteString(t.s)
			sb.WriteString("}")
		}
	}
	return sb.String()
}
