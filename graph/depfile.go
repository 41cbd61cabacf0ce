// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// LoadDepFile loads the depfile named by edge's depfile template, if any,
// canonicalizes each dependency path it names, and appends every one as a
// depfile-implicit input of edge.
//
// missing reports that the rule declares a depfile that could not be found,
// or whose rules named zero dependencies -- a signal that RecomputeDirty
// must mark the edge's outputs dirty because there is no record of what
// the last run actually depended on. err is non-nil only for a genuine
// I/O or parse failure, never for an absent file.
func LoadDepFile(state *State, disk DiskInterface, edge *Edge) (missing bool, err error) {
	path := edge.EvaluateDepFile()
	if path == "" {
		return false, nil
	}
	data, err := disk.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("loading depfile %q: %w", path, err)
	}
	deps := parseDepfile(data)
	if len(deps) == 0 {
		return true, nil
	}
	for _, dep := range deps {
		n := state.GetNode(dep)
		n.addOutEdge(edge)
		edge.appendDepfileInput(n)
	}
	return false, nil
}

// parseDepfile extracts the flat, order-preserving list of dependency
// paths from a Makefile-flavored depfile: one or more
// "target_list : dep_list" rules, '#' starting a comment that runs to the
// end of its (raw) line, a backslash before a space embedding a literal
// space in a token, and a backslash immediately before a newline
// continuing the same rule onto the next line.
//
// Every rule's target list is discarded without being matched against the
// edge's own outputs: ninja's depfile support is tolerant of compilers
// that emit a target spelled differently than the build's own output
// path, and a depfile naming more than one rule (as some Rust tooling
// does) contributes the union of all of their dependencies.
func parseDepfile(data []byte) []string {
	data = stripDepfileComments(data)
	var deps []string
	afterColon := false
	i := 0
	for i < len(data) {
		switch data[i] {
		case '\n':
			afterColon = false
			i++
		case ' ', '\t', '\r':
			i++
		case ':':
			afterColon = true
			i++
		default:
			var tok string
			tok, i = scanDepfileToken(data, i)
			if afterColon && tok != "" {
				deps = append(deps, tok)
			}
		}
	}
	return deps
}

// scanDepfileToken consumes one whitespace/colon-delimited token starting
// at data[i]. "\ " decodes to a literal space embedded in the token;
// "\\\n" or "\\\r\n" ends the token as an ordinary separator would, but
// leaves the caller's notion of "still inside this rule's dependency
// list" untouched, since a line continuation does not start a new rule.
func scanDepfileToken(data []byte, i int) (string, int) {
	var sb strings.Builder
	for i < len(data) {
		c := data[i]
		if c == '\\' && i+1 < len(data) {
			switch {
			case data[i+1] == ' ':
				sb.WriteByte(' ')
				i += 2
				continue
			case data[i+1] == '\n':
				return sb.String(), i + 2
			case data[i+1] == '\r' && i+2 < len(data) && data[i+2] == '\n':
				return sb.String(), i + 3
			}
			sb.WriteByte(c)
			i++
			continue
		}
		switch c {
		case ' ', '\t', '\r', '\n', ':':
			return sb.String(), i
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String(), i
}

func stripDepfileComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		if data[i] == '#' {
			for i < len(data) && data[i] != '\n' {
				i++
			}
			continue
		}
		out = append(out, data[i])
		i++
	}
	return out
}
