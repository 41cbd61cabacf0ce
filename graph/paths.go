// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

import "path"

// CanonicalizePath collapses "./" prefixes, "foo/../" segments, and
// duplicate separators the way Ninja's path canonicalization does, so that
// two spellings of the same file (e.g. "./out.o" and "bar/../out.o")
// resolve to the same Node.
//
// Uses the slash-only "path" package rather than "path/filepath": Ninja
// manifests and depfiles are always "/"-separated regardless of host OS,
// and canonicalization must not vary by platform.
func CanonicalizePath(p string) string {
	if p == "" {
		return p
	}
	trailingSlash := len(p) > 1 && p[len(p)-1] == '/'
	c := path.Clean(p)
	if c == "." {
		return "."
	}
	if trailingSlash && c != "/" {
		c += "/"
	}
	return c
}
