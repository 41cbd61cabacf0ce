// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

import "hash/fnv"

// HashCommand returns the stable 64-bit digest of an expanded command line
// used to detect command changes between builds. Implementations of
// BuildLog must hash with this same function at write time, or every
// output will appear to have a changed command on the next scan.
func HashCommand(command string) uint64 {
	h := fnv.New64()
	_, _ = h.Write([]byte(command))
	return h.Sum64()
}
