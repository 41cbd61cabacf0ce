// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

// DiskInterface abstracts the filesystem operations a scan needs, keeping
// RecomputeDirty free of direct disk I/O so it can run against a fake
// filesystem in tests.
type DiskInterface interface {
	// Stat returns the TimeStamp for path: Missing if the file does not
	// exist, its modification time otherwise. Only a transport-level
	// failure (permission denied, I/O error) is returned as an error; a
	// nonexistent file is Missing, nil, not an error.
	Stat(path string) (TimeStamp, error)

	// ReadFile returns the full contents of path. A nonexistent file is
	// reported by an error that wraps fs.ErrNotExist (checked with
	// errors.Is), matching the convention os.ReadFile already follows.
	ReadFile(path string) ([]byte, error)
}

// BuildLog abstracts the record of the command last used to produce each
// output, consulted by RecomputeOutputDirty to detect a changed command
// line. A nil BuildLog disables command-hash-based dirtiness entirely,
// matching a scan run with no prior build history.
type BuildLog interface {
	// CommandHashForOutput returns the hash recorded for output the last
	// time it was built, and whether any record exists at all.
	CommandHashForOutput(output string) (hash uint64, ok bool)
}
