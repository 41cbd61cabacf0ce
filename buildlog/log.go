// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buildlog records, across invocations, the command line last
// used to produce each build output, so a later scan can tell a changed
// command from an unchanged one.
package buildlog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.chromium.org/infra/build/depgraph/graph"
	"go.chromium.org/infra/build/depgraph/o11y/clog"
)

// fileName is the on-disk log's default name, alongside the Ninja
// convention of keeping build bookkeeping next to the manifest.
const fileName = ".depgraph_log"

// version is bumped whenever the line format changes incompatibly.
const version = 1

// Log is an append-only record of output -> command-hash, reloaded from
// disk on Open and kept in sync in memory as new entries are recorded.
// It implements graph.BuildLog.
type Log struct {
	f       *os.File
	entries map[string]uint64
}

// Open opens (creating if necessary) the build log at path, replaying its
// existing entries into memory before returning.
func Open(ctx context.Context, path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening build log: %w", err)
	}
	l := &Log{f: f, entries: make(map[string]uint64)}
	if err := l.load(ctx); err != nil {
		if e := f.Close(); e != nil {
			clog.Errorf(ctx, "buildlog: closing after load failure: %v", e)
		}
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		if e := f.Close(); e != nil {
			clog.Errorf(ctx, "buildlog: closing after stat failure: %v", e)
		}
		return nil, err
	}
	if fi.Size() == 0 {
		fmt.Fprintf(f, "# depgraph build log v%d\n", version)
	}
	return l, nil
}

// DefaultPath returns the conventional build log path.
func DefaultPath() string { return fileName }

func (l *Log) load(ctx context.Context) error {
	if _, err := l.f.Seek(0, 0); err != nil {
		return err
	}
	scanner := bufio.NewScanner(l.f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			clog.Warningf(ctx, "buildlog: skipping malformed line %q", line)
			continue
		}
		hash, err := strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			clog.Warningf(ctx, "buildlog: skipping malformed hash %q", line)
			continue
		}
		l.entries[fields[0]] = hash
	}
	if _, err := l.f.Seek(0, 2); err != nil {
		return err
	}
	return scanner.Err()
}

// CommandHashForOutput implements graph.BuildLog.
func (l *Log) CommandHashForOutput(output string) (uint64, bool) {
	hash, ok := l.entries[output]
	return hash, ok
}

// RecordCommand appends a record associating output with the hash of
// command, overwriting any in-memory record for the same output.
// Callers are expected to call this once per output after successfully
// running an edge's command, using the same HashCommand the scan's
// RecomputeOutputDirty compares against.
func (l *Log) RecordCommand(ctx context.Context, output, command string) error {
	hash := graph.HashCommand(command)
	if _, err := fmt.Fprintf(l.f, "%s\t%s\n", output, strconv.FormatUint(hash, 16)); err != nil {
		return fmt.Errorf("writing build log entry for %q: %w", output, err)
	}
	clog.Infof(ctx, "buildlog: recorded %s", output)
	l.entries[output] = hash
	return nil
}

// Close closes the underlying file.
func (l *Log) Close() error { return l.f.Close() }
