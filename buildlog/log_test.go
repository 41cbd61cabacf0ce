// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package buildlog_test

import (
	"context"
	"path/filepath"
	"testing"

	"go.chromium.org/infra/build/depgraph/buildlog"
	"go.chromium.org/infra/build/depgraph/graph"
)

func TestLog_RecordAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "build_log")

	l, err := buildlog.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := l.CommandHashForOutput("out.o"); ok {
		t.Fatalf("CommandHashForOutput found a record in a freshly opened log")
	}
	if err := l.RecordCommand(ctx, "out.o", "cc -c foo.c -o out.o"); err != nil {
		t.Fatalf("RecordCommand: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := buildlog.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	hash, ok := reopened.CommandHashForOutput("out.o")
	if !ok {
		t.Fatalf("CommandHashForOutput did not find the record written before reopening")
	}
	if want := graph.HashCommand("cc -c foo.c -o out.o"); hash != want {
		t.Errorf("CommandHashForOutput(%q) = %d, want %d", "out.o", hash, want)
	}
}

func TestLog_CommandChangeDetected(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "build_log")
	l, err := buildlog.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	if err := l.RecordCommand(ctx, "out.o", "cc -c foo.c -o out.o"); err != nil {
		t.Fatalf("RecordCommand: %v", err)
	}
	hash, ok := l.CommandHashForOutput("out.o")
	if !ok {
		t.Fatalf("missing record right after RecordCommand")
	}
	if hash == graph.HashCommand("cc -O2 -c foo.c -o out.o") {
		t.Errorf("changed command line hashed the same as the original")
	}
}
