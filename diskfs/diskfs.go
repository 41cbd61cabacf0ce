// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package diskfs provides the OS-backed graph.DiskInterface a real build
// invocation uses, as opposed to the in-memory fakes tests construct.
package diskfs

import (
	"os"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/depgraph/graph"
)

// OS is a graph.DiskInterface backed directly by the local filesystem.
type OS struct{}

// New returns an OS-backed DiskInterface.
func New() OS { return OS{} }

// Stat implements graph.DiskInterface.
func (OS) Stat(path string) (graph.TimeStamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Missing, nil
		}
		return graph.Unexamined, err
	}
	return graph.TimeStamp(fi.ModTime().UnixNano()), nil
}

// ReadFile implements graph.DiskInterface. A nonexistent file surfaces
// through the returned error wrapping fs.ErrNotExist, exactly as
// os.ReadFile already does; callers use errors.Is to test for it.
func (OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debugf("diskfs: read %s: %v", path, err)
		return nil, err
	}
	return data, nil
}
