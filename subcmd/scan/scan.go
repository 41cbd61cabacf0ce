// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package scan runs a dependency scan over a build manifest and reports
// which outputs are out of date, without running any command.
package scan

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/depgraph/buildlog"
	"go.chromium.org/infra/build/depgraph/diskfs"
	"go.chromium.org/infra/build/depgraph/graph"
)

const usage = `run a dependency scan

 $ depgraph scan -C <dir> <targets>

Recomputes the dirty/outputsReady state for <targets> (or the manifest's
default targets, if none are given) against the current filesystem and
build log, and prints for each target whether it is dirty or clean, and
the outputs of each target's producing edge that is not ready. No command
is ever run.
`

// Cmd returns the Command for the `scan` subcommand.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "scan [-C <dir>] [<targets>...]",
		ShortDesc: "recompute dirty state without building",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	dir   string
	fname string
}

func (c *run) init() {
	c.Flags.StringVar(&c.dir, "C", ".", "directory to find the build manifest in")
	c.Flags.StringVar(&c.fname, "f", "build.manifest", "input manifest filename (relative to -C)")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	if err := os.Chdir(c.dir); err != nil {
		return err
	}
	state := graph.NewState()
	text, err := os.ReadFile(c.fname)
	if err != nil {
		return err
	}
	if err := graph.ParseManifest(state, string(text)); err != nil {
		return fmt.Errorf("%s: %w", c.fname, err)
	}

	buildLogPath := buildlog.DefaultPath()
	bl, err := buildlog.Open(ctx, buildLogPath)
	if err != nil {
		log.Warnf("scan: continuing without build log: %v", err)
		bl = nil
	} else {
		defer func() {
			if err := bl.Close(); err != nil {
				log.Warnf("scan: closing build log: %v", err)
			}
		}()
	}

	var scanner *graph.DependencyScan
	if bl != nil {
		scanner = graph.NewDependencyScan(state, diskfs.New(), bl)
	} else {
		scanner = graph.NewDependencyScan(state, diskfs.New(), nil)
	}

	targets := args
	if len(targets) == 0 {
		nodes, err := state.DefaultNodes()
		if err != nil {
			return err
		}
		for _, n := range nodes {
			targets = append(targets, n.Path())
		}
	}

	dirtyCount := 0
	for _, t := range targets {
		n, ok := state.LookupNode(t)
		if !ok {
			return fmt.Errorf("target not found: %q", t)
		}
		edge, ok := n.InEdge()
		if !ok {
			continue
		}
		if err := scanner.RecomputeDirty(ctx, edge); err != nil {
			return fmt.Errorf("scanning %q: %w", t, err)
		}
	}
	notReadyCount := 0
	for _, t := range targets {
		n, _ := state.LookupNode(t)
		if n.Dirty() {
			dirtyCount++
			fmt.Printf("dirty: %s\n", t)
		} else {
			fmt.Printf("clean: %s\n", t)
		}
		if edge, ok := n.InEdge(); ok && !edge.OutputsReady() {
			notReadyCount++
			fmt.Printf("not ready: %s\n", strings.Join(outputPaths(edge.Outputs()), " "))
		}
	}
	log.Infof("scan: %d of %d targets dirty, %d edges not ready", dirtyCount, len(targets), notReadyCount)
	return nil
}

func outputPaths(outputs []*graph.Node) []string {
	paths := make([]string, len(outputs))
	for i, n := range outputs {
		paths[i] = n.Path()
	}
	return paths
}
