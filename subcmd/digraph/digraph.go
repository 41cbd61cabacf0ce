// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package digraph prints the dependency graph of a build manifest for
// https://pkg.go.dev/golang.org/x/tools/cmd/digraph
package digraph

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/depgraph/graph"
)

const usage = `show digraph

 $ depgraph digraph -C <dir> <targets>

prints directed graph for <targets> of a build manifest.
If <targets> is not given, it prints the directed graph for the manifest's
default targets. Each line contains zero or more targets, and the first
target depends on the rest of the targets on the same line.

This output can be passed to the digraph command, installed by
 $ go install golang.org/x/tools/cmd/digraph@latest

See https://pkg.go.dev/golang.org/x/tools/cmd/digraph for the digraph
command.
`

// Cmd returns the Command for the `digraph` subcommand.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "digraph [-C <dir>] [<targets>...]",
		ShortDesc: "show the dependency digraph",
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

func (c *run) run(_ context.Context, args []string) error {
	state := graph.NewState()
	if err := os.Chdir(c.dir); err != nil {
		return err
	}
	text, err := os.ReadFile(c.fname)
	if err != nil {
		return err
	}
	if err := graph.ParseManifest(state, string(text)); err != nil {
		return fmt.Errorf("%s: %w", c.fname, err)
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
	d := &digraph{seen: make(map[string]bool)}
	for _, t := range targets {
		if err := d.traverse(state, t); err != nil {
			return err
		}
	}
	return nil
}

type digraph struct {
	seen map[string]bool
}

func (d *digraph) traverse(state *graph.State, target string) error {
	if d.seen[target] {
		return nil
	}
	d.seen[target] = true
	n, ok := state.LookupNode(target)
	if !ok {
		return fmt.Errorf("target not found: %q", target)
	}
	edge, ok := n.InEdge()
	if !ok {
		fmt.Printf("%s\n", target)
		return nil
	}
	var inputs []string
	for _, in := range edge.Inputs() {
		p := in.Path()
		if err := d.traverse(state, p); err != nil {
			return err
		}
		inputs = append(inputs, p)
	}
	fmt.Printf("%s %s\n", target, strings.Join(inputs, " "))
	return nil
}
