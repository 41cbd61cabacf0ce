// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command depgraph recomputes and inspects the dependency graph of a
// build manifest, without itself scheduling or running any command.
package main

import (
	"context"
	"os"
	"runtime"
	"runtime/debug"

	log "github.com/golang/glog"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/depgraph/subcmd/digraph"
	"go.chromium.org/infra/build/depgraph/subcmd/scan"
)

func main() {
	defer log.Flush()
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	if buildinfo, ok := debug.ReadBuildInfo(); ok {
		log.V(1).Infof("main module: %s %s", buildinfo.Main.Path, buildinfo.Main.Version)
	}

	app := &cli.Application{
		Name:  "depgraph",
		Title: "dependency graph inspector",
		Context: func(ctx context.Context) context.Context {
			return ctx
		},
		Commands: []*subcommands.Command{
			subcommands.CmdHelp,
			digraph.Cmd(),
			scan.Cmd(),
		},
	}
	os.Exit(subcommands.Run(app, nil))
}
