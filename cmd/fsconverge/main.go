// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// fsconverge converges host filesystems to a declared state:
// provisioning backing storage, formatting, registering in the mount
// table, mounting and freezing. One action per invocation.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/juju/cmd/v3"
	"github.com/juju/loggo"

	"github.com/juju/fsconverge/resource"
	"github.com/juju/fsconverge/version"
)

var logger = loggo.GetLogger("fsconverge.cmd")

// loggingConfigEnvKey names the environment variable holding the
// loggo configuration applied at startup.
const loggingConfigEnvKey = "FSCONVERGE_LOGGING_CONFIG"

func init() {
	// An empty value configures nothing.
	if err := loggo.ConfigureLoggers(os.Getenv(loggingConfigEnvKey)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR parsing %s: %s\n\n", loggingConfigEnvKey, err)
	}
}

var fsconvergeDoc = `
fsconverge converges a host filesystem to a declared state. Each
invocation runs one action against one filesystem description:

    fsconverge create data vg=vg0 size=10G fstype=xfs
    fsconverge enable data vg=vg0 fstype=xfs mount=/srv/data
    fsconverge mount  data vg=vg0 fstype=xfs mount=/srv/data

Actions are idempotent: a re-run observes the work already done and
skips it, so a full provisioning workflow is create, enable and mount
run in sequence as often as needed.
`

// NewSuperCommand returns the root fsconverge command with every
// action registered.
func NewSuperCommand() *cmd.SuperCommand {
	fsc := cmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "fsconverge",
		Doc:     strings.TrimSpace(fsconvergeDoc),
		Purpose: "declarative host filesystem provisioning",
		Log: &cmd.Log{
			DefaultConfig: os.Getenv(loggingConfigEnvKey),
		},
		Version: version.Current.String(),
	})
	for _, action := range resource.Actions {
		fsc.Register(newActionCommand(action))
	}
	return fsc
}

func main() {
	os.Exit(Main(os.Args))
}

// Main runs the fsconverge command line. It is not redundant with
// main, because it provides an entry point for testing with arbitrary
// arguments.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		cmd.WriteError(os.Stderr, err)
		return 2
	}
	return cmd.Main(NewSuperCommand(), ctx, args[1:])
}
