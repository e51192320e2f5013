// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package shell runs provisioning commands on the host. Everything
// fsconverge does to a machine happens through the Runner defined
// here, which keeps the side-effecting surface small enough to stub
// out completely in tests.
package shell

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v3"
	"github.com/juju/utils/v3/exec"
)

var logger = loggo.GetLogger("fsconverge.shell")

// Runner runs a command on the host.
type Runner interface {
	// Run runs the command and returns its exit code and combined
	// output. A nonzero exit is reported in code, not err; err is
	// reserved for failure to run the command at all.
	Run(name string, args ...string) (code int, output string, err error)
}

// NewRunner returns a Runner backed by the host shell.
func NewRunner() Runner {
	return hostRunner{}
}

type hostRunner struct{}

func (hostRunner) Run(name string, args ...string) (int, string, error) {
	commands := CommandLine(name, args...)
	logger.Debugf("running: %s", commands)
	result, err := exec.RunCommands(exec.RunParams{
		Commands: commands,
	})
	if err != nil {
		return -1, "", errors.Annotatef(err, "running %q", commands)
	}
	output := combinedOutput(result)
	logger.Tracef("exit %d: %s", result.Code, output)
	return result.Code, output, nil
}

// CommandLine renders a command and its arguments as a single shell
// line, quoting each argument.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, utils.ShQuote(arg))
	}
	return strings.Join(parts, " ")
}

func combinedOutput(result *exec.ExecResponse) string {
	stdout := strings.TrimSpace(string(result.Stdout))
	stderr := strings.TrimSpace(string(result.Stderr))
	switch {
	case stdout == "":
		return stderr
	case stderr == "":
		return stdout
	}
	return stdout + "\n" + stderr
}

// RunChecked runs the command via r and returns its output, failing
// with a *CommandError when the command exits nonzero.
func RunChecked(r Runner, name string, args ...string) (string, error) {
	code, output, err := r.Run(name, args...)
	if err != nil {
		return "", errors.Trace(err)
	}
	if code != 0 {
		return "", &CommandError{
			Command: CommandLine(name, args...),
			Code:    code,
			Output:  output,
		}
	}
	return output, nil
}

// CommandError describes a command that ran but exited nonzero.
type CommandError struct {
	Command string
	Code    int
	Output  string
}

// Error implements error.
func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("command %q exited %d", e.Command, e.Code)
	}
	return fmt.Sprintf("command %q exited %d: %s", e.Command, e.Code, e.Output)
}

// IsCommandError reports whether err was caused by a nonzero command
// exit.
func IsCommandError(err error) bool {
	_, ok := errors.Cause(err).(*CommandError)
	return ok
}
