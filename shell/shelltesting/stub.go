// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package shelltesting provides a scripted shell.Runner for tests.
package shelltesting

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/fsconverge/shell"
)

// StubRunner responds to an ordered script of expected commands.
// Unexpected commands and unconsumed expectations both fail the test.
type StubRunner struct {
	c       *gc.C
	pending []*Expectation
}

// Expectation is one scripted command and its response.
type Expectation struct {
	argv   []string
	code   int
	output string
	err    error
}

// NewStubRunner returns a StubRunner asserting against c.
func NewStubRunner(c *gc.C) *StubRunner {
	return &StubRunner{c: c}
}

// Expect schedules the next command the runner requires. The response
// defaults to exit 0 with no output; use Respond to change it.
func (r *StubRunner) Expect(name string, args ...string) *Expectation {
	e := &Expectation{argv: append([]string{name}, args...)}
	r.pending = append(r.pending, e)
	return e
}

// Respond sets the exit code, output and error returned when the
// expected command runs.
func (e *Expectation) Respond(code int, output string, err error) {
	e.code = code
	e.output = output
	e.err = err
}

// Run implements shell.Runner.
func (r *StubRunner) Run(name string, args ...string) (int, string, error) {
	argv := append([]string{name}, args...)
	if len(r.pending) == 0 {
		r.c.Fatalf("unexpected command: %s", shell.CommandLine(name, args...))
	}
	next := r.pending[0]
	r.pending = r.pending[1:]
	r.c.Check(argv, jc.DeepEquals, next.argv)
	return next.code, next.output, next.err
}

// AssertDrained asserts every scripted command was run.
func (r *StubRunner) AssertDrained() {
	var leftover []string
	for _, e := range r.pending {
		leftover = append(leftover, shell.CommandLine(e.argv[0], e.argv[1:]...))
	}
	r.c.Assert(leftover, gc.HasLen, 0)
}
