// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mounts

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/juju/errors"

	"github.com/juju/fsconverge/shell"
)

// DefaultFreezeStateDir is where successful freezes are recorded.
// /run is tmpfs, so the markers last exactly as long as the kernel's
// own frozen state can: a reboot clears both.
const DefaultFreezeStateDir = "/run/fsconverge/frozen"

// Freezer suspends and resumes writes to mounted filesystems with
// fsfreeze. The kernel exposes no generic frozen query, so the
// freezer records each freeze as a marker file and answers Frozen
// from the markers.
type Freezer struct {
	runner   shell.Runner
	stateDir string
}

// NewFreezer returns a Freezer recording frozen state under stateDir,
// or DefaultFreezeStateDir when empty.
func NewFreezer(runner shell.Runner, stateDir string) (*Freezer, error) {
	if runner == nil {
		return nil, errors.NotValidf("nil runner")
	}
	if stateDir == "" {
		stateDir = DefaultFreezeStateDir
	}
	return &Freezer{runner: runner, stateDir: stateDir}, nil
}

// Freeze suspends writes to the filesystem mounted at dir.
func (f *Freezer) Freeze(dir string) error {
	if _, err := shell.RunChecked(f.runner, "fsfreeze", "--freeze", dir); err != nil {
		return errors.Trace(err)
	}
	if err := os.MkdirAll(f.stateDir, 0755); err != nil {
		return errors.Annotatef(err, "recording frozen state of %s", dir)
	}
	if err := os.WriteFile(f.marker(dir), []byte(dir+"\n"), 0644); err != nil {
		return errors.Annotatef(err, "recording frozen state of %s", dir)
	}
	return nil
}

// Unfreeze resumes writes to the filesystem mounted at dir.
func (f *Freezer) Unfreeze(dir string) error {
	if _, err := shell.RunChecked(f.runner, "fsfreeze", "--unfreeze", dir); err != nil {
		return errors.Trace(err)
	}
	if err := os.Remove(f.marker(dir)); err != nil && !os.IsNotExist(err) {
		return errors.Annotatef(err, "clearing frozen state of %s", dir)
	}
	return nil
}

// Frozen reports whether dir was frozen through this tool. A thaw
// performed elsewhere leaves a stale marker until the next Unfreeze
// or reboot.
func (f *Freezer) Frozen(dir string) (bool, error) {
	_, err := os.Stat(f.marker(dir))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

func (f *Freezer) marker(dir string) string {
	return filepath.Join(f.stateDir, url.PathEscape(dir))
}
