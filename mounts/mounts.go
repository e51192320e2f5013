// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package mounts inspects and changes the host's live mount state.
// Queries read the kernel's mount table; operations go through the
// host's mount command so the usual helpers (mount.nfs, loop setup)
// keep working.
package mounts

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/moby/sys/mountinfo"

	"github.com/juju/fsconverge/shell"
)

var logger = loggo.GetLogger("fsconverge.mounts")

// Manager runs mount operations and answers mount queries.
type Manager struct {
	runner shell.Runner

	// Test seams. Production reads the kernel mount table and probes
	// under the system temp dir.
	getMounts  func() ([]*mountinfo.Info, error)
	scratchDir string
}

// NewManager returns a Manager running commands through runner.
func NewManager(runner shell.Runner) (*Manager, error) {
	if runner == nil {
		return nil, errors.NotValidf("nil runner")
	}
	return &Manager{
		runner: runner,
		getMounts: func() ([]*mountinfo.Info, error) {
			return mountinfo.GetMounts(nil)
		},
		scratchDir: filepath.Join(os.TempDir(), "fsconverge-probe"),
	}, nil
}

// Mount mounts device at dir. An empty fstype or options leaves the
// corresponding flag off, so mount applies its own detection and
// defaults.
func (m *Manager) Mount(device, dir, fstype, options string) error {
	var args []string
	if fstype != "" {
		args = append(args, "-t", fstype)
	}
	if options != "" {
		args = append(args, "-o", options)
	}
	args = append(args, device, dir)
	_, err := shell.RunChecked(m.runner, "mount", args...)
	return errors.Trace(err)
}

// IsMounted reports whether device is mounted anywhere.
func (m *Manager) IsMounted(device string) (bool, error) {
	entries, err := m.getMounts()
	if err != nil {
		return false, errors.Annotate(err, "reading mount table")
	}
	for _, entry := range entries {
		if entry.Source == device {
			return true, nil
		}
	}
	return false, nil
}

// MountedAt reports whether device is mounted at dir.
func (m *Manager) MountedAt(device, dir string) (bool, error) {
	entries, err := m.getMounts()
	if err != nil {
		return false, errors.Annotate(err, "reading mount table")
	}
	for _, entry := range entries {
		if entry.Source == device && entry.Mountpoint == dir {
			return true, nil
		}
	}
	return false, nil
}

// IsMountPoint reports whether dir is a live mount point. The mount
// table is scanned rather than statted so a dir that does not exist
// yet is simply not a mount point.
func (m *Manager) IsMountPoint(dir string) (bool, error) {
	entries, err := m.getMounts()
	if err != nil {
		return false, errors.Annotate(err, "reading mount table")
	}
	for _, entry := range entries {
		if entry.Mountpoint == dir {
			return true, nil
		}
	}
	return false, nil
}

// ProbeMountable reports whether device already holds a filesystem
// the kernel can mount, by mounting it at a scratch directory and
// unmounting it again. Scratch directory creation is not checked; if
// it fails the mount fails with it and the device reports
// unmountable. The directory is removed afterwards, best effort.
func (m *Manager) ProbeMountable(device string) bool {
	_ = os.MkdirAll(m.scratchDir, 0755)
	defer func() {
		if err := os.Remove(m.scratchDir); err != nil && !os.IsNotExist(err) {
			logger.Warningf("removing probe directory %s: %v", m.scratchDir, err)
		}
	}()
	code, output, err := m.runner.Run("mount", device, m.scratchDir)
	if err != nil {
		logger.Warningf("probing %s: %v", device, err)
		return false
	}
	if code != 0 {
		logger.Debugf("%s not mountable: %s", device, output)
		return false
	}
	if _, err := shell.RunChecked(m.runner, "umount", m.scratchDir); err != nil {
		logger.Warningf("unmounting probe of %s: %v", device, err)
	}
	return true
}
