// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package converge decides, for one desired filesystem state and the
// host's observed state, which provisioning operations run and in
// what order. Everything that touches the host is behind a
// collaborator interface; the engine itself only sequences and
// guards.
package converge

import (
	"os/exec"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/fsconverge/fstab"
	"github.com/juju/fsconverge/resource"
	"github.com/juju/fsconverge/shell"
)

var logger = loggo.GetLogger("fsconverge.converge")

const (
	// defaultWaitAttempts and defaultWaitDelay bound the wait for a
	// device node to appear, roughly five minutes all told.
	defaultWaitAttempts = 1000
	defaultWaitDelay    = 300 * time.Millisecond
)

// Mounts answers mount queries and performs mount operations.
type Mounts interface {
	// Mount mounts device at dir.
	Mount(device, dir, fstype, options string) error

	// IsMounted reports whether device is mounted anywhere.
	IsMounted(device string) (bool, error)

	// MountedAt reports whether device is mounted at dir.
	MountedAt(device, dir string) (bool, error)

	// IsMountPoint reports whether dir is a live mount point.
	IsMountPoint(dir string) (bool, error)

	// ProbeMountable reports whether device already holds a
	// filesystem the kernel can mount. The probe mounts the device
	// at a scratch directory and unmounts it again.
	ProbeMountable(device string) bool
}

// Freezer suspends and resumes writes to mounted filesystems.
type Freezer interface {
	Freeze(dir string) error
	Unfreeze(dir string) error

	// Frozen reports whether dir is currently frozen.
	Frozen(dir string) (bool, error)
}

// Table records filesystems in the persistent mount table.
type Table interface {
	// Upsert inserts or replaces the entry for its mount point,
	// reporting whether the table changed.
	Upsert(entry fstab.Entry) (bool, error)
}

// Volumes provisions logical volumes.
type Volumes interface {
	EnsureLogicalVolume(name, group, size string, stripes, mirrors int) error
}

// Files provisions backing files for loop devices.
type Files interface {
	EnsureBackingFile(path, size string, sparse bool) error
}

// Packages installs host packages.
type Packages interface {
	EnsureInstalled(name string) error
}

// Config holds the collaborators and knobs for a Converger. One
// Config serves any number of actions; the per-invocation state is
// all in the FilesystemSpec.
type Config struct {
	Runner   shell.Runner
	Mounts   Mounts
	Freezer  Freezer
	Table    Table
	Volumes  Volumes
	Files    Files
	Packages Packages

	// Tools maps filesystem types to packages and force flags.
	// Defaults to DefaultTools().
	Tools Tools

	// NetworkTypes are the filesystem types mounted by protocol.
	// Defaults to DefaultNetworkTypes().
	NetworkTypes set.Strings

	// Clock paces the device wait loop.
	Clock clock.Clock

	// WaitAttempts and WaitDelay bound the device wait loop. Zero
	// values take the defaults (1000 attempts, 300ms apart).
	WaitAttempts int
	WaitDelay    time.Duration
}

// Validate returns an error if the config cannot drive a Converger.
func (config Config) Validate() error {
	if config.Runner == nil {
		return errors.NotValidf("nil Runner")
	}
	if config.Mounts == nil {
		return errors.NotValidf("nil Mounts")
	}
	if config.Freezer == nil {
		return errors.NotValidf("nil Freezer")
	}
	if config.Table == nil {
		return errors.NotValidf("nil Table")
	}
	if config.Volumes == nil {
		return errors.NotValidf("nil Volumes")
	}
	if config.Files == nil {
		return errors.NotValidf("nil Files")
	}
	if config.Packages == nil {
		return errors.NotValidf("nil Packages")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.WaitAttempts < 0 {
		return errors.NotValidf("negative WaitAttempts")
	}
	if config.WaitDelay < 0 {
		return errors.NotValidf("negative WaitDelay")
	}
	return nil
}

// Converger converges one host's filesystems to their desired state.
type Converger struct {
	config Config

	// Test seams. Device nodes and mkfs tools are looked up on the
	// real filesystem in production.
	deviceExists func(path string) bool
	lookPath     func(file string) (string, error)
	dirs         dirFuncs
}

// NewConverger returns a Converger backed by config.
func NewConverger(config Config) (*Converger, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Tools == nil {
		config.Tools = DefaultTools()
	}
	if config.NetworkTypes == nil {
		config.NetworkTypes = DefaultNetworkTypes()
	}
	if config.WaitAttempts == 0 {
		config.WaitAttempts = defaultWaitAttempts
	}
	if config.WaitDelay == 0 {
		config.WaitDelay = defaultWaitDelay
	}
	return &Converger{
		config:       config,
		deviceExists: deviceExists,
		lookPath:     exec.LookPath,
		dirs:         &osDirFuncs{},
	}, nil
}

// Converge runs one action against the spec. The device path is
// resolved exactly once, up front; side effects may change what a
// fresh resolution would observe, so the resolved path is threaded
// through the whole action.
func (c *Converger) Converge(action resource.Action, spec resource.FilesystemSpec) error {
	if err := spec.Validate(); err != nil {
		return errors.Trace(err)
	}
	device := spec.DevicePath()
	logger.Debugf("%s %q: device %s", action, spec.Label, device)
	switch action {
	case resource.ActionCreate:
		return c.create(spec, device)
	case resource.ActionEnable:
		return c.enable(spec, device)
	case resource.ActionMount:
		return c.mount(spec, device)
	case resource.ActionFreeze:
		return c.freeze(spec)
	case resource.ActionUnfreeze:
		return c.unfreeze(spec)
	}
	return errors.NotValidf("action %q", action)
}

// deferred reports whether the action should be skipped because the
// spec tolerates an absent device. Network filesystems have no local
// device node to wait for, so they never defer.
func (c *Converger) deferred(spec resource.FilesystemSpec, device string) bool {
	if !spec.DeferDevice || c.networkType(spec.Fstype) || c.deviceExists(device) {
		return false
	}
	logger.Infof("device %s not present, deferring %q", device, spec.Label)
	return true
}

func (c *Converger) networkType(fstype string) bool {
	return c.config.NetworkTypes.Contains(fstype)
}
