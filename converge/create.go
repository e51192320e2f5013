// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge

import (
	"github.com/juju/errors"
	"github.com/kballard/go-shellquote"

	"github.com/juju/fsconverge/resource"
	"github.com/juju/fsconverge/shell"
)

// create provisions backing storage if the spec asks for it, waits
// for the device node, and formats it. Each step is guarded so a
// re-run after interruption converges instead of failing.
func (c *Converger) create(spec resource.FilesystemSpec, device string) error {
	if c.deferred(spec, device) {
		return nil
	}
	if err := c.provision(spec); err != nil {
		return errors.Trace(err)
	}
	if !c.networkType(spec.Fstype) && !c.deviceExists(device) {
		if err := c.waitForDevice(device); err != nil {
			return errors.Trace(err)
		}
	}
	return c.format(spec, device)
}

// provision ensures the backing storage exists. The two provisioning
// paths are mutually exclusive, and both need a size; without one the
// device is assumed to exist already (or to appear on its own).
func (c *Converger) provision(spec resource.FilesystemSpec) error {
	if spec.Size == "" {
		return nil
	}
	switch {
	case spec.VolumeGroup != "":
		err := c.config.Volumes.EnsureLogicalVolume(
			spec.Label, spec.VolumeGroup, spec.Size, spec.Stripes, spec.Mirrors)
		return errors.Annotatef(err, "provisioning logical volume for %q", spec.Label)
	case spec.File != "":
		err := c.config.Files.EnsureBackingFile(spec.File, spec.Size, spec.Sparse)
		return errors.Annotatef(err, "provisioning backing file for %q", spec.Label)
	}
	return nil
}

// format runs mkfs on the device unless a guard says not to. The
// guards make create idempotent: a mounted or already-formatted
// device is left alone, and a host without the fstype's tooling skips
// rather than fails. Formatting is destructive; nothing here retries
// or rolls back.
func (c *Converger) format(spec resource.FilesystemSpec, device string) error {
	mounted, err := c.config.Mounts.IsMounted(device)
	if err != nil {
		return errors.Trace(err)
	}
	if mounted {
		logger.Infof("%s is mounted, skipping format", device)
		return nil
	}
	if err := c.installPackages(spec); err != nil {
		return errors.Trace(err)
	}
	if !spec.Force && !c.toolInstalled(spec.Fstype) {
		logger.Infof("mkfs.%s not available, skipping format of %s (set force to override)",
			spec.Fstype, device)
		return nil
	}
	if !spec.IgnoreExisting && c.config.Mounts.ProbeMountable(device) {
		logger.Infof("%s already holds a mountable filesystem, skipping format", device)
		return nil
	}
	args, err := formatArgs(spec, device, c.config.Tools)
	if err != nil {
		return errors.Trace(err)
	}
	logger.Infof("formatting %s as %s with label %q", device, spec.Fstype, spec.Label)
	if _, err := shell.RunChecked(c.config.Runner, "mkfs", args...); err != nil {
		return errors.Annotatef(err, "formatting %s", device)
	}
	return nil
}

// installPackages installs the fstype's tool packages and any
// explicit extras. Installation happens before the tool presence
// check so a first converge on a clean host installs and formats in
// one run.
func (c *Converger) installPackages(spec resource.FilesystemSpec) error {
	names := append(c.config.Tools.Packages(spec.Fstype), spec.PackageList()...)
	for _, name := range names {
		if err := c.config.Packages.EnsureInstalled(name); err != nil {
			return errors.Annotatef(err, "installing package %q", name)
		}
	}
	return nil
}

// toolInstalled reports whether mkfs.<fstype> is on the PATH. mkfs
// itself dispatches to that tool, so its absence means the format
// command cannot work.
func (c *Converger) toolInstalled(fstype string) bool {
	_, err := c.lookPath("mkfs." + fstype)
	return err == nil
}

// formatArgs builds the mkfs argument list:
// -t <fstype> [force flag] [mkfs options...] -L <label> <device>
func formatArgs(spec resource.FilesystemSpec, device string, tools Tools) ([]string, error) {
	args := []string{"-t", spec.Fstype}
	if spec.Force {
		if flag := tools.ForceFlag(spec.Fstype); flag != "" {
			args = append(args, flag)
		}
	}
	if spec.MkfsOptions != "" {
		extra, err := shellquote.Split(spec.MkfsOptions)
		if err != nil {
			return nil, errors.NotValidf("mkfs options %q", spec.MkfsOptions)
		}
		args = append(args, extra...)
	}
	return append(args, "-L", spec.Label, device), nil
}
