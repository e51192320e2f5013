// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge

import (
	"os"
	"strconv"

	"github.com/juju/errors"

	"github.com/juju/fsconverge/fstab"
	"github.com/juju/fsconverge/resource"
)

// enable records the filesystem in the persistent mount table so it
// survives a reboot. File-backed filesystems are recorded against the
// backing file with a loop= option naming the device, the form the
// mount table understands for loop mounts.
func (c *Converger) enable(spec resource.FilesystemSpec, device string) error {
	if c.deferred(spec, device) {
		return nil
	}
	if spec.Mount == "" {
		logger.Debugf("no mount point for %q, nothing to record", spec.Label)
		return nil
	}
	entry := fstab.Entry{
		Device:  device,
		Dir:     spec.Mount,
		Fstype:  spec.Fstype,
		Options: spec.Options,
		Dump:    spec.Dump,
		Pass:    spec.Pass,
	}
	if spec.File != "" {
		entry.Device = spec.File
		entry.Options = appendOption(spec.Options, "loop="+device)
	}
	if _, err := c.config.Table.Upsert(entry); err != nil {
		return errors.Annotatef(err, "recording %q in mount table", spec.Mount)
	}
	return nil
}

// mount mounts the device at the spec's mount point and normalizes
// ownership of the mount point while the filesystem is live.
func (c *Converger) mount(spec resource.FilesystemSpec, device string) error {
	if c.deferred(spec, device) {
		return nil
	}
	if spec.Mount == "" {
		logger.Debugf("no mount point for %q, nothing to mount", spec.Label)
		return nil
	}
	isMountPoint, err := c.config.Mounts.IsMountPoint(spec.Mount)
	if err != nil {
		return errors.Trace(err)
	}
	if !isMountPoint {
		if err := c.ensureMountPointDir(spec.Mount); err != nil {
			return errors.Trace(err)
		}
	}
	mounted, err := c.config.Mounts.MountedAt(device, spec.Mount)
	if err != nil {
		return errors.Trace(err)
	}
	if mounted {
		logger.Infof("%s already mounted at %s", device, spec.Mount)
	} else {
		if err := c.config.Mounts.Mount(device, spec.Mount, spec.Fstype, spec.Options); err != nil {
			return errors.Annotatef(err, "mounting %s at %s", device, spec.Mount)
		}
		logger.Infof("mounted %s at %s", device, spec.Mount)
	}
	return c.normalizePermissions(spec)
}

// ensureMountPointDir creates the mount point directory, root owned
// with mode 755, the shape a mount point has before anything is
// mounted over it.
func (c *Converger) ensureMountPointDir(dir string) error {
	if err := c.dirs.mkDirAll(dir, 0755); err != nil {
		return errors.Annotatef(err, "creating mount point %s", dir)
	}
	if err := c.dirs.chown(dir, "root", "root"); err != nil {
		return errors.Annotatef(err, "owning mount point %s", dir)
	}
	return nil
}

// normalizePermissions applies the spec's owner, group and mode to
// the mount point. It only acts on a live mount point, so the
// attributes land on the mounted filesystem's root rather than the
// underlying directory, and never on network filesystems, whose
// server-side semantics (root squash among them) must not be
// disturbed from this end.
func (c *Converger) normalizePermissions(spec resource.FilesystemSpec) error {
	if c.networkType(spec.Fstype) {
		logger.Debugf("%s is a network filesystem, leaving %s permissions alone",
			spec.Fstype, spec.Mount)
		return nil
	}
	if spec.Owner == "" && spec.Group == "" && spec.Mode == "" {
		return nil
	}
	isMountPoint, err := c.config.Mounts.IsMountPoint(spec.Mount)
	if err != nil {
		return errors.Trace(err)
	}
	if !isMountPoint {
		logger.Debugf("%s is not a mount point, leaving permissions alone", spec.Mount)
		return nil
	}
	if spec.Owner != "" || spec.Group != "" {
		if err := c.dirs.chown(spec.Mount, spec.Owner, spec.Group); err != nil {
			return errors.Annotatef(err, "owning %s", spec.Mount)
		}
	}
	if spec.Mode != "" {
		mode, err := strconv.ParseUint(spec.Mode, 8, 32)
		if err != nil {
			return errors.NotValidf("mode %q", spec.Mode)
		}
		if err := c.dirs.chmod(spec.Mount, os.FileMode(mode)); err != nil {
			return errors.Annotatef(err, "setting mode of %s", spec.Mount)
		}
	}
	return nil
}

// appendOption adds one option to a comma separated option string.
func appendOption(options, option string) string {
	if options == "" {
		return option
	}
	return options + "," + option
}
