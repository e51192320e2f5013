// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package resource defines the desired-state description of a host
// filesystem and the actions that converge it.
package resource

import (
	"strings"

	"github.com/juju/errors"
)

// FilesystemSpec is the desired state of one filesystem resource. A
// spec is constructed fresh for every invocation, either from
// key=value attributes or a YAML document, and is never mutated after
// construction; the effects it describes (mount table entries, the
// filesystem itself) live on disk, not in this type.
type FilesystemSpec struct {
	// Label identifies the filesystem. It is used as the logical
	// volume name and passed to mkfs -L. Defaults to the resource
	// name the spec was built with.
	Label string

	// Device is an explicit device node, or the loop device that
	// carries File when File is set.
	Device string

	// VolumeGroup names the LVM volume group to provision a logical
	// volume in.
	VolumeGroup string

	// File is the path of a backing file to provision and mount via
	// a loop device.
	File string

	// UUID identifies an existing filesystem by UUID.
	UUID string

	// Fstype is the filesystem type. Defaults to ext3.
	Fstype string

	// MkfsOptions holds extra mkfs arguments, split shell-style.
	MkfsOptions string

	// Packages is a comma-separated list of packages to install in
	// addition to the fstype's own tool packages.
	Packages string

	// Sparse selects sparse allocation for backing files. Defaults
	// to true.
	Sparse bool

	// Size is the size of the storage to provision, in the syntax
	// the provisioner understands (e.g. "10G"). Provisioning is
	// skipped entirely when Size is empty.
	Size string

	// Stripes and Mirrors are passed to the logical volume
	// provisioner when both VolumeGroup and Size are set. Zero
	// means unset.
	Stripes int
	Mirrors int

	// Mount is the mount point. Enable, mount, freeze and unfreeze
	// all operate on it.
	Mount string

	// Options holds fstab/mount options. Defaults to "defaults".
	Options string

	// Owner, Group and Mode are applied to the mount point after
	// mounting, except for network filesystems.
	Owner string
	Group string
	Mode  string

	// Dump and Pass are the fstab dump frequency and fsck pass
	// number, each in {0, 1, 2}.
	Dump int
	Pass int

	// Force formats even when the fstype's tooling cannot be
	// confirmed present.
	Force bool

	// IgnoreExisting formats even when the device already holds a
	// mountable filesystem.
	IgnoreExisting bool

	// DeferDevice makes actions a no-op while the device is absent,
	// for storage that appears later in a larger convergence run.
	DeferDevice bool
}

// Validate checks the invariants that schema coercion cannot express.
func (s FilesystemSpec) Validate() error {
	if s.Label == "" {
		return errors.NotValidf("empty label")
	}
	if strings.ContainsAny(s.Label, " \t") {
		return errors.NotValidf("label %q containing whitespace", s.Label)
	}
	if s.Dump < 0 || s.Dump > 2 {
		return errors.NotValidf("dump frequency %d", s.Dump)
	}
	if s.Pass < 0 || s.Pass > 2 {
		return errors.NotValidf("fsck pass %d", s.Pass)
	}
	if s.Stripes < 0 {
		return errors.NotValidf("negative stripes")
	}
	if s.Mirrors < 0 {
		return errors.NotValidf("negative mirrors")
	}
	if s.File != "" && s.Device == "" {
		// The backing file is mounted via a loop device assigned
		// externally; without it there is nothing to wait for or
		// record in the mount table.
		return errors.NotValidf("backing file without a loop device")
	}
	return nil
}

// DevicePath resolves the concrete device node for the spec. It is a
// pure function of the spec's fields: exactly one resolution branch is
// taken, in fixed precedence order. Callers resolve once per action
// and thread the result through, since external state may change as
// side effects occur.
func (s FilesystemSpec) DevicePath() string {
	switch {
	case s.File != "":
		// The backing file is carried by an externally assigned
		// loop device; the explicit device field names it.
		return s.Device
	case s.VolumeGroup != "":
		return "/dev/mapper/" + s.VolumeGroup + "-" + s.Label
	case s.UUID != "":
		return "/dev/disk/by-uuid/" + s.UUID
	case s.Device != "":
		return s.Device
	}
	return "/dev/mapper/" + s.Label
}

// PackageList returns the comma-separated package override as a list,
// dropping empty elements.
func (s FilesystemSpec) PackageList() []string {
	if s.Packages == "" {
		return nil
	}
	var pkgs []string
	for _, p := range strings.Split(s.Packages, ",") {
		if p = strings.TrimSpace(p); p != "" {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}
