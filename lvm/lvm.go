// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package lvm provisions logical volumes in existing volume groups.
// The LVM tooling is driven as a black box: presence is probed with
// lvs, creation delegated to lvcreate. Volume groups themselves are
// assumed to exist already.
package lvm

import (
	"strconv"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/fsconverge/shell"
)

var logger = loggo.GetLogger("fsconverge.lvm")

// Volumes creates logical volumes on the host.
type Volumes struct {
	run shell.Runner
}

// NewVolumes returns a Volumes driving the host LVM tools through
// runner.
func NewVolumes(runner shell.Runner) *Volumes {
	return &Volumes{run: runner}
}

// EnsureLogicalVolume creates the logical volume group/name with the
// given size unless it already exists. Stripes and mirrors are passed
// to lvcreate only when positive; each is independent of the other.
func (v *Volumes) EnsureLogicalVolume(name, group, size string, stripes, mirrors int) error {
	if name == "" {
		return errors.NotValidf("empty logical volume name")
	}
	if group == "" {
		return errors.NotValidf("empty volume group")
	}
	if size == "" {
		return errors.NotValidf("empty size")
	}
	volume := group + "/" + name
	code, _, err := v.run.Run("lvs", volume)
	if err != nil {
		return errors.Annotatef(err, "probing logical volume %s", volume)
	}
	if code == 0 {
		logger.Debugf("logical volume %s already exists", volume)
		return nil
	}
	args := []string{"--yes", "--name", name, "--size", size}
	if stripes > 0 {
		args = append(args, "--stripes", strconv.Itoa(stripes))
	}
	if mirrors > 0 {
		args = append(args, "--mirrors", strconv.Itoa(mirrors))
	}
	args = append(args, group)
	if _, err := shell.RunChecked(v.run, "lvcreate", args...); err != nil {
		return errors.Annotatef(err, "creating logical volume %s", volume)
	}
	logger.Infof("created logical volume %s (size %s)", volume, size)
	return nil
}
