// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resource_test

import (
	"github.com/juju/testing"
	gc "gopkg.in/check.v1"

	"github.com/juju/fsconverge/resource"
)

type resolveSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&resolveSuite{})

func (s *resolveSuite) TestDefaultPath(c *gc.C) {
	spec := resource.FilesystemSpec{Label: "data"}
	c.Check(spec.DevicePath(), gc.Equals, "/dev/mapper/data")
}

func (s *resolveSuite) TestExplicitDevice(c *gc.C) {
	spec := resource.FilesystemSpec{Label: "data", Device: "/dev/vdb1"}
	c.Check(spec.DevicePath(), gc.Equals, "/dev/vdb1")
}

func (s *resolveSuite) TestUUID(c *gc.C) {
	spec := resource.FilesystemSpec{
		Label: "data",
		UUID:  "2d496d1d-5a49-4708-b616-24e9ce2d2a03",
	}
	c.Check(spec.DevicePath(), gc.Equals,
		"/dev/disk/by-uuid/2d496d1d-5a49-4708-b616-24e9ce2d2a03")
}

func (s *resolveSuite) TestVolumeGroup(c *gc.C) {
	spec := resource.FilesystemSpec{Label: "data", VolumeGroup: "vg0"}
	c.Check(spec.DevicePath(), gc.Equals, "/dev/mapper/vg0-data")
}

func (s *resolveSuite) TestBackingFile(c *gc.C) {
	spec := resource.FilesystemSpec{
		Label:  "data",
		File:   "/var/lib/data.img",
		Device: "/dev/loop3",
	}
	c.Check(spec.DevicePath(), gc.Equals, "/dev/loop3")
}

func (s *resolveSuite) TestPrecedence(c *gc.C) {
	// Each resolution source wins over everything below it.
	spec := resource.FilesystemSpec{
		Label:       "data",
		File:        "/var/lib/data.img",
		Device:      "/dev/loop3",
		VolumeGroup: "vg0",
		UUID:        "2d496d1d-5a49-4708-b616-24e9ce2d2a03",
	}
	c.Check(spec.DevicePath(), gc.Equals, "/dev/loop3")

	spec.File = ""
	spec.Device = "/dev/vdb1"
	c.Check(spec.DevicePath(), gc.Equals, "/dev/mapper/vg0-data")

	spec.VolumeGroup = ""
	c.Check(spec.DevicePath(), gc.Equals,
		"/dev/disk/by-uuid/2d496d1d-5a49-4708-b616-24e9ce2d2a03")

	spec.UUID = ""
	c.Check(spec.DevicePath(), gc.Equals, "/dev/vdb1")

	spec.Device = ""
	c.Check(spec.DevicePath(), gc.Equals, "/dev/mapper/data")
}
