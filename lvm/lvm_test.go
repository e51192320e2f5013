// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lvm_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/fsconverge/lvm"
	"github.com/juju/fsconverge/shell"
	"github.com/juju/fsconverge/shell/shelltesting"
)

type volumesSuite struct {
	testing.IsolationSuite

	runner  *shelltesting.StubRunner
	volumes *lvm.Volumes
}

var _ = gc.Suite(&volumesSuite{})

func (s *volumesSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.runner = shelltesting.NewStubRunner(c)
	s.volumes = lvm.NewVolumes(s.runner)
}

func (s *volumesSuite) TearDownTest(c *gc.C) {
	s.runner.AssertDrained()
	s.IsolationSuite.TearDownTest(c)
}

func (s *volumesSuite) TestCreates(c *gc.C) {
	s.runner.Expect("lvs", "vg0/data").Respond(5, "Failed to find logical volume \"vg0/data\"", nil)
	s.runner.Expect("lvcreate", "--yes", "--name", "data", "--size", "10G", "vg0")

	err := s.volumes.EnsureLogicalVolume("data", "vg0", "10G", 0, 0)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *volumesSuite) TestExistingVolumeLeftAlone(c *gc.C) {
	s.runner.Expect("lvs", "vg0/data").Respond(0, "  data vg0 -wi-a----- 10.00g", nil)

	err := s.volumes.EnsureLogicalVolume("data", "vg0", "10G", 0, 0)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *volumesSuite) TestStripesAndMirrors(c *gc.C) {
	s.runner.Expect("lvs", "vg0/data").Respond(5, "", nil)
	s.runner.Expect("lvcreate", "--yes", "--name", "data", "--size", "10G",
		"--stripes", "3", "--mirrors", "2", "vg0")

	err := s.volumes.EnsureLogicalVolume("data", "vg0", "10G", 3, 2)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *volumesSuite) TestStripesWithoutMirrors(c *gc.C) {
	s.runner.Expect("lvs", "vg0/data").Respond(5, "", nil)
	s.runner.Expect("lvcreate", "--yes", "--name", "data", "--size", "10G",
		"--stripes", "2", "vg0")

	err := s.volumes.EnsureLogicalVolume("data", "vg0", "10G", 2, 0)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *volumesSuite) TestCreateFailure(c *gc.C) {
	s.runner.Expect("lvs", "vg0/data").Respond(5, "", nil)
	s.runner.Expect("lvcreate", "--yes", "--name", "data", "--size", "10G", "vg0").
		Respond(5, "Volume group \"vg0\" has insufficient free space", nil)

	err := s.volumes.EnsureLogicalVolume("data", "vg0", "10G", 0, 0)
	c.Assert(err, gc.ErrorMatches,
		`creating logical volume vg0/data: command "lvcreate .*" exited 5: Volume group .*`)
	c.Assert(err, jc.Satisfies, shell.IsCommandError)
}

func (s *volumesSuite) TestProbeRunnerError(c *gc.C) {
	s.runner.Expect("lvs", "vg0/data").Respond(-1, "", errors.New("lvs: command not found"))

	err := s.volumes.EnsureLogicalVolume("data", "vg0", "10G", 0, 0)
	c.Assert(err, gc.ErrorMatches, "probing logical volume vg0/data: lvs: command not found")
}

func (s *volumesSuite) TestValidation(c *gc.C) {
	for _, t := range []struct {
		name, group, size string
		expect            string
	}{
		{"", "vg0", "10G", "empty logical volume name not valid"},
		{"data", "", "10G", "empty volume group not valid"},
		{"data", "vg0", "", "empty size not valid"},
	} {
		err := s.volumes.EnsureLogicalVolume(t.name, t.group, t.size, 0, 0)
		c.Check(err, gc.ErrorMatches, t.expect)
		c.Check(err, jc.Satisfies, errors.IsNotValid)
	}
}
