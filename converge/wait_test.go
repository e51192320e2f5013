// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge_test

import (
	"time"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/fsconverge/converge"
	"github.com/juju/fsconverge/resource"
)

const longWait = 10 * time.Second

type waitSuite struct {
	engineSuite
}

var _ = gc.Suite(&waitSuite{})

// waiter runs create against a spec with no provisioning, counting
// device probes through the existence seam. appearAt is the probe
// number from which the device exists; 0 means never.
func (s *waitSuite) waiter(c *gc.C, appearAt int, probes *int) *converge.Converger {
	cfg := s.config()
	cfg.WaitAttempts = 3
	cfg.WaitDelay = time.Second
	conv, dirs, err := converge.NewMockConverger(
		cfg,
		func(path string) bool {
			*probes++
			return appearAt > 0 && *probes >= appearAt
		},
		func(file string) (string, error) {
			if s.tools.Contains(file) {
				return "/sbin/" + file, nil
			}
			return "", errors.NotFoundf("%s", file)
		},
	)
	c.Assert(err, jc.ErrorIsNil)
	s.dirs = dirs
	return conv
}

func (s *waitSuite) converge(conv *converge.Converger) chan error {
	done := make(chan error, 1)
	go func() {
		done <- conv.Converge(resource.ActionCreate, resource.FilesystemSpec{
			Label:  "data",
			Device: "/dev/vdb1",
			Fstype: "ext4",
		})
	}()
	return done
}

func (s *waitSuite) TestWaitTimesOut(c *gc.C) {
	var probes int
	done := s.converge(s.waiter(c, 0, &probes))

	// Three attempts sleep twice; the last failure returns without
	// waiting.
	for i := 0; i < 2; i++ {
		c.Assert(s.clock.WaitAdvance(time.Second, longWait, 1), jc.ErrorIsNil)
	}
	select {
	case err := <-done:
		c.Assert(err, gc.ErrorMatches, `device /dev/vdb1 still missing after 3 attempts`)
		c.Assert(err, jc.Satisfies, errors.IsTimeout)
	case <-time.After(longWait):
		c.Fatalf("converge did not return")
	}

	// One probe gates entry to the waiter, then one per attempt.
	c.Check(probes, gc.Equals, 4)
	s.stub.CheckCallNames(c)
}

func (s *waitSuite) TestWaitDeviceAppears(c *gc.C) {
	s.tools.Add("mkfs.ext4")
	s.runner.Expect("mkfs", "-t", "ext4", "-L", "data", "/dev/vdb1")

	var probes int
	done := s.converge(s.waiter(c, 3, &probes))

	c.Assert(s.clock.WaitAdvance(time.Second, longWait, 1), jc.ErrorIsNil)
	select {
	case err := <-done:
		c.Assert(err, jc.ErrorIsNil)
	case <-time.After(longWait):
		c.Fatalf("converge did not return")
	}

	c.Check(probes, gc.Equals, 3)
	s.stub.CheckCallNames(c, "IsMounted", "EnsureInstalled", "ProbeMountable")
}

func (s *waitSuite) TestNoWaitWhenDevicePresent(c *gc.C) {
	s.tools.Add("mkfs.ext4")
	s.runner.Expect("mkfs", "-t", "ext4", "-L", "data", "/dev/vdb1")

	var probes int
	done := s.converge(s.waiter(c, 1, &probes))

	select {
	case err := <-done:
		c.Assert(err, jc.ErrorIsNil)
	case <-time.After(longWait):
		c.Fatalf("converge did not return")
	}
	c.Check(probes, gc.Equals, 1)
}
