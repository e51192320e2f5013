// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge_test

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/fsconverge/converge"
	"github.com/juju/fsconverge/resource"
)

type configSuite struct {
	engineSuite
}

var _ = gc.Suite(&configSuite{})

func (s *configSuite) TestValidConfig(c *gc.C) {
	err := s.config().Validate()
	c.Assert(err, jc.ErrorIsNil)
}

func (s *configSuite) TestValidateMissingCollaborators(c *gc.C) {
	tests := []struct {
		tweak func(*converge.Config)
		err   string
	}{
		{func(cfg *converge.Config) { cfg.Runner = nil }, "nil Runner not valid"},
		{func(cfg *converge.Config) { cfg.Mounts = nil }, "nil Mounts not valid"},
		{func(cfg *converge.Config) { cfg.Freezer = nil }, "nil Freezer not valid"},
		{func(cfg *converge.Config) { cfg.Table = nil }, "nil Table not valid"},
		{func(cfg *converge.Config) { cfg.Volumes = nil }, "nil Volumes not valid"},
		{func(cfg *converge.Config) { cfg.Files = nil }, "nil Files not valid"},
		{func(cfg *converge.Config) { cfg.Packages = nil }, "nil Packages not valid"},
		{func(cfg *converge.Config) { cfg.Clock = nil }, "nil Clock not valid"},
		{func(cfg *converge.Config) { cfg.WaitAttempts = -1 }, "negative WaitAttempts not valid"},
		{func(cfg *converge.Config) { cfg.WaitDelay = -1 }, "negative WaitDelay not valid"},
	}
	for i, test := range tests {
		c.Logf("test %d: %s", i, test.err)
		cfg := s.config()
		test.tweak(&cfg)
		err := cfg.Validate()
		c.Check(err, gc.ErrorMatches, test.err)
		c.Check(err, jc.Satisfies, errors.IsNotValid)

		_, err = converge.NewConverger(cfg)
		c.Check(err, gc.ErrorMatches, test.err)
	}
}

func (s *configSuite) TestNewConvergerDefaultsWaitCeiling(c *gc.C) {
	conv, err := converge.NewConverger(s.config())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(converge.WaitAttempts(conv), gc.Equals, 1000)
}

type dispatchSuite struct {
	engineSuite
}

var _ = gc.Suite(&dispatchSuite{})

func (s *dispatchSuite) TestInvalidSpecRejectedBeforeSideEffects(c *gc.C) {
	conv := s.converger(c, s.config())
	err := conv.Converge(resource.ActionCreate, resource.FilesystemSpec{})
	c.Assert(err, gc.ErrorMatches, "empty label not valid")
	s.stub.CheckCallNames(c)
}

func (s *dispatchSuite) TestUnknownAction(c *gc.C) {
	conv := s.converger(c, s.config())
	err := conv.Converge(resource.Action("scrub"), resource.FilesystemSpec{
		Label: "data",
	})
	c.Assert(err, gc.ErrorMatches, `action "scrub" not valid`)
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}
