// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge

import (
	"github.com/juju/errors"

	"github.com/juju/fsconverge/resource"
)

// freeze suspends writes to the mounted filesystem. A frozen
// filesystem blocks writers until unfrozen; there is no timeout, so
// the caller owns getting it thawed again.
func (c *Converger) freeze(spec resource.FilesystemSpec) error {
	if spec.Mount == "" {
		return errors.NotValidf("freezing %q without a mount point", spec.Label)
	}
	frozen, err := c.config.Freezer.Frozen(spec.Mount)
	if err != nil {
		return errors.Trace(err)
	}
	if frozen {
		logger.Infof("%s already frozen", spec.Mount)
		return nil
	}
	if err := c.config.Freezer.Freeze(spec.Mount); err != nil {
		return errors.Annotatef(err, "freezing %s", spec.Mount)
	}
	logger.Infof("froze %s", spec.Mount)
	return nil
}

// unfreeze resumes writes to the mounted filesystem.
func (c *Converger) unfreeze(spec resource.FilesystemSpec) error {
	if spec.Mount == "" {
		return errors.NotValidf("unfreezing %q without a mount point", spec.Label)
	}
	frozen, err := c.config.Freezer.Frozen(spec.Mount)
	if err != nil {
		return errors.Trace(err)
	}
	if !frozen {
		logger.Infof("%s not frozen", spec.Mount)
		return nil
	}
	if err := c.config.Freezer.Unfreeze(spec.Mount); err != nil {
		return errors.Annotatef(err, "unfreezing %s", spec.Mount)
	}
	logger.Infof("unfroze %s", spec.Mount)
	return nil
}
