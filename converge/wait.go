// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge

import (
	"os"

	"github.com/juju/errors"
	"github.com/juju/retry"
)

// waitForDevice polls until the device node exists. Storage usually
// appears within moments of provisioning, but device mapper and udev
// can lag; the ceiling keeps a missing device from hanging a
// convergence run forever. Exceeding it is fatal and satisfies
// errors.IsTimeout.
func (c *Converger) waitForDevice(device string) error {
	logger.Infof("waiting for device %s to appear", device)
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if c.deviceExists(device) {
				return nil
			}
			return errors.NotFoundf("device %s", device)
		},
		IsFatalError: func(err error) bool {
			return !errors.IsNotFound(err)
		},
		NotifyFunc: func(lastError error, attempt int) {
			logger.Debugf("device %s not present (attempt %d of %d)",
				device, attempt, c.config.WaitAttempts)
		},
		Attempts: c.config.WaitAttempts,
		Delay:    c.config.WaitDelay,
		Clock:    c.config.Clock,
	})
	if retry.IsAttemptsExceeded(err) {
		return errors.Timeoutf("device %s still missing after %d attempts",
			device, c.config.WaitAttempts)
	}
	return errors.Trace(err)
}

func deviceExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
