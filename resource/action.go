// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resource

import (
	"github.com/juju/errors"
)

// Action selects which convergence step to run against a spec.
type Action string

const (
	// ActionCreate provisions backing storage, waits for the device
	// node and formats it.
	ActionCreate Action = "create"

	// ActionEnable records the filesystem in the persistent mount
	// table.
	ActionEnable Action = "enable"

	// ActionMount mounts the filesystem and normalizes ownership of
	// the mount point.
	ActionMount Action = "mount"

	// ActionFreeze suspends writes to the mounted filesystem.
	ActionFreeze Action = "freeze"

	// ActionUnfreeze resumes writes to the mounted filesystem.
	ActionUnfreeze Action = "unfreeze"
)

// Actions lists every valid action in presentation order.
var Actions = []Action{
	ActionCreate,
	ActionEnable,
	ActionMount,
	ActionFreeze,
	ActionUnfreeze,
}

// ParseAction converts a command line word into an Action.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if s == string(a) {
			return a, nil
		}
	}
	return "", errors.NotValidf("action %q", s)
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}
