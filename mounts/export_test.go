// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package mounts

import (
	"github.com/moby/sys/mountinfo"
)

func PatchGetMounts(m *Manager, entries []*mountinfo.Info, err error) {
	m.getMounts = func() ([]*mountinfo.Info, error) {
		return entries, err
	}
}

func PatchScratchDir(m *Manager, dir string) {
	m.scratchDir = dir
}
