// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package packages

var NewInstallerWithLookPath = newInstaller

func NewInstallerWithBackend(b backend) *Installer {
	return &Installer{backend: b}
}
