// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package packages installs the host packages that carry filesystem
// tooling.
package packages

import (
	"os/exec"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/packaging/v2/manager"
)

var logger = loggo.GetLogger("fsconverge.packages")

// backend is the slice of a package manager the installer needs.
type backend interface {
	IsInstalled(pack string) bool
	Install(packs ...string) error
}

// Installer installs packages, skipping ones already present.
type Installer struct {
	backend backend
}

// NewInstaller returns an Installer for the host's package manager:
// apt when apt-get is on the PATH, otherwise yum.
func NewInstaller() (*Installer, error) {
	return newInstaller(exec.LookPath)
}

func newInstaller(lookPath func(string) (string, error)) (*Installer, error) {
	if _, err := lookPath("apt-get"); err == nil {
		return &Installer{backend: manager.NewAptPackageManager()}, nil
	}
	if _, err := lookPath("yum"); err == nil {
		return &Installer{backend: manager.NewYumPackageManager()}, nil
	}
	return nil, errors.NotSupportedf("package management on this host")
}

// EnsureInstalled installs the named package unless it already is.
func (i *Installer) EnsureInstalled(name string) error {
	if i.backend.IsInstalled(name) {
		logger.Debugf("package %s already installed", name)
		return nil
	}
	logger.Infof("installing package %s", name)
	return errors.Annotatef(i.backend.Install(name), "installing %s", name)
}
