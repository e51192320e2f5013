// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package loopfile provisions the backing files behind loop devices.
package loopfile

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"golang.org/x/sys/unix"
)

var logger = loggo.GetLogger("fsconverge.loopfile")

// Files creates backing files for loop devices.
type Files struct {
	// allocate reserves blocks for non-sparse files. A test seam;
	// production uses fallocate.
	allocate func(fd uintptr, size int64) error
}

// NewFiles returns a Files provisioner.
func NewFiles() *Files {
	return &Files{allocate: fallocate}
}

func fallocate(fd uintptr, size int64) error {
	return unix.Fallocate(int(fd), 0, 0, size)
}

// EnsureBackingFile ensures a file of the given size exists at path,
// creating parent directories as needed. An existing file is left
// exactly as found, whatever its size. Sparse files only declare
// their size; non-sparse files get their blocks allocated up front.
// Size strings take decimal or binary unit suffixes ("10GB",
// "512MiB").
func (f *Files) EnsureBackingFile(path, size string, sparse bool) error {
	if _, err := os.Stat(path); err == nil {
		logger.Debugf("backing file %s already exists", path)
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Annotatef(err, "examining %s", path)
	}
	bytes, err := humanize.ParseBytes(size)
	if err != nil {
		return errors.NotValidf("size %q", size)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Annotatef(err, "creating directory for %s", path)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return errors.Annotatef(err, "creating %s", path)
	}
	if sparse {
		err = file.Truncate(int64(bytes))
	} else {
		err = f.allocate(file.Fd(), int64(bytes))
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A half-sized file would satisfy the existence check on the
		// next run, so take it with us.
		if rerr := os.Remove(path); rerr != nil {
			logger.Warningf("removing partial backing file %s: %v", path, rerr)
		}
		return errors.Annotatef(err, "sizing %s to %s", path, size)
	}
	kind := "sparse"
	if !sparse {
		kind = "preallocated"
	}
	logger.Infof("created %s backing file %s (%s)", kind, path, size)
	return nil
}
