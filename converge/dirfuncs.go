// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge

import (
	"os"
	"os/user"
	"strconv"

	"github.com/juju/errors"
)

// dirFuncs is used to allow the real directory operations to be
// stubbed out for testing.
type dirFuncs interface {
	mkDirAll(path string, perm os.FileMode) error
	chown(path, owner, group string) error
	chmod(path string, mode os.FileMode) error
}

// The real directory related functions.
type osDirFuncs struct{}

func (*osDirFuncs) mkDirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*osDirFuncs) chown(path, owner, group string) error {
	uid, gid := -1, -1
	if owner != "" {
		u, err := user.Lookup(owner)
		if err != nil {
			return errors.Annotatef(err, "looking up user %q", owner)
		}
		uid, err = strconv.Atoi(u.Uid)
		if err != nil {
			return errors.Annotatef(err, "parsing uid of %q", owner)
		}
	}
	if group != "" {
		g, err := user.LookupGroup(group)
		if err != nil {
			return errors.Annotatef(err, "looking up group %q", group)
		}
		gid, err = strconv.Atoi(g.Gid)
		if err != nil {
			return errors.Annotatef(err, "parsing gid of %q", group)
		}
	}
	return os.Chown(path, uid, gid)
}

func (*osDirFuncs) chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}
