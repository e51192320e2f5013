// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package converge

import (
	"github.com/juju/collections/set"
)

// ToolInfo describes the host tooling for one filesystem type.
type ToolInfo struct {
	// Packages are installed before formatting. The list is
	// whatever the distribution needs for mkfs.<fstype> to exist.
	Packages []string

	// ForceFlag is passed to mkfs when the spec sets force. Empty
	// means the type's mkfs has no such flag.
	ForceFlag string
}

// Tools maps filesystem types to their tooling. Types absent from the
// table need no packages and have no force flag; they can still be
// formatted when mkfs.<fstype> is already present.
type Tools map[string]ToolInfo

// Packages returns the packages required to format fstype.
func (t Tools) Packages(fstype string) []string {
	return t[fstype].Packages
}

// ForceFlag returns the mkfs force flag for fstype, or empty.
func (t Tools) ForceFlag(fstype string) string {
	return t[fstype].ForceFlag
}

// DefaultTools returns the tool table for the filesystem types in
// common use on Linux hosts.
func DefaultTools() Tools {
	return Tools{
		"ext2":     {Packages: []string{"e2fsprogs"}, ForceFlag: "-F"},
		"ext3":     {Packages: []string{"e2fsprogs"}, ForceFlag: "-F"},
		"ext4":     {Packages: []string{"e2fsprogs"}, ForceFlag: "-F"},
		"xfs":      {Packages: []string{"xfsprogs"}, ForceFlag: "-f"},
		"btrfs":    {Packages: []string{"btrfs-progs"}, ForceFlag: "-f"},
		"reiserfs": {Packages: []string{"reiserfsprogs"}, ForceFlag: "-f"},
		"jfs":      {Packages: []string{"jfsutils"}, ForceFlag: "-q"},
		"ntfs":     {Packages: []string{"ntfs-3g"}, ForceFlag: "-F"},
		"vfat":     {Packages: []string{"dosfstools"}},
	}
}

// DefaultNetworkTypes returns the filesystem types mounted by
// protocol rather than from a local device node. Network filesystems
// are never waited for, formatted, or permission-normalized.
func DefaultNetworkTypes() set.Strings {
	return set.NewStrings("nfs", "nfs4", "cifs")
}
