// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package resource

import (
	"github.com/juju/errors"
	"github.com/juju/schema"
)

// Attribute names accepted by NewFilesystemSpec. They double as the
// key=value keys on the command line and the YAML document keys.
const (
	LabelKey          = "label"
	DeviceKey         = "device"
	VolumeGroupKey    = "vg"
	FileKey           = "file"
	UUIDKey           = "uuid"
	FstypeKey         = "fstype"
	MkfsOptionsKey    = "mkfs-options"
	PackagesKey       = "packages"
	SparseKey         = "sparse"
	SizeKey           = "size"
	StripesKey        = "stripes"
	MirrorsKey        = "mirrors"
	MountKey          = "mount"
	OptionsKey        = "options"
	OwnerKey          = "owner"
	GroupKey          = "group"
	ModeKey           = "mode"
	DumpKey           = "dump"
	PassKey           = "pass"
	ForceKey          = "force"
	IgnoreExistingKey = "ignore-existing"
	DeferDeviceKey    = "defer-device"
)

const (
	// DefaultFstype is the filesystem type used when none is given.
	DefaultFstype = "ext3"

	// DefaultOptions is the mount option string used when none is
	// given.
	DefaultOptions = "defaults"
)

var specFields = schema.Fields{
	LabelKey:          schema.String(),
	DeviceKey:         schema.String(),
	VolumeGroupKey:    schema.String(),
	FileKey:           schema.String(),
	UUIDKey:           schema.String(),
	FstypeKey:         schema.String(),
	MkfsOptionsKey:    schema.String(),
	PackagesKey:       schema.String(),
	SparseKey:         schema.Bool(),
	SizeKey:           schema.String(),
	StripesKey:        schema.ForceInt(),
	MirrorsKey:        schema.ForceInt(),
	MountKey:          schema.String(),
	OptionsKey:        schema.String(),
	OwnerKey:          schema.String(),
	GroupKey:          schema.String(),
	ModeKey:           schema.String(),
	DumpKey:           schema.ForceInt(),
	PassKey:           schema.ForceInt(),
	ForceKey:          schema.Bool(),
	IgnoreExistingKey: schema.Bool(),
	DeferDeviceKey:    schema.Bool(),
}

var specDefaults = schema.Defaults{
	LabelKey:          schema.Omit,
	DeviceKey:         "",
	VolumeGroupKey:    "",
	FileKey:           "",
	UUIDKey:           "",
	FstypeKey:         DefaultFstype,
	MkfsOptionsKey:    "",
	PackagesKey:       "",
	SparseKey:         true,
	SizeKey:           "",
	StripesKey:        0,
	MirrorsKey:        0,
	MountKey:          "",
	OptionsKey:        DefaultOptions,
	OwnerKey:          "",
	GroupKey:          "",
	ModeKey:           "",
	DumpKey:           0,
	PassKey:           0,
	ForceKey:          false,
	IgnoreExistingKey: false,
	DeferDeviceKey:    false,
}

var specChecker = schema.FieldMap(specFields, specDefaults)

// NewFilesystemSpec builds a validated FilesystemSpec from loosely
// typed attributes. The name seeds the label when the attributes do
// not set one. Unknown attributes are rejected rather than ignored,
// since a typoed key would otherwise silently fall back to a default.
func NewFilesystemSpec(name string, attrs map[string]interface{}) (FilesystemSpec, error) {
	for key := range attrs {
		if _, ok := specFields[key]; !ok {
			return FilesystemSpec{}, errors.NotValidf("unknown attribute %q", key)
		}
	}
	coerced, err := specChecker.Coerce(attrs, nil)
	if err != nil {
		return FilesystemSpec{}, errors.NotValidf("filesystem attributes: %v", err)
	}
	m := coerced.(map[string]interface{})

	spec := FilesystemSpec{
		Label:          name,
		Device:         m[DeviceKey].(string),
		VolumeGroup:    m[VolumeGroupKey].(string),
		File:           m[FileKey].(string),
		UUID:           m[UUIDKey].(string),
		Fstype:         m[FstypeKey].(string),
		MkfsOptions:    m[MkfsOptionsKey].(string),
		Packages:       m[PackagesKey].(string),
		Sparse:         m[SparseKey].(bool),
		Size:           m[SizeKey].(string),
		Stripes:        m[StripesKey].(int),
		Mirrors:        m[MirrorsKey].(int),
		Mount:          m[MountKey].(string),
		Options:        m[OptionsKey].(string),
		Owner:          m[OwnerKey].(string),
		Group:          m[GroupKey].(string),
		Mode:           m[ModeKey].(string),
		Dump:           m[DumpKey].(int),
		Pass:           m[PassKey].(int),
		Force:          m[ForceKey].(bool),
		IgnoreExisting: m[IgnoreExistingKey].(bool),
		DeferDevice:    m[DeferDeviceKey].(bool),
	}
	if label, ok := m[LabelKey]; ok {
		spec.Label = label.(string)
	}
	if err := spec.Validate(); err != nil {
		return FilesystemSpec{}, errors.Trace(err)
	}
	return spec, nil
}
