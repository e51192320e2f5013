// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/mutex/v2"
	"github.com/juju/utils/v4/keyvalues"
	"gopkg.in/yaml.v3"

	"github.com/juju/fsconverge/converge"
	"github.com/juju/fsconverge/fstab"
	"github.com/juju/fsconverge/loopfile"
	"github.com/juju/fsconverge/lvm"
	"github.com/juju/fsconverge/mounts"
	"github.com/juju/fsconverge/packages"
	"github.com/juju/fsconverge/resource"
	"github.com/juju/fsconverge/shell"
)

// hostLockName serializes fsconverge invocations on one host. Two
// concurrent converges would race each other's check-then-act guards.
const hostLockName = "fsconverge"

// converger is the slice of the convergence engine the commands use.
type converger interface {
	Converge(resource.Action, resource.FilesystemSpec) error
}

// actionCommand runs one convergence action against a filesystem spec
// assembled from the command line.
type actionCommand struct {
	cmd.CommandBase

	action     resource.Action
	name       string
	attrs      map[string]interface{}
	configFile string

	// Test seams. Production acquires the host mutex and builds the
	// engine over the real host collaborators.
	newConverger func() (converger, error)
	acquire      func(mutex.Spec) (mutex.Releaser, error)
}

func newActionCommand(action resource.Action) cmd.Command {
	return &actionCommand{
		action:       action,
		newConverger: newHostConverger,
		acquire:      mutex.Acquire,
	}
}

var actionPurpose = map[resource.Action]string{
	resource.ActionCreate:   "provision backing storage and format a filesystem",
	resource.ActionEnable:   "record a filesystem in the persistent mount table",
	resource.ActionMount:    "mount a filesystem and normalize its ownership",
	resource.ActionFreeze:   "suspend writes to a mounted filesystem",
	resource.ActionUnfreeze: "resume writes to a mounted filesystem",
}

var actionDoc = `
The filesystem is described by its label followed by key=value
attributes, or by a YAML mapping of the same attributes passed with
--config (the two forms cannot be combined):

    label          filesystem label (defaults to the positional name)
    device         explicit device node
    vg             LVM volume group holding the logical volume <label>
    file           backing file carried by a loop device
    uuid           filesystem UUID, resolved under /dev/disk/by-uuid
    fstype         filesystem type (default ext3)
    mkfs-options   extra arguments passed to mkfs
    packages       extra packages installed alongside the fstype tools
    size           provisioning size, e.g. 10G (enables provisioning)
    sparse         backing files are sparse (default true)
    stripes        lvcreate --stripes
    mirrors        lvcreate --mirrors
    mount          mount point directory
    options        mount options (default "defaults")
    owner          mount point owner applied while mounted
    group          mount point group applied while mounted
    mode           mount point mode in octal, e.g. 0750
    dump           fstab dump frequency (0-2)
    pass           fstab fsck pass (0-2)
    force          format even when mkfs tooling is missing
    ignore-existing  format over an existing filesystem
    defer-device   no-op while the device is absent
`

// Info is defined on the cmd.Command interface.
func (c *actionCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    string(c.action),
		Args:    "<label> [key=value ...]",
		Purpose: actionPurpose[c.action],
		Doc:     strings.TrimSpace(actionDoc),
	}
}

// SetFlags is defined on the cmd.Command interface.
func (c *actionCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	f.StringVar(&c.configFile, "config", "", "path to a YAML file of filesystem attributes")
}

// Init is defined on the cmd.Command interface.
func (c *actionCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no filesystem label specified")
	}
	c.name = args[0]
	if len(args) > 1 {
		if c.configFile != "" {
			return errors.New("cannot combine --config with key=value attributes")
		}
		pairs, err := keyvalues.Parse(args[1:], true)
		if err != nil {
			return errors.Trace(err)
		}
		c.attrs = make(map[string]interface{}, len(pairs))
		for key, value := range pairs {
			c.attrs[key] = value
		}
	}
	return nil
}

// Run is defined on the cmd.Command interface.
func (c *actionCommand) Run(ctx *cmd.Context) error {
	spec, err := c.buildSpec(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	releaser, err := c.acquire(mutex.Spec{
		Name:  hostLockName,
		Clock: clock.WallClock,
		Delay: time.Second,
	})
	if err != nil {
		return errors.Annotate(err, "acquiring host lock")
	}
	defer releaser.Release()

	conv, err := c.newConverger()
	if err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("running %s for %q", c.action, spec.Label)
	if err := conv.Converge(c.action, spec); err != nil {
		return errors.Trace(err)
	}
	ctx.Infof("%s %q: converged", c.action, spec.Label)
	return nil
}

func (c *actionCommand) buildSpec(ctx *cmd.Context) (resource.FilesystemSpec, error) {
	attrs := c.attrs
	if c.configFile != "" {
		data, err := os.ReadFile(ctx.AbsPath(c.configFile))
		if err != nil {
			return resource.FilesystemSpec{}, errors.Annotate(err, "reading config file")
		}
		if err := yaml.Unmarshal(data, &attrs); err != nil {
			return resource.FilesystemSpec{}, errors.Annotate(err, "parsing config file")
		}
	}
	spec, err := resource.NewFilesystemSpec(c.name, attrs)
	if err != nil {
		return resource.FilesystemSpec{}, errors.Trace(err)
	}
	return spec, nil
}

// newHostConverger wires the engine to the host.
func newHostConverger() (converger, error) {
	runner := shell.NewRunner()
	manager, err := mounts.NewManager(runner)
	if err != nil {
		return nil, errors.Trace(err)
	}
	freezer, err := mounts.NewFreezer(runner, "")
	if err != nil {
		return nil, errors.Trace(err)
	}
	installer, err := packages.NewInstaller()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return converge.NewConverger(converge.Config{
		Runner:   runner,
		Mounts:   manager,
		Freezer:  freezer,
		Table:    fstab.NewTable(""),
		Volumes:  lvm.NewVolumes(runner),
		Files:    loopfile.NewFiles(),
		Packages: installer,
		Clock:    clock.WallClock,
	})
}
