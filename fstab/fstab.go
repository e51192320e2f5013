// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package fstab edits the persistent mount table. Entries are keyed
// by mount point: upserting an entry replaces whatever line currently
// mounts that directory and leaves every other line, comments
// included, untouched.
package fstab

import (
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v3"
)

var logger = loggo.GetLogger("fsconverge.fstab")

// DefaultPath is the mount table consulted at boot.
const DefaultPath = "/etc/fstab"

// Entry is one mount table line.
type Entry struct {
	Device  string
	Dir     string
	Fstype  string
	Options string
	Dump    int
	Pass    int
}

// String renders the entry in mount table syntax.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s %s %d %d",
		e.Device, e.Dir, e.Fstype, e.Options, e.Dump, e.Pass)
}

// Validate checks the entry can be rendered as a well formed line.
func (e Entry) Validate() error {
	if e.Device == "" {
		return errors.NotValidf("entry with empty device")
	}
	if e.Dir == "" {
		return errors.NotValidf("entry with empty mount point")
	}
	if e.Fstype == "" {
		return errors.NotValidf("entry with empty fstype")
	}
	if e.Options == "" {
		return errors.NotValidf("entry with empty options")
	}
	return nil
}

// Table edits one mount table file.
type Table struct {
	path string
}

// NewTable returns a Table editing the mount table at path, or
// DefaultPath if path is empty.
func NewTable(path string) *Table {
	if path == "" {
		path = DefaultPath
	}
	return &Table{path: path}
}

// Path returns the file the table edits.
func (t *Table) Path() string {
	return t.path
}

// Upsert writes the entry to the mount table, replacing any existing
// line for the same mount point. It reports whether the file changed.
// A missing mount table file is created.
func (t *Table) Upsert(entry Entry) (bool, error) {
	if err := entry.Validate(); err != nil {
		return false, errors.Trace(err)
	}
	data, err := os.ReadFile(t.path)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Annotatef(err, "reading %s", t.path)
	}

	lines := []string{}
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}
	var out []string
	replaced := false
	for _, line := range lines {
		if mountsDir(line, entry.Dir) {
			if !replaced {
				out = append(out, entry.String())
				replaced = true
			}
			// Any further lines for the same mount point are
			// stale duplicates.
			continue
		}
		out = append(out, line)
	}
	if !replaced {
		out = append(out, entry.String())
	}

	content := strings.Join(out, "\n") + "\n"
	if string(data) == content {
		logger.Debugf("%s already records %q", t.path, entry.Dir)
		return false, nil
	}
	if err := utils.AtomicWriteFile(t.path, []byte(content), t.fileMode()); err != nil {
		return false, errors.Annotatef(err, "writing %s", t.path)
	}
	logger.Infof("recorded %q in %s", entry.String(), t.path)
	return true, nil
}

// Entries parses the mount table, skipping comments, blank lines and
// lines too short to be entries.
func (t *Table) Entries() ([]Entry, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Annotatef(err, "reading %s", t.path)
	}
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		entry := Entry{
			Device:  fields[0],
			Dir:     fields[1],
			Fstype:  fields[2],
			Options: fields[3],
		}
		if len(fields) > 4 {
			fmt.Sscanf(fields[4], "%d", &entry.Dump)
		}
		if len(fields) > 5 {
			fmt.Sscanf(fields[5], "%d", &entry.Pass)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (t *Table) fileMode() os.FileMode {
	if info, err := os.Stat(t.path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}

func mountsDir(line, dir string) bool {
	fields := strings.Fields(line)
	return len(fields) >= 2 && !strings.HasPrefix(fields[0], "#") && fields[1] == dir
}
