// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package version holds the current fsconverge version.
package version

import (
	semversion "github.com/juju/version/v2"
)

// release is the version string baked into the binary. Update it as
// part of the release process.
const release = "1.0.0"

// Current is the version of the running fsconverge binary.
var Current = semversion.MustParse(release)
