// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// projectName derives the metadata record key of the project at root: the
// last element of the module path declared in root/go.mod, or the base name
// of root when there is no usable go.mod.
func projectName(root string) string {
	fallback := filepath.Base(root)

	gomod := filepath.Join(root, "go.mod")

	data, err := os.ReadFile(gomod) // #nosec G304 -- go.mod of the configured project
	if err != nil {
		return fallback
	}

	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		log.Warn().
			Str("path", gomod).
			Msg("go.mod declares no module path, using the directory name as project name")

		return fallback
	}

	// A major version suffix such as /v3 is not part of the name.
	if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
		modulePath = prefix
	}

	return path.Base(modulePath)
}
