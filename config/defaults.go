// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"codeberg.org/pixivfe/gettextgen/core/scan"
	"codeberg.org/pixivfe/gettextgen/core/toolchain"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	*cfg = Config{}

	cfg.Project.Root = "."

	cfg.Paths.PoDir = "po"
	cfg.Paths.TranslationsDir = "translations"
	cfg.Paths.OutDir = "build"

	cfg.Toolchain.Kind = toolchain.KindAuto
	cfg.Toolchain.Msgmerge = "msgmerge"
	cfg.Toolchain.Msginit = "msginit"
	cfg.Toolchain.Msgfmt = "msgfmt"

	cfg.Extract.RuntimePackage = scan.DefaultRuntimePackage
	cfg.Extract.DirectivePrefix = scan.DefaultDirectivePrefix

	cfg.Locales.KeepDuplicates = false

	cfg.Embed.Output = "translations.go"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
