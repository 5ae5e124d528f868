// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

func (cfg *Config) print() {
	log.Debug().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("root", cfg.Project.Root).
		Str("project", cfg.Project.Name).
		Msg("Starting gettextgen")

	if e := log.Debug(); e.Enabled() {
		configYAML, err := yaml.Marshal(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

			return
		}

		e.Msg("Effective configuration:\n" + string(configYAML))
	}
}
