// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// readFile decodes configFilePath into cfg. Files ending in .toml are read
// as TOML, anything else as YAML.
func (cfg *Config) readFile(configFilePath string) error {
	if configFilePath == "" {
		return nil
	}

	_, err := os.Stat(configFilePath)
	if os.IsNotExist(err) {
		log.Info().
			Str("path", configFilePath).
			Msg("No configuration file found, skipping")

		return nil
	}

	data, err := os.ReadFile(configFilePath) // #nosec G304 -- Only loading a config file
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", configFilePath, err)
	}

	format := "YAML"

	if strings.EqualFold(filepath.Ext(configFilePath), ".toml") {
		format = "TOML"

		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()

		err = decoder.Decode(cfg)
	} else {
		err = yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField())
	}

	if err != nil {
		return fmt.Errorf("failed to parse %s from %s: %w", format, configFilePath, err)
	}

	log.Info().
		Str("path", configFilePath).
		Str("format", format).
		Msg("Successfully loaded configuration")

	return nil
}
