// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/core/registry"
	"codeberg.org/pixivfe/gettextgen/core/toolchain"
)

// validation errors.
var (
	errInvalidToolchain       = errors.New("invalid Toolchain.Kind value")
	errInvalidLogLevel        = errors.New("invalid Log.Level value")
	errInvalidLogFormat       = errors.New("invalid Log.Format value")
	errInvalidSourceDateEpoch = errors.New("SOURCE_DATE_EPOCH must be a non-negative integer")
	errEmptyDirectivePrefix   = errors.New("Extract.DirectivePrefix cannot be empty")
	errEmptyRuntimePackage    = errors.New("Extract.RuntimePackage cannot be empty")
	errEmptyPath              = errors.New("path cannot be empty")
)

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	cfg.Toolchain.Kind = strings.ToLower(cfg.Toolchain.Kind)
	if !toolchain.ValidKind(cfg.Toolchain.Kind) {
		return fmt.Errorf("%w: %q", errInvalidToolchain, cfg.Toolchain.Kind)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if !slices.Contains(validLogLevels, cfg.Log.Level) {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if !slices.Contains(validLogFormats, cfg.Log.Format) {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if cfg.Extract.RuntimePackage == "" {
		return errEmptyRuntimePackage
	}

	if cfg.Extract.DirectivePrefix == "" {
		return errEmptyDirectivePrefix
	}

	// Domain and locales are optional here: they may come from the command
	// line or an init directive instead.
	if cfg.Project.Domain != "" {
		if err := registry.ValidateDomain(cfg.Project.Domain); err != nil {
			return fmt.Errorf("invalid Project.Domain: %w", err)
		}
	}

	for _, locale := range cfg.Project.Locales {
		if err := registry.ValidateLocale(locale); err != nil {
			return fmt.Errorf("invalid Project.Locales: %w", err)
		}
	}

	for name, path := range map[string]string{
		"Paths.PoDir":           cfg.Paths.PoDir,
		"Paths.TranslationsDir": cfg.Paths.TranslationsDir,
		"Paths.OutDir":          cfg.Paths.OutDir,
	} {
		if path == "" {
			return fmt.Errorf("%w: %s", errEmptyPath, name)
		}
	}

	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}

	root, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("invalid Project.Root: %w", err)
	}

	cfg.Project.Root = root

	if cfg.Project.Name == "" {
		cfg.Project.Name = projectName(root)
		log.Debug().
			Str("project", cfg.Project.Name).
			Msg("Derived project name")
	}

	if cfg.Project.SourceDateEpoch != "" {
		secs, err := strconv.ParseInt(cfg.Project.SourceDateEpoch, 10, 64)
		if err != nil || secs < 0 {
			return fmt.Errorf("%w, got %q", errInvalidSourceDateEpoch, cfg.Project.SourceDateEpoch)
		}

		cfg.Project.CreationDate = time.Unix(secs, 0).UTC()
	}

	return nil
}
