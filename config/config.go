// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads gettextgen settings from a YAML or TOML file, a .env
// file and GETTEXTGEN_* environment variables, in increasing precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"codeberg.org/pixivfe/gettextgen/core/registry"
	"codeberg.org/pixivfe/gettextgen/core/toolchain"
)

// Global exposes the configuration loaded by LoadConfig.
var Global Config

// EnvConfigFile names the environment variable selecting the configuration file.
const EnvConfigFile = "GETTEXTGEN_CONFIGFILE"

// defaultConfigFiles are tried in order when no file is selected explicitly.
var defaultConfigFiles = []string{"./gettextgen.yaml", "./gettextgen.yml", "./gettextgen.toml"}

// Config holds the build settings.
type Config struct {
	Build buildInfo `toml:"-" yaml:"-"`

	Project struct {
		// Root is the project directory; relative paths below are resolved against it.
		Root string `env:"GETTEXTGEN_ROOT,overwrite" toml:"root" yaml:"root"`
		// Name keys the metadata record. It defaults to the last element of
		// the module path in <Root>/go.mod.
		Name    string   `env:"GETTEXTGEN_PROJECT,overwrite" toml:"name"    yaml:"name"`
		Domain  string   `env:"GETTEXTGEN_DOMAIN,overwrite"  toml:"domain"  yaml:"domain"`
		Locales []string `env:"GETTEXTGEN_LOCALES,overwrite" toml:"locales" yaml:"locales"`
		// SourceDateEpoch pins POT-Creation-Date for reproducible templates.
		SourceDateEpoch string    `env:"SOURCE_DATE_EPOCH" toml:"sourceDateEpoch" yaml:"sourceDateEpoch"`
		CreationDate    time.Time `toml:"-"                yaml:"-"`
	} `toml:"project" yaml:"project"`

	Paths struct {
		PoDir           string `env:"GETTEXTGEN_PO_DIR,overwrite"           toml:"poDir"           yaml:"poDir"`
		TranslationsDir string `env:"GETTEXTGEN_TRANSLATIONS_DIR,overwrite" toml:"translationsDir" yaml:"translationsDir"`
		OutDir          string `env:"GETTEXTGEN_OUT_DIR,overwrite"          toml:"outDir"          yaml:"outDir"`
	} `toml:"paths" yaml:"paths"`

	Toolchain struct {
		Kind     string `env:"GETTEXTGEN_TOOLCHAIN,overwrite" toml:"kind"     yaml:"kind"`
		Msgmerge string `env:"GETTEXTGEN_MSGMERGE,overwrite"  toml:"msgmerge" yaml:"msgmerge"`
		Msginit  string `env:"GETTEXTGEN_MSGINIT,overwrite"   toml:"msginit"  yaml:"msginit"`
		Msgfmt   string `env:"GETTEXTGEN_MSGFMT,overwrite"    toml:"msgfmt"   yaml:"msgfmt"`
	} `toml:"toolchain" yaml:"toolchain"`

	Extract struct {
		RuntimePackage  string   `env:"GETTEXTGEN_RUNTIME_PACKAGE,overwrite"  toml:"runtimePackage"  yaml:"runtimePackage"`
		DirectivePrefix string   `env:"GETTEXTGEN_DIRECTIVE_PREFIX,overwrite" toml:"directivePrefix" yaml:"directivePrefix"`
		Tags            []string `env:"GETTEXTGEN_BUILD_TAGS,overwrite"       toml:"tags"            yaml:"tags"`
	} `toml:"extract" yaml:"extract"`

	Locales struct {
		// KeepDuplicates records repeated locales as given instead of
		// dropping later occurrences.
		KeepDuplicates bool `env:"GETTEXTGEN_KEEP_DUPLICATE_LOCALES,overwrite" toml:"keepDuplicates" yaml:"keepDuplicates"`
	} `toml:"locales" yaml:"locales"`

	Embed struct {
		Output  string `env:"GETTEXTGEN_EMBED_OUTPUT,overwrite"  toml:"output"  yaml:"output"`
		Package string `env:"GETTEXTGEN_EMBED_PACKAGE,overwrite" toml:"package" yaml:"package"`
	} `toml:"embed" yaml:"embed"`

	Log struct {
		Level   string   `env:"GETTEXTGEN_LOG_LEVEL,overwrite"   toml:"logLevel"   yaml:"logLevel"`
		Outputs []string `env:"GETTEXTGEN_LOG_OUTPUTS,overwrite" toml:"logOutputs" yaml:"logOutputs"`
		Format  string   `env:"GETTEXTGEN_LOG_FORMAT,overwrite"  toml:"logFormat"  yaml:"logFormat"`
	} `toml:"log" yaml:"log"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *Config) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Precedence: -config, then GETTEXTGEN_CONFIGFILE, then the first
	// default file that exists.
	switch {
	case configFlagUserSet:
		configFilePath = parsedConfigFlagValue
	case os.Getenv(EnvConfigFile) != "":
		configFilePath = os.Getenv(EnvConfigFile)
	default:
		for _, candidate := range defaultConfigFiles {
			if _, err := os.Stat(candidate); err == nil {
				configFilePath = candidate

				break
			}
		}
	}

	if err := cfg.Load(configFilePath); err != nil {
		return err
	}

	cfg.setupAudit()
	cfg.print()

	return nil
}

// Load resets cfg to its defaults and applies configFilePath (if not empty),
// the .env file and the environment.
func (cfg *Config) Load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readFile(configFilePath); err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	return nil
}

// Layout returns the project layout described by cfg.
func (cfg *Config) Layout() registry.Layout {
	return registry.Layout{
		Root:            cfg.Project.Root,
		Project:         cfg.Project.Name,
		PoDir:           cfg.Paths.PoDir,
		TranslationsDir: cfg.Paths.TranslationsDir,
		OutDir:          cfg.Paths.OutDir,
	}
}

// ToolchainOptions returns the options selecting the catalogue toolchain.
func (cfg *Config) ToolchainOptions() toolchain.Options {
	return toolchain.Options{
		Kind:     cfg.Toolchain.Kind,
		Msgmerge: cfg.Toolchain.Msgmerge,
		Msginit:  cfg.Toolchain.Msginit,
		Msgfmt:   cfg.Toolchain.Msgfmt,
	}
}
