// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// genconfig writes the example configuration files shipped in deploy/.
package main

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/config"
	"codeberg.org/pixivfe/gettextgen/core/atomicfile"
	"codeberg.org/pixivfe/gettextgen/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/gettextgen.yaml.example"
	tomlOutputFile = "deploy/gettextgen.toml.example"
	filePerm       = 0o644

	placeholderDomain = "myapp"

	envFileHeader = `# gettextgen configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	fileHeader = `# gettextgen configuration (via configuration file)
#
# Copy this file to gettextgen.%s and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	reproducibleBuildsComment = `## Reproducible builds
## POT-Creation-Date is derived from this timestamp when set.
# SOURCE_DATE_EPOCH=`
)

var placeholderLocales = []string{"fr", "de"}

// essentialKeys are left uncommented in the generated files.
var essentialKeys = []string{"domain", "locales"}

func main() {
	audit.SetDefaultLogger()

	for _, out := range []struct {
		path   string
		render func() (string, error)
	}{
		{envOutputFile, renderEnv},
		{yamlOutputFile, renderYAML},
		{tomlOutputFile, renderTOML},
	} {
		contents, err := out.render()
		if err != nil {
			log.Fatal().Err(err).Str("path", out.path).Msg("Failed to render example configuration")
		}

		if err := atomicfile.Write(out.path, []byte(contents), filePerm); err != nil {
			log.Fatal().Err(err).Str("path", out.path).Msg("Failed to write example configuration")
		}

		log.Info().Str("path", out.path).Msg("Successfully generated example configuration")
	}
}

func exampleConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SetDefaults()

	cfg.Project.Domain = placeholderDomain
	cfg.Project.Locales = placeholderLocales

	return cfg
}

// renderEnv lists every env-tagged field, grouped by section.
func renderEnv() (string, error) {
	cfg := exampleConfig()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	// Iterate over the top-level struct fields.
	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			switch {
			case envVarName == "SOURCE_DATE_EPOCH":
				// Documented separately below.
			case envVarName == "GETTEXTGEN_DOMAIN":
				fmt.Fprintf(&sb, "%s=%q\n", envVarName, value.Interface())
			case envVarName == "GETTEXTGEN_LOCALES":
				fmt.Fprintf(&sb, "%s=%q\n", envVarName, strings.Join(placeholderLocales, ","))
			case value.Kind() == reflect.Slice:
				slice, _ := value.Interface().([]string)
				fmt.Fprintf(&sb, "# %s=%s\n", envVarName, strings.Join(slice, ","))
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString(reproducibleBuildsComment + "\n")

	return sb.String(), nil
}

// renderYAML marshals the defaults and comments out every non-essential line.
func renderYAML() (string, error) {
	var yamlContent bytes.Buffer

	if err := yaml.NewEncoder(&yamlContent, yaml.Indent(2)).Encode(exampleConfig()); err != nil {
		return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, fileHeader, "yaml")

	essential := false

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))

		// Top-level keys (e.g., "project:") are treated as section headers.
		if indentSize == 0 {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		// List items inherit the state of the key above them.
		if !strings.HasPrefix(trimmed, "- ") {
			essential = isEssential(strings.SplitN(trimmed, ":", 2)[0])
		}

		if essential {
			sb.WriteString(line + "\n")

			continue
		}

		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}

// renderTOML marshals the defaults and comments out every non-essential key.
func renderTOML() (string, error) {
	var tomlContent bytes.Buffer

	encoder := toml.NewEncoder(&tomlContent)
	encoder.SetIndentTables(false)

	if err := encoder.Encode(exampleConfig()); err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, fileHeader, "toml")

	for line := range strings.SplitSeq(tomlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "["):
			fmt.Fprintf(&sb, "\n%s\n", trimmed)
		case isEssential(strings.TrimSpace(strings.SplitN(trimmed, "=", 2)[0])):
			sb.WriteString(trimmed + "\n")
		default:
			fmt.Fprintf(&sb, "# %s\n", trimmed)
		}
	}

	return sb.String(), nil
}

func isEssential(key string) bool {
	return slices.Contains(essentialKeys, key)
}
