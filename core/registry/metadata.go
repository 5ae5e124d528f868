// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package registry

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MetadataVersion is the schema version written by Initialize.
const MetadataVersion = 1

// Metadata is the persisted record coupling every build step.
type Metadata struct {
	Version int      `yaml:"version"`
	Domain  string   `yaml:"domain"`
	Locales []string `yaml:"locales"`
}

// decodeMetadata reads a versioned YAML record, falling back to the legacy
// layout: the domain on the first line, then one locale per line.
func decodeMetadata(data []byte) (*Metadata, error) {
	var md Metadata
	if err := yaml.Unmarshal(data, &md); err == nil && md.Version != 0 {
		if md.Version > MetadataVersion {
			return nil, fmt.Errorf("unsupported metadata version %d", md.Version)
		}

		if md.Domain == "" {
			return nil, errEmptyDomain
		}

		return &md, nil
	}

	legacy := &Metadata{}
	sc := bufio.NewScanner(bytes.NewReader(data))

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if legacy.Domain == "" {
			legacy.Domain = line
		} else {
			legacy.Locales = append(legacy.Locales, line)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	if legacy.Domain == "" {
		return nil, errEmptyDomain
	}

	return legacy, nil
}

func encodeMetadata(md *Metadata) ([]byte, error) {
	return yaml.MarshalWithOptions(md, yaml.Indent(2), yaml.IndentSequence(true))
}
