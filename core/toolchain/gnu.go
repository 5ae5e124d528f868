// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GNU runs the GNU gettext utilities.
type GNU struct {
	Msgmerge string
	Msginit  string
	Msgfmt   string

	logger zerolog.Logger
}

// NewGNU returns a GNU toolchain that resolves the utilities through PATH.
func NewGNU() *GNU {
	return &GNU{
		Msgmerge: "msgmerge",
		Msginit:  "msginit",
		Msgfmt:   "msgfmt",
		logger:   log.With().Str("sys", "toolchain").Str("kind", KindGNU).Logger(),
	}
}

// Available checks that every utility can be found.
func (g *GNU) Available() error {
	for _, tool := range []string{g.Msgmerge, g.Msginit, g.Msgfmt} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("gettext utility %s not found: %w", tool, err)
		}
	}

	return nil
}

func (g *GNU) Merge(ctx context.Context, poPath, potPath string) error {
	return g.run(ctx, g.Msgmerge, "-U", poPath, potPath)
}

func (g *GNU) Bootstrap(ctx context.Context, potPath, poPath, locale string) error {
	return g.run(ctx, g.Msginit,
		"--input="+potPath,
		"--output-file="+poPath,
		"-l", locale,
		"--no-translator",
	)
}

func (g *GNU) Compile(ctx context.Context, poPath, moPath string) error {
	return g.run(ctx, g.Msgfmt, "--output-file="+moPath, poPath)
}

func (g *GNU) run(ctx context.Context, tool string, args ...string) error {
	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, tool, args...) // #nosec G204 -- utilities are configured by the project owner
	cmd.Stdout = &out
	cmd.Stderr = &out

	g.logger.Debug().Str("tool", tool).Strs("args", args).Msg("Running gettext utility")

	if err := cmd.Run(); err != nil {
		return &ToolError{Tool: tool, Args: args, Output: out.String(), Err: err}
	}

	if s := strings.TrimSpace(out.String()); s != "" {
		g.logger.Debug().Str("tool", tool).Str("output", s).Msg("Gettext utility output")
	}

	return nil
}
