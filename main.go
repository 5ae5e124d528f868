// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
gettextgen extracts translatable messages from Go sources and maintains the
gettext catalogues of a project.

Usage:

	gettextgen [-config file] <command> [arguments]

The commands are:

	init [domain [locale...]]   record the domain and locales, reset the template
	domain                      print the recorded domain
	extract [patterns...]       append call-site messages to the template
	compile                     synchronize and compile every locale catalogue
	embed [-o file] [-pkg name] generate the go:embed source for compiled catalogues
	build [patterns...]         init, extract, compile and embed in one run

Settings are read from gettextgen.yaml (or .yml, .toml), a .env file and
GETTEXTGEN_* environment variables.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/config"
	"codeberg.org/pixivfe/gettextgen/core/audit"
)

var errUsage = errors.New("usage: gettextgen [-config file] <init|domain|extract|compile|embed|build> [arguments]")

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("gettextgen failed")
	}
}

// run loads the configuration and dispatches to the selected command.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		return errUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newApp(&config.Global, os.Stdout).dispatch(ctx, args[0], args[1:])
}
