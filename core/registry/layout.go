// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package registry

import "path/filepath"

// Layout locates every file gettextgen reads or writes.
//
// Relative directories are resolved against Root.
type Layout struct {
	// Root is the project directory, the one holding po/ and translations/.
	Root string
	// Project keys the metadata record, usually the module name.
	Project string

	PoDir           string
	TranslationsDir string
	// OutDir is the build output directory; the metadata record lives in
	// <OutDir>/gettextgen/<Project>.
	OutDir string
}

// DefaultLayout returns the conventional layout for a project rooted at root.
func DefaultLayout(root, project string) Layout {
	return Layout{
		Root:            root,
		Project:         project,
		PoDir:           "po",
		TranslationsDir: "translations",
		OutDir:          "build",
	}
}

func (l Layout) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(l.Root, dir)
}

// MetadataPath returns the path of the metadata record.
func (l Layout) MetadataPath() string {
	return filepath.Join(l.resolve(l.OutDir), "gettextgen", l.Project)
}

// TemplatePath returns po/<domain>/<domain>.pot.
func (l Layout) TemplatePath(domain string) string {
	return filepath.Join(l.resolve(l.PoDir), domain, domain+".pot")
}

// LocalePath returns po/<locale>.po.
func (l Layout) LocalePath(locale string) string {
	return filepath.Join(l.resolve(l.PoDir), locale+".po")
}

// TranslationsPath returns the directory holding compiled catalogues.
func (l Layout) TranslationsPath() string {
	return l.resolve(l.TranslationsDir)
}

// CompiledDir returns translations/<locale>/LC_MESSAGES.
func (l Layout) CompiledDir(locale string) string {
	return filepath.Join(l.TranslationsPath(), locale, "LC_MESSAGES")
}

// CompiledPath returns translations/<locale>/LC_MESSAGES/<domain>.mo.
func (l Layout) CompiledPath(domain, locale string) string {
	return filepath.Join(l.CompiledDir(locale), domain+".mo")
}
