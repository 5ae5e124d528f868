// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "errors"

var (
	// ErrMissingArtifact is returned when a compiled catalogue cannot be found.
	ErrMissingArtifact = errors.New("missing compiled catalog")
	// ErrFormat is returned when placeholders and arguments do not match.
	ErrFormat = errors.New("invalid message format")

	errInvalidCatalog = errors.New("not a compiled gettext catalog")
)
