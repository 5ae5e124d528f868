// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n looks up messages in compiled gettext catalogues and formats them
with positional placeholders.

# Quick start

Use the original English UI text as the msgid; do not invent keys. Load the
catalogues produced by the build, pick one for the user and translate:

	translations, err := i18n.Load(fsys, "myapp", "fr", "de")
	cat := translations.Match(r.Header.Get("Accept-Language"))

	i18n.MustTr(cat, "Hello, {}!", user.Name)
	i18n.MustTrN(cat, "{} file", "{} files", n)

The count of TrN is also its first formatting argument. A nil *Catalog is
valid and returns the msgid unchanged (or msgid_plural when n != 1).

# Formatting

Each "{}" is replaced by the next argument, formatted with fmt.Sprint. "{{"
and "}}" produce literal braces. The number of placeholders must match the
number of arguments: Tr and TrN return an error wrapping [ErrFormat]
otherwise, MustTr and MustTrN panic.

# Missing translations

Missing lookups return the source text and are logged once per locale and
msgid at debug level.

# Layout

Compiled catalogues are read from translations/<locale>/LC_MESSAGES/<domain>.mo,
see [CatalogPath].
*/
package i18n
