// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package callsite parses translation call sites.

A call site is a flat token sequence shaped as

	<catalog-expr> , <message> [ , <plural-message> ] [ ; <arg-expr> [ , <arg-expr> ]* ]

The catalog expression and the format arguments are opaque: they are kept as
source text and never interpreted. The message and the plural message must be
string literals. A plural call site uses its first format argument as the
pluralization count.

Parsing is only reachable through [Extractor.Extract], which records every
parsed message in the template catalogue before returning it.
*/
package callsite
