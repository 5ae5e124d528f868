// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// missingKeyOnce deduplicates logs for missing msgids.
// The key is locale+"\x00"+msgid.
var missingKeyOnce sync.Map

// logMissingOnce logs a missing translation once per (locale, msgid) pair.
func logMissingOnce(c *Catalog, msgid string) {
	locale := ""
	if c != nil {
		locale = c.locale
	}

	id := locale + "\x00" + msgid
	if _, loaded := missingKeyOnce.LoadOrStore(id, struct{}{}); !loaded {
		log.Debug().
			Str("sys", "i18n").
			Str("locale", locale).
			Str("msgid", msgid).
			Msg("Missing translation")
	}
}
