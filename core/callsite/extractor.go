// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package callsite

import (
	"codeberg.org/pixivfe/gettextgen/core/pot"
)

// Recorder stores extracted messages in the template catalogue of a domain.
type Recorder interface {
	Record(domain string, msg pot.Message) (bool, error)
}

// Extractor parses call sites of one domain and records their messages.
type Extractor struct {
	Domain   string
	Recorder Recorder

	// Added counts messages newly appended to the template.
	Added int
	// Seen counts call sites successfully extracted.
	Seen int
}

// NewExtractor returns an Extractor recording into rec.
func NewExtractor(domain string, rec Recorder) *Extractor {
	return &Extractor{Domain: domain, Recorder: rec}
}

// Extract parses toks and records the resulting message before returning it.
// A failed recording is returned as an error together with a nil Extraction.
func (x *Extractor) Extract(toks []Token) (Extraction, error) {
	ext, err := parse(toks)
	if err != nil {
		return nil, err
	}

	msg := pot.Message{
		ID:   ext.Msgid(),
		File: ext.Source().Filename,
		Line: ext.Source().Line,
	}

	if pl, ok := ext.(*Plural); ok {
		msg.Plural = pl.Plural
	}

	added, err := x.Recorder.Record(x.Domain, msg)
	if err != nil {
		return nil, err
	}

	x.Seen++

	if added {
		x.Added++
	}

	return ext, nil
}
