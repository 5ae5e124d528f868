// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package pot maintains the append-only template catalogue of a translation domain.

The template lives at po/<domain>/<domain>.pot and is meant to be committed:
[Manager.Reset] rewrites it with a fresh header at initialization, and
[Manager.Record] appends one block per distinct msgid afterwards. A msgid that
is already present is never written again, even when it is found at a
different source location.
*/
package pot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/po"
	"codeberg.org/pixivfe/gettextgen/core/registry"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	// placeholderDate is used for POT-Creation-Date unless a build date is set.
	placeholderDate = "YEAR-MO-DA HO:MI+ZONE"
)

var errEmptyMsgid = errors.New("empty msgid is reserved for the catalogue header")

// Message is a msgid discovered at a source location.
type Message struct {
	ID     string
	Plural string
	File   string
	Line   int
}

// Manager owns the template catalogues of a project layout.
type Manager struct {
	layout registry.Layout
	logger zerolog.Logger

	// Created, when non-zero, is written as POT-Creation-Date. Leaving it zero
	// keeps templates byte-identical across builds.
	Created time.Time
}

// NewManager returns a Manager for layout.
func NewManager(layout registry.Layout) *Manager {
	return &Manager{
		layout: layout,
		logger: log.With().Str("sys", "pot").Logger(),
	}
}

// Path returns the template path of domain.
func (m *Manager) Path(domain string) string {
	return m.layout.TemplatePath(domain)
}

// Reset creates or truncates the template of domain, leaving only the header.
func (m *Manager) Reset(domain string) error {
	path := m.Path(domain)

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return m.ioError("reset template", domain, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePermissions) // #nosec G304 -- template path from layout
	if err != nil {
		return m.ioError("reset template", domain, err)
	}

	if _, err := m.header(domain).WriteTo(f); err != nil {
		_ = f.Close()

		return m.ioError("reset template", domain, err)
	}

	if err := f.Close(); err != nil {
		return m.ioError("reset template", domain, err)
	}

	m.logger.Debug().Str("domain", domain).Str("path", path).Msg("Reset template catalogue")

	return nil
}

// Record appends msg to the template of domain unless an entry with the same
// msgid already exists. It reports whether an entry was appended.
func (m *Manager) Record(domain string, msg Message) (bool, error) {
	if msg.ID == "" {
		return false, failure.New(failure.ErrParse, "record message", errEmptyMsgid).WithDomain(domain)
	}

	path := m.Path(domain)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePermissions) // #nosec G304 -- template path from layout
	if err != nil {
		return false, m.ioError("record message", domain, err)
	}

	added, err := m.appendIfMissing(f, domain, msg)
	if err != nil {
		_ = f.Close()

		return false, m.ioError("record message", domain, err)
	}

	if err := f.Close(); err != nil {
		return false, m.ioError("record message", domain, err)
	}

	if added {
		m.logger.Debug().
			Str("domain", domain).
			Str("msgid", msg.ID).
			Str("source", msg.File+":"+strconv.Itoa(msg.Line)).
			Msg("Recorded message")
	}

	return added, nil
}

func (m *Manager) appendIfMissing(f *os.File, domain string, msg Message) (bool, error) {
	contents, err := io.ReadAll(f)
	if err != nil {
		return false, err
	}

	var buf bytes.Buffer

	if len(contents) == 0 {
		if _, err := m.header(domain).WriteTo(&buf); err != nil {
			return false, err
		}
	} else {
		tmpl, err := po.Parse(bytes.NewReader(contents))
		if err != nil {
			return false, fmt.Errorf("template is corrupt: %w", err)
		}

		if tmpl.Has(msg.ID) {
			return false, nil
		}

		if !bytes.HasSuffix(contents, []byte("\n")) {
			buf.WriteByte('\n')
		}
	}

	buf.WriteByte('\n')

	if err := po.WriteEntry(&buf, entryFor(msg)); err != nil {
		return false, err
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return false, err
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return false, err
	}

	return true, f.Sync()
}

func entryFor(msg Message) *po.Entry {
	return &po.Entry{
		Comments: []string{fmt.Sprintf("# %s:%d", msg.File, msg.Line)},
		ID:       msg.ID,
		Plural:   msg.Plural,
		Str:      []string{""},
	}
}

func (m *Manager) header(domain string) *po.File {
	created := placeholderDate
	if !m.Created.IsZero() {
		created = m.Created.UTC().Format("2006-01-02 15:04-0700")
	}

	f := &po.File{}

	for _, field := range [][2]string{
		{"Project-Id-Version", domain},
		{"Report-Msgid-Bugs-To", ""},
		{"POT-Creation-Date", created},
		{"PO-Revision-Date", placeholderDate},
		{"Last-Translator", "FULL NAME <EMAIL@ADDRESS>"},
		{"Language-Team", "LANGUAGE <LL@li.org>"},
		{"Language", ""},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=UTF-8"},
		{"Content-Transfer-Encoding", "8bit"},
		{"Plural-Forms", "nplurals=INTEGER; plural=EXPRESSION;"},
	} {
		f.SetHeaderField(field[0], field[1])
	}

	return f
}

func (m *Manager) ioError(step, domain string, err error) error {
	return failure.New(failure.ErrCatalogIO, step, err).WithDomain(domain)
}
