// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const maxLineLength = 1 << 20

var (
	errUnexpectedLine = errors.New("unexpected line")
	errBadString      = errors.New("malformed string")
	errBadMsgstrIndex = errors.New("malformed msgstr index")
	errDanglingString = errors.New("string continuation without keyword")
	errMissingMsgid   = errors.New("entry without msgid")
	errUnknownEscape  = errors.New("unknown escape sequence")
)

type field int

const (
	fieldNone field = iota
	fieldContext
	fieldID
	fieldPlural
	fieldStr
)

// parser accumulates one entry at a time.
type parser struct {
	file *File

	cur       *Entry
	seenID    bool
	field     field
	strIndex  int
	lineNo    int
	hasTokens bool
}

// Parse reads a catalogue in .po/.pot syntax.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: &File{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for sc.Scan() {
		p.lineNo++

		if err := p.line(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.lineNo, err)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	if err := p.flush(); err != nil {
		return nil, fmt.Errorf("line %d: %w", p.lineNo, err)
	}

	return p.file, nil
}

func (p *parser) entry() *Entry {
	if p.cur == nil {
		p.cur = &Entry{}
	}

	return p.cur
}

func (p *parser) line(raw string) error {
	line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
	if line == "" {
		return p.flush()
	}

	obsolete := false

	if strings.HasPrefix(line, "#~") {
		obsolete = true
		line = strings.TrimSpace(strings.TrimPrefix(line, "#~"))

		if line == "" {
			return nil
		}
	}

	if strings.HasPrefix(line, "#") {
		// A comment after keywords starts the next entry.
		if p.seenID {
			if err := p.flush(); err != nil {
				return err
			}
		}

		e := p.entry()
		e.Comments = append(e.Comments, line)
		p.hasTokens = true

		return nil
	}

	if err := p.keyword(line); err != nil {
		return err
	}

	if obsolete {
		p.entry().Obsolete = true
	}

	return nil
}

func (p *parser) keyword(line string) error {
	if strings.HasPrefix(line, `"`) {
		if p.field == fieldNone {
			return errDanglingString
		}

		s, err := unquote(line)
		if err != nil {
			return err
		}

		p.appendField(s)

		return nil
	}

	kw, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch {
	case kw == "msgctxt":
		if p.seenID {
			if err := p.flush(); err != nil {
				return err
			}
		}

		e := p.entry()
		e.HasContext = true
		p.field = fieldContext
	case kw == "msgid":
		if p.seenID {
			if err := p.flush(); err != nil {
				return err
			}
		}

		p.entry()
		p.seenID = true
		p.field = fieldID
	case kw == "msgid_plural":
		p.field = fieldPlural
	case kw == "msgstr":
		p.field = fieldStr
		p.strIndex = 0
	case strings.HasPrefix(kw, "msgstr[") && strings.HasSuffix(kw, "]"):
		n, err := strconv.Atoi(kw[len("msgstr[") : len(kw)-1])
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s", errBadMsgstrIndex, kw)
		}

		p.field = fieldStr
		p.strIndex = n
	default:
		return fmt.Errorf("%w: %q", errUnexpectedLine, line)
	}

	p.hasTokens = true

	s, err := unquote(rest)
	if err != nil {
		return err
	}

	if p.field == fieldStr {
		p.entry().Resize(p.strIndex + 1)
	}

	p.appendField(s)

	return nil
}

func (p *parser) appendField(s string) {
	e := p.entry()

	switch p.field {
	case fieldContext:
		e.Context += s
	case fieldID:
		e.ID += s
	case fieldPlural:
		e.Plural += s
	case fieldStr:
		e.Str[p.strIndex] += s
	case fieldNone:
	}
}

func (p *parser) flush() error {
	defer func() {
		p.cur = nil
		p.seenID = false
		p.field = fieldNone
		p.strIndex = 0
		p.hasTokens = false
	}()

	if p.cur == nil || !p.hasTokens {
		return nil
	}

	e := p.cur

	if !p.seenID {
		// Trailing comments without a message are dropped.
		if len(e.Comments) > 0 && !e.HasContext {
			return nil
		}

		return errMissingMsgid
	}

	if len(e.Str) == 0 {
		e.Str = []string{""}
	}

	if e.ID == "" && !e.HasContext && !e.Obsolete && p.file.Header == nil {
		p.file.Header = e

		return nil
	}

	p.file.Entries = append(p.file.Entries, e)

	return nil
}

// unquote decodes a C-style quoted PO string.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("%w: %s", errBadString, s)
	}

	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)

			continue
		}

		i++
		if i >= len(s) {
			return "", fmt.Errorf("%w: trailing backslash", errBadString)
		}

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\', '"', '\'', '?':
			b.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}

			n, _ := strconv.ParseUint(s[i:j], 8, 8)
			b.WriteByte(byte(n))

			i = j - 1
		default:
			return "", fmt.Errorf("%w: \\%c", errUnknownEscape, s[i])
		}
	}

	return b.String(), nil
}
