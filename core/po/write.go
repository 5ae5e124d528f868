// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// countingWriter tracks the bytes written through a bufio.Writer.
type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (cw *countingWriter) printf(format string, args ...any) {
	n, _ := fmt.Fprintf(cw.w, format, args...)
	cw.n += int64(n)
}

// WriteTo writes the catalogue in .po syntax: the header first, then every
// entry in order, separated by blank lines.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	first := true

	if f.Header != nil {
		writeEntry(cw, f.Header)

		first = false
	}

	for _, e := range f.Entries {
		if !first {
			cw.printf("\n")
		}

		writeEntry(cw, e)

		first = false
	}

	return cw.n, cw.w.Flush()
}

// WriteEntry writes a single entry in .po syntax.
func WriteEntry(w io.Writer, e *Entry) error {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	writeEntry(cw, e)

	return cw.w.Flush()
}

func writeEntry(cw *countingWriter, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.Comments {
		cw.printf("%s\n", c)
	}

	if e.HasContext {
		writeString(cw, prefix, "msgctxt", e.Context)
	}

	writeString(cw, prefix, "msgid", e.ID)

	if e.IsPlural() {
		writeString(cw, prefix, "msgid_plural", e.Plural)

		strs := e.Str
		if len(strs) == 0 {
			strs = []string{""}
		}

		for i, s := range strs {
			writeString(cw, prefix, fmt.Sprintf("msgstr[%d]", i), s)
		}

		return
	}

	s := ""
	if len(e.Str) > 0 {
		s = e.Str[0]
	}

	writeString(cw, prefix, "msgstr", s)
}

// writeString writes keyword and value, splitting multi-line values after
// each "\n" the way the gettext tools do.
func writeString(cw *countingWriter, prefix, keyword, value string) {
	idx := strings.Index(value, "\n")
	if idx < 0 || idx == len(value)-1 {
		cw.printf("%s%s %s\n", prefix, keyword, Quote(value))

		return
	}

	cw.printf("%s%s \"\"\n", prefix, keyword)

	for value != "" {
		line := value

		if i := strings.Index(value, "\n"); i >= 0 {
			line = value[:i+1]
		}

		cw.printf("%s%s\n", prefix, Quote(line))

		value = value[len(line):]
	}
}

// Quote returns s as a C-style quoted PO string.
func Quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}

	b.WriteByte('"')

	return b.String()
}
