// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"strconv"
	"strings"
)

// Tr translates msgid with c and substitutes args into its placeholders.
func Tr(c *Catalog, msgid string, args ...any) (string, error) {
	s, ok := c.Get(msgid)
	if !ok {
		logMissingOnce(c, msgid)
	}

	return Format(s, args...)
}

// TrN translates the plural message msgid/plural for n with c. n is the first
// formatting argument, followed by args.
func TrN(c *Catalog, msgid, plural string, n int, args ...any) (string, error) {
	s, ok := c.GetN(msgid, plural, n)
	if !ok {
		logMissingOnce(c, msgid)
	}

	return Format(s, append([]any{n}, args...)...)
}

// MustTr is like Tr but panics when the message cannot be formatted.
func MustTr(c *Catalog, msgid string, args ...any) string {
	s, err := Tr(c, msgid, args...)
	if err != nil {
		panic(err)
	}

	return s
}

// MustTrN is like TrN but panics when the message cannot be formatted.
func MustTrN(c *Catalog, msgid, plural string, n int, args ...any) string {
	s, err := TrN(c, msgid, plural, n, args...)
	if err != nil {
		panic(err)
	}

	return s
}

// Format replaces each "{}" in s with the next argument and each "{N}" with
// argument N. "{{" and "}}" are literal braces. Arguments no placeholder
// refers to are ignored.
func Format(s string, args ...any) (string, error) {
	if !strings.ContainsAny(s, "{}") {
		return s, nil
	}

	var (
		b    strings.Builder
		next int
	)

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '{' && i+1 < len(s) && s[i+1] == '{':
			b.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(s) && s[i+1] == '}':
			b.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return s, fmt.Errorf("%w: %q: unmatched %q at byte %d", ErrFormat, s, ch, i)
			}

			idx, err := placeholderIndex(s[i+1:i+1+end], &next)
			if err != nil {
				return s, fmt.Errorf("%w: %q: %w at byte %d", ErrFormat, s, err, i)
			}

			if idx >= len(args) {
				return s, fmt.Errorf("%w: %q refers to argument %d but %d were given", ErrFormat, s, idx, len(args))
			}

			fmt.Fprint(&b, args[idx])
			i += end + 1
		case ch == '}':
			return s, fmt.Errorf("%w: %q: unmatched %q at byte %d", ErrFormat, s, ch, i)
		default:
			b.WriteByte(ch)
		}
	}

	return b.String(), nil
}

// placeholderIndex returns the argument index of the placeholder body between
// a pair of braces. An empty body takes the next sequential index.
func placeholderIndex(body string, next *int) (int, error) {
	if body == "" {
		idx := *next
		*next++

		return idx, nil
	}

	for i := range len(body) {
		if body[i] < '0' || body[i] > '9' {
			return 0, fmt.Errorf("invalid placeholder {%s}", body)
		}
	}

	idx, err := strconv.Atoi(body)
	if err != nil {
		return 0, fmt.Errorf("invalid placeholder {%s}", body)
	}

	return idx, nil
}
