// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package failure defines the error kinds reported by every gettextgen build step.

All errors are fatal to the step that produced them. Callers test for a kind with
errors.Is, for example:

	if errors.Is(err, failure.ErrSync) { ... }
*/
package failure

import (
	"errors"
	"fmt"
	"strings"

	"codeberg.org/pixivfe/gettextgen/i18n"
)

// Error kinds.
var (
	// ErrConfiguration reports a missing or invalid domain or locale, or an absent metadata record.
	ErrConfiguration = errors.New("configuration error")
	// ErrParse reports a malformed call-site token sequence.
	ErrParse = errors.New("parse error")
	// ErrCatalogIO reports a template or locale file that cannot be opened, read or written.
	ErrCatalogIO = errors.New("catalog I/O error")
	// ErrSync reports a merge or bootstrap collaborator failure.
	ErrSync = errors.New("synchronization error")
	// ErrCompile reports a compile collaborator failure or a missing locale catalog.
	ErrCompile = errors.New("compile error")
	// ErrMissingArtifact reports a compiled catalog that is absent at embedding time.
	ErrMissingArtifact = i18n.ErrMissingArtifact
)

// Error carries the context of a failed build step.
//
// Output holds the diagnostic output of an external tool, unmodified.
type Error struct {
	Kind   error
	Step   string
	Domain string
	Locale string
	Output string
	Err    error
}

// New returns an *Error of the given kind for step, wrapping cause (which may be nil).
func New(kind error, step string, cause error) *Error {
	return &Error{Kind: kind, Step: step, Err: cause}
}

// Newf is like New but builds the cause from a format string.
func Newf(kind error, step, format string, args ...any) *Error {
	return New(kind, step, fmt.Errorf(format, args...))
}

// WithDomain sets the affected domain and returns e.
func (e *Error) WithDomain(domain string) *Error {
	e.Domain = domain

	return e
}

// WithLocale sets the affected locale and returns e.
func (e *Error) WithLocale(locale string) *Error {
	e.Locale = locale

	return e
}

// WithOutput attaches external tool output and returns e.
func (e *Error) WithOutput(output string) *Error {
	e.Output = output

	return e
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Step)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())

	if e.Domain != "" {
		fmt.Fprintf(&b, " (domain %q", e.Domain)

		if e.Locale != "" {
			fmt.Fprintf(&b, ", locale %q", e.Locale)
		}

		b.WriteString(")")
	} else if e.Locale != "" {
		fmt.Fprintf(&b, " (locale %q)", e.Locale)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if out := strings.TrimRight(e.Output, "\n"); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}

	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
