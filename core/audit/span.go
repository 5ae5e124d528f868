// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"errors"
	"runtime/trace"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/core/failure"
)

// Span represents a build step in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	ended    bool

	Step   string
	Domain string
	Error  error
}

// Begin starts timing the span and opens a runtime/trace task named after
// its step.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "gettextgen."+span.Step)

	return ctx
}

// Duration returns the time between Begin and End.
func (span *Span) Duration() time.Duration {
	return span.duration
}

// End logs the span. Calling End more than once has no effect.
func (span *Span) End() {
	// only log once
	if span.ended {
		return
	}

	span.ended = true
	span.duration = time.Since(span.start)

	if span.task != nil {
		span.task.End()
	}

	span.event().Msg("Build step finished")
}

func (span *Span) event() *zerolog.Event {
	var e *zerolog.Event

	if span.Error != nil {
		e = log.Error().Err(span.Error)
	} else {
		e = log.Info()
	}

	e = e.Str("sys", "build").
		Str("step", span.Step).
		Dur("duration", span.duration)

	if span.Domain != "" {
		e = e.Str("domain", span.Domain)
	}

	if ferr := asFailure(span.Error); ferr != nil {
		if ferr.Locale != "" {
			e = e.Str("locale", ferr.Locale)
		}

		if ferr.Domain != "" && span.Domain == "" {
			e = e.Str("domain", ferr.Domain)
		}
	}

	return e
}

func asFailure(err error) *failure.Error {
	var ferr *failure.Error
	if err != nil && errors.As(err, &ferr) {
		return ferr
	}

	return nil
}
