// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/gettextgen/core/failure"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := log.Logger
	log.Logger = log.Output(&buf)

	t.Cleanup(func() { log.Logger = prev })

	return &buf
}

func TestSpanLogsOnce(t *testing.T) {
	buf := captureLog(t)

	span := Span{Step: "extract", Domain: "demo"}
	span.Begin(context.Background())
	span.End()
	span.End()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "build", entry["sys"])
	assert.Equal(t, "extract", entry["step"])
	assert.Equal(t, "demo", entry["domain"])
	assert.Contains(t, entry, "duration")
	assert.GreaterOrEqual(t, span.Duration().Nanoseconds(), int64(0))
}

func TestSpanLogsFailureContext(t *testing.T) {
	buf := captureLog(t)

	span := Span{Step: "compile"}
	span.Begin(context.Background())
	span.Error = failure.New(failure.ErrCompile, "compile", errors.New("boom")).
		WithDomain("demo").
		WithLocale("fr")
	span.End()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))

	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "demo", entry["domain"])
	assert.Equal(t, "fr", entry["locale"])
	assert.Contains(t, entry["error"], "boom")
}
