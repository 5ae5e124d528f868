// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package failure

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "kind only",
			err:  New(ErrConfiguration, "load metadata", nil),
			want: "load metadata: configuration error",
		},
		{
			name: "domain and locale",
			err:  New(ErrSync, "synchronize", errors.New("exit status 1")).WithDomain("demo").WithLocale("fr"),
			want: `synchronize: synchronization error (domain "demo", locale "fr"): exit status 1`,
		},
		{
			name: "locale only",
			err:  Newf(ErrCompile, "compile", "missing %s", "fr.po").WithLocale("fr"),
			want: `compile: compile error (locale "fr"): missing fr.po`,
		},
		{
			name: "tool output",
			err: New(ErrSync, "synchronize", errors.New("exit status 1")).
				WithOutput("msgmerge: fr.po:3: syntax error\n"),
			want: "synchronize: synchronization error: exit status 1\nmsgmerge: fr.po:3: syntax error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorMatching(t *testing.T) {
	t.Parallel()

	err := New(ErrCatalogIO, "record message", fs.ErrPermission)

	assert.ErrorIs(t, err, ErrCatalogIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrParse)

	var target *Error
	assert.ErrorAs(t, errors.Join(errors.New("other"), err), &target)
	assert.Equal(t, "record message", target.Step)
}
