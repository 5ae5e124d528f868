// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `msgid ""
msgstr ""
"Project-Id-Version: demo\n"
"Language: fr\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

# main.go:10
msgid "Hello"
msgstr "Bonjour"

# main.go:12
msgid "one item"
msgid_plural "{} items"
msgstr[0] "un élément"
msgstr[1] "{} éléments"

#, fuzzy
msgid "Maybe"
msgstr "Peut-être"

msgctxt "menu"
msgid "Open"
msgstr "Ouvrir"

msgid "Untranslated"
msgstr ""

#~ msgid "Gone"
#~ msgstr "Parti"
`

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	require.NotNil(t, f.Header)
	assert.Equal(t, "fr", f.HeaderField("Language"))
	assert.Equal(t, 2, f.NPlurals())
	require.Len(t, f.Entries, 6)

	hello := f.Lookup("Hello")
	require.NotNil(t, hello)
	assert.Equal(t, []string{"# main.go:10"}, hello.Comments)
	assert.Equal(t, []string{"Bonjour"}, hello.Str)

	items := f.Lookup("one item")
	require.NotNil(t, items)
	assert.True(t, items.IsPlural())
	assert.Equal(t, "{} items", items.Plural)
	assert.Equal(t, []string{"un élément", "{} éléments"}, items.Str)

	assert.True(t, f.Lookup("Maybe").Fuzzy())
	assert.Nil(t, f.Lookup("Open"), "entries with a context are not returned by Lookup")
	assert.False(t, f.Lookup("Untranslated").Translated())

	gone := f.Entries[5]
	assert.True(t, gone.Obsolete)
	assert.Equal(t, "Gone", gone.ID)
	assert.False(t, f.Has("Gone"))
}

func TestParseMultilineAndEscapes(t *testing.T) {
	t.Parallel()

	src := `msgid ""
"first line\n"
"second \"quoted\" line"
msgstr "tab\there"
`

	f, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, f.Entries, 1)

	e := f.Entries[0]
	assert.Equal(t, "first line\nsecond \"quoted\" line", e.ID)
	assert.Equal(t, "tab\there", e.Str[0])
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "dangling string", src: "\"oops\"\n"},
		{name: "unknown keyword", src: "msgfoo \"x\"\n"},
		{name: "unterminated string", src: "msgid \"x\n"},
		{name: "bad escape", src: "msgid \"\\q\"\nmsgstr \"\"\n"},
		{name: "bad index", src: "msgid \"a\"\nmsgid_plural \"b\"\nmsgstr[x] \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, sampleCatalog, string(f.Bytes()))
}

func TestSetHeaderField(t *testing.T) {
	t.Parallel()

	f, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	f.SetHeaderField("Language", "de")
	f.SetHeaderField("X-Generator", "gettextgen")

	assert.Equal(t, "de", f.HeaderField("Language"))
	assert.Equal(t, "gettextgen", f.HeaderField("X-Generator"))
	assert.Equal(t, "demo", f.HeaderField("Project-Id-Version"))

	empty := &File{}
	empty.SetHeaderField("Language", "ja")
	assert.Equal(t, "Language: ja\n", empty.Header.Str[0])
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a\"b\\c\nd\001"`, Quote("a\"b\\c\nd\x01"))
	assert.Equal(t, `"héllo"`, Quote("héllo"))

	back, err := unquote(Quote("x\ty\x7fz"))
	require.NoError(t, err)
	assert.Equal(t, "x\ty\x7fz", back)
}

func TestWriteMO(t *testing.T) {
	t.Parallel()

	f, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	// header, Hello, one item, menu/Open
	assert.Equal(t, 4, f.CompiledMessages())

	var buf bytes.Buffer
	require.NoError(t, f.WriteMO(&buf))

	data := buf.Bytes()
	require.Greater(t, len(data), moHeaderSize)
	assert.Equal(t, moMagic, binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[8:12]))

	mo := gotext.NewMo()
	mo.Parse(data)

	assert.Equal(t, "Bonjour", mo.Get("Hello"))
	assert.Equal(t, "un élément", mo.GetN("one item", "{} items", 1))
	assert.Equal(t, "{} éléments", mo.GetN("one item", "{} items", 5))
	assert.Equal(t, "Ouvrir", mo.GetC("Open", "menu"))
	assert.Equal(t, "Maybe", mo.Get("Maybe"), "fuzzy entries are not compiled")
	assert.Equal(t, "Gone", mo.Get("Gone"), "obsolete entries are not compiled")
}
