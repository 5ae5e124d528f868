// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
	"strings"
)

const (
	moMagic      uint32 = 0x950412de
	moHeaderSize        = 7 * 4
	moTableEntry        = 2 * 4
)

type moMessage struct {
	key   string
	value string
}

// CompiledMessages returns the number of messages WriteMO would emit for f,
// including the header.
func (f *File) CompiledMessages() int {
	return len(f.moMessages())
}

// moMessages collects the header and every translated, non-fuzzy, active
// entry, sorted by key as required by the MO lookup table.
func (f *File) moMessages() []moMessage {
	msgs := make([]moMessage, 0, len(f.Entries)+1)

	if f.Header != nil && len(f.Header.Str) > 0 && f.Header.Str[0] != "" {
		msgs = append(msgs, moMessage{key: "", value: f.Header.Str[0]})
	}

	for _, e := range f.Entries {
		if e.Obsolete || e.Fuzzy() || !e.Translated() {
			continue
		}

		key := e.Key()
		if e.IsPlural() {
			key += "\x00" + e.Plural
		}

		msgs = append(msgs, moMessage{key: key, value: strings.Join(e.Str, "\x00")})
	}

	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].key < msgs[j].key })

	return msgs
}

// WriteMO writes f as a little-endian GNU MO file without a hash table.
func (f *File) WriteMO(w io.Writer) error {
	msgs := f.moMessages()
	n := uint32(len(msgs)) // #nosec G115 -- catalogue sizes are far below 2^32

	origTable := uint32(moHeaderSize)
	transTable := origTable + n*moTableEntry
	dataStart := transTable + n*moTableEntry

	var (
		table = make([]uint32, 0, 4*n)
		data  bytes.Buffer
	)

	offset := dataStart

	for _, m := range msgs {
		table = append(table, uint32(len(m.key)), offset) // #nosec G115
		offset += uint32(len(m.key)) + 1                  // #nosec G115

		data.WriteString(m.key)
		data.WriteByte(0)
	}

	for _, m := range msgs {
		table = append(table, uint32(len(m.value)), offset) // #nosec G115
		offset += uint32(len(m.value)) + 1                  // #nosec G115

		data.WriteString(m.value)
		data.WriteByte(0)
	}

	header := []uint32{
		moMagic,
		0, // revision
		n,
		origTable,
		transTable,
		0, // hash table size
		dataStart,
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, table); err != nil {
		return err
	}

	_, err := w.Write(data.Bytes())

	return err
}
