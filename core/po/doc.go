// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package po reads and writes GNU gettext catalogues: .pot templates, editable .po
files and compiled .mo files.

Entries keep their file order, their comment lines and their obsolete ("#~")
state, so a catalogue can be parsed and written back without reordering what a
translator sees. Only the subset of the format that msgmerge, msginit and msgfmt
produce is supported: previous-msgid ("#|") lines are kept as plain comments.
*/
package po
