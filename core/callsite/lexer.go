// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package callsite

import (
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
)

var errLex = errors.New("invalid call site text")

// Tokenize splits src into tokens using Go's lexical rules. Positions are
// reported relative to start, which is the position of src's first byte.
func Tokenize(src string, start token.Position) ([]Token, error) {
	fset := token.NewFileSet()
	file := fset.AddFile(start.Filename, -1, len(src))

	var (
		s     scanner.Scanner
		first error
	)

	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		if first == nil {
			first = fmt.Errorf("%w: %s: %s", errLex, shift(pos, start), msg)
		}
	}, 0)

	var toks []Token

	for {
		p, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}

		// Skip semicolons inserted automatically at line ends.
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}

		pos := shift(fset.Position(p), start)

		switch {
		case tok == token.STRING:
			v, err := strconv.Unquote(lit)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", errLex, pos, err)
			}

			toks = append(toks, Token{Kind: Literal, Text: lit, Value: v, Pos: pos})
		case tok == token.IDENT:
			toks = append(toks, Token{Kind: Ident, Text: lit, Pos: pos})
		case tok.IsKeyword():
			toks = append(toks, Token{Kind: Ident, Text: tok.String(), Pos: pos})
		case tok.IsLiteral():
			toks = append(toks, Token{Kind: Opaque, Text: lit, Pos: pos})
		default:
			toks = append(toks, Token{Kind: Punct, Text: tok.String(), Pos: pos})
		}
	}

	if first != nil {
		return nil, first
	}

	return toks, nil
}

// shift translates a position inside src into the enclosing file.
func shift(p, start token.Position) token.Position {
	out := token.Position{
		Filename: start.Filename,
		Offset:   start.Offset + p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}

	if start.Line > 0 {
		out.Line = start.Line + p.Line - 1
	}

	if p.Line == 1 && start.Column > 0 {
		out.Column = start.Column + p.Column - 1
	}

	return out
}
