// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package planparse

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokOp
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokDot
	tokStar
	tokMinus
)

var tokenNames = [...]string{
	tokEOF:      "end of input",
	tokIdent:    "identifier",
	tokInt:      "integer",
	tokString:   "string",
	tokOp:       "operator",
	tokLParen:   "'('",
	tokRParen:   "')'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokComma:    "','",
	tokDot:      "'.'",
	tokStar:     "'*'",
	tokMinus:    "'-'",
}

func (k tokenKind) String() string { return tokenNames[k] }

// pos is a 1-based line and column.
type pos struct {
	line, col int
}

func (p pos) String() string { return fmt.Sprintf("%d:%d", p.line, p.col) }

type token struct {
	kind tokenKind
	// text is the raw text of the token. For strings, it is the unquoted
	// value.
	text string
	pos  pos
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return t.kind.String()
	case tokString:
		return "'" + t.text + "'"
	}
	return fmt.Sprintf("%q", t.text)
}

// isKeyword returns true if the token is the given case-insensitive keyword.
func (t token) isKeyword(kw string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

// lex splits the input into tokens. Comments start with "--" or "#" and run
// to the end of the line.
func lex(input string) ([]token, error) {
	var toks []token
	line, lineStart := 1, 0
	i := 0
	for i < len(input) {
		c := input[i]
		p := pos{line: line, col: i - lineStart + 1}
		switch {
		case c == '\n':
			line++
			lineStart = i + 1
			i++
			continue

		case c == ' ' || c == '\t' || c == '\r':
			i++
			continue

		case c == '#' || (c == '-' && i+1 < len(input) && input[i+1] == '-'):
			for i < len(input) && input[i] != '\n' {
				i++
			}
			continue

		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentChar(input[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: input[start:i], pos: p})
			continue

		case isDigit(c):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			toks = append(toks, token{kind: tokInt, text: input[start:i], pos: p})
			continue

		case c == '\'':
			var sb strings.Builder
			i++
			for {
				if i >= len(input) {
					return nil, errors.Newf("%s: unterminated string", p)
				}
				if input[i] == '\'' {
					if i+1 < len(input) && input[i+1] == '\'' {
						sb.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				if input[i] == '\n' {
					line++
					lineStart = i + 1
				}
				sb.WriteByte(input[i])
				i++
			}
			toks = append(toks, token{kind: tokString, text: sb.String(), pos: p})
			continue

		case c == '<' || c == '>' || c == '=' || c == '!':
			start := i
			i++
			if i < len(input) && (input[i] == '=' || (c == '<' && input[i] == '>')) {
				i++
			}
			text := input[start:i]
			if text == "!" {
				return nil, errors.Newf("%s: unexpected character '!'", p)
			}
			toks = append(toks, token{kind: tokOp, text: text, pos: p})
			continue
		}

		var kind tokenKind
		switch c {
		case '(':
			kind = tokLParen
		case ')':
			kind = tokRParen
		case '[':
			kind = tokLBracket
		case ']':
			kind = tokRBracket
		case ',':
			kind = tokComma
		case '.':
			kind = tokDot
		case '*':
			kind = tokStar
		case '-':
			kind = tokMinus
		default:
			return nil, errors.Newf("%s: unexpected character %q", p, rune(c))
		}
		toks = append(toks, token{kind: kind, text: string(c), pos: p})
		i++
	}
	toks = append(toks, token{kind: tokEOF, pos: pos{line: line, col: len(input) - lineStart + 1}})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
