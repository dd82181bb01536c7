// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"strings"

	"lc3as/pkg/encoding"
)

var opcodeTokens = map[string]TokenKind{
	"ADD":  TOKEN_ADD,
	"AND":  TOKEN_AND,
	"NOT":  TOKEN_NOT,
	"LD":   TOKEN_LD,
	"LDI":  TOKEN_LDI,
	"LDR":  TOKEN_LDR,
	"LEA":  TOKEN_LEA,
	"ST":   TOKEN_ST,
	"STI":  TOKEN_STI,
	"STR":  TOKEN_STR,
	"JMP":  TOKEN_JMP,
	"JSR":  TOKEN_JSR,
	"JSRR": TOKEN_JSRR,
	"TRAP": TOKEN_TRAP,
	"RTI":  TOKEN_RTI,

	"RET":   TOKEN_RET,
	"GETC":  TOKEN_GETC,
	"OUT":   TOKEN_OUT,
	"PUTS":  TOKEN_PUTS,
	"IN":    TOKEN_IN,
	"PUTSP": TOKEN_PUTSP,
	"HALT":  TOKEN_HALT,
}

var directiveTokens = map[string]TokenKind{
	"ORIG":    TOKEN_ORIG,
	"END":     TOKEN_END,
	"FILL":    TOKEN_FILL,
	"BLKW":    TOKEN_BLKW,
	"STRINGZ": TOKEN_STRINGZ,
}

// Tokenize splits LC-3 assembly source into tokens. Every source line,
// including the last, is terminated by a TOKEN_NEWLINE so the parser can
// group tokens by line. Lexing never stops at a malformed token; it records
// a diagnostic and keeps scanning.
func Tokenize(source string) ([]Token, []*Diagnostic) {
	var tokens []Token
	var diags []*Diagnostic

	for number, line := range strings.Split(source, "\n") {
		line = strings.TrimSuffix(line, "\r")

		lexer := lineLexer{line: line, number: number + 1}
		tokens = lexer.run(tokens, &diags)

		tokens = append(tokens, Token{
			Kind:   TOKEN_NEWLINE,
			Lexeme: "\n",
			Span:   Span{Line: number + 1, Col: len(line) + 1},
		})
	}

	return tokens, diags
}

type lineLexer struct {
	line   string
	number int
	pos    int
}

func (l *lineLexer) span(start int) Span {
	return Span{Line: l.number, Col: start + 1}
}

func (l *lineLexer) peek() (byte, bool) {
	if l.pos >= len(l.line) {
		return 0, false
	}
	return l.line[l.pos], true
}

func (l *lineLexer) run(tokens []Token, diags *[]*Diagnostic) []Token {
	for {
		for {
			c, ok := l.peek()
			if !ok || (c != ' ' && c != '\t') {
				break
			}
			l.pos++
		}

		c, ok := l.peek()
		if !ok {
			return tokens
		}

		start := l.pos

		switch {
		case c == ';':
			// Comment runs to end of line
			return tokens

		case c == ',':
			l.pos++
			tokens = append(tokens, Token{
				Kind:   TOKEN_COMMA,
				Lexeme: ",",
				Span:   l.span(start),
			})

		case c == '"':
			if token, diag := l.lexString(start); diag != nil {
				*diags = append(*diags, diag)
			} else {
				tokens = append(tokens, token)
			}

		case c == '#':
			if token, diag := l.lexDecimal(start); diag != nil {
				*diags = append(*diags, diag)
			} else {
				tokens = append(tokens, token)
			}

		case c == '.':
			if token, diag := l.lexDirective(start); diag != nil {
				*diags = append(*diags, diag)
			} else {
				tokens = append(tokens, token)
			}

		case isWordStart(c):
			if token, diag := l.lexWord(start); diag != nil {
				*diags = append(*diags, diag)
			} else {
				tokens = append(tokens, token)
			}

		default:
			l.pos++
			*diags = append(*diags, diagf(
				DIAG_UNEXPECTED_CHARACTER, l.span(start),
				"Unexpected character: '%c'", c,
			))
		}
	}
}

func (l *lineLexer) lexString(start int) (Token, *Diagnostic) {
	l.pos++ // opening quote
	var processed strings.Builder

	// An invalid escape is recorded but scanning continues to the closing
	// quote, so the rest of the literal is not re-lexed as garbage.
	var escDiag *Diagnostic

	for {
		c, ok := l.peek()

		if !ok {
			return Token{}, diagf(
				DIAG_UNTERMINATED_STRING, l.span(start),
				"Unterminated string literal",
			)
		}

		if c == '"' {
			l.pos++
			break
		}

		if c == '\\' {
			l.pos++

			esc, ok := l.peek()
			if !ok {
				return Token{}, diagf(
					DIAG_UNTERMINATED_STRING, l.span(start),
					"Unterminated string literal",
				)
			}

			l.pos++
			switch esc {
			case 'n':
				processed.WriteByte('\n')
			case 'r':
				processed.WriteByte('\r')
			case 't':
				processed.WriteByte('\t')
			case '\\':
				processed.WriteByte('\\')
			case '"':
				processed.WriteByte('"')
			case '0':
				processed.WriteByte(0)
			default:
				if escDiag == nil {
					escDiag = diagf(
						DIAG_INVALID_ESCAPE, l.span(start),
						"Invalid escape sequence: \\%c", esc,
					)
				}
			}

			continue
		}

		l.pos++
		processed.WriteByte(c)
	}

	if escDiag != nil {
		return Token{}, escDiag
	}

	return Token{
		Kind:   TOKEN_STRING,
		Lexeme: l.line[start:l.pos],
		Span:   l.span(start),
		Str:    processed.String(),
	}, nil
}

func (l *lineLexer) lexDecimal(start int) (Token, *Diagnostic) {
	l.pos++ // '#'

	if c, ok := l.peek(); ok && (c == '-' || c == '+') {
		l.pos++
	}

	digits := l.pos
	for {
		c, ok := l.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		l.pos++
	}

	lexeme := l.line[start:l.pos]

	if l.pos == digits {
		return Token{}, diagf(
			DIAG_INVALID_DECIMAL, l.span(start),
			"Expected digits after #",
		)
	}

	value, err := encoding.DecodeInt(lexeme)

	if err != nil {
		return Token{}, diagf(
			DIAG_INVALID_DECIMAL, l.span(start),
			"Invalid decimal literal: %s", lexeme,
		)
	}

	return Token{
		Kind:   TOKEN_NUMBER,
		Lexeme: lexeme,
		Span:   l.span(start),
		Num:    value,
	}, nil
}

func (l *lineLexer) lexDirective(start int) (Token, *Diagnostic) {
	l.pos++ // '.'

	for {
		c, ok := l.peek()
		if !ok || !isLetter(c) {
			break
		}
		l.pos++
	}

	lexeme := l.line[start:l.pos]
	upper := strings.ToUpper(lexeme[1:])

	kind, ok := directiveTokens[upper]

	if !ok {
		return Token{}, diagf(
			DIAG_UNKNOWN_DIRECTIVE, l.span(start),
			"Unknown directive .%s", upper,
		)
	}

	return Token{Kind: kind, Lexeme: lexeme, Span: l.span(start)}, nil
}

func (l *lineLexer) lexWord(start int) (Token, *Diagnostic) {
	for {
		c, ok := l.peek()
		if !ok || !isWordChar(c) {
			break
		}
		l.pos++
	}

	lexeme := l.line[start:l.pos]
	upper := strings.ToUpper(lexeme)
	span := l.span(start)

	if len(upper) == 2 && upper[0] == 'R' && isDigit(upper[1]) {
		reg := uint16(upper[1] - '0')

		if reg > 7 {
			return Token{}, diagf(
				DIAG_INVALID_REGISTER, span,
				"Invalid register R%d (must be R0-R7)", reg,
			)
		}

		return Token{
			Kind:   TOKEN_REGISTER,
			Lexeme: lexeme,
			Span:   span,
			Reg:    reg,
		}, nil
	}

	if kind, ok := opcodeTokens[upper]; ok {
		return Token{Kind: kind, Lexeme: lexeme, Span: span}, nil
	}

	if n, z, p, ok := parseBrFlags(upper); ok {
		return Token{
			Kind:   TOKEN_BR,
			Lexeme: lexeme,
			Span:   span,
			N:      n,
			Z:      z,
			P:      p,
		}, nil
	}

	if upper[0] == 'X' && len(upper) > 1 && allHexDigits(upper[1:]) {
		value, err := encoding.DecodeHex(lexeme)

		if err != nil {
			return Token{}, diagf(
				DIAG_INVALID_HEX, span,
				"Hex literal %s exceeds 16 bits", lexeme,
			)
		}

		return Token{
			Kind:   TOKEN_NUMBER,
			Lexeme: lexeme,
			Span:   span,
			Num:    encoding.Signed16(value),
		}, nil
	}

	if upper[0] == 'B' && len(upper) > 1 && allBinDigits(upper[1:]) {
		value, err := encoding.DecodeBin(lexeme)

		if err != nil {
			return Token{}, diagf(
				DIAG_INVALID_BINARY, span,
				"Binary literal %s exceeds 16 bits", lexeme,
			)
		}

		return Token{
			Kind:   TOKEN_NUMBER,
			Lexeme: lexeme,
			Span:   span,
			Num:    encoding.Signed16(value),
		}, nil
	}

	return Token{
		Kind:   TOKEN_LABEL,
		Lexeme: lexeme,
		Span:   span,
		Str:    upper,
	}, nil
}

// parseBrFlags recognizes BR and its condition-flag variants. Bare BR
// branches unconditionally (BRnzp).
func parseBrFlags(upper string) (n, z, p, ok bool) {
	if !strings.HasPrefix(upper, "BR") {
		return false, false, false, false
	}

	flags := upper[2:]

	if flags == "" {
		return true, true, true, true
	}

	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case 'N':
			n = true
		case 'Z':
			z = true
		case 'P':
			p = true
		default:
			return false, false, false, false
		}
	}

	return n, z, p, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordStart(c byte) bool {
	return isLetter(c) || c == '_'
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

func allHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

func allBinDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}
	return true
}
