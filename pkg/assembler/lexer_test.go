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

package assembler_test

import (
	"testing"

	"lc3as/pkg/assembler"
)

type lexCase struct {
	Name   string
	Input  string
	Tokens []assembler.Token
}

type lexFailCase struct {
	Name  string
	Input string
	Kind  assembler.DiagKind
}

// stripNewlines drops the line terminators so cases only spell the tokens
// they care about.
func stripNewlines(tokens []assembler.Token) []assembler.Token {
	kept := tokens[:0]
	for _, token := range tokens {
		if token.Kind != assembler.TOKEN_NEWLINE {
			kept = append(kept, token)
		}
	}
	return kept
}

func testLexSuccess(t *testing.T, test *lexCase) {
	tokens, diags := assembler.Tokenize(test.Input)

	if len(diags) > 0 {
		t.Fatal(diags[0])
	}

	tokens = stripNewlines(tokens)

	if len(tokens) != len(test.Tokens) {
		t.Fatalf(
			"Token count mismatch\n"+
				"want:%d\n"+
				"have:%d (%v)",
			len(test.Tokens),
			len(tokens),
			tokens,
		)
	}

	for i, want := range test.Tokens {
		have := tokens[i]

		if have.Kind != want.Kind {
			t.Fatalf(
				"Token kind mismatch\n"+
					"want:%v (test.Tokens[%d])\n"+
					"have:%v (%q)",
				want.Kind,
				i,
				have.Kind,
				have.Lexeme,
			)
		}

		if have.Num != want.Num || have.Reg != want.Reg ||
			have.Str != want.Str ||
			have.N != want.N || have.Z != want.Z || have.P != want.P {
			t.Fatalf(
				"Token value mismatch\n"+
					"want:%+v (test.Tokens[%d])\n"+
					"have:%+v",
				want,
				i,
				have,
			)
		}
	}
}

func testLexFail(t *testing.T, test *lexFailCase) {
	_, diags := assembler.Tokenize(test.Input)

	if len(diags) != 1 {
		t.Fatalf(
			"Diagnostic count mismatch\n"+
				"want:1\n"+
				"have:%d (%v)",
			len(diags),
			diags,
		)
	}

	if have := diags[0].Kind; have != test.Kind {
		t.Fatalf(
			"Diagnostic kind mismatch\n"+
				"want:%d\n"+
				"have:%d (%s)",
			test.Kind,
			have,
			diags[0],
		)
	}
}

func TestTokenize(t *testing.T) {
	tests := []lexCase{
		{
			Name:  "Instruction line",
			Input: `ADD R0, R1, #-5`,
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_ADD},
				{Kind: assembler.TOKEN_REGISTER, Reg: 0},
				{Kind: assembler.TOKEN_COMMA},
				{Kind: assembler.TOKEN_REGISTER, Reg: 1},
				{Kind: assembler.TOKEN_COMMA},
				{Kind: assembler.TOKEN_NUMBER, Num: -5},
			},
		},
		{
			Name:  "Lowercase opcodes",
			Input: "add r7, r7, #1\nhalt",
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_ADD},
				{Kind: assembler.TOKEN_REGISTER, Reg: 7},
				{Kind: assembler.TOKEN_COMMA},
				{Kind: assembler.TOKEN_REGISTER, Reg: 7},
				{Kind: assembler.TOKEN_COMMA},
				{Kind: assembler.TOKEN_NUMBER, Num: 1},
				{Kind: assembler.TOKEN_HALT},
			},
		},
		{
			// Labels normalize to upper case so references are
			// case-insensitive
			Name:  "Label normalization",
			Input: `loop BRp Loop`,
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_LABEL, Str: "LOOP"},
				{Kind: assembler.TOKEN_BR, P: true},
				{Kind: assembler.TOKEN_LABEL, Str: "LOOP"},
			},
		},
		{
			Name:  "Branch flag variants",
			Input: "BR A\nBRn A\nBRnzp A",
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_BR, N: true, Z: true, P: true},
				{Kind: assembler.TOKEN_LABEL, Str: "A"},
				{Kind: assembler.TOKEN_BR, N: true},
				{Kind: assembler.TOKEN_LABEL, Str: "A"},
				{Kind: assembler.TOKEN_BR, N: true, Z: true, P: true},
				{Kind: assembler.TOKEN_LABEL, Str: "A"},
			},
		},
		{
			// Hex above x7FFF reads back as its two's-complement value
			Name:  "Numeric literals",
			Input: `.FILL x10 .FILL xFFFF .FILL b101 .FILL #65535`,
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_FILL},
				{Kind: assembler.TOKEN_NUMBER, Num: 0x10},
				{Kind: assembler.TOKEN_FILL},
				{Kind: assembler.TOKEN_NUMBER, Num: -1},
				{Kind: assembler.TOKEN_FILL},
				{Kind: assembler.TOKEN_NUMBER, Num: 5},
				{Kind: assembler.TOKEN_FILL},
				{Kind: assembler.TOKEN_NUMBER, Num: 65535},
			},
		},
		{
			Name:  "Comments",
			Input: "HALT ; stop the machine\n; full line comment",
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_HALT},
			},
		},
		{
			Name:  "String escapes",
			Input: `.STRINGZ "a\n\0"`,
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_STRINGZ},
				{Kind: assembler.TOKEN_STRING, Str: "a\n\x00"},
			},
		},
		{
			// Words that merely start with R or BR are labels, not
			// registers or branches
			Name:  "Label lookalikes",
			Input: `R10 BRX RESULT`,
			Tokens: []assembler.Token{
				{Kind: assembler.TOKEN_LABEL, Str: "R10"},
				{Kind: assembler.TOKEN_LABEL, Str: "BRX"},
				{Kind: assembler.TOKEN_LABEL, Str: "RESULT"},
			},
		},
	}

	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testLexSuccess(t, &test)
			})
		}
	})

	fails := []lexFailCase{
		{
			Name:  "Unterminated string",
			Input: `.STRINGZ "abc`,
			Kind:  assembler.DIAG_UNTERMINATED_STRING,
		},
		{
			Name:  "Invalid escape",
			Input: `.STRINGZ "a\q"`,
			Kind:  assembler.DIAG_INVALID_ESCAPE,
		},
		{
			Name:  "Bare hash",
			Input: `ADD R0, R0, #`,
			Kind:  assembler.DIAG_INVALID_DECIMAL,
		},
		{
			Name:  "Register out of range",
			Input: `R8`,
			Kind:  assembler.DIAG_INVALID_REGISTER,
		},
		{
			Name:  "Unknown directive",
			Input: `.WORD #1`,
			Kind:  assembler.DIAG_UNKNOWN_DIRECTIVE,
		},
		{
			Name:  "Oversized hex literal",
			Input: `x10000`,
			Kind:  assembler.DIAG_INVALID_HEX,
		},
		{
			Name:  "Oversized binary literal",
			Input: `b10000000000000000`,
			Kind:  assembler.DIAG_INVALID_BINARY,
		},
		{
			Name:  "Unexpected character",
			Input: `@`,
			Kind:  assembler.DIAG_UNEXPECTED_CHARACTER,
		},
	}

	t.Run("Fail", func(t *testing.T) {
		for _, test := range fails {
			t.Run(test.Name, func(t *testing.T) {
				testLexFail(t, &test)
			})
		}
	})
}

func TestTokenizeSpans(t *testing.T) {
	tokens, diags := assembler.Tokenize("HALT\n  LD R0, DATA")

	if len(diags) > 0 {
		t.Fatal(diags[0])
	}

	tokens = stripNewlines(tokens)

	spans := []assembler.Span{
		{Line: 1, Col: 1},  // HALT
		{Line: 2, Col: 3},  // LD
		{Line: 2, Col: 6},  // R0
		{Line: 2, Col: 8},  // ,
		{Line: 2, Col: 10}, // DATA
	}

	if len(tokens) != len(spans) {
		t.Fatalf(
			"Token count mismatch\n"+
				"want:%d\n"+
				"have:%d (%v)",
			len(spans),
			len(tokens),
			tokens,
		)
	}

	for i, want := range spans {
		if have := tokens[i].Span; have != want {
			t.Fatalf(
				"Span mismatch\n"+
					"want:%+v (spans[%d])\n"+
					"have:%+v (%q)",
				want,
				i,
				have,
				tokens[i].Lexeme,
			)
		}
	}
}
