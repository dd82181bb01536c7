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

// Parse groups a token stream into source lines, validating operand counts
// and types. A line that fails validation yields a diagnostic plus an
// empty-content line, so the later passes still see every line number.
func Parse(tokens []Token) ([]SourceLine, []*Diagnostic) {
	var lines []SourceLine
	var diags []*Diagnostic

	start := 0
	number := 1

	for i := range tokens {
		if tokens[i].Kind != TOKEN_NEWLINE {
			continue
		}

		parseLine(tokens[start:i], number, &lines, &diags)
		start = i + 1
		number++
	}

	return lines, diags
}

func parseLine(
	tokens []Token,
	number int,
	lines *[]SourceLine,
	diags *[]*Diagnostic,
) {
	span := Span{Line: number, Col: 1}

	if len(tokens) > 0 {
		span = tokens[0].Span
	}

	if len(tokens) == 0 {
		*lines = append(*lines, SourceLine{
			Content: Empty{},
			Number:  number,
			Span:    span,
		})
		return
	}

	var label string

	if tokens[0].Kind == TOKEN_LABEL {
		label = tokens[0].Str

		if len(tokens) == 1 || !isKeyword(tokens[1].Kind) {
			// Label-only line: the label binds to whatever comes next
			*lines = append(*lines, SourceLine{
				Label:   label,
				Content: Empty{},
				Number:  number,
				Span:    span,
			})
			return
		}

		tokens = tokens[1:]
	} else if !isKeyword(tokens[0].Kind) {
		*diags = append(*diags, diagf(
			DIAG_UNEXPECTED_TOKEN, tokens[0].Span,
			"Unexpected token at start of line",
		))
		*lines = append(*lines, SourceLine{
			Content: Empty{},
			Number:  number,
			Span:    span,
		})
		return
	}

	content, diag := parseContent(tokens)

	if diag != nil {
		*diags = append(*diags, diag)
		content = Empty{}
	}

	*lines = append(*lines, SourceLine{
		Label:   label,
		Content: content,
		Number:  number,
		Span:    span,
	})
}

func isKeyword(kind TokenKind) bool {
	return kind >= TOKEN_ADD && kind <= TOKEN_STRINGZ
}

func parseContent(tokens []Token) (LineContent, *Diagnostic) {
	switch tokens[0].Kind {
	case TOKEN_ADD:
		return parseRegRegOrImm(tokens, "ADD",
			func(dr, sr1, sr2 uint16) LineContent {
				return AddReg{DR: dr, SR1: sr1, SR2: sr2}
			},
			func(dr, sr1 uint16, imm int16) LineContent {
				return AddImm{DR: dr, SR1: sr1, Imm5: imm}
			})

	case TOKEN_AND:
		return parseRegRegOrImm(tokens, "AND",
			func(dr, sr1, sr2 uint16) LineContent {
				return AndReg{DR: dr, SR1: sr1, SR2: sr2}
			},
			func(dr, sr1 uint16, imm int16) LineContent {
				return AndImm{DR: dr, SR1: sr1, Imm5: imm}
			})

	case TOKEN_NOT:
		return parseNot(tokens)

	case TOKEN_BR:
		return parseBr(tokens)

	case TOKEN_LD:
		return parseRegLabel(tokens, "LD", func(r uint16, label string) LineContent {
			return Ld{DR: r, Label: label}
		})

	case TOKEN_LDI:
		return parseRegLabel(tokens, "LDI", func(r uint16, label string) LineContent {
			return Ldi{DR: r, Label: label}
		})

	case TOKEN_LEA:
		return parseRegLabel(tokens, "LEA", func(r uint16, label string) LineContent {
			return Lea{DR: r, Label: label}
		})

	case TOKEN_ST:
		return parseRegLabel(tokens, "ST", func(r uint16, label string) LineContent {
			return St{SR: r, Label: label}
		})

	case TOKEN_STI:
		return parseRegLabel(tokens, "STI", func(r uint16, label string) LineContent {
			return Sti{SR: r, Label: label}
		})

	case TOKEN_LDR:
		return parseRegRegImm(tokens, "LDR",
			func(r, base uint16, offset int16) LineContent {
				return Ldr{DR: r, Base: base, Offset6: offset}
			})

	case TOKEN_STR:
		return parseRegRegImm(tokens, "STR",
			func(r, base uint16, offset int16) LineContent {
				return Str{SR: r, Base: base, Offset6: offset}
			})

	case TOKEN_JMP:
		return parseSingleReg(tokens, "JMP", func(base uint16) LineContent {
			return Jmp{Base: base}
		})

	case TOKEN_JSR:
		return parseSingleLabel(tokens, "JSR", func(label string) LineContent {
			return Jsr{Label: label}
		})

	case TOKEN_JSRR:
		return parseSingleReg(tokens, "JSRR", func(base uint16) LineContent {
			return Jsrr{Base: base}
		})

	case TOKEN_TRAP:
		return parseTrap(tokens)

	case TOKEN_RTI:
		return parseNoOperands(tokens, "RTI", Rti{})
	case TOKEN_RET:
		return parseNoOperands(tokens, "RET", Ret{})
	case TOKEN_GETC:
		return parseNoOperands(tokens, "GETC", Getc{})
	case TOKEN_OUT:
		return parseNoOperands(tokens, "OUT", Out{})
	case TOKEN_PUTS:
		return parseNoOperands(tokens, "PUTS", Puts{})
	case TOKEN_IN:
		return parseNoOperands(tokens, "IN", In{})
	case TOKEN_PUTSP:
		return parseNoOperands(tokens, "PUTSP", Putsp{})
	case TOKEN_HALT:
		return parseNoOperands(tokens, "HALT", Halt{})

	case TOKEN_ORIG:
		return parseOrig(tokens)
	case TOKEN_END:
		return parseEnd(tokens)
	case TOKEN_FILL:
		return parseFill(tokens)
	case TOKEN_BLKW:
		return parseBlkw(tokens)
	case TOKEN_STRINGZ:
		return parseStringz(tokens)
	}

	return nil, diagf(
		DIAG_UNEXPECTED_TOKEN, tokens[0].Span,
		"Unexpected token in line",
	)
}

// ADD/AND: NAME DR, SR1, SR2 or NAME DR, SR1, #imm5. The imm5 value is
// deliberately not range-checked here; the encoder truncates it to its
// 5-bit two's-complement field.
func parseRegRegOrImm(
	tokens []Token,
	name string,
	reg func(dr, sr1, sr2 uint16) LineContent,
	imm func(dr, sr1 uint16, imm int16) LineContent,
) (LineContent, *Diagnostic) {
	if len(tokens) < 6 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"%s requires 3 operands: %s DR, SR1, SR2/imm5", name, name,
		)
	}

	if diag := expectComma(tokens, 2); diag != nil {
		return nil, diag
	}

	if diag := expectComma(tokens, 4); diag != nil {
		return nil, diag
	}

	dr, diag := expectRegister(tokens, 1, name)
	if diag != nil {
		return nil, diag
	}

	sr1, diag := expectRegister(tokens, 3, name)
	if diag != nil {
		return nil, diag
	}

	if diag := ensureNoExtra(tokens, 6); diag != nil {
		return nil, diag
	}

	switch tokens[5].Kind {
	case TOKEN_REGISTER:
		return reg(dr, sr1, tokens[5].Reg), nil
	case TOKEN_NUMBER:
		return imm(dr, sr1, int16(tokens[5].Num)), nil
	}

	return nil, diagf(
		DIAG_INVALID_OPERAND, tokens[5].Span,
		"%s third operand must be a register (R0-R7) or immediate (#n)", name,
	)
}

// LD/LDI/LEA/ST/STI: NAME R, LABEL
func parseRegLabel(
	tokens []Token,
	name string,
	build func(r uint16, label string) LineContent,
) (LineContent, *Diagnostic) {
	if len(tokens) < 4 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"%s requires 2 operands: %s DR, LABEL", name, name,
		)
	}

	if diag := expectComma(tokens, 2); diag != nil {
		return nil, diag
	}

	r, diag := expectRegister(tokens, 1, name)
	if diag != nil {
		return nil, diag
	}

	label, diag := expectLabel(tokens, 3, name)
	if diag != nil {
		return nil, diag
	}

	if diag := ensureNoExtra(tokens, 4); diag != nil {
		return nil, diag
	}

	return build(r, label), nil
}

// LDR/STR: NAME R, BaseR, #offset6. As with imm5, the offset is truncated
// by the encoder rather than range-checked here.
func parseRegRegImm(
	tokens []Token,
	name string,
	build func(r, base uint16, offset int16) LineContent,
) (LineContent, *Diagnostic) {
	if len(tokens) < 6 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"%s requires 3 operands: %s DR, BaseR, #offset6", name, name,
		)
	}

	if diag := expectComma(tokens, 2); diag != nil {
		return nil, diag
	}

	if diag := expectComma(tokens, 4); diag != nil {
		return nil, diag
	}

	r, diag := expectRegister(tokens, 1, name)
	if diag != nil {
		return nil, diag
	}

	base, diag := expectRegister(tokens, 3, name)
	if diag != nil {
		return nil, diag
	}

	if tokens[5].Kind != TOKEN_NUMBER {
		return nil, diagf(
			DIAG_INVALID_OPERAND, tokens[5].Span,
			"%s third operand must be an immediate (#n)", name,
		)
	}

	if diag := ensureNoExtra(tokens, 6); diag != nil {
		return nil, diag
	}

	return build(r, base, int16(tokens[5].Num)), nil
}

func parseSingleReg(
	tokens []Token,
	name string,
	build func(base uint16) LineContent,
) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"%s requires 1 operand: %s BaseR", name, name,
		)
	}

	base, diag := expectRegister(tokens, 1, name)
	if diag != nil {
		return nil, diag
	}

	if diag := ensureNoExtra(tokens, 2); diag != nil {
		return nil, diag
	}

	return build(base), nil
}

func parseSingleLabel(
	tokens []Token,
	name string,
	build func(label string) LineContent,
) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"%s requires 1 operand: %s LABEL", name, name,
		)
	}

	label, diag := expectLabel(tokens, 1, name)
	if diag != nil {
		return nil, diag
	}

	if diag := ensureNoExtra(tokens, 2); diag != nil {
		return nil, diag
	}

	return build(label), nil
}

func parseNoOperands(
	tokens []Token,
	name string,
	content LineContent,
) (LineContent, *Diagnostic) {
	if len(tokens) > 1 {
		return nil, diagf(
			DIAG_TOO_MANY_OPERANDS, tokens[1].Span,
			"%s takes no operands", name,
		)
	}

	return content, nil
}

func parseNot(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) < 4 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"NOT requires 2 operands: NOT DR, SR",
		)
	}

	if diag := expectComma(tokens, 2); diag != nil {
		return nil, diag
	}

	dr, diag := expectRegister(tokens, 1, "NOT")
	if diag != nil {
		return nil, diag
	}

	sr, diag := expectRegister(tokens, 3, "NOT")
	if diag != nil {
		return nil, diag
	}

	if diag := ensureNoExtra(tokens, 4); diag != nil {
		return nil, diag
	}

	return Not{DR: dr, SR: sr}, nil
}

func parseBr(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"BR requires a label operand",
		)
	}

	label, diag := expectLabel(tokens, 1, "BR")
	if diag != nil {
		return nil, diag
	}

	if diag := ensureNoExtra(tokens, 2); diag != nil {
		return nil, diag
	}

	return Br{
		N:     tokens[0].N,
		Z:     tokens[0].Z,
		P:     tokens[0].P,
		Label: label,
	}, nil
}

func parseTrap(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			"TRAP requires a numeric trap vector (e.g. TRAP x25)",
		)
	}

	if tokens[1].Kind != TOKEN_NUMBER {
		return nil, diagf(
			DIAG_INVALID_OPERAND, tokens[1].Span,
			"TRAP requires a numeric trap vector (e.g. TRAP x25)",
		)
	}

	value := tokens[1].Num

	if value < 0 || value > 0xFF {
		return nil, diagf(
			DIAG_INVALID_OPERAND, tokens[1].Span,
			"TRAP vector %d is out of range (must be 0x00-0xFF)", value,
		)
	}

	if diag := ensureNoExtra(tokens, 2); diag != nil {
		return nil, diag
	}

	return Trap{Vector: uint16(value)}, nil
}

func parseOrig(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			".ORIG requires a numeric operand",
		)
	}

	if tokens[1].Kind != TOKEN_NUMBER {
		return nil, diagf(
			DIAG_INVALID_OPERAND, tokens[1].Span,
			".ORIG requires a numeric operand",
		)
	}

	// Hex and binary literals above x7FFF arrive as negative values from
	// the lexer's two's-complement conversion (xFFFF -> -1); decimal
	// literals cover 0-65535 directly. Both spell valid addresses.
	value := tokens[1].Num

	if value < -0x8000 || value > 0xFFFF {
		return nil, diagf(
			DIAG_INVALID_ORIG_ADDRESS, tokens[1].Span,
			".ORIG address must be 0x0000-0xFFFF",
		)
	}

	if diag := ensureNoExtra(tokens, 2); diag != nil {
		return nil, diag
	}

	return Orig{Address: uint16(value)}, nil
}

func parseEnd(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) > 1 {
		return nil, diagf(
			DIAG_TOO_MANY_OPERANDS, tokens[1].Span,
			".END takes no operands",
		)
	}

	return End{}, nil
}

func parseFill(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			".FILL requires a numeric or label operand",
		)
	}

	switch tokens[1].Kind {
	case TOKEN_NUMBER:
		value := tokens[1].Num

		if value < -0x8000 || value > 0xFFFF {
			return nil, diagf(
				DIAG_INVALID_OPERAND, tokens[1].Span,
				".FILL value %d is out of 16-bit range (-32768 to 65535)",
				value,
			)
		}

		if diag := ensureNoExtra(tokens, 2); diag != nil {
			return nil, diag
		}

		return FillImmediate{Value: value}, nil

	case TOKEN_LABEL:
		if diag := ensureNoExtra(tokens, 2); diag != nil {
			return nil, diag
		}

		return FillLabel{Label: tokens[1].Str}, nil
	}

	return nil, diagf(
		DIAG_INVALID_OPERAND, tokens[1].Span,
		".FILL requires a numeric or label operand",
	)
}

func parseBlkw(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			".BLKW requires a numeric operand",
		)
	}

	if tokens[1].Kind != TOKEN_NUMBER {
		return nil, diagf(
			DIAG_INVALID_OPERAND, tokens[1].Span,
			".BLKW requires a numeric operand",
		)
	}

	// A negative count would cast to an enormous unsigned block size, so
	// reject it here with a clear message.
	value := tokens[1].Num

	if value <= 0 || value > 0xFFFF {
		return nil, diagf(
			DIAG_INVALID_BLKW_COUNT, tokens[1].Span,
			".BLKW count %d is out of range (must be 1-65535)", value,
		)
	}

	if diag := ensureNoExtra(tokens, 2); diag != nil {
		return nil, diag
	}

	return Blkw{Count: uint16(value)}, nil
}

func parseStringz(tokens []Token) (LineContent, *Diagnostic) {
	if len(tokens) < 2 {
		return nil, diagf(
			DIAG_TOO_FEW_OPERANDS, tokens[0].Span,
			".STRINGZ requires a string literal operand",
		)
	}

	if tokens[1].Kind != TOKEN_STRING {
		return nil, diagf(
			DIAG_INVALID_OPERAND, tokens[1].Span,
			".STRINGZ requires a string literal operand",
		)
	}

	if diag := ensureNoExtra(tokens, 2); diag != nil {
		return nil, diag
	}

	return Stringz{Value: tokens[1].Str}, nil
}

func ensureNoExtra(tokens []Token, expected int) *Diagnostic {
	if len(tokens) > expected {
		return diagf(
			DIAG_UNEXPECTED_TOKEN, tokens[expected].Span,
			"Unexpected token after instruction",
		)
	}

	return nil
}

func expectComma(tokens []Token, idx int) *Diagnostic {
	if len(tokens) <= idx || tokens[idx].Kind != TOKEN_COMMA {
		span := tokens[0].Span
		if len(tokens) > idx {
			span = tokens[idx].Span
		}

		return diagf(DIAG_EXPECTED_COMMA, span, "Expected comma between operands")
	}

	return nil
}

func expectRegister(tokens []Token, idx int, name string) (uint16, *Diagnostic) {
	if len(tokens) <= idx || tokens[idx].Kind != TOKEN_REGISTER {
		span := tokens[0].Span
		if len(tokens) > idx {
			span = tokens[idx].Span
		}

		return 0, diagf(
			DIAG_EXPECTED_REGISTER, span,
			"%s operand must be a register (R0-R7)", name,
		)
	}

	return tokens[idx].Reg, nil
}

func expectLabel(tokens []Token, idx int, name string) (string, *Diagnostic) {
	if len(tokens) <= idx || tokens[idx].Kind != TOKEN_LABEL {
		span := tokens[0].Span
		if len(tokens) > idx {
			span = tokens[idx].Span
		}

		return "", diagf(
			DIAG_EXPECTED_OPERAND, span,
			"%s requires a label operand", name,
		)
	}

	return tokens[idx].Str, nil
}
