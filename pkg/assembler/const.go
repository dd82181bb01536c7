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

// DefaultOrigin is assumed when a program omits its .ORIG directive so the
// rest of the file still resolves to meaningful addresses.
const DefaultOrigin uint16 = 0x3000

// MaxAddress is the top of the 16-bit address space.
const MaxAddress uint16 = 0xFFFF

const (
	TOKEN_NONE TokenKind = iota
	TOKEN_NEWLINE
	TOKEN_COMMA
	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_REGISTER
	TOKEN_LABEL

	// Opcodes
	TOKEN_ADD
	TOKEN_AND
	TOKEN_NOT
	TOKEN_BR
	TOKEN_JMP
	TOKEN_JSR
	TOKEN_JSRR
	TOKEN_LD
	TOKEN_LDI
	TOKEN_LDR
	TOKEN_LEA
	TOKEN_ST
	TOKEN_STI
	TOKEN_STR
	TOKEN_TRAP
	TOKEN_RTI

	// Pseudo-ops
	TOKEN_RET
	TOKEN_GETC
	TOKEN_OUT
	TOKEN_PUTS
	TOKEN_IN
	TOKEN_PUTSP
	TOKEN_HALT

	// Directives
	TOKEN_ORIG
	TOKEN_END
	TOKEN_FILL
	TOKEN_BLKW
	TOKEN_STRINGZ
)

const (
	// Lexer diagnostics
	DIAG_UNTERMINATED_STRING DiagKind = iota
	DIAG_INVALID_ESCAPE
	DIAG_INVALID_DECIMAL
	DIAG_INVALID_HEX
	DIAG_INVALID_BINARY
	DIAG_INVALID_REGISTER
	DIAG_UNKNOWN_DIRECTIVE
	DIAG_UNEXPECTED_CHARACTER

	// Parser diagnostics
	DIAG_EXPECTED_OPERAND
	DIAG_EXPECTED_REGISTER
	DIAG_EXPECTED_COMMA
	DIAG_UNEXPECTED_TOKEN
	DIAG_TOO_MANY_OPERANDS
	DIAG_TOO_FEW_OPERANDS
	DIAG_INVALID_OPERAND
	DIAG_INVALID_ORIG_ADDRESS
	DIAG_INVALID_BLKW_COUNT

	// Resolver diagnostics
	DIAG_DUPLICATE_LABEL
	DIAG_MISSING_ORIG
	DIAG_MULTIPLE_ORIG
	DIAG_MISSING_END
	DIAG_ADDRESS_OVERFLOW

	// Encoder diagnostics
	DIAG_UNDEFINED_LABEL
	DIAG_OFFSET_RANGE
	DIAG_OVERSIZED_CHARACTER
)

// Scan states for the first pass. The closed set keeps illegal state
// combinations (".END seen but no .ORIG yet") unrepresentable.
const (
	STATE_AWAITING_ORIG scanState = iota
	STATE_IN_BODY
	STATE_AFTER_END
)

// Opcode nibbles, bits 15:12 of every instruction word.
const (
	OP_BR   uint16 = 0b0000
	OP_ADD  uint16 = 0b0001
	OP_LD   uint16 = 0b0010
	OP_ST   uint16 = 0b0011
	OP_JSR  uint16 = 0b0100
	OP_AND  uint16 = 0b0101
	OP_LDR  uint16 = 0b0110
	OP_STR  uint16 = 0b0111
	OP_RTI  uint16 = 0b1000
	OP_NOT  uint16 = 0b1001
	OP_LDI  uint16 = 0b1010
	OP_STI  uint16 = 0b1011
	OP_JMP  uint16 = 0b1100
	OP_LEA  uint16 = 0b1110
	OP_TRAP uint16 = 0b1111
)

// Complete trap alias words, opcode pre-shifted.
const (
	WORD_GETC  uint16 = OP_TRAP<<12 | 0x20
	WORD_OUT   uint16 = OP_TRAP<<12 | 0x21
	WORD_PUTS  uint16 = OP_TRAP<<12 | 0x22
	WORD_IN    uint16 = OP_TRAP<<12 | 0x23
	WORD_PUTSP uint16 = OP_TRAP<<12 | 0x24
	WORD_HALT  uint16 = OP_TRAP<<12 | 0x25
)
