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

import "lc3as/pkg/encoding"

// EncodeResult is the machine image produced by the second pass: the
// emitted words in order starting at the origin, plus encoding
// diagnostics.
type EncodeResult struct {
	MachineCode []uint16
	Origin      uint16
	Diagnostics []*Diagnostic
}

// Encode performs the second pass, translating the first pass's lines into
// 16-bit machine words. It re-derives the first pass's address progression
// with the same scan states, so PC-relative arithmetic lands on exactly
// the addresses the labels were bound to. Unresolved labels and
// out-of-range offsets are diagnosed and zero-filled; encoding never
// changes a program's size.
func Encode(first *FirstPassResult) *EncodeResult {
	enc := &encoder{
		symbols: first.Symbols,
		origin:  first.Origin,
		address: first.Origin,
	}

	state := STATE_AWAITING_ORIG

	for i := range first.Lines {
		line := &first.Lines[i]

		if state == STATE_AWAITING_ORIG {
			switch line.Content.(type) {
			case Empty:
				if line.Label == "" {
					continue
				}
				state = STATE_IN_BODY
			case Orig:
				state = STATE_IN_BODY
				continue
			default:
				// The first pass assumed the default origin here; its
				// Origin field already reflects that.
				state = STATE_IN_BODY
			}
		}

		if _, done := line.Content.(End); done {
			break
		}

		enc.encodeLine(line)
	}

	return &EncodeResult{
		MachineCode: enc.code,
		Origin:      enc.origin,
		Diagnostics: enc.diags,
	}
}

type encoder struct {
	symbols *SymbolTable
	code    []uint16
	origin  uint16
	address uint16
	diags   []*Diagnostic
}

func (e *encoder) encodeLine(line *SourceLine) {
	switch content := line.Content.(type) {
	case Empty:
	case Orig:
		// Second .ORIG, already diagnosed by the first pass

	case FillImmediate:
		e.emit(uint16(content.Value))

	case FillLabel:
		if addr, ok := e.symbols.Lookup(content.Label); ok {
			e.emit(addr)
		} else {
			e.diags = append(e.diags, undefinedLabel(content.Label, line.Span))
			e.emit(0)
		}

	case Blkw:
		for i := uint16(0); i < content.Count; i++ {
			e.emit(0)
		}

	case Stringz:
		for _, ch := range content.Value {
			if ch > 0x7F {
				e.diags = append(e.diags, diagf(
					DIAG_OVERSIZED_CHARACTER, line.Span,
					"Character %q exceeds 7-bit ASCII; low byte emitted", ch,
				))
			}

			e.emit(uint16(ch) & 0xFF)
		}

		e.emit(0)

	default:
		e.encodeInstruction(line)
	}
}

func (e *encoder) encodeInstruction(line *SourceLine) {
	var word uint16

	switch inst := line.Content.(type) {
	// ADD  |0001|DR |SR1|0|00|SR2| Register addition
	// ADD  |0001|DR |SR1|1|imm5  | Immediate addition
	// AND  |0101|DR |SR1|0|00|SR2| Register bitwise and
	// AND  |0101|DR |SR1|1|imm5  | Immediate bitwise and
	case AddReg:
		word = OP_ADD<<12 | inst.DR<<9 | inst.SR1<<6 | inst.SR2
	case AddImm:
		word = OP_ADD<<12 | inst.DR<<9 | inst.SR1<<6 | 1<<5 |
			encoding.Truncate(int32(inst.Imm5), 5)
	case AndReg:
		word = OP_AND<<12 | inst.DR<<9 | inst.SR1<<6 | inst.SR2
	case AndImm:
		word = OP_AND<<12 | inst.DR<<9 | inst.SR1<<6 | 1<<5 |
			encoding.Truncate(int32(inst.Imm5), 5)

	// NOT  |1001|DR |SR |111111| Bitwise complement, low six bits fixed
	case Not:
		word = OP_NOT<<12 | inst.DR<<9 | inst.SR<<6 | 0b111111

	// LD   |0010|DR |PCoffset9| and friends
	case Ld:
		word = OP_LD<<12 | inst.DR<<9 | e.pcOffset(inst.Label, 9, line.Span)
	case Ldi:
		word = OP_LDI<<12 | inst.DR<<9 | e.pcOffset(inst.Label, 9, line.Span)
	case Lea:
		word = OP_LEA<<12 | inst.DR<<9 | e.pcOffset(inst.Label, 9, line.Span)
	case St:
		word = OP_ST<<12 | inst.SR<<9 | e.pcOffset(inst.Label, 9, line.Span)
	case Sti:
		word = OP_STI<<12 | inst.SR<<9 | e.pcOffset(inst.Label, 9, line.Span)

	// LDR  |0110|DR |BaseR|offset6| Load  base+offset
	// STR  |0111|SR |BaseR|offset6| Store base+offset
	case Ldr:
		word = OP_LDR<<12 | inst.DR<<9 | inst.Base<<6 |
			encoding.Truncate(int32(inst.Offset6), 6)
	case Str:
		word = OP_STR<<12 | inst.SR<<9 | inst.Base<<6 |
			encoding.Truncate(int32(inst.Offset6), 6)

	// BR   |0000|N|Z|P|PCoffset9| Conditional branch
	case Br:
		word = OP_BR<<12 | brMask(inst)<<9 | e.pcOffset(inst.Label, 9, line.Span)

	// JMP  |1100|000|BaseR|000000| RET is JMP R7
	case Jmp:
		word = OP_JMP<<12 | inst.Base<<6
	case Ret:
		word = OP_JMP<<12 | 7<<6

	// JSR  |0100|1|PCoffset11| JSRR |0100|0|00|BaseR|000000|
	case Jsr:
		word = OP_JSR<<12 | 1<<11 | e.pcOffset(inst.Label, 11, line.Span)
	case Jsrr:
		word = OP_JSR<<12 | inst.Base<<6

	// TRAP |1111|0000|trapvect8|
	case Trap:
		word = OP_TRAP<<12 | inst.Vector&0xFF
	case Getc:
		word = WORD_GETC
	case Out:
		word = WORD_OUT
	case Puts:
		word = WORD_PUTS
	case In:
		word = WORD_IN
	case Putsp:
		word = WORD_PUTSP
	case Halt:
		word = WORD_HALT

	// RTI  |1000|000000000000|
	case Rti:
		word = OP_RTI << 12
	}

	e.emit(word)
}

// pcOffset computes the signed PC-relative displacement to a label. The
// program counter has already advanced past the current instruction when
// the offset is applied, so the base is address+1. Out-of-range offsets
// and unresolved labels yield zero so the word is still emitted and
// subsequent addresses stay exactly as the first pass computed them.
func (e *encoder) pcOffset(label string, bits uint, span Span) uint16 {
	target, ok := e.symbols.Lookup(label)

	if !ok {
		e.diags = append(e.diags, undefinedLabel(label, span))
		return 0
	}

	pc := e.address + 1
	offset := int32(target) - int32(pc)

	max := int32(1)<<(bits-1) - 1
	min := -(int32(1) << (bits - 1))

	if offset < min || offset > max {
		e.diags = append(e.diags, diagf(
			DIAG_OFFSET_RANGE, span,
			"PC offset %d to label '%s' exceeds %d-bit range [%d, %d]",
			offset, label, bits, min, max,
		))
		return 0
	}

	return encoding.Truncate(offset, bits)
}

func (e *encoder) emit(word uint16) {
	e.code = append(e.code, word)
	e.address++
}

// brMask packs the negative/zero/positive flags into bits 2/1/0.
func brMask(inst Br) uint16 {
	var mask uint16

	if inst.N {
		mask |= 0x4
	}
	if inst.Z {
		mask |= 0x2
	}
	if inst.P {
		mask |= 0x1
	}

	return mask
}

func undefinedLabel(label string, span Span) *Diagnostic {
	return diagf(
		DIAG_UNDEFINED_LABEL, span,
		"Undefined label '%s'", label,
	)
}
