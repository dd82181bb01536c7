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

import "unicode/utf8"

// SourceLine is one parsed line of assembly: an optional label, the typed
// content, and position information for diagnostics. Lines are immutable
// once parsed; the resolver and encoder only read them.
type SourceLine struct {
	Label   string // empty if the line carries no label
	Content LineContent
	Number  int // 1-indexed source line
	Span    Span
}

// LineContent is the closed set of things a source line can hold: a
// directive, an instruction, or nothing. WordCount reports how many machine
// words the content occupies; both passes rely on it for address
// arithmetic, so it must agree with what the encoder actually emits.
type LineContent interface {
	WordCount() uint32
	content()
}

// Empty is a blank or comment-only line, or the remains of a line that
// failed to parse.
type Empty struct{}

// Orig is the .ORIG directive carrying the program origin address.
type Orig struct{ Address uint16 }

// End is the .END terminator directive.
type End struct{}

// FillImmediate is .FILL with a literal value.
type FillImmediate struct{ Value int32 }

// FillLabel is .FILL with a label reference.
type FillLabel struct{ Label string }

// Blkw is .BLKW, reserving Count zero words.
type Blkw struct{ Count uint16 }

// Stringz is .STRINGZ, a string followed by a zero terminator word.
type Stringz struct{ Value string }

func (Empty) WordCount() uint32         { return 0 }
func (Orig) WordCount() uint32          { return 0 }
func (End) WordCount() uint32           { return 0 }
func (FillImmediate) WordCount() uint32 { return 1 }
func (FillLabel) WordCount() uint32     { return 1 }
func (b Blkw) WordCount() uint32        { return uint32(b.Count) }
func (s Stringz) WordCount() uint32 {
	return uint32(utf8.RuneCountInString(s.Value)) + 1
}

func (Empty) content()         {}
func (Orig) content()          {}
func (End) content()           {}
func (FillImmediate) content() {}
func (FillLabel) content()     {}
func (Blkw) content()          {}
func (Stringz) content()       {}

// instruction provides the common LineContent behaviour for the
// single-word instruction variants below.
type instruction struct{}

func (instruction) WordCount() uint32 { return 1 }
func (instruction) content()          {}

// AddReg is ADD DR, SR1, SR2.
type AddReg struct {
	instruction
	DR, SR1, SR2 uint16
}

// AddImm is ADD DR, SR1, #imm5.
type AddImm struct {
	instruction
	DR, SR1 uint16
	Imm5    int16
}

// AndReg is AND DR, SR1, SR2.
type AndReg struct {
	instruction
	DR, SR1, SR2 uint16
}

// AndImm is AND DR, SR1, #imm5.
type AndImm struct {
	instruction
	DR, SR1 uint16
	Imm5    int16
}

// Not is NOT DR, SR.
type Not struct {
	instruction
	DR, SR uint16
}

// Ld is LD DR, LABEL (PC-relative load).
type Ld struct {
	instruction
	DR    uint16
	Label string
}

// Ldi is LDI DR, LABEL (indirect PC-relative load).
type Ldi struct {
	instruction
	DR    uint16
	Label string
}

// Lea is LEA DR, LABEL (load effective address).
type Lea struct {
	instruction
	DR    uint16
	Label string
}

// St is ST SR, LABEL (PC-relative store).
type St struct {
	instruction
	SR    uint16
	Label string
}

// Sti is STI SR, LABEL (indirect PC-relative store).
type Sti struct {
	instruction
	SR    uint16
	Label string
}

// Ldr is LDR DR, BaseR, #offset6.
type Ldr struct {
	instruction
	DR, Base uint16
	Offset6  int16
}

// Str is STR SR, BaseR, #offset6.
type Str struct {
	instruction
	SR, Base uint16
	Offset6  int16
}

// Br is a conditional branch; bare BR assembles as BRnzp.
type Br struct {
	instruction
	N, Z, P bool
	Label   string
}

// Jmp is JMP BaseR.
type Jmp struct {
	instruction
	Base uint16
}

// Ret is the return pseudo-op, identical to JMP R7.
type Ret struct{ instruction }

// Jsr is JSR LABEL (PC-relative subroutine call).
type Jsr struct {
	instruction
	Label string
}

// Jsrr is JSRR BaseR (subroutine call via register).
type Jsrr struct {
	instruction
	Base uint16
}

// Trap is TRAP with an 8-bit vector.
type Trap struct {
	instruction
	Vector uint16
}

// Getc is the TRAP x20 alias.
type Getc struct{ instruction }

// Out is the TRAP x21 alias.
type Out struct{ instruction }

// Puts is the TRAP x22 alias.
type Puts struct{ instruction }

// In is the TRAP x23 alias.
type In struct{ instruction }

// Putsp is the TRAP x24 alias.
type Putsp struct{ instruction }

// Halt is the TRAP x25 alias.
type Halt struct{ instruction }

// Rti is the return-from-interrupt instruction.
type Rti struct{ instruction }
