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

// Result holds everything the full pipeline produced for one source file.
// MachineCode and Origin are meaningful even when Diagnostics is non-empty;
// callers decide whether a diagnosed program is still worth writing out.
type Result struct {
	MachineCode []uint16
	Origin      uint16
	Symbols     *SymbolTable
	Lines       []SourceLine
	Diagnostics []*Diagnostic
}

// Assemble runs the complete pipeline over LC-3 assembly source: lexing,
// parsing, symbol resolution, and encoding. Every stage runs to completion
// regardless of earlier diagnostics, so one invocation reports everything
// wrong with the input at once. Diagnostics are ordered by stage, each
// stage's in source order.
func Assemble(source string) *Result {
	tokens, diags := Tokenize(source)

	lines, parseDiags := Parse(tokens)
	diags = append(diags, parseDiags...)

	first := FirstPass(lines)
	diags = append(diags, first.Diagnostics...)

	encoded := Encode(first)
	diags = append(diags, encoded.Diagnostics...)

	return &Result{
		MachineCode: encoded.MachineCode,
		Origin:      encoded.Origin,
		Symbols:     first.Symbols,
		Lines:       lines,
		Diagnostics: diags,
	}
}
