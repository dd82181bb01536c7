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

// FirstPassResult carries everything the encoder needs: the finalized
// symbol table, the resolved origin, the untouched line slice, and the
// structural diagnostics. The symbol table is read-only from here on.
type FirstPassResult struct {
	Symbols     *SymbolTable
	Lines       []SourceLine
	Origin      uint16
	Diagnostics []*Diagnostic
}

// FirstPass walks the parsed lines once, binding every label to an
// absolute address and validating program structure (.ORIG first and only
// once, .END present, no duplicate labels, no address-space overflow).
//
// Every problem is recorded as a diagnostic and recovered locally, so the
// pass always completes and always returns a usable partial symbol table.
func FirstPass(lines []SourceLine) *FirstPassResult {
	symbols := NewSymbolTable()

	var diags []*Diagnostic

	origin := DefaultOrigin

	// The counter is tracked in 32 bits so that a program ending exactly
	// at the top of memory sits at 0x10000 without wrapping to zero.
	counter := uint32(DefaultOrigin)

	state := STATE_AWAITING_ORIG

	for i := range lines {
		line := &lines[i]

		if state == STATE_AFTER_END {
			continue
		}

		if state == STATE_AWAITING_ORIG {
			switch content := line.Content.(type) {
			case Empty:
				if line.Label == "" {
					continue
				}

				// A labelled blank line is body content: it needs an
				// address, which needs an origin.
				diags = missingOrig(diags, line.Span)
				state = STATE_IN_BODY
				origin = DefaultOrigin
				counter = uint32(DefaultOrigin)

			case Orig:
				state = STATE_IN_BODY
				origin = content.Address
				counter = uint32(content.Address)

				if line.Label != "" {
					diags = bindLabel(symbols, line.Label, content.Address, line.Span, diags)
				}

				continue

			default:
				diags = missingOrig(diags, line.Span)
				state = STATE_IN_BODY
				origin = DefaultOrigin
				counter = uint32(DefaultOrigin)
			}
		}

		if line.Label != "" {
			diags = bindLabel(symbols, line.Label, clampAddress(counter), line.Span, diags)
		}

		switch content := line.Content.(type) {
		case Orig:
			diags = append(diags, diagf(
				DIAG_MULTIPLE_ORIG, line.Span,
				"Multiple .ORIG directives are not supported",
			))

		case End:
			state = STATE_AFTER_END

		case Blkw:
			if content.Count == 0 {
				diags = append(diags, diagf(
					DIAG_INVALID_BLKW_COUNT, line.Span,
					".BLKW count must be positive",
				))
			}
		}

		words := line.Content.WordCount()
		next := counter + words

		if next > uint32(MaxAddress)+1 {
			diags = append(diags, diagf(
				DIAG_ADDRESS_OVERFLOW, line.Span,
				"Address overflow: location counter would exceed 0xFFFF (at x%04X + %d words)",
				clampAddress(counter), words,
			))
			counter = uint32(MaxAddress)
		} else {
			counter = next
		}
	}

	fileStart := Span{Line: 1, Col: 1}

	if state == STATE_AWAITING_ORIG {
		diags = append(diags, diagf(
			DIAG_MISSING_ORIG, fileStart, "No .ORIG directive found",
		))
	}

	if state != STATE_AFTER_END {
		diags = append(diags, diagf(
			DIAG_MISSING_END, fileStart, "No .END directive found",
		))
	}

	return &FirstPassResult{
		Symbols:     symbols,
		Lines:       lines,
		Origin:      origin,
		Diagnostics: diags,
	}
}

// bindLabel records a label at the given address. On a duplicate the first
// binding wins and the diagnostic names it.
func bindLabel(
	symbols *SymbolTable,
	label string,
	address uint16,
	span Span,
	diags []*Diagnostic,
) []*Diagnostic {
	if first, exists := symbols.Lookup(label); exists {
		return append(diags, diagf(
			DIAG_DUPLICATE_LABEL, span,
			"Duplicate label '%s' (first defined at x%04X)", label, first,
		))
	}

	symbols.Bind(label, address)
	return diags
}

func missingOrig(diags []*Diagnostic, span Span) []*Diagnostic {
	return append(diags, diagf(
		DIAG_MISSING_ORIG, span,
		"Expected .ORIG before any instructions",
	))
}

func clampAddress(counter uint32) uint16 {
	if counter > uint32(MaxAddress) {
		return MaxAddress
	}

	return uint16(counter)
}
