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

import "fmt"

type TokenKind uint
type DiagKind uint
type scanState uint

// Span locates a token or line in the source text. Line and Col are
// 1-indexed.
type Span struct {
	Line int
	Col  int
}

// Diagnostic is a recorded, non-fatal description of a structural or
// encoding problem. Passes accumulate diagnostics instead of aborting, so
// one run surfaces every problem in the input.
type Diagnostic struct {
	Kind    DiagKind
	Message string
	Span    Span
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf(
		"ERROR (line %d:%d): %s", d.Span.Line, d.Span.Col, d.Message,
	)
}

func diagf(kind DiagKind, span Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// Token is a single lexical token. Num, Reg, Str and the branch flags are
// populated according to Kind.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Span   Span

	Num     int32  // TOKEN_NUMBER: signed two's-complement value
	Reg     uint16 // TOKEN_REGISTER: 0-7
	Str     string // TOKEN_STRING: processed text, TOKEN_LABEL: normalized name
	N, Z, P bool   // TOKEN_BR: condition flags
}

// SymbolEntry is one label binding in declaration order.
type SymbolEntry struct {
	Name    string
	Address uint16
}

// SymbolTable maps labels to absolute addresses. Insertion order is
// preserved for human-readable dumps only; resolution goes through the map.
// The first binding of a label always wins.
type SymbolTable struct {
	names []string
	addrs map[string]uint16
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addrs: make(map[string]uint16)}
}

// Bind records label at address unless the label is already bound.
func (t *SymbolTable) Bind(label string, address uint16) {
	if _, exists := t.addrs[label]; exists {
		return
	}

	t.names = append(t.names, label)
	t.addrs[label] = address
}

func (t *SymbolTable) Lookup(label string) (uint16, bool) {
	addr, ok := t.addrs[label]
	return addr, ok
}

func (t *SymbolTable) Len() int {
	return len(t.names)
}

// Entries returns the bindings in declaration order.
func (t *SymbolTable) Entries() []SymbolEntry {
	entries := make([]SymbolEntry, 0, len(t.names))

	for _, name := range t.names {
		entries = append(entries, SymbolEntry{name, t.addrs[name]})
	}

	return entries
}
