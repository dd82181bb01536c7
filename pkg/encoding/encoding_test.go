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

package encoding_test

import (
	"testing"

	"lc3as/pkg/encoding"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		Input string
		Want  uint16
		Fails bool
	}{
		{Input: "0xFFFF", Want: 0xFFFF},
		{Input: "xFFFF", Want: 0xFFFF},
		{Input: "x3000", Want: 0x3000},
		{Input: "X10", Want: 0x10},
		{Input: "x0", Want: 0x0},
		{Input: "x10000", Fails: true},
		{Input: "3000", Fails: true},
		{Input: "xG", Fails: true},
	}

	for _, test := range tests {
		have, err := encoding.DecodeHex(test.Input)

		if test.Fails {
			if err == nil {
				t.Fatalf(
					"DecodeHex(%q) should have failed\n"+
						"have:%#04x",
					test.Input,
					have,
				)
			}
			continue
		}

		if err != nil {
			t.Fatal(err)
		}

		if have != test.Want {
			t.Fatalf(
				"DecodeHex(%q) mismatch\n"+
					"want:%#04x\n"+
					"have:%#04x",
				test.Input,
				test.Want,
				have,
			)
		}
	}
}

func TestDecodeBin(t *testing.T) {
	tests := []struct {
		Input string
		Want  uint16
		Fails bool
	}{
		{Input: "b101", Want: 0b101},
		{Input: "B1111111111111111", Want: 0xFFFF},
		{Input: "b0", Want: 0},
		{Input: "b10000000000000000", Fails: true},
		{Input: "101", Fails: true},
		{Input: "b", Fails: true},
	}

	for _, test := range tests {
		have, err := encoding.DecodeBin(test.Input)

		if test.Fails {
			if err == nil {
				t.Fatalf(
					"DecodeBin(%q) should have failed\n"+
						"have:%#04x",
					test.Input,
					have,
				)
			}
			continue
		}

		if err != nil {
			t.Fatal(err)
		}

		if have != test.Want {
			t.Fatalf(
				"DecodeBin(%q) mismatch\n"+
					"want:%#04x\n"+
					"have:%#04x",
				test.Input,
				test.Want,
				have,
			)
		}
	}
}

func TestDecodeInt(t *testing.T) {
	tests := []struct {
		Input string
		Want  int32
		Fails bool
	}{
		{Input: "#123", Want: 123},
		{Input: "#-45", Want: -45},
		{Input: "#+7", Want: 7},
		{Input: "123", Want: 123},
		{Input: "#65535", Want: 65535},
		{Input: "#-32768", Want: -32768},
		{Input: "#", Fails: true},
		{Input: "#abc", Fails: true},
	}

	for _, test := range tests {
		have, err := encoding.DecodeInt(test.Input)

		if test.Fails {
			if err == nil {
				t.Fatalf(
					"DecodeInt(%q) should have failed\n"+
						"have:%d",
					test.Input,
					have,
				)
			}
			continue
		}

		if err != nil {
			t.Fatal(err)
		}

		if have != test.Want {
			t.Fatalf(
				"DecodeInt(%q) mismatch\n"+
					"want:%d\n"+
					"have:%d",
				test.Input,
				test.Want,
				have,
			)
		}
	}
}

func TestSigned16(t *testing.T) {
	tests := []struct {
		Input uint16
		Want  int32
	}{
		{Input: 0x0000, Want: 0},
		{Input: 0x7FFF, Want: 32767},
		{Input: 0x8000, Want: -32768},
		{Input: 0xFFFF, Want: -1},
	}

	for _, test := range tests {
		if have := encoding.Signed16(test.Input); have != test.Want {
			t.Fatalf(
				"Signed16(%#04x) mismatch\n"+
					"want:%d\n"+
					"have:%d",
				test.Input,
				test.Want,
				have,
			)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		Value    int32
		Bitcount uint
		Want     uint16
	}{
		{Value: 0, Bitcount: 5, Want: 0b00000},
		{Value: 15, Bitcount: 5, Want: 0b01111},
		{Value: -1, Bitcount: 5, Want: 0b11111},
		{Value: -16, Bitcount: 5, Want: 0b10000},
		{Value: -6, Bitcount: 6, Want: 0b111010},
		{Value: 255, Bitcount: 9, Want: 0b011111111},
		{Value: -256, Bitcount: 9, Want: 0b100000000},
		{Value: -1, Bitcount: 11, Want: 0b11111111111},
	}

	for _, test := range tests {
		have := encoding.Truncate(test.Value, test.Bitcount)

		if have != test.Want {
			t.Fatalf(
				"Truncate(%d, %d) mismatch\n"+
					"want:%#04x\n"+
					"have:%#04x",
				test.Value,
				test.Bitcount,
				test.Want,
				have,
			)
		}
	}
}
