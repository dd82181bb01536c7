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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

// Decodes a hexadecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a binary string in the formats: b1010, B1010
func DecodeBin(s string) (uint16, error) {
	if len(s) < 2 || (s[0] != 'b' && s[0] != 'B') {
		return 0, errors.New("invalid binary string")
	}

	result, err := strconv.ParseUint(s[1:], 2, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, #-45, 123
//
// The result is widened to int32 so that unsigned word values such as
// #65535 decode without overflow; callers apply their own range checks.
func DecodeInt(s string) (int32, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	return int32(result), nil
}

// Signed16 reinterprets a 16-bit word as a signed two's-complement value.
func Signed16(value uint16) int32 {
	return int32(int16(value))
}

// Truncate masks a signed value to its low bitcount bits, preserving the
// two's-complement representation of negative values.
func Truncate(value int32, bitcount uint) uint16 {
	return uint16(value) & ((1 << bitcount) - 1)
}
