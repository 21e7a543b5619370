/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package protocol

import "fmt"

const (
	// ByteFieldWidth is the number of digits used for byte-range values
	ByteFieldWidth = 3
	// AddressFieldWidth is the number of digits used for addresses
	AddressFieldWidth = 8
)

// MalformedFieldError is returned when a numeric field contains something other than digits
type MalformedFieldError struct {
	Field  string
	Offset int
	Width  int
}

func (e *MalformedFieldError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("malformed field %q: expected %d digits, got %d characters", e.Field, e.Width, len(e.Field))
	}
	return fmt.Sprintf("malformed field %q: non-digit %q at offset %d", e.Field, e.Field[e.Offset], e.Offset)
}

// EncodeByte encodes v as 3 zero-padded decimal digits
func EncodeByte(v uint8) string {
	b := [ByteFieldWidth]byte{
		'0' + v/100,
		'0' + (v/10)%10,
		'0' + v%10,
	}
	return string(b[:])
}

// EncodeFixed8Digit encodes v as 8 zero-padded decimal digits.
// Values of 10^8 and above lose their most significant digits.
func EncodeFixed8Digit(v uint32) string {
	var b [AddressFieldWidth]byte
	div := uint32(10000000)
	for i := range b {
		b[i] = '0' + byte((v/div)%10)
		div /= 10
	}
	return string(b[:])
}

// DecodeFixed parses a zero-padded decimal field of exactly width digits
func DecodeFixed(s string, width int) (uint32, error) {
	if len(s) != width {
		return 0, &MalformedFieldError{Field: s, Offset: -1, Width: width}
	}
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, &MalformedFieldError{Field: s, Offset: i, Width: width}
		}
		v = v*10 + uint32(c-'0')
	}
	return v, nil
}
