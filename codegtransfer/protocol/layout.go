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

import (
	"fmt"
	"strings"
)

// Layout describes a firmware generation's framing: which negotiation steps exist
// and how the read-back echo is shaped.
type Layout struct {
	Name string
	// NegotiateModel enables the "$M<d>#" exchange
	NegotiateModel bool
	// SectorErase enables the "$FES...#" exchange for flash
	SectorErase bool
	// EchoHeader is the number of characters preceding the echoed fields
	EchoHeader int
	// EchoTrailer is the number of characters following the echoed fields
	EchoTrailer int
	// EchoAddress is true when the read-back echo carries the 8-digit address
	EchoAddress bool
}

// Canonical is the current firmware layout with model negotiation and sector erase.
// Read-back responses are 18 + 3n characters long.
var Canonical = Layout{
	Name:           "canonical",
	NegotiateModel: true,
	SectorErase:    true,
	EchoHeader:     6,
	EchoTrailer:    1,
	EchoAddress:    true,
}

// Legacy is the early firmware layout without negotiation or erase.
// Read-back responses are 10 + 3n characters long.
var Legacy = Layout{
	Name:        "legacy",
	EchoHeader:  6,
	EchoTrailer: 1,
}

// ParseLayout returns the layout with the given name
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case Canonical.Name, "":
		return Canonical, nil
	case Legacy.Name:
		return Legacy, nil
	}
	return Layout{}, fmt.Errorf("unknown frame layout %q", name)
}

// echoFieldsLen is the length of the echoed checksum and address fields
func (l Layout) echoFieldsLen() int {
	n := ByteFieldWidth
	if l.EchoAddress {
		n += AddressFieldWidth
	}
	return n
}

// ReadbackLen is the exact response length expected for a read-back of n bytes
func (l Layout) ReadbackLen(n int) int {
	return l.EchoHeader + l.echoFieldsLen() + n*ByteFieldWidth + l.EchoTrailer
}

// Payload strips the echo header and trailer from a read-back response of valid length
func (l Layout) Payload(resp string) string {
	return resp[l.EchoHeader : len(resp)-l.EchoTrailer]
}

// Reference builds the string a correct read-back payload must equal
func (l Layout) Reference(checksum uint8, address uint32, chunk []byte) string {
	var b strings.Builder
	b.Grow(l.echoFieldsLen() + len(chunk)*ByteFieldWidth)
	b.WriteString(EncodeByte(checksum))
	if l.EchoAddress {
		b.WriteString(EncodeFixed8Digit(address))
	}
	b.WriteString(encodeChunk(chunk))
	return b.String()
}

// EchoFields decodes the checksum and, if present, the address at the start of a payload
func (l Layout) EchoFields(payload string) (checksum uint32, address uint32, err error) {
	if len(payload) < l.echoFieldsLen() {
		return 0, 0, &MalformedFieldError{Field: payload, Offset: -1, Width: l.echoFieldsLen()}
	}
	checksum, err = DecodeFixed(payload[:ByteFieldWidth], ByteFieldWidth)
	if err != nil {
		return 0, 0, err
	}
	if l.EchoAddress {
		address, err = DecodeFixed(payload[ByteFieldWidth:ByteFieldWidth+AddressFieldWidth], AddressFieldWidth)
		if err != nil {
			return 0, 0, err
		}
	}
	return checksum, address, nil
}
