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

// Frame delimiters
const (
	FrameStart byte = '$'
	FrameEnd   byte = '#'
)

// Command tags
const (
	CmdHandshake byte = 'H'
	CmdInfo      byte = 'I'
	CmdModel     byte = 'M'
	CmdErase     byte = 'F'
	CmdWrite     byte = 'W'
	CmdRead      byte = 'R'
)

// eraseSubcommand follows the 'F' tag in a sector erase frame
const eraseSubcommand = "ES"

// MaxChunkSize is the largest number of file bytes carried by one write frame
const MaxChunkSize = 100

// SectorSize is the flash erase granularity in bytes
const SectorSize = 4096

// MemoryModel is the kind of non-volatile memory being programmed
type MemoryModel uint8

// Supported memory models
const (
	EEPROM MemoryModel = 0
	FLASH  MemoryModel = 1
)

// Digit returns the ASCII digit used on the wire for the model
func (m MemoryModel) Digit() byte {
	return '0' + byte(m)
}

func (m MemoryModel) String() string {
	switch m {
	case EEPROM:
		return "eeprom"
	case FLASH:
		return "flash"
	}
	return fmt.Sprintf("MemoryModel(%d)", uint8(m))
}

// ParseMemoryModel converts a model name into MemoryModel.
// "default" selects EEPROM.
func ParseMemoryModel(name string) (MemoryModel, error) {
	switch strings.ToLower(name) {
	case "eeprom", "default", "":
		return EEPROM, nil
	case "flash":
		return FLASH, nil
	}
	return 0, fmt.Errorf("unknown memory model %q", name)
}

// frame assembles '$' + tag + fields + '#'
func frame(tag byte, fields ...string) []byte {
	n := 3
	for _, f := range fields {
		n += len(f)
	}
	b := make([]byte, 0, n)
	b = append(b, FrameStart, tag)
	for _, f := range fields {
		b = append(b, f...)
	}
	return append(b, FrameEnd)
}

// HandshakeFrame returns "$H#"
func HandshakeFrame() []byte {
	return frame(CmdHandshake)
}

// InfoFrame returns "$I#"
func InfoFrame() []byte {
	return frame(CmdInfo)
}

// ModelFrame returns "$M<digit>#"
func ModelFrame(m MemoryModel) []byte {
	return frame(CmdModel, string(m.Digit()))
}

// EraseFrame requests erase of count sectors starting at start
func EraseFrame(start, count uint8) []byte {
	return frame(CmdErase, eraseSubcommand, EncodeByte(start), EncodeByte(count))
}

// EraseFrameLen is the length of any erase frame
func EraseFrameLen() int {
	return 3 + len(eraseSubcommand) + 2*ByteFieldWidth
}

// SectorCount returns the number of sectors to erase for a file of size bytes
func SectorCount(size int64) int64 {
	return size/SectorSize + 1
}

// encodeChunk concatenates the 3-digit encoding of every byte
func encodeChunk(chunk []byte) string {
	var b strings.Builder
	b.Grow(len(chunk) * ByteFieldWidth)
	for _, c := range chunk {
		b.WriteString(EncodeByte(c))
	}
	return b.String()
}

// WriteFrame builds "$W" + checksum + address + data + "#"
func WriteFrame(checksum uint8, address uint32, chunk []byte) []byte {
	return frame(CmdWrite, EncodeByte(checksum), EncodeFixed8Digit(address), encodeChunk(chunk))
}

// WriteFrameLen is the length of a write frame carrying n bytes
func WriteFrameLen(n int) int {
	return 3 + ByteFieldWidth + AddressFieldWidth + n*ByteFieldWidth
}

// ReadFrame builds "$R" + address + length + "#"
func ReadFrame(address uint32, n uint8) []byte {
	return frame(CmdRead, EncodeFixed8Digit(address), EncodeByte(n))
}

// ReadFrameLen is the length of any read frame
func ReadFrameLen() int {
	return 3 + AddressFieldWidth + ByteFieldWidth
}
