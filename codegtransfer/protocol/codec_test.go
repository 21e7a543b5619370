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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeByte(t *testing.T) {
	require.Equal(t, "000", EncodeByte(0))
	require.Equal(t, "007", EncodeByte(7))
	require.Equal(t, "042", EncodeByte(42))
	require.Equal(t, "100", EncodeByte(100))
	require.Equal(t, "255", EncodeByte(255))
}

func TestEncodeByteRoundTrip(t *testing.T) {
	for v := 0; v <= 255; v++ {
		s := EncodeByte(uint8(v))
		require.Len(t, s, ByteFieldWidth)
		got, err := DecodeFixed(s, ByteFieldWidth)
		require.NoError(t, err)
		require.Equal(t, uint32(v), got)
	}
}

func TestEncodeFixed8Digit(t *testing.T) {
	tests := []struct {
		in   uint32
		want string
	}{
		{0, "00000000"},
		{1, "00000001"},
		{100, "00000100"},
		{12345678, "12345678"},
		{99999999, "99999999"},
		{100000000, "00000000"},
		{123456789, "23456789"},
		{4294967295, "94967295"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, EncodeFixed8Digit(tt.in), "encoding %d", tt.in)
	}
}

func TestEncodeFixed8DigitTruncates(t *testing.T) {
	for _, v := range []uint32{100000000, 100000001, 250000042, 999999999, 1000000000, 4294967295} {
		require.Equal(t, EncodeFixed8Digit(v%100000000), EncodeFixed8Digit(v))
	}
}

func TestEncodeFixed8DigitRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 9, 10, 99, 4096, 65535, 1000000, 16777215, 50000000, 99999999} {
		got, err := DecodeFixed(EncodeFixed8Digit(v), AddressFieldWidth)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestDecodeFixedMalformed(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		width  int
		offset int
	}{
		{name: "letter", in: "0a1", width: 3, offset: 1},
		{name: "space", in: " 12", width: 3, offset: 0},
		{name: "sign", in: "-0000001", width: 8, offset: 0},
		{name: "trailing newline", in: "0000001\n", width: 8, offset: 7},
		{name: "too short", in: "12", width: 3, offset: -1},
		{name: "too long", in: "1234", width: 3, offset: -1},
		{name: "empty", in: "", width: 8, offset: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFixed(tt.in, tt.width)
			require.Error(t, err)
			var mf *MalformedFieldError
			require.True(t, errors.As(err, &mf))
			require.Equal(t, tt.offset, mf.Offset)
			require.Equal(t, tt.width, mf.Width)
		})
	}
}

func TestChecksum(t *testing.T) {
	require.Equal(t, uint8(0), Checksum(nil))
	require.Equal(t, uint8(0), Checksum([]byte{}))
	require.Equal(t, uint8(6), Checksum([]byte{1, 2, 3}))
	require.Equal(t, uint8(255), Checksum([]byte{255}))
	require.Equal(t, uint8(0), Checksum([]byte{255, 1}))
	require.Equal(t, uint8(254), Checksum([]byte{255, 255}))
}

func TestChecksumWrapsModulo256(t *testing.T) {
	data := make([]byte, MaxChunkSize)
	sum := 0
	for i := range data {
		data[i] = byte(i*37 + 11)
		sum += int(data[i])
	}
	require.Equal(t, uint8(sum%256), Checksum(data))
	// deterministic
	require.Equal(t, Checksum(data), Checksum(data))
}
