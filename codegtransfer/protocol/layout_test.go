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

func TestReadbackLen(t *testing.T) {
	for _, n := range []int{0, 1, 10, MaxChunkSize} {
		require.Equal(t, 18+3*n, Canonical.ReadbackLen(n))
		require.Equal(t, 10+3*n, Legacy.ReadbackLen(n))
	}
}

func TestReference(t *testing.T) {
	chunk := []byte{0, 255, 16}
	cs := Checksum(chunk)
	require.Equal(t, "015"+"00000042"+"000255016", Canonical.Reference(cs, 42, chunk))
	require.Equal(t, "015"+"000255016", Legacy.Reference(cs, 42, chunk))

	resp := "READ: " + Canonical.Reference(cs, 42, chunk) + "\n"
	require.Len(t, resp, Canonical.ReadbackLen(len(chunk)))
	require.Equal(t, Canonical.Reference(cs, 42, chunk), Canonical.Payload(resp))
}

func TestEchoFields(t *testing.T) {
	cs, addr, err := Canonical.EchoFields("01500000042000255016")
	require.NoError(t, err)
	require.Equal(t, uint32(15), cs)
	require.Equal(t, uint32(42), addr)

	cs, addr, err = Legacy.EchoFields("015000255016")
	require.NoError(t, err)
	require.Equal(t, uint32(15), cs)
	require.Equal(t, uint32(0), addr)

	_, _, err = Canonical.EchoFields("01x00000042")
	var mf *MalformedFieldError
	require.True(t, errors.As(err, &mf))

	_, _, err = Canonical.EchoFields("01")
	require.True(t, errors.As(err, &mf))
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("")
	require.NoError(t, err)
	require.Equal(t, Canonical, l)

	l, err = ParseLayout("Legacy")
	require.NoError(t, err)
	require.Equal(t, Legacy, l)

	_, err = ParseLayout("v3")
	require.Error(t, err)
}
