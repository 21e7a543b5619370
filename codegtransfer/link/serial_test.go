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

package link

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

// mockPort hands out pieces of its input, one piece per Read call
type mockPort struct {
	pieces  [][]byte
	written bytes.Buffer
	timeout time.Duration
	closed  bool
	maxW    int
	readErr error
}

func (p *mockPort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.pieces) == 0 {
		return 0, nil
	}
	n := copy(b, p.pieces[0])
	p.pieces[0] = p.pieces[0][n:]
	if len(p.pieces[0]) == 0 {
		p.pieces = p.pieces[1:]
	}
	return n, nil
}

func (p *mockPort) Write(b []byte) (int, error) {
	if p.maxW > 0 && len(b) > p.maxW {
		b = b[:p.maxW]
	}
	return p.written.Write(b)
}

func (p *mockPort) SetReadTimeout(t time.Duration) error {
	p.timeout = t
	return nil
}

func (p *mockPort) Close() error {
	p.closed = true
	return nil
}

func TestReadCollectsPieces(t *testing.T) {
	p := &mockPort{pieces: [][]byte{[]byte("HEL"), []byte("LO"), []byte("\n")}}
	s := &Serial{device: "test", port: p, open: true}

	b, err := s.Read(20, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "HELLO\n", string(b))
	require.Equal(t, 100*time.Millisecond, p.timeout)
}

func TestReadStopsAtMax(t *testing.T) {
	p := &mockPort{pieces: [][]byte{[]byte("0123456789")}}
	s := &Serial{device: "test", port: p, open: true}

	b, err := s.Read(4, time.Second)
	require.NoError(t, err)
	require.Equal(t, "0123", string(b))

	b, err = s.Read(20, time.Second)
	require.NoError(t, err)
	require.Equal(t, "456789", string(b))
}

func TestReadTimeoutEmpty(t *testing.T) {
	s := &Serial{device: "test", port: &mockPort{}, open: true}
	b, err := s.Read(20, time.Second)
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestReadError(t *testing.T) {
	s := &Serial{device: "test", port: &mockPort{readErr: fmt.Errorf("port gone")}, open: true}
	_, err := s.Read(20, time.Second)
	require.Error(t, err)
}

func TestWriteShortWrites(t *testing.T) {
	p := &mockPort{maxW: 2}
	s := &Serial{device: "test", port: p, open: true}
	require.NoError(t, s.Write([]byte("$R00000000100#")))
	require.Equal(t, "$R00000000100#", p.written.String())
}

func TestClose(t *testing.T) {
	p := &mockPort{}
	s := &Serial{device: "test", port: p, open: true}
	require.True(t, s.IsOpen())
	require.NoError(t, s.Close())
	require.False(t, s.IsOpen())
	require.True(t, p.closed)
	require.NoError(t, s.Close())
}

func TestPortInfos(t *testing.T) {
	infos := portInfos([]*enumerator.PortDetails{
		{Name: "/dev/ttyUSB1", IsUSB: true, VID: "0403", PID: "6001", SerialNumber: "A50285BI", Product: "FT232R USB UART"},
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043", Product: "Arduino Uno"},
	})
	require.Equal(t, []PortInfo{
		{Name: "/dev/ttyACM0", Description: "Arduino Uno", HardwareID: "USB VID:PID=2341:0043"},
		{Name: "/dev/ttyS0", Description: "", HardwareID: "n/a"},
		{Name: "/dev/ttyUSB1", Description: "FT232R USB UART", HardwareID: "USB VID:PID=0403:6001 SNR=A50285BI"},
	}, infos)
}
