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

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codeg/transfer/codegtransfer/link"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addTransferFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := newConfig(parseFlags(t))
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Model)
	require.Equal(t, 9600, cfg.BaudRate)
	require.Equal(t, time.Second, cfg.Timeout)
	require.Equal(t, "canonical", cfg.Layout)
	require.Equal(t, 100, cfg.ChunkSize)
}

func TestNewConfigFlags(t *testing.T) {
	cfg, err := newConfig(parseFlags(t,
		"--in=image.bin", "--port=/dev/ttyUSB0", "--model=flash", "--start=4096",
		"--verify", "--noErase", "--baud=115200", "--timeout=2s", "--layout=legacy",
	))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, "image.bin", cfg.Input)
	require.Equal(t, "/dev/ttyUSB0", cfg.Port)
	require.Equal(t, "flash", cfg.Model)
	require.Equal(t, uint32(4096), cfg.Start)
	require.True(t, cfg.VerifyOnly)
	require.True(t, cfg.NoErase)
	require.Equal(t, 115200, cfg.BaudRate)
	require.Equal(t, 2*time.Second, cfg.Timeout)
	require.Equal(t, "legacy", cfg.Layout)
}

func TestNewConfigFlagsOverrideFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "transfer.yaml")
	require.NoError(t, os.WriteFile(p, []byte("in: a.bin\nport: COM1\nmodel: flash\nbaudrate: 19200\n"), 0o644))

	cfg, err := newConfig(parseFlags(t, "--config="+p, "--port=COM4"))
	require.NoError(t, err)
	require.Equal(t, "a.bin", cfg.Input)
	require.Equal(t, "COM4", cfg.Port)
	require.Equal(t, "flash", cfg.Model)
	require.Equal(t, 19200, cfg.BaudRate)
}

func TestNewConfigBadFile(t *testing.T) {
	_, err := newConfig(parseFlags(t, "--config="+filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}

func TestStartFlagNotNumber(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	addTransferFlags(fs)
	require.Error(t, fs.Parse([]string{"--start=abc"}))
	require.Error(t, fs.Parse([]string{"--start=-1"}))
}

func TestUnknownFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	addTransferFlags(fs)
	require.Error(t, fs.Parse([]string{"--output=foo"}))
}

func TestAsk(t *testing.T) {
	in := strings.NewReader("  firmware.bin \r\n/dev/ttyACM0\n")
	out := &bytes.Buffer{}
	input, port, err := ask(in, out, func() ([]link.PortInfo, error) {
		return []link.PortInfo{{Name: "/dev/ttyACM0", Description: "Arduino Uno", HardwareID: "USB VID:PID=2341:0043"}}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "firmware.bin", input)
	require.Equal(t, "/dev/ttyACM0", port)
	require.Contains(t, out.String(), "Please insert the input path of the file")
	require.Contains(t, out.String(), "Please insert the port name")
	require.Contains(t, out.String(), "/dev/ttyACM0")
	require.Less(t, strings.Index(out.String(), "input path"), strings.Index(out.String(), "Arduino Uno"))
}

func TestAskNoPorts(t *testing.T) {
	in := strings.NewReader("firmware.bin\nCOM3")
	input, port, err := ask(in, &bytes.Buffer{}, func() ([]link.PortInfo, error) {
		return nil, fmt.Errorf("no enumerator")
	})
	require.NoError(t, err)
	require.Equal(t, "firmware.bin", input)
	require.Equal(t, "COM3", port)
}

func TestAskEOF(t *testing.T) {
	_, _, err := ask(strings.NewReader("firmware.bin\n"), &bytes.Buffer{}, func() ([]link.PortInfo, error) {
		return nil, nil
	})
	require.Error(t, err)
}

func TestPrintPorts(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, printPorts(out, []link.PortInfo{
		{Name: "/dev/ttyUSB0", Description: "FT232R USB UART", HardwareID: "USB VID:PID=0403:6001"},
		{Name: "/dev/ttyS0", HardwareID: "n/a"},
	}))
	require.Contains(t, out.String(), "/dev/ttyUSB0")
	require.Contains(t, out.String(), "FT232R USB UART")
	require.Contains(t, out.String(), "/dev/ttyS0")
}

func TestVersionString(t *testing.T) {
	require.Equal(t, "codeGTransfer version 1.2", versionString())

	old := Version
	defer func() { Version = old }()
	Version = "not-a-version"
	require.Equal(t, "codeGTransfer version not-a-version", versionString())
}

func TestVersionFlag(t *testing.T) {
	out := &bytes.Buffer{}
	RootCmd.SetOut(out)
	RootCmd.SetArgs([]string{"--version"})
	defer func() {
		rootVersionFlag = false
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	}()
	require.NoError(t, RootCmd.Execute())
	require.Equal(t, "codeGTransfer version 1.2\n", out.String())
}
