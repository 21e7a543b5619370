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
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// DefaultBaudRate matches the firmware's UART setup
const DefaultBaudRate = 9600

// Config holds serial port settings
type Config struct {
	BaudRate int
}

// port is the subset of serial.Port we use
type port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Serial is a device connected to a serial port
type Serial struct {
	device string
	port   port
	open   bool
}

// Open opens the serial port in 8N1 mode without flow control
func Open(device string, cfg Config) (*Serial, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("cannot open port %q: %w", device, err)
	}
	log.Debugf("opened %s at %d baud", device, cfg.BaudRate)
	return &Serial{device: device, port: p, open: true}, nil
}

// Name returns the device the port was opened on
func (s *Serial) Name() string {
	return s.device
}

// IsOpen is true until Close is called
func (s *Serial) IsOpen() bool {
	return s.open && s.port != nil
}

// Close is to close serial port
func (s *Serial) Close() error {
	if !s.IsOpen() {
		return nil
	}
	s.open = false
	return s.port.Close()
}

// Write sends all of b
func (s *Serial) Write(b []byte) error {
	for len(b) > 0 {
		n, err := s.port.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("short write to %s", s.device)
		}
		b = b[n:]
	}
	return nil
}

// Read collects up to max bytes. It returns early once no byte arrives within timeout,
// so the result may be shorter than max or empty.
func (s *Serial) Read(max int, timeout time.Duration) ([]byte, error) {
	if err := s.port.SetReadTimeout(timeout); err != nil {
		return nil, err
	}
	buff := make([]byte, max)
	var r int
	for r < max {
		n, err := s.port.Read(buff[r:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		r += n
	}
	return buff[:r], nil
}
