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

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/codeg/transfer/codegtransfer/link"
	"github.com/codeg/transfer/codegtransfer/protocol"
	"github.com/codeg/transfer/codegtransfer/session"
	yaml "gopkg.in/yaml.v2"
)

// ConfigError reports an invalid or incomplete configuration
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "bad config: " + e.Reason
}

func badConfig(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Config represents configuration we expect to read from file and flags
type Config struct {
	Input       string        `yaml:"in"`          // file to transfer
	Port        string        `yaml:"port"`        // serial port name
	Model       string        `yaml:"model"`       // eeprom, flash or default
	Start       uint32        `yaml:"start"`       // first address and file offset
	VerifyOnly  bool          `yaml:"verify"`      // skip writing, only read back
	NoErase     bool          `yaml:"noerase"`     // skip flash sector erase
	BaudRate    int           `yaml:"baudrate"`    // serial speed
	Timeout     time.Duration `yaml:"timeout"`     // how long to wait for the device
	Layout      string        `yaml:"layout"`      // canonical or legacy
	ChunkSize   int           `yaml:"chunksize"`   // bytes per frame, at most 100
	MetricsFile string        `yaml:"metricsfile"` // where to write transfer counters
}

// Default returns the configuration used when nothing is specified
func Default() *Config {
	return &Config{
		Model:     "default",
		BaudRate:  link.DefaultBaudRate,
		Timeout:   session.DefaultTimeout,
		Layout:    protocol.Canonical.Name,
		ChunkSize: protocol.MaxChunkSize,
	}
}

// ReadConfig reads config and unmarshals it from yaml on top of the defaults
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// Validate makes sure config is complete and consistent
func (c *Config) Validate() error {
	if c.Input == "" {
		return badConfig("no input file")
	}
	if c.Port == "" {
		return badConfig("undefined port")
	}
	if _, err := protocol.ParseMemoryModel(c.Model); err != nil {
		return badConfig("%v", err)
	}
	if _, err := protocol.ParseLayout(c.Layout); err != nil {
		return badConfig("%v", err)
	}
	if c.BaudRate <= 0 {
		return badConfig("'baudrate' must be >0")
	}
	if c.Timeout <= 0 {
		return badConfig("'timeout' must be >0")
	}
	if c.ChunkSize <= 0 || c.ChunkSize > protocol.MaxChunkSize {
		return badConfig("'chunksize' must be between 1 and %d", protocol.MaxChunkSize)
	}
	return nil
}

// Session converts a validated config into session settings
func (c *Config) Session() (session.Config, error) {
	model, err := protocol.ParseMemoryModel(c.Model)
	if err != nil {
		return session.Config{}, badConfig("%v", err)
	}
	layout, err := protocol.ParseLayout(c.Layout)
	if err != nil {
		return session.Config{}, badConfig("%v", err)
	}
	return session.Config{
		Layout:       layout,
		Model:        model,
		StartAddress: c.Start,
		EnableWrite:  !c.VerifyOnly,
		EnableErase:  !c.NoErase,
		ChunkSize:    c.ChunkSize,
		Timeout:      c.Timeout,
	}, nil
}

// Link returns serial settings
func (c *Config) Link() link.Config {
	return link.Config{BaudRate: c.BaudRate}
}
