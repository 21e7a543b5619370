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
	"github.com/codeg/transfer/codegtransfer/config"
	"github.com/codeg/transfer/codegtransfer/link"
	"github.com/codeg/transfer/codegtransfer/protocol"
	"github.com/codeg/transfer/codegtransfer/session"
	"github.com/spf13/pflag"
)

// addTransferFlags registers everything that ends up in config.Config
func addTransferFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML file with transfer settings, flags take precedence")
	fs.String("in", "", "input file to be transferred")
	fs.String("port", "", "serial port name")
	fs.String("model", "default", "memory model: eeprom, flash or default")
	fs.Uint32("start", 0, "start address, also the offset in the input file")
	fs.Bool("verify", false, "do not write, only read back and compare")
	fs.Bool("noErase", false, "do not erase flash sectors before writing")
	fs.Int("baud", link.DefaultBaudRate, "serial baud rate")
	fs.Duration("timeout", session.DefaultTimeout, "how long to wait for the device to answer")
	fs.String("layout", protocol.Canonical.Name, "frame layout: canonical or legacy")
	fs.String("metricsFile", "", "write transfer counters to this file in prometheus text format")
}

// newConfig reads the config file, if any, and applies explicitly set flags on top
func newConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	path, err := fs.GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		if cfg, err = config.ReadConfig(path); err != nil {
			return nil, err
		}
	}

	var errs []error
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			v, err := fs.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if fs.Changed(name) {
			v, err := fs.GetBool(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	str("in", &cfg.Input)
	str("port", &cfg.Port)
	str("model", &cfg.Model)
	str("layout", &cfg.Layout)
	str("metricsFile", &cfg.MetricsFile)
	boolean("verify", &cfg.VerifyOnly)
	boolean("noErase", &cfg.NoErase)
	if fs.Changed("start") {
		v, err := fs.GetUint32("start")
		errs = append(errs, err)
		cfg.Start = v
	}
	if fs.Changed("baud") {
		v, err := fs.GetInt("baud")
		errs = append(errs, err)
		cfg.BaudRate = v
	}
	if fs.Changed("timeout") {
		v, err := fs.GetDuration("timeout")
		errs = append(errs, err)
		cfg.Timeout = v
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
