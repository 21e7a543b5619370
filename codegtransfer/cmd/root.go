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
	"errors"
	"fmt"
	"os"

	"github.com/codeg/transfer/codegtransfer/link"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// exitFailure is returned to the shell on any error
const exitFailure = -1

var errNoArguments = errors.New("no arguments given")

// RootCmd is a main entry point
var RootCmd = &cobra.Command{
	Use:           "codegtransfer",
	Short:         "transfer a file to a microcontroller EEPROM or flash over a serial port",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// flags
var (
	rootVerboseFlag   bool
	rootShowPortsFlag bool
	rootVersionFlag   bool
	rootAskFlag       bool
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.Flags().BoolVar(&rootShowPortsFlag, "showPorts", false, "print all the available ports (and do nothing else)")
	RootCmd.Flags().BoolVar(&rootVersionFlag, "version", false, "print the version (and do nothing else)")
	RootCmd.Flags().BoolVar(&rootAskFlag, "ask", false, "ask for the input file and the port interactively")
	addTransferFlags(RootCmd.Flags())
}

// ConfigureVerbosity configures log verbosity based on parsed flags
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	ConfigureVerbosity()
	if cmd.Flags().NFlag() == 0 {
		if err := cmd.Help(); err != nil {
			return err
		}
		return errNoArguments
	}
	if rootVersionFlag {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
		return nil
	}
	if rootShowPortsFlag {
		ports, err := link.ListPorts()
		if err != nil {
			return err
		}
		return printPorts(cmd.OutOrStdout(), ports)
	}

	cfg, err := newConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if rootAskFlag {
		input, port, err := ask(cmd.InOrStdin(), cmd.OutOrStdout(), link.ListPorts)
		if err != nil {
			return err
		}
		cfg.Input, cfg.Port = input, port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return transfer(cfg)
}

// Execute is the main entry point for CLI interface
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoArguments) {
			fmt.Println(failString, err)
		}
		os.Exit(exitFailure)
	}
}
