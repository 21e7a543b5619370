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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codeg/transfer/codegtransfer/link"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var okString = color.GreenString("[OK]")
var infoString = color.GreenString("[INFO]")
var warnString = color.YellowString("[WARN]")
var failString = color.RedString("[FAIL]")

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func progressLine(format string, args ...interface{}) {
	if !isTerminal() {
		return
	}
	fmt.Printf("\u001b[1000D")
	fmt.Printf(format, args...)
}

func progressDone() {
	if isTerminal() {
		fmt.Println()
	}
}

// printPorts renders available ports as a table
func printPorts(w io.Writer, ports []link.PortInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header("Port", "Description", "Hardware ID")
	for _, p := range ports {
		if err := table.Append([]string{p.Name, p.Description, p.HardwareID}); err != nil {
			return err
		}
	}
	return table.Render()
}

func readAnswer(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ask prompts for the input file, shows the ports and prompts for the port name
func ask(in io.Reader, out io.Writer, listPorts func() ([]link.PortInfo, error)) (string, string, error) {
	r := bufio.NewReader(in)
	fmt.Fprint(out, "Please insert the input path of the file\n> ")
	input, err := readAnswer(r)
	if err != nil {
		return "", "", err
	}

	ports, err := listPorts()
	if err != nil {
		log.Warningf("cannot list ports: %v", err)
	} else if err := printPorts(out, ports); err != nil {
		return "", "", err
	}

	fmt.Fprint(out, "Please insert the port name\n> ")
	port, err := readAnswer(r)
	if err != nil {
		return "", "", err
	}
	return input, port, nil
}
