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
	"sort"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes an available serial port
type PortInfo struct {
	Name        string
	Description string
	HardwareID  string
}

// ListPorts returns the serial ports present on the system, sorted by name
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	return portInfos(details), nil
}

func portInfos(details []*enumerator.PortDetails) []PortInfo {
	res := make([]PortInfo, 0, len(details))
	for _, d := range details {
		res = append(res, PortInfo{
			Name:        d.Name,
			Description: d.Product,
			HardwareID:  hardwareID(d),
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

func hardwareID(d *enumerator.PortDetails) string {
	if !d.IsUSB {
		return "n/a"
	}
	id := fmt.Sprintf("USB VID:PID=%s:%s", d.VID, d.PID)
	if d.SerialNumber != "" {
		id += " SNR=" + d.SerialNumber
	}
	return id
}
