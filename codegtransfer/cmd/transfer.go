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
	"fmt"
	"strings"

	"github.com/codeg/transfer/codegtransfer/config"
	"github.com/codeg/transfer/codegtransfer/link"
	"github.com/codeg/transfer/codegtransfer/protocol"
	"github.com/codeg/transfer/codegtransfer/session"
	"github.com/codeg/transfer/codegtransfer/source"
	"github.com/codeg/transfer/codegtransfer/stats"
	log "github.com/sirupsen/logrus"
)

func transfer(cfg *config.Config) error {
	fmt.Printf("%s Input file : %q\n", infoString, cfg.Input)
	fmt.Printf("%s Port name : %q\n", infoString, cfg.Port)

	sc, err := cfg.Session()
	if err != nil {
		return err
	}

	f, err := source.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Seek(int64(cfg.Start)); err != nil {
		return err
	}

	port, err := link.Open(cfg.Port, cfg.Link())
	if err != nil {
		return err
	}
	defer port.Close()

	st := stats.New()
	s, err := session.New(port, f, sc,
		session.WithRecorder(st),
		session.WithInfoHandler(func(info string) {
			fmt.Println(okString, "Device info:", strings.TrimSpace(info))
		}),
		session.WithProgress(func(p session.Progress) {
			progressLine("Verified %d/%d bytes (%d%%)", p.Address, p.Size, p.Percent)
		}),
	)
	if err != nil {
		return err
	}

	mode := "write and verify"
	if !sc.EnableWrite {
		mode = "verify only"
	}
	fmt.Printf("%s Transferring %d bytes from address %d to %s (%s, %s layout)\n",
		infoString, f.Size()-int64(cfg.Start), cfg.Start, sc.Model, mode, sc.Layout.Name)
	if sc.Model == protocol.FLASH && !sc.EnableErase {
		fmt.Println(warnString, "Sector erase disabled")
	}

	err = s.Run()
	progressDone()
	if cfg.MetricsFile != "" {
		if werr := st.WriteTextfile(cfg.MetricsFile); werr != nil {
			log.Errorf("failed to write metrics to %s: %v", cfg.MetricsFile, werr)
		}
	}
	if err != nil {
		return fmt.Errorf("transfer aborted at address %d in state %s: %w", s.Address(), s.State(), err)
	}

	sum := st.Summary()
	log.Infof("%d chunks, round trip mean %v, stddev %v", sum.Chunks, sum.MeanRTT, sum.StddevRTT)
	fmt.Println(okString, fmt.Sprintf("Transfer completed, %d bytes verified", sum.Bytes))
	return nil
}
