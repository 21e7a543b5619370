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

package stats

import (
	"time"

	"github.com/eclesh/welford"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "codegtransfer"

// Stats collects transfer counters and chunk round-trip times
type Stats struct {
	registry *prometheus.Registry
	frames   *prometheus.CounterVec
	chunks   prometheus.Counter
	bytes    prometheus.Counter
	failures *prometheus.CounterVec
	rtt      *welford.Stats
	count    int
	total    int
}

// Summary is a snapshot of a finished transfer
type Summary struct {
	Chunks    int
	Bytes     int
	MeanRTT   time.Duration
	StddevRTT time.Duration
}

// New creates Stats with its own registry
func New() *Stats {
	s := &Stats{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames sent to the device by command",
		}, []string{"command"}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_verified_total",
			Help:      "Chunks read back and verified",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_verified_total",
			Help:      "File bytes read back and verified",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Transfers aborted by reason",
		}, []string{"reason"}),
		rtt: welford.New(),
	}
	s.registry.MustRegister(s.frames, s.chunks, s.bytes, s.failures)
	return s
}

// FrameSent counts a frame by its command tag
func (s *Stats) FrameSent(cmd byte) {
	s.frames.WithLabelValues(string(cmd)).Inc()
}

// ChunkVerified records a chunk of n bytes that took elapsed to write and verify
func (s *Stats) ChunkVerified(n int, elapsed time.Duration) {
	s.chunks.Inc()
	s.bytes.Add(float64(n))
	s.rtt.Add(float64(elapsed))
	s.count++
	s.total += n
}

// Failed counts an aborted transfer
func (s *Stats) Failed(reason string) {
	s.failures.WithLabelValues(reason).Inc()
}

// Summary returns totals and round-trip statistics
func (s *Stats) Summary() Summary {
	sum := Summary{Chunks: s.count, Bytes: s.total}
	if s.count > 0 {
		sum.MeanRTT = time.Duration(s.rtt.Mean())
	}
	if s.count > 1 {
		sum.StddevRTT = time.Duration(s.rtt.Stddev())
	}
	return sum
}

// Registry exposes the underlying prometheus registry
func (s *Stats) Registry() *prometheus.Registry {
	return s.registry
}

// WriteTextfile writes all metrics in text exposition format, suitable for the node exporter textfile collector
func (s *Stats) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, s.registry)
}
