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

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/codeg/transfer/codegtransfer/protocol"
	log "github.com/sirupsen/logrus"
)

// Maximum number of bytes read for each response
const (
	handshakeReadMax = 20
	infoReadMax      = 100
	modelReadMax     = 20
	eraseReadMax     = 40
	writeReadMax     = 20
	readbackReadMax  = 500
)

// Expected device answers
const (
	ansHello  = "HELLO\n"
	ansWrited = "WRITED\n"
	ansErased = "ERASED"
)

// DefaultTimeout is how long a read waits for the device
const DefaultTimeout = time.Second

// Source provides the file contents chunk by chunk
type Source interface {
	// ReadChunk returns up to max bytes, fewer only at the end of the data, none once exhausted
	ReadChunk(max int) ([]byte, error)
	Size() int64
}

// Recorder receives transfer events
type Recorder interface {
	FrameSent(cmd byte)
	ChunkVerified(n int, elapsed time.Duration)
	Failed(reason string)
}

type nopRecorder struct{}

func (nopRecorder) FrameSent(byte)                   {}
func (nopRecorder) ChunkVerified(int, time.Duration) {}
func (nopRecorder) Failed(string)                    {}

// Config is the per-run transfer configuration
type Config struct {
	Layout       protocol.Layout
	Model        protocol.MemoryModel
	StartAddress uint32
	EnableWrite  bool
	EnableErase  bool
	// ChunkSize defaults to protocol.MaxChunkSize
	ChunkSize int
	// Timeout defaults to DefaultTimeout
	Timeout time.Duration
}

// Progress is reported after each verified chunk
type Progress struct {
	Address uint32
	Size    int64
	Percent int
}

// Session drives one transfer over a link
type Session struct {
	link     Link
	src      Source
	cfg      Config
	state    State
	address  uint32
	info     string
	recorder Recorder
	onInfo   func(string)
	progress func(Progress)
}

// Option configures a Session
type Option func(*Session)

// WithRecorder sets a recorder for frames, chunks and failures
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithInfoHandler sets a function called with the device info text
func WithInfoHandler(f func(string)) Option {
	return func(s *Session) {
		s.onInfo = f
	}
}

// WithProgress sets a function called after every verified chunk
func WithProgress(f func(Progress)) Option {
	return func(s *Session) {
		s.progress = f
	}
}

// New validates the configuration and creates a Session
func New(link Link, src Source, cfg Config, opts ...Option) (*Session, error) {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = protocol.MaxChunkSize
	}
	if cfg.ChunkSize < 0 || cfg.ChunkSize > protocol.MaxChunkSize {
		return nil, fmt.Errorf("chunk size must be between 1 and %d, got %d", protocol.MaxChunkSize, cfg.ChunkSize)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Layout.Name == "" {
		cfg.Layout = protocol.Canonical
	}
	if cfg.erases() {
		if n := protocol.SectorCount(src.Size()); n > 255 {
			return nil, fmt.Errorf("file of %d bytes needs %d sectors, at most 255 can be erased", src.Size(), n)
		}
	}
	s := &Session{
		link:     link,
		src:      src,
		cfg:      cfg,
		state:    StateIdle,
		address:  cfg.StartAddress,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (c Config) erases() bool {
	return c.Layout.SectorErase && c.Model == protocol.FLASH && c.EnableErase
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Info returns the device info text received during the run
func (s *Session) Info() string {
	return s.info
}

// Address returns the next address to be transferred
func (s *Session) Address() uint32 {
	return s.address
}

// Run performs the whole transfer. Any error is fatal and leaves the session Aborted.
func (s *Session) Run() error {
	if !s.link.IsOpen() {
		return s.abort(&IOError{Op: "start session", Err: ErrLinkClosed})
	}
	steps := []struct {
		state State
		skip  bool
		run   func() error
	}{
		{StateHandshake, false, s.handshake},
		{StateInfo, false, s.queryInfo},
		{StateModelNegotiation, !s.cfg.Layout.NegotiateModel, s.negotiateModel},
		{StateErase, !s.cfg.erases(), s.erase},
		{StateChunkLoop, false, s.transfer},
	}
	for _, step := range steps {
		if step.skip {
			log.Debugf("skipping %s", step.state)
			continue
		}
		s.enter(step.state)
		if err := step.run(); err != nil {
			return s.abort(err)
		}
	}
	s.enter(StateDone)
	return nil
}

func (s *Session) enter(st State) {
	log.Debugf("state %s -> %s", s.state, st)
	s.state = st
}

func (s *Session) abort(err error) error {
	log.Debugf("state %s -> %s: %v", s.state, StateAborted, err)
	s.state = StateAborted
	s.recorder.Failed(kindName(err))
	return err
}

// exchange sends a frame and reads up to max bytes of response
func (s *Session) exchange(frame []byte, max int) (string, error) {
	log.Debugf("-> %q", frame)
	if err := s.link.Write(frame); err != nil {
		return "", &IOError{Op: fmt.Sprintf("write %q", frame[:2]), Err: err}
	}
	s.recorder.FrameSent(frame[1])
	resp, err := s.link.Read(max, s.cfg.Timeout)
	if err != nil {
		return "", &IOError{Op: fmt.Sprintf("read response to %q", frame[:2]), Err: err}
	}
	log.Debugf("<- %q", resp)
	return string(resp), nil
}

func (s *Session) handshake() error {
	frame := protocol.HandshakeFrame()
	resp, err := s.exchange(frame, handshakeReadMax)
	if err != nil {
		return err
	}
	if resp != ansHello {
		return &ProtocolError{Kind: ErrHandshakeFailed, Command: string(frame), Response: resp}
	}
	return nil
}

func (s *Session) queryInfo() error {
	frame := protocol.InfoFrame()
	resp, err := s.exchange(frame, infoReadMax)
	if err != nil {
		return err
	}
	if resp == "" {
		return &ProtocolError{Kind: ErrNoInfoResponse, Command: string(frame)}
	}
	s.info = resp
	if s.onInfo != nil {
		s.onInfo(resp)
	}
	return nil
}

func (s *Session) negotiateModel() error {
	frame := protocol.ModelFrame(s.cfg.Model)
	resp, err := s.exchange(frame, modelReadMax)
	if err != nil {
		return err
	}
	if len(resp) != 2 || resp[0] != s.cfg.Model.Digit() {
		return &ProtocolError{
			Kind:     ErrModelRejected,
			Command:  string(frame),
			Response: resp,
			Detail:   fmt.Sprintf("requested %s", s.cfg.Model),
		}
	}
	return nil
}

func (s *Session) erase() error {
	count := protocol.SectorCount(s.src.Size())
	frame := protocol.EraseFrame(0, uint8(count))
	log.Debugf("erasing %d sectors", count)
	resp, err := s.exchange(frame, eraseReadMax)
	if err != nil {
		return err
	}
	if !strings.Contains(resp, ansErased) {
		return &ProtocolError{Kind: ErrEraseFailed, Command: string(frame), Response: resp}
	}
	return nil
}

func (s *Session) transfer() error {
	for {
		chunk, err := s.src.ReadChunk(s.cfg.ChunkSize)
		if err != nil {
			return &IOError{Op: fmt.Sprintf("read file at %d", s.address), Err: err}
		}
		if len(chunk) == 0 {
			return nil
		}
		start := time.Now()
		if err := s.transferChunk(chunk); err != nil {
			return err
		}
		s.recorder.ChunkVerified(len(chunk), time.Since(start))
		s.address += uint32(len(chunk))
		s.reportProgress()
	}
}

func (s *Session) transferChunk(chunk []byte) error {
	checksum := protocol.Checksum(chunk)
	if s.cfg.EnableWrite {
		frame := protocol.WriteFrame(checksum, s.address, chunk)
		resp, err := s.exchange(frame, writeReadMax)
		if err != nil {
			return err
		}
		if resp != ansWrited {
			return &ProtocolError{Kind: ErrWriteRejected, Command: string(frame), Response: resp, Address: s.address}
		}
	}
	return s.verifyChunk(checksum, chunk)
}

func (s *Session) verifyChunk(checksum uint8, chunk []byte) error {
	layout := s.cfg.Layout
	frame := protocol.ReadFrame(s.address, uint8(len(chunk)))
	resp, err := s.exchange(frame, readbackReadMax)
	if err != nil {
		return err
	}
	expected := layout.ReadbackLen(len(chunk))
	if len(resp) != expected {
		return &ProtocolError{
			Kind:     ErrReadbackShapeMismatch,
			Command:  string(frame),
			Response: resp,
			Expected: expected,
			Actual:   len(resp),
			Address:  s.address,
		}
	}
	payload := layout.Payload(resp)
	ref := layout.Reference(checksum, s.address, chunk)
	if payload == ref {
		return nil
	}
	perr := &ProtocolError{
		Kind:     ErrVerifyMismatch,
		Command:  string(frame),
		Response: resp,
		Actual:   firstDifference(payload, ref),
		Address:  s.address,
	}
	gotChecksum, gotAddress, err := layout.EchoFields(payload)
	if err != nil {
		perr.Err = err
		return perr
	}
	perr.Detail = fmt.Sprintf("checksum %d (want %d)", gotChecksum, checksum)
	if layout.EchoAddress {
		perr.Detail += fmt.Sprintf(", echoed address %d", gotAddress)
	}
	return perr
}

func (s *Session) reportProgress() {
	p := Progress{Address: s.address, Size: s.src.Size(), Percent: 100}
	if p.Size > 0 {
		p.Percent = int(uint64(s.address) * 100 / uint64(p.Size))
	}
	log.Debugf("progress %d%% (%d/%d)", p.Percent, p.Address, p.Size)
	if s.progress != nil {
		s.progress(p)
	}
}

func firstDifference(a, b string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
}
