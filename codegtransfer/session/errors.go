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
	"errors"
	"fmt"
	"strings"
)

// Protocol failure kinds. Match them with errors.Is.
var (
	ErrHandshakeFailed       = errors.New("handshake failed")
	ErrNoInfoResponse        = errors.New("no info response")
	ErrModelRejected         = errors.New("memory model rejected")
	ErrEraseFailed           = errors.New("sector erase failed")
	ErrWriteRejected         = errors.New("write rejected")
	ErrReadbackShapeMismatch = errors.New("read-back response has unexpected length")
	ErrVerifyMismatch        = errors.New("read-back does not match written data")
)

// ErrLinkClosed is returned when the session is started on a link that is not open
var ErrLinkClosed = errors.New("link is not open")

// ProtocolError describes a fatal protocol exchange
type ProtocolError struct {
	Kind     error
	Command  string
	Response string
	// Expected and Actual hold lengths for shape mismatches and offsets for verify mismatches
	Expected int
	Actual   int
	Address  uint32
	Detail   string
	Err      error
}

func (e *ProtocolError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	fmt.Fprintf(&b, ": sent %q, received %q", e.Command, e.Response)
	switch {
	case errors.Is(e.Kind, ErrReadbackShapeMismatch):
		fmt.Fprintf(&b, ", expected %d bytes, got %d", e.Expected, e.Actual)
	case errors.Is(e.Kind, ErrVerifyMismatch):
		fmt.Fprintf(&b, ", address %d, first difference at offset %d", e.Address, e.Actual)
	}
	if e.Detail != "" {
		b.WriteString(", ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports whether target is the kind of this error
func (e *ProtocolError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause, if any
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IOError wraps a failure of the link or the file source
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *IOError) Unwrap() error {
	return e.Err
}

// kindName is a short label for a failure, used by recorders
func kindName(err error) string {
	switch {
	case errors.Is(err, ErrHandshakeFailed):
		return "handshake"
	case errors.Is(err, ErrNoInfoResponse):
		return "info"
	case errors.Is(err, ErrModelRejected):
		return "model"
	case errors.Is(err, ErrEraseFailed):
		return "erase"
	case errors.Is(err, ErrWriteRejected):
		return "write"
	case errors.Is(err, ErrReadbackShapeMismatch):
		return "readback_shape"
	case errors.Is(err, ErrVerifyMismatch):
		return "verify"
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return "io"
	}
	return "other"
}
