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

package source

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// File represents the data to transfer
type File struct {
	filename string
	r        io.ReadSeeker
	closer   io.Closer
	size     int64
}

// Open is to open the input file and create structure
func Open(filename string) (*File, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open input file: %w", err)
	}

	stat, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("cannot get input file info: %w", err)
	}
	if stat.IsDir() {
		fd.Close()
		return nil, fmt.Errorf("cannot read input file %q: is a directory", filename)
	}
	return &File{
		filename: filename,
		r:        fd,
		closer:   fd,
		size:     stat.Size(),
	}, nil
}

// NewReader wraps data of known size that is not backed by a file
func NewReader(r io.ReadSeeker, size int64) *File {
	return &File{r: r, size: size}
}

// Name returns the file name, empty for readers
func (f *File) Name() string {
	return f.filename
}

// Size returns the size of the input
func (f *File) Size() int64 {
	return f.size
}

// Seek positions the next chunk at offset from the start
func (f *File) Seek(offset int64) error {
	if offset < 0 || offset > f.size {
		return fmt.Errorf("offset %d is outside of the %d byte input", offset, f.size)
	}
	_, err := f.r.Seek(offset, io.SeekStart)
	return err
}

// ReadChunk reads up to max bytes into a new buffer.
// It returns fewer bytes only at the end of the input and an empty chunk once it is exhausted.
func (f *File) ReadChunk(max int) ([]byte, error) {
	buf := make([]byte, max)
	n, err := io.ReadFull(f.r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return buf[:n], nil
	}
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Close is to close the input file
func (f *File) Close() {
	if f.closer != nil {
		f.closer.Close()
	}
}
