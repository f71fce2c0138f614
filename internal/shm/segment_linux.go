//go:build linux

/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CreateSegment creates and maps a new segment of exactly size bytes. It
// fails if the name is already bound: a stale segment from an earlier run
// must be removed explicitly.
func CreateSegment(name string, size int) (*Segment, error) {
	if err := validateName(name); err != nil {
		return nil, &SetupError{Op: "create segment", Name: name, Err: err}
	}
	if size <= 0 {
		return nil, &SetupError{Op: "create segment", Name: name, Err: fmt.Errorf("invalid size %d", size)}
	}

	path := segmentPath(name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, &SetupError{Op: "create segment", Name: name, Err: err}
	}

	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := file.Truncate(int64(size)); err != nil {
		cleanup()
		return nil, &SetupError{Op: "create segment", Name: name, Err: fmt.Errorf("resize: %w", err)}
	}

	mem, err := mmapFile(file, size)
	if err != nil {
		cleanup()
		return nil, &SetupError{Op: "create segment", Name: name, Err: err}
	}

	return &Segment{
		File:  file,
		Mem:   mem,
		Name:  name,
		Path:  path,
		owner: true,
	}, nil
}

// OpenSegment maps an existing segment. Both processes must agree on size;
// a mismatch is a setup error rather than something to adapt to.
func OpenSegment(name string, size int) (*Segment, error) {
	if err := validateName(name); err != nil {
		return nil, &SetupError{Op: "open segment", Name: name, Err: err}
	}

	path := segmentPath(name)

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &SetupError{Op: "open segment", Name: name, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &SetupError{Op: "open segment", Name: name, Err: fmt.Errorf("stat: %w", err)}
	}
	if info.Size() != int64(size) {
		file.Close()
		return nil, &SetupError{Op: "open segment", Name: name, Err: fmt.Errorf("size mismatch: got %d bytes, want %d", info.Size(), size)}
	}

	mem, err := mmapFile(file, size)
	if err != nil {
		file.Close()
		return nil, &SetupError{Op: "open segment", Name: name, Err: err}
	}

	return &Segment{
		File: file,
		Mem:  mem,
		Name: name,
		Path: path,
	}, nil
}

func mmapFile(file *os.File, size int) ([]byte, error) {
	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return data, nil
}

func unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap failed: %w", err)
	}
	return nil
}
