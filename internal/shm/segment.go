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
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSegmentSize is large enough to host one Event control structure
// with room to spare.
const DefaultSegmentSize = 4096

// Segment represents a mapped shared memory segment.
type Segment struct {
	File *os.File // backing file, nil once closed
	Mem  []byte   // mapped region, len(Mem) is the segment size
	Name string   // well-known name shared by both processes
	Path string   // file path of the backing object

	// owner is set for the creating process, which unlinks on Close.
	owner bool
}

// Size returns the mapped size in bytes.
func (s *Segment) Size() int {
	return len(s.Mem)
}

// Owner reports whether this process created the segment.
func (s *Segment) Owner() bool {
	return s.owner
}

// Close unmaps the memory and closes the file. The owner also removes the
// name, so a later CreateSegment with the same name succeeds.
func (s *Segment) Close() error {
	var firstErr error

	if s.Mem != nil {
		if err := unmap(s.Mem); err != nil && firstErr == nil {
			firstErr = err
		}
		s.Mem = nil
	}

	if s.File != nil {
		if err := s.File.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.File = nil
	}

	if s.owner {
		if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) && firstErr == nil {
			firstErr = err
		}
		s.owner = false
	}

	return firstErr
}

// segmentPath returns the backing file path for name. /dev/shm is tmpfs on
// Linux; the temp dir is only a fallback for hosts without it.
func segmentPath(name string) string {
	if isDevShmAvailable() {
		return filepath.Join("/dev/shm", name)
	}
	return filepath.Join(os.TempDir(), name)
}

func isDevShmAvailable() bool {
	info, err := os.Stat("/dev/shm")
	if err != nil {
		return false
	}
	return info.IsDir()
}

func validateName(name string) error {
	if name == "" {
		return errors.New("empty segment name")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("segment name must not contain a path separator")
	}
	return nil
}

// RemoveSegment removes a segment's backing object, e.g. one left behind by
// a crashed run. Returns os.ErrNotExist if there is nothing to remove.
func RemoveSegment(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return os.Remove(segmentPath(name))
}

// SegmentExists reports whether a segment with the given name is bound.
func SegmentExists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	_, err := os.Stat(segmentPath(name))
	return err == nil
}
