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
	"strings"
	"testing"
	"time"
)

// testSegmentName returns a name unique to this test run.
func testSegmentName(t *testing.T, base string) string {
	t.Helper()
	return fmt.Sprintf("%s-%s-%d", base, strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
}

// createTestSegment creates a segment and registers cleanup so it is always
// unlinked even if the test fails.
func createTestSegment(t *testing.T, base string, size int) *Segment {
	t.Helper()

	name := testSegmentName(t, base)
	RemoveSegment(name)

	seg, err := CreateSegment(name, size)
	if err != nil {
		t.Fatalf("CreateSegment(%q) failed: %v", name, err)
	}
	t.Cleanup(func() {
		seg.Close()
		RemoveSegment(name)
	})
	return seg
}

// openTestSegment maps seg a second time, as the peer process would.
func openTestSegment(t *testing.T, seg *Segment) *Segment {
	t.Helper()

	peer, err := OpenSegment(seg.Name, seg.Size())
	if err != nil {
		t.Fatalf("OpenSegment(%q) failed: %v", seg.Name, err)
	}
	t.Cleanup(func() { peer.Close() })
	return peer
}
