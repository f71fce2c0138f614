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
)

var (
	// ErrTimeout is returned by Event.Wait when a finite timeout elapses
	// before the event is signaled.
	ErrTimeout = errors.New("shm: wait timed out")

	// ErrUnsupported is returned on platforms without shared futexes.
	ErrUnsupported = errors.New("shm: shared memory events not supported on this platform")
)

// SetupError reports a failed one-time setup step: creating or opening a
// segment, initializing or attaching an event, or launching a peer. It is
// never retried.
type SetupError struct {
	Op   string // e.g. "create segment", "attach event"
	Name string // segment name, if any
	Err  error
}

func (e *SetupError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("setup: %s %q: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("setup: %s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
