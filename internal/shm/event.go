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
	"math"
	"sync/atomic"
	"time"
	"unsafe"
)

// Event layout constants
const (
	// EventMagic identifies an initialized event control structure.
	EventMagic = "SHMEVNT\x00"

	// EventVersion is the current control structure version.
	EventVersion = uint32(1)

	// EventHeaderSize is the size of the control structure placed at the
	// start of the region (aligned to 64 bytes).
	EventHeaderSize = 64

	flagManualReset = uint32(1) << 0
)

// Infinite makes Event.Wait block until the event is signaled. Any negative
// timeout behaves the same.
const Infinite time.Duration = -1

// EventState is the binary state of an Event.
type EventState uint32

const (
	Unsignaled EventState = 0
	Signaled   EventState = 1
)

func (s EventState) String() string {
	switch s {
	case Unsignaled:
		return "unsignaled"
	case Signaled:
		return "signaled"
	default:
		return fmt.Sprintf("EventState(%d)", uint32(s))
	}
}

// EventHeader is the control structure shared between processes.
type EventHeader struct {
	magic    [8]byte  // 0x00: "SHMEVNT\0"
	version  uint32   // 0x08: written last on init, read first on attach
	flags    uint32   // 0x0C: flagManualReset
	state    uint32   // 0x10: EventState, also the futex word
	waiters  uint32   // 0x14: threads currently inside Wait
	reserved [40]byte // 0x18-0x3F
}

// Event is an auto-reset (or manual-reset) binary signal whose state lives in
// shared memory. Set never blocks; Wait blocks the calling thread in the
// kernel until the event is signaled.
//
// An auto-reset event keeps at most one pending signal: a Set with no waiter
// stays pending until the next Wait consumes it, and a second Set before that
// Wait collapses into the first.
type Event struct {
	hdr         *EventHeader
	mem         []byte
	manualReset bool
}

// NewEvent initializes an Unsignaled event at the start of mem and returns it
// with the number of bytes its control structure occupies. Any previous state
// in the region is overwritten.
func NewEvent(mem []byte, manualReset bool) (*Event, int, error) {
	if len(mem) < EventHeaderSize {
		return nil, 0, &SetupError{Op: "init event", Err: fmt.Errorf("region too small: %d bytes, need %d", len(mem), EventHeaderSize)}
	}

	h := (*EventHeader)(unsafe.Pointer(&mem[0]))

	// Unpublish first so a concurrent attach cannot see a half-built header.
	atomic.StoreUint32(&h.version, 0)
	var flags uint32
	if manualReset {
		flags |= flagManualReset
	}
	copy(h.magic[:], EventMagic)
	atomic.StoreUint32(&h.flags, flags)
	atomic.StoreUint32(&h.state, uint32(Unsignaled))
	atomic.StoreUint32(&h.waiters, 0)
	atomic.StoreUint32(&h.version, EventVersion)

	return &Event{hdr: h, mem: mem, manualReset: manualReset}, EventHeaderSize, nil
}

// EventFromExisting attaches to an event previously initialized by NewEvent,
// possibly in another process, without touching its state.
func EventFromExisting(mem []byte) (*Event, int, error) {
	if len(mem) < EventHeaderSize {
		return nil, 0, &SetupError{Op: "attach event", Err: fmt.Errorf("region too small: %d bytes, need %d", len(mem), EventHeaderSize)}
	}

	h := (*EventHeader)(unsafe.Pointer(&mem[0]))

	version := atomic.LoadUint32(&h.version)
	if string(h.magic[:]) != EventMagic {
		return nil, 0, &SetupError{Op: "attach event", Err: errors.New("region does not contain an initialized event")}
	}
	if version != EventVersion {
		return nil, 0, &SetupError{Op: "attach event", Err: fmt.Errorf("unsupported version %d, expected %d", version, EventVersion)}
	}

	manualReset := atomic.LoadUint32(&h.flags)&flagManualReset != 0
	return &Event{hdr: h, mem: mem, manualReset: manualReset}, EventHeaderSize, nil
}

// ManualReset reports whether Wait leaves the event signaled.
func (e *Event) ManualReset() bool {
	return e.manualReset
}

// State returns the current state without consuming it.
func (e *Event) State() EventState {
	return EventState(atomic.LoadUint32(&e.hdr.state))
}

// Waiters returns the number of threads, in any process, inside Wait.
func (e *Event) Waiters() int {
	return int(atomic.LoadUint32(&e.hdr.waiters))
}

// Set moves the event to state. Signaled wakes one waiter (every waiter for
// a manual-reset event); Unsignaled clears a pending signal.
func (e *Event) Set(state EventState) error {
	h := e.hdr
	switch state {
	case Signaled:
		atomic.StoreUint32(&h.state, uint32(Signaled))
		// Paired with the increment in Wait: either we see the waiter or the
		// waiter sees the signal before it sleeps.
		if atomic.LoadUint32(&h.waiters) == 0 {
			return nil
		}
		n := 1
		if e.manualReset {
			n = math.MaxInt32
		}
		if _, err := futexWake(&h.state, n); err != nil {
			return err
		}
		return nil
	case Unsignaled:
		atomic.StoreUint32(&h.state, uint32(Unsignaled))
		return nil
	default:
		return fmt.Errorf("shm: invalid event state %d", uint32(state))
	}
}

// Wait blocks until the event is signaled and, for an auto-reset event,
// consumes the signal before returning. A timeout of Infinite (or any
// negative value) never expires; a zero timeout only polls. ErrTimeout is
// returned when a finite timeout elapses first.
func (e *Event) Wait(timeout time.Duration) error {
	if e.tryConsume() {
		return nil
	}
	if timeout == 0 {
		return ErrTimeout
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	h := e.hdr
	atomic.AddUint32(&h.waiters, 1)
	defer atomic.AddUint32(&h.waiters, ^uint32(0))

	for {
		if e.tryConsume() {
			return nil
		}

		timeoutNs := int64(-1)
		if timeout > 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return ErrTimeout
			}
			timeoutNs = int64(remaining)
		}

		if err := futexWait(&h.state, uint32(Unsignaled), timeoutNs); err != nil {
			if errors.Is(err, ErrTimeout) {
				// A Set may have landed between the timeout and now.
				if e.tryConsume() {
					return nil
				}
				return ErrTimeout
			}
			return err
		}
	}
}

func (e *Event) tryConsume() bool {
	if e.manualReset {
		return atomic.LoadUint32(&e.hdr.state) == uint32(Signaled)
	}
	return atomic.CompareAndSwapUint32(&e.hdr.state, uint32(Signaled), uint32(Unsignaled))
}
