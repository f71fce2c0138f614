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

package bench

import (
	"fmt"
	"time"

	"github.com/markrussinovich/shm-rtlatency/internal/sched"
	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

// Event is one direction of the request/reply channel. *shm.Event is the
// cross-process implementation.
type Event interface {
	Set(state shm.EventState) error
	Wait(timeout time.Duration) error
}

var (
	_ Event = (*shm.Event)(nil)
	_ Event = (*LocalEvent)(nil)
)

// LocalEvent is an in-process Event backed by a channel of capacity one, so
// it keeps the same single-pending-signal semantics as *shm.Event.
type LocalEvent struct {
	ch chan struct{}
}

// NewLocalEvent returns an Unsignaled LocalEvent.
func NewLocalEvent() *LocalEvent {
	return &LocalEvent{ch: make(chan struct{}, 1)}
}

func (e *LocalEvent) Set(state shm.EventState) error {
	switch state {
	case shm.Signaled:
		select {
		case e.ch <- struct{}{}:
		default:
		}
	case shm.Unsignaled:
		select {
		case <-e.ch:
		default:
		}
	default:
		return fmt.Errorf("bench: invalid event state %d", uint32(state))
	}
	return nil
}

func (e *LocalEvent) Wait(timeout time.Duration) error {
	switch {
	case timeout < 0:
		<-e.ch
		return nil
	case timeout == 0:
		select {
		case <-e.ch:
			return nil
		default:
			return shm.ErrTimeout
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-e.ch:
		return nil
	case <-t.C:
		return shm.ErrTimeout
	}
}

// Clock supplies time to the loops.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock reads the wall clock and sleeps with nanosleep.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { sched.Sleep(d) }
