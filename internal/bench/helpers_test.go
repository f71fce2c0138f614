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
	"errors"
	"sync"
	"time"

	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

var errBroken = errors.New("channel broken")

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeClock advances only when told to, or when something sleeps on it.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptedPeer stands in for the responder: each Wait advances the clock by
// the next scripted round-trip latency.
type scriptedPeer struct {
	clock     *fakeClock
	latencies []time.Duration
	waits     int
	sets      int
	failWait  int // Wait number that fails, -1 for none
	failSet   int // Set number that fails, -1 for none
}

func newScriptedPeer(clock *fakeClock, latencies ...time.Duration) *scriptedPeer {
	return &scriptedPeer{clock: clock, latencies: latencies, failWait: -1, failSet: -1}
}

func (p *scriptedPeer) Set(state shm.EventState) error {
	if p.sets == p.failSet {
		return errBroken
	}
	p.sets++
	return nil
}

func (p *scriptedPeer) Wait(timeout time.Duration) error {
	if p.waits == p.failWait {
		return errBroken
	}
	if p.waits < len(p.latencies) {
		p.clock.advance(p.latencies[p.waits])
	}
	p.waits++
	return nil
}

func testConfig(iterations, rateHz int) Config {
	cfg := DefaultConfig()
	cfg.Iterations = iterations
	cfg.RateHz = rateHz
	return cfg
}
