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

	"github.com/rs/zerolog"

	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

// Controller drives the benchmark: it signals the responder, waits for the
// acknowledgment, and paces each round to a fixed period.
type Controller struct {
	send       Event // controller -> responder
	recv       Event // responder -> controller
	iterations int
	period     time.Duration
	clock      Clock
	log        zerolog.Logger
}

// cycle is the timing of one completed round, carried into the next record.
type cycle struct {
	sleep    time.Duration
	duration time.Duration
	overruns int
}

// NewController returns a Controller that runs cfg.Iterations rounds at
// cfg.Period().
func NewController(send, recv Event, cfg Config, opts ...Option) *Controller {
	o := resolveOptions(opts)
	return &Controller{
		send:       send,
		recv:       recv,
		iterations: cfg.Iterations,
		period:     cfg.Period(),
		clock:      o.clock,
		log:        o.log,
	}
}

// AwaitReady blocks until the responder announces it has attached. Signals
// sent before that point would have nobody to consume them.
func (c *Controller) AwaitReady() error {
	if err := c.recv.Wait(shm.Infinite); err != nil {
		return fmt.Errorf("wait for responder ready: %w", err)
	}
	return nil
}

// Run performs every round and returns one record per round. On error no
// records are returned: a partial run is not a measurement.
func (c *Controller) Run() ([]ControllerRecord, error) {
	records := make([]ControllerRecord, 0, c.iterations)

	var prev cycle
	for i := 0; i < c.iterations; i++ {
		start := c.clock.Now()
		records = append(records, ControllerRecord{
			Index:       i,
			TimestampUS: start.UnixMicro(),
			SleepUS:     prev.sleep.Microseconds(),
			DurationUS:  prev.duration.Microseconds(),
			Overruns:    prev.overruns,
		})

		if err := c.send.Set(shm.Signaled); err != nil {
			return nil, fmt.Errorf("iteration %d: signal responder: %w", i, err)
		}
		if err := c.recv.Wait(shm.Infinite); err != nil {
			return nil, fmt.Errorf("iteration %d: wait for responder: %w", i, err)
		}

		// The last round has no successor to pace for.
		if i == c.iterations-1 {
			break
		}
		prev = c.pace(prev, c.clock.Now().Sub(start))
	}

	return records, nil
}

// pace sleeps out the rest of the period, or counts an overrun when the
// round already took longer.
func (c *Controller) pace(prev cycle, elapsed time.Duration) cycle {
	next := cycle{duration: elapsed, overruns: prev.overruns}
	if elapsed <= c.period {
		next.sleep = c.period - elapsed
		c.clock.Sleep(next.sleep)
		return next
	}

	next.overruns++
	c.log.Warn().
		Int64("duration_us", elapsed.Microseconds()).
		Int64("last_sleep_us", prev.sleep.Microseconds()).
		Int64("period_us", c.period.Microseconds()).
		Int("overruns", next.overruns).
		Msg("loop took longer than period")
	return next
}
