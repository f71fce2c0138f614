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

	"github.com/rs/zerolog"

	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

// Responder acknowledges each controller signal as soon as it wakes.
type Responder struct {
	send       Event // responder -> controller
	recv       Event // controller -> responder
	iterations int
	clock      Clock
	log        zerolog.Logger
}

// NewResponder returns a Responder that answers cfg.Iterations signals.
func NewResponder(send, recv Event, cfg Config, opts ...Option) *Responder {
	o := resolveOptions(opts)
	return &Responder{
		send:       send,
		recv:       recv,
		iterations: cfg.Iterations,
		clock:      o.clock,
		log:        o.log,
	}
}

// Announce tells the controller the responder is attached.
func (r *Responder) Announce() error {
	if err := r.send.Set(shm.Signaled); err != nil {
		return fmt.Errorf("announce ready: %w", err)
	}
	return nil
}

// Run answers every round, recording when each signal arrived.
func (r *Responder) Run() ([]ResponderRecord, error) {
	records := make([]ResponderRecord, 0, r.iterations)

	for i := 0; i < r.iterations; i++ {
		if err := r.recv.Wait(shm.Infinite); err != nil {
			return nil, fmt.Errorf("iteration %d: wait for controller: %w", i, err)
		}

		records = append(records, ResponderRecord{
			Index:       i,
			TimestampUS: r.clock.Now().UnixMicro(),
		})

		if err := r.send.Set(shm.Signaled); err != nil {
			return nil, fmt.Errorf("iteration %d: signal controller: %w", i, err)
		}
	}

	r.log.Debug().Int("records", len(records)).Msg("responder loop finished")
	return records, nil
}
