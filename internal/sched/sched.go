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

// Package sched applies CPU affinity and real-time scheduling to a process
// before a timing loop starts.
//
// Both settings live in the kernel's process table, not in this program:
// they outlive the call that made them and are inherited by threads the
// target creates afterwards.
package sched

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Policy is a Linux scheduling policy.
type Policy int

// Values match the kernel's SCHED_* constants.
const (
	PolicyOther Policy = 0
	PolicyFIFO  Policy = 1
	PolicyRR    Policy = 2
)

func (p Policy) String() string {
	switch p {
	case PolicyOther:
		return "SCHED_OTHER"
	case PolicyFIFO:
		return "SCHED_FIFO"
	case PolicyRR:
		return "SCHED_RR"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Realtime reports whether p is a fixed-priority class.
func (p Policy) Realtime() bool {
	return p == PolicyFIFO || p == PolicyRR
}

// Priority bounds for the real-time classes.
const (
	MinRealtimePriority = 1
	MaxRealtimePriority = 99
)

// Self is the pid that refers to the calling process.
const Self = 0

// Assignment pins a process to one core and requests a real-time class for
// it. It is applied once and not retained.
type Assignment struct {
	PID      int // Self for the calling process
	Core     int
	Policy   Policy
	Priority int
}

// Apply pins a.PID to a.Core, then requests a.Policy at a.Priority.
//
// A pin failure is returned: measurements taken without the intended
// affinity are meaningless. A priority failure (usually EPERM without
// CAP_SYS_NICE) is logged as a warning and Apply returns nil, leaving the
// process under the default class.
func Apply(log zerolog.Logger, a Assignment) error {
	if err := PinToCore(a.PID, a.Core); err != nil {
		return fmt.Errorf("pin pid %d to core %d: %w", a.PID, a.Core, err)
	}
	log.Info().Int("pid", a.PID).Int("core", a.Core).Msg("pinned to core")

	if err := SetRealtimePriority(a.PID, a.Policy, a.Priority); err != nil {
		log.Warn().Err(err).
			Int("pid", a.PID).
			Stringer("policy", a.Policy).
			Int("priority", a.Priority).
			Msg("failed to set scheduler, continuing under default policy")
		return nil
	}
	log.Info().Int("pid", a.PID).Stringer("policy", a.Policy).Int("priority", a.Priority).Msg("scheduler set")
	return nil
}

func validatePriority(policy Policy, priority int) error {
	if !policy.Realtime() {
		if priority != 0 {
			return fmt.Errorf("priority %d requires a real-time policy, got %v", priority, policy)
		}
		return nil
	}
	if priority < MinRealtimePriority || priority > MaxRealtimePriority {
		return fmt.Errorf("priority %d out of range [%d, %d]", priority, MinRealtimePriority, MaxRealtimePriority)
	}
	return nil
}
