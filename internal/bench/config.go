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
	"fmt"
	"time"

	"github.com/markrussinovich/shm-rtlatency/internal/sched"
	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

// Compiled-in benchmark parameters.
const (
	DefaultIterations       = 50_000
	DefaultRateHz           = 100
	DefaultRequestSegment   = "s_event_mapping"
	DefaultReplySegment     = "r_event_mapping"
	DefaultControllerCore   = 2
	DefaultResponderCore    = 3
	DefaultPriority         = 99
	DefaultStartupDelay     = time.Second
	DefaultResponderBinary  = "responder"
	DefaultControllerOutput = "times-parent.csv"
	DefaultResponderOutput  = "times-child.csv"
)

// Config groups the benchmark's fixed parameters. Both processes build the
// same value from DefaultConfig; nothing is read from flags, files or the
// environment.
type Config struct {
	Iterations  int
	SegmentSize int
	RateHz      int

	RequestSegment string // controller -> responder
	ReplySegment   string // responder -> controller

	ControllerCore int
	ResponderCore  int
	Policy         sched.Policy
	Priority       int

	// StartupDelay is how long the responder sleeps before attaching, so the
	// controller has created both segments.
	StartupDelay time.Duration

	// ResponderBinary is resolved next to the controller's executable
	// unless absolute.
	ResponderBinary string

	ControllerOutput string
	ResponderOutput  string
}

// DefaultConfig returns the configuration used by both binaries.
func DefaultConfig() Config {
	return Config{
		Iterations:       DefaultIterations,
		SegmentSize:      shm.DefaultSegmentSize,
		RateHz:           DefaultRateHz,
		RequestSegment:   DefaultRequestSegment,
		ReplySegment:     DefaultReplySegment,
		ControllerCore:   DefaultControllerCore,
		ResponderCore:    DefaultResponderCore,
		Policy:           sched.PolicyFIFO,
		Priority:         DefaultPriority,
		StartupDelay:     DefaultStartupDelay,
		ResponderBinary:  DefaultResponderBinary,
		ControllerOutput: DefaultControllerOutput,
		ResponderOutput:  DefaultResponderOutput,
	}
}

// Period is the target loop period, fixed for the whole run.
func (c Config) Period() time.Duration {
	return time.Second / time.Duration(c.RateHz)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if c.SegmentSize < shm.EventHeaderSize {
		errs = append(errs, fmt.Errorf("segment size %d cannot hold an event (%d bytes)", c.SegmentSize, shm.EventHeaderSize))
	}
	if c.RateHz <= 0 || time.Duration(c.RateHz) > time.Second {
		errs = append(errs, fmt.Errorf("rate %d Hz out of range", c.RateHz))
	}
	if c.RequestSegment == "" || c.ReplySegment == "" {
		errs = append(errs, errors.New("segment names must be set"))
	} else if c.RequestSegment == c.ReplySegment {
		errs = append(errs, fmt.Errorf("request and reply segments share the name %q", c.RequestSegment))
	}
	if c.ControllerCore < 0 || c.ResponderCore < 0 {
		errs = append(errs, fmt.Errorf("invalid cores %d/%d", c.ControllerCore, c.ResponderCore))
	}
	if !c.Policy.Realtime() {
		errs = append(errs, fmt.Errorf("policy %v is not a real-time policy", c.Policy))
	} else if c.Priority < sched.MinRealtimePriority || c.Priority > sched.MaxRealtimePriority {
		errs = append(errs, fmt.Errorf("priority %d out of range", c.Priority))
	}
	if c.StartupDelay < 0 {
		errs = append(errs, fmt.Errorf("negative startup delay %v", c.StartupDelay))
	}
	if c.ResponderBinary == "" {
		errs = append(errs, errors.New("responder binary must be set"))
	}
	if c.ControllerOutput == "" || c.ResponderOutput == "" {
		errs = append(errs, errors.New("output paths must be set"))
	}
	return errors.Join(errs...)
}
