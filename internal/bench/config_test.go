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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/markrussinovich/shm-rtlatency/internal/sched"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 50_000, cfg.Iterations)
	assert.Equal(t, 4096, cfg.SegmentSize)
	assert.Equal(t, "s_event_mapping", cfg.RequestSegment)
	assert.Equal(t, "r_event_mapping", cfg.ReplySegment)
	assert.Equal(t, 2, cfg.ControllerCore)
	assert.Equal(t, 3, cfg.ResponderCore)
	assert.Equal(t, sched.PolicyFIFO, cfg.Policy)
	assert.Equal(t, 99, cfg.Priority)
	assert.Equal(t, 10*time.Millisecond, cfg.Period())
	assert.Equal(t, "times-parent.csv", cfg.ControllerOutput)
	assert.Equal(t, "times-child.csv", cfg.ResponderOutput)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ZeroIterations", func(c *Config) { c.Iterations = 0 }},
		{"SegmentTooSmall", func(c *Config) { c.SegmentSize = 16 }},
		{"ZeroRate", func(c *Config) { c.RateHz = 0 }},
		{"RateAboveNanosecond", func(c *Config) { c.RateHz = 2_000_000_000 }},
		{"EmptySegmentName", func(c *Config) { c.ReplySegment = "" }},
		{"SameSegmentNames", func(c *Config) { c.ReplySegment = c.RequestSegment }},
		{"NegativeCore", func(c *Config) { c.ResponderCore = -1 }},
		{"NonRealtimePolicy", func(c *Config) { c.Policy = sched.PolicyOther }},
		{"PriorityTooHigh", func(c *Config) { c.Priority = 100 }},
		{"NegativeDelay", func(c *Config) { c.StartupDelay = -time.Second }},
		{"NoResponderBinary", func(c *Config) { c.ResponderBinary = "" }},
		{"NoOutput", func(c *Config) { c.ResponderOutput = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = -1
	cfg.RateHz = 0
	err := cfg.Validate()
	assert.ErrorContains(t, err, "iterations")
	assert.ErrorContains(t, err, "rate")
}
