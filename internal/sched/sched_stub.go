//go:build !linux

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

package sched

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("sched: not supported on this platform")

// PinToCore is not supported on this platform
func PinToCore(pid, core int) error {
	return errUnsupported
}

// Affinity is not supported on this platform
func Affinity(pid int) ([]int, error) {
	return nil, errUnsupported
}

// SetRealtimePriority is not supported on this platform
func SetRealtimePriority(pid int, policy Policy, priority int) error {
	return errUnsupported
}

// CurrentPolicy is not supported on this platform
func CurrentPolicy(pid int) (Policy, error) {
	return 0, errUnsupported
}

// Sleep falls back to time.Sleep.
func Sleep(d time.Duration) {
	time.Sleep(d)
}
