//go:build linux

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
	"fmt"
	"os"
	"strconv"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// schedParam mirrors struct sched_param.
type schedParam struct {
	Priority int32
}

// PinToCore restricts every thread of pid to core.
func PinToCore(pid, core int) error {
	if core < 0 {
		return fmt.Errorf("invalid core %d", core)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(core)

	return forEachThread(pid, func(tid int) error {
		if err := unix.SchedSetaffinity(tid, &set); err != nil {
			return fmt.Errorf("sched_setaffinity(%d): %w", tid, err)
		}
		return nil
	})
}

// Affinity returns the cores pid's main thread may run on.
func Affinity(pid int) ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(pid, &set); err != nil {
		return nil, fmt.Errorf("sched_getaffinity(%d): %w", pid, err)
	}
	var cores []int
	for cpu, seen := 0, 0; seen < set.Count(); cpu++ {
		if set.IsSet(cpu) {
			cores = append(cores, cpu)
			seen++
		}
	}
	return cores, nil
}

// SetRealtimePriority moves every thread of pid to policy at priority.
func SetRealtimePriority(pid int, policy Policy, priority int) error {
	if err := validatePriority(policy, priority); err != nil {
		return err
	}

	param := schedParam{Priority: int32(priority)}
	return forEachThread(pid, func(tid int) error {
		_, _, errno := unix.RawSyscall(
			unix.SYS_SCHED_SETSCHEDULER,
			uintptr(tid),
			uintptr(policy),
			uintptr(unsafe.Pointer(&param)),
		)
		if errno != 0 {
			return fmt.Errorf("sched_setscheduler(%d, %v, %d): %w", tid, policy, priority, errno)
		}
		return nil
	})
}

// CurrentPolicy returns the scheduling policy of pid's main thread.
func CurrentPolicy(pid int) (Policy, error) {
	r1, _, errno := unix.RawSyscall(unix.SYS_SCHED_GETSCHEDULER, uintptr(pid), 0, 0)
	if errno != 0 {
		return 0, fmt.Errorf("sched_getscheduler(%d): %w", pid, errno)
	}
	return Policy(r1), nil
}

// forEachThread calls fn for every thread of pid listed under /proc. Threads
// that exit mid-walk are skipped. Without /proc only pid itself is visited,
// which on Linux affects just its main thread.
func forEachThread(pid int, fn func(tid int) error) error {
	dir := "/proc/self/task"
	if pid != Self {
		dir = "/proc/" + strconv.Itoa(pid) + "/task"
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fn(pid)
	}

	visited := 0
	for _, entry := range entries {
		tid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if err := fn(tid); err != nil {
			if errors.Is(err, unix.ESRCH) {
				continue
			}
			return err
		}
		visited++
	}
	if visited == 0 {
		return fmt.Errorf("no live threads for pid %d", pid)
	}
	return nil
}

// Sleep suspends the calling thread in nanosleep for d, resuming after
// signal interruptions. Unlike time.Sleep the thread itself blocks, which
// keeps a locked real-time thread off the runtime's timer path.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	ts := unix.NsecToTimespec(int64(d))
	for {
		var rem unix.Timespec
		if err := unix.Nanosleep(&ts, &rem); !errors.Is(err, unix.EINTR) {
			return
		}
		ts = rem
	}
}
