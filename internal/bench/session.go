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
	"runtime"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/markrussinovich/shm-rtlatency/internal/results"
	"github.com/markrussinovich/shm-rtlatency/internal/sched"
	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

// applySchedule is replaced in tests so they do not re-pin the test binary.
var applySchedule = sched.Apply

// RunController performs the controller's whole run: create the link, apply
// scheduling to itself, spawn and schedule the responder, wait for it to be
// ready, run every round, write the results and reap the responder.
//
// Every error is fatal to the run; nothing is written unless all rounds
// completed.
func RunController(cfg Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The protocol runs on this thread only; keep it the one we schedule.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	link, err := CreateLink(cfg)
	if err != nil {
		return err
	}
	defer link.Close()
	log.Info().Str("request", cfg.RequestSegment).Str("reply", cfg.ReplySegment).Msg("event segments created")

	if err := applySchedule(log, sched.Assignment{
		PID:      sched.Self,
		Core:     cfg.ControllerCore,
		Policy:   cfg.Policy,
		Priority: cfg.Priority,
	}); err != nil {
		return err
	}

	path, err := ResponderPath(cfg)
	if err != nil {
		return err
	}
	child, err := SpawnResponder(path)
	if err != nil {
		return err
	}
	defer stopResponder(log, child)
	log.Info().Str("path", path).Int("responder_pid", child.Process.Pid).Msg("responder started")

	if err := applySchedule(log, sched.Assignment{
		PID:      child.Process.Pid,
		Core:     cfg.ResponderCore,
		Policy:   cfg.Policy,
		Priority: cfg.Priority,
	}); err != nil {
		return err
	}

	ctrl := NewController(link.Send, link.Recv, cfg, WithLogger(log))
	if err := ctrl.AwaitReady(); err != nil {
		return err
	}
	log.Info().Msg("responder is ready")

	log.Info().Int("iterations", cfg.Iterations).Dur("period", cfg.Period()).Msg("controller ready to send")
	records, err := withoutGC(ctrl.Run)
	if err != nil {
		return err
	}

	log.Info().Str("path", cfg.ControllerOutput).Msg("writing results")
	if err := results.WriteCSV(cfg.ControllerOutput, ControllerHeader, records); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	log.Info().EmbedObject(Summarize(records, cfg.Period())).Msg("controller done")

	return waitResponder(child)
}

// RunResponder performs the responder's whole run: wait for the controller's
// setup, attach, announce readiness, answer every round and write the
// results. Scheduling is applied by the controller from outside.
func RunResponder(cfg Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// Coarse: the controller creates the segments before spawning us, and
	// this only has to cover the gap until they are initialized.
	time.Sleep(cfg.StartupDelay)

	link, err := OpenLink(cfg)
	if err != nil {
		return err
	}
	defer link.Close()

	resp := NewResponder(link.Send, link.Recv, cfg, WithLogger(log))
	if err := resp.Announce(); err != nil {
		return err
	}
	log.Info().Msg("responder ready to receive")

	records, err := withoutGC(resp.Run)
	if err != nil {
		return err
	}

	log.Info().Str("path", cfg.ResponderOutput).Msg("writing results")
	if err := results.WriteCSV(cfg.ResponderOutput, ResponderHeader, records); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	log.Info().Int("records", len(records)).Msg("responder done")
	return nil
}

// ReportFailure logs a run's terminal error at error level, naming the
// setup step when there was one. The caller decides how to exit.
func ReportFailure(log zerolog.Logger, err error, msg string) {
	ev := log.Error().Err(err)
	var setupErr *shm.SetupError
	if errors.As(err, &setupErr) {
		ev = ev.Str("step", setupErr.Op)
	}
	ev.Msg(msg)
}

// withoutGC runs fn with the collector disabled. The loops preallocate
// their records, so nothing accumulates while it is off.
func withoutGC[T any](fn func() (T, error)) (T, error) {
	runtime.GC()
	defer debug.SetGCPercent(debug.SetGCPercent(-1))
	return fn()
}
