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
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

// ResponderPath resolves cfg.ResponderBinary. A relative name is looked up
// in the controller executable's directory, so both binaries ship together.
func ResponderPath(cfg Config) (string, error) {
	if filepath.IsAbs(cfg.ResponderBinary) {
		return cfg.ResponderBinary, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", &shm.SetupError{Op: "locate responder", Name: cfg.ResponderBinary, Err: err}
	}
	return filepath.Join(filepath.Dir(exe), cfg.ResponderBinary), nil
}

// SpawnResponder starts the responder with no arguments, sharing this
// process's stdout and stderr.
func SpawnResponder(path string) (*exec.Cmd, error) {
	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, &shm.SetupError{Op: "spawn responder", Name: path, Err: err}
	}
	return cmd, nil
}

// stopResponder kills a responder that has not been reaped yet. Used on
// failure paths, where the child would otherwise block on us forever.
func stopResponder(log zerolog.Logger, cmd *exec.Cmd) {
	if cmd.ProcessState != nil {
		return
	}
	if err := cmd.Process.Kill(); err != nil {
		log.Debug().Err(err).Int("responder_pid", cmd.Process.Pid).Msg("failed to kill responder")
	}
	if err := cmd.Wait(); err != nil {
		log.Debug().Err(err).Int("responder_pid", cmd.Process.Pid).Msg("responder reaped")
	}
}

// waitResponder reaps a responder that is expected to exit on its own.
func waitResponder(cmd *exec.Cmd) error {
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("responder pid %d: %w", cmd.Process.Pid, err)
	}
	return nil
}
