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

// Command controller creates the event segments, launches the responder
// next to it and drives the timed round-trip loop.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/markrussinovich/shm-rtlatency/internal/bench"
	"github.com/markrussinovich/shm-rtlatency/internal/logging"
)

func main() {
	log := logging.New("controller")

	cmd := &cobra.Command{
		Use:           "controller",
		Short:         "Measure event round-trip latency against a spawned responder",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bench.RunController(bench.DefaultConfig(), log)
		},
	}

	if err := cmd.Execute(); err != nil {
		bench.ReportFailure(log, err, "controller failed")
		os.Exit(1)
	}
}
