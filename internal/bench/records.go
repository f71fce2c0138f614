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

import "strconv"

// ControllerHeader names the columns of the controller's result table.
var ControllerHeader = []string{"index", "timestamp_us", "sleep_us", "duration_us", "overruns"}

// ResponderHeader names the columns of the responder's result table.
var ResponderHeader = []string{"index", "timestamp_us"}

// ControllerRecord is one controller iteration. SleepUS, DurationUS and
// Overruns describe the cycle before this one; they are zero in the first
// record.
type ControllerRecord struct {
	Index       int
	TimestampUS int64 // wall clock, microseconds since the Unix epoch
	SleepUS     int64
	DurationUS  int64
	Overruns    int
}

// CSVFields implements results.Record.
func (r ControllerRecord) CSVFields() []string {
	return []string{
		strconv.Itoa(r.Index),
		strconv.FormatInt(r.TimestampUS, 10),
		strconv.FormatInt(r.SleepUS, 10),
		strconv.FormatInt(r.DurationUS, 10),
		strconv.Itoa(r.Overruns),
	}
}

// ResponderRecord is the responder's receipt of one signal.
type ResponderRecord struct {
	Index       int
	TimestampUS int64
}

// CSVFields implements results.Record.
func (r ResponderRecord) CSVFields() []string {
	return []string{strconv.Itoa(r.Index), strconv.FormatInt(r.TimestampUS, 10)}
}
