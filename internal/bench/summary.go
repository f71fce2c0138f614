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
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Summary condenses a controller run. Duration and sleep statistics cover
// the rounds that have a predecessor, i.e. every record but the first.
type Summary struct {
	Iterations int
	Overruns   int
	Period     time.Duration

	MinDuration    time.Duration
	MaxDuration    time.Duration
	MeanDuration   time.Duration
	StdDevDuration time.Duration
	MeanSleep      time.Duration
}

// Summarize computes a Summary of records.
func Summarize(records []ControllerRecord, period time.Duration) Summary {
	s := Summary{Iterations: len(records), Period: period}
	if len(records) == 0 {
		return s
	}
	s.Overruns = records[len(records)-1].Overruns

	paced := records[1:]
	if len(paced) == 0 {
		return s
	}

	var sum, sumSleep float64
	lo, hi := paced[0].DurationUS, paced[0].DurationUS
	for _, r := range paced {
		sum += float64(r.DurationUS)
		sumSleep += float64(r.SleepUS)
		lo = min(lo, r.DurationUS)
		hi = max(hi, r.DurationUS)
	}
	n := float64(len(paced))
	mean := sum / n

	var sq float64
	for _, r := range paced {
		d := float64(r.DurationUS) - mean
		sq += d * d
	}

	s.MinDuration = time.Duration(lo) * time.Microsecond
	s.MaxDuration = time.Duration(hi) * time.Microsecond
	s.MeanDuration = usToDuration(mean)
	s.StdDevDuration = usToDuration(math.Sqrt(sq / n))
	s.MeanSleep = usToDuration(sumSleep / n)
	return s
}

func usToDuration(us float64) time.Duration {
	return time.Duration(math.Round(us * float64(time.Microsecond)))
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (s Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("iterations", humanize.Comma(int64(s.Iterations))).
		Int("overruns", s.Overruns).
		Dur("period", s.Period).
		Dur("min", s.MinDuration).
		Dur("mean", s.MeanDuration).
		Dur("max", s.MaxDuration).
		Dur("stddev", s.StdDevDuration).
		Dur("mean_sleep", s.MeanSleep)
}
