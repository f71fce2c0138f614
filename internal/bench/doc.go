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

// Package bench runs the controller and responder halves of the round-trip
// latency benchmark.
//
// The two processes share a pair of auto-reset events, one per direction.
// After a ready rendezvous they run in lockstep: the controller signals, the
// responder wakes, timestamps and signals back, and the controller paces
// itself to a fixed period before the next round. Each side keeps its own
// records in memory and writes them once the last round completes.
//
// A hang in either peer stalls the other forever. No wait in the protocol
// has a timeout; that risk is accepted for a short-lived benchmark.
package bench
