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

// Package shm provides named shared memory segments and a cross-process
// auto-reset event that lives inside one.
//
// A segment is a fixed-size file under /dev/shm mapped MAP_SHARED by every
// process that opens it. The process that creates a segment owns it and
// unlinks the name when it closes. An Event places a small control structure
// at the start of a segment's memory; its state word doubles as a shared
// futex, so a waiter in one process is woken directly by a Set in another
// without polling.
//
// Two events, one per direction, form the request/reply channel used by the
// latency benchmark: each event has exactly one setter and one waiter, and
// the protocol never has more than one signal outstanding per direction.
package shm
