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
	"github.com/stretchr/testify/require"

	"github.com/markrussinovich/shm-rtlatency/internal/shm"
)

func TestLocalEventSingleSlot(t *testing.T) {
	ev := NewLocalEvent()

	assert.ErrorIs(t, ev.Wait(0), shm.ErrTimeout)

	require.NoError(t, ev.Set(shm.Signaled))
	require.NoError(t, ev.Set(shm.Signaled))
	assert.NoError(t, ev.Wait(0))
	assert.ErrorIs(t, ev.Wait(0), shm.ErrTimeout, "two sets collapse into one signal")

	require.NoError(t, ev.Set(shm.Signaled))
	require.NoError(t, ev.Set(shm.Unsignaled))
	assert.ErrorIs(t, ev.Wait(0), shm.ErrTimeout)

	assert.Error(t, ev.Set(shm.EventState(9)))
}

func TestLocalEventWaitTimeout(t *testing.T) {
	ev := NewLocalEvent()
	start := time.Now()
	assert.ErrorIs(t, ev.Wait(30*time.Millisecond), shm.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLocalEventWaitInfinite(t *testing.T) {
	ev := NewLocalEvent()
	go func() {
		time.Sleep(20 * time.Millisecond)
		ev.Set(shm.Signaled)
	}()
	assert.NoError(t, ev.Wait(shm.Infinite))
}

func TestSystemClock(t *testing.T) {
	var c SystemClock
	before := time.Now()
	c.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, c.Now().Sub(before), 5*time.Millisecond)
}
