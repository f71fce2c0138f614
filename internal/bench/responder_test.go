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

func TestResponderAnnounce(t *testing.T) {
	send := NewLocalEvent()
	r := NewResponder(send, NewLocalEvent(), testConfig(1, 100))

	require.NoError(t, r.Announce())
	assert.NoError(t, send.Wait(0), "announce should leave a pending signal")
}

func TestResponderRunAcknowledgesEverySignal(t *testing.T) {
	const n = 20
	req, rep := NewLocalEvent(), NewLocalEvent()
	clock := newFakeClock()

	done := make(chan []ResponderRecord, 1)
	errCh := make(chan error, 1)
	go func() {
		records, err := NewResponder(rep, req, testConfig(n, 100), WithClock(clock)).Run()
		errCh <- err
		done <- records
	}()

	for i := 0; i < n; i++ {
		clock.advance(time.Millisecond)
		require.NoError(t, req.Set(shm.Signaled))
		require.NoError(t, rep.Wait(5*time.Second), "round %d", i)
	}
	require.NoError(t, <-errCh)
	records := <-done

	require.Len(t, records, n)
	for i, r := range records {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, epoch.Add(time.Duration(i+1)*time.Millisecond).UnixMicro(), r.TimestampUS)
	}
}

func TestResponderRunFailures(t *testing.T) {
	t.Run("WaitFails", func(t *testing.T) {
		peer := newScriptedPeer(newFakeClock())
		peer.failWait = 3
		records, err := NewResponder(peer, peer, testConfig(5, 100), WithClock(peer.clock)).Run()
		assert.Nil(t, records)
		assert.ErrorIs(t, err, errBroken)
		assert.Contains(t, err.Error(), "iteration 3: wait for controller")
	})
	t.Run("SignalFails", func(t *testing.T) {
		peer := newScriptedPeer(newFakeClock())
		peer.failSet = 0
		records, err := NewResponder(peer, peer, testConfig(5, 100), WithClock(peer.clock)).Run()
		assert.Nil(t, records)
		assert.ErrorIs(t, err, errBroken)
		assert.Contains(t, err.Error(), "iteration 0: signal controller")
	})
	t.Run("AnnounceFails", func(t *testing.T) {
		peer := newScriptedPeer(newFakeClock())
		peer.failSet = 0
		assert.ErrorIs(t, NewResponder(peer, peer, testConfig(5, 100)).Announce(), errBroken)
	})
}
