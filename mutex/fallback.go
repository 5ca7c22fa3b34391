/*
 * MIT License
 *
 * Copyright (c) 2024-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package mutex

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/peerlease/errors"
	"github.com/tochemey/peerlease/internal/ticker"
	"github.com/tochemey/peerlease/log"
	"github.com/tochemey/peerlease/notify"
	"github.com/tochemey/peerlease/storage"
)

const (
	initialBackoff = 25 * time.Millisecond
	maxBackoff     = time.Second
)

// fallback is the advisory-record Mutex backend. The shared storage offers no
// compare-and-swap, so every write is followed by a re-read that confirms the
// write stuck. The scheme degrades to probably-correct and self-healing rather
// than linearizable: fence monotonicity is what downstream consumers rely on.
type fallback struct {
	docID          string
	storage        storage.Storage
	broadcaster    notify.Broadcaster
	ttl            time.Duration
	acquireTimeout time.Duration
	logger         log.Logger
	clock          func() time.Time

	// local serializes acquisitions within the process: one mutex instance
	// per document id queues all same-process callers.
	local sync.Mutex

	state *atomic.Int32
	fence *atomic.Uint64

	// fields below are only touched while local is held
	token         string
	heartbeat     *ticker.Ticker
	heartbeatDone chan struct{}
	heartbeatWG   sync.WaitGroup
}

// enforce compilation error
var _ Mutex = (*fallback)(nil)

func newFallback(config *Config) *fallback {
	return &fallback{
		docID:          config.docID,
		storage:        config.storage,
		broadcaster:    config.broadcaster,
		ttl:            config.ttl,
		acquireTimeout: config.acquireTimeout,
		logger:         config.logger,
		clock:          config.clock,
		state:          atomic.NewInt32(int32(Idle)),
		fence:          atomic.NewUint64(0),
	}
}

// RunExclusive implements Mutex.
func (f *fallback) RunExclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	f.local.Lock()
	defer f.local.Unlock()

	if err := f.acquire(ctx); err != nil {
		return err
	}
	// release must run even when the caller context is already canceled
	defer f.release(context.WithoutCancel(ctx))
	return fn(ctx)
}

// State returns the state of the last acquisition attempt.
func (f *fallback) State() State {
	return State(f.state.Load())
}

// Fence returns the fencing token of the last successful acquisition.
func (f *fallback) Fence() uint64 {
	return f.fence.Load()
}

func (f *fallback) acquire(ctx context.Context) error {
	f.state.Store(int32(Acquiring))
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, f.acquireTimeout)
	defer cancel()

	var signal <-chan struct{}
	if f.broadcaster != nil {
		ch, unsubscribe, err := f.broadcaster.Subscribe(ctx, notify.Channel(f.docID))
		if err != nil {
			f.logger.Warnf("mutex=(%s) failed to subscribe for release signals: %v", f.docID, err)
		} else {
			signal = ch
			defer unsubscribe()
		}
	}

	backoff := initialBackoff
	for {
		acquired, err := f.tryAcquire(ctx, token)
		if err != nil {
			if ctx.Err() != nil {
				f.state.Store(int32(TimedOut))
				return gerrors.NewErrMutexTimeout(f.docID, ctx.Err())
			}
			f.state.Store(int32(Idle))
			return err
		}
		if acquired {
			break
		}

		// jittered wait before the next round, cut short by a release signal
		wait := backoff/2 + time.Duration(rand.Int64N(int64(backoff/2)+1))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			f.state.Store(int32(TimedOut))
			return gerrors.NewErrMutexTimeout(f.docID, ctx.Err())
		case <-signal:
			timer.Stop()
		case <-timer.C:
		}
		if backoff < maxBackoff {
			backoff = min(backoff*2, maxBackoff)
		}
	}

	f.token = token
	f.state.Store(int32(Held))
	f.startHeartbeat(token)
	return nil
}

// tryAcquire runs one acquisition round. It returns false when another holder
// owns an unexpired record or when the confirmation re-read shows a concurrent
// writer won the race.
func (f *fallback) tryAcquire(ctx context.Context, token string) (bool, error) {
	record, err := readLockRecord(ctx, f.storage, f.docID)
	if err != nil {
		return false, err
	}

	now := f.clock().UnixMilli()
	if record != nil && record.ExpiresAt > now && record.Token != token {
		return false, nil
	}

	counter, err := readFenceCounter(ctx, f.storage, f.docID)
	if err != nil {
		return false, err
	}

	// the fence survives record deletion: take the max of both sources so a
	// crashed holder can never wind it back
	fence := counter
	if record != nil && record.Fence > fence {
		fence = record.Fence
	}
	fence++

	if err := writeFenceCounter(ctx, f.storage, f.docID, fence); err != nil {
		return false, err
	}

	fresh := &lockRecord{
		Token:     token,
		ExpiresAt: f.clock().Add(f.ttl).UnixMilli(),
		Fence:     fence,
	}
	if err := f.storage.Set(ctx, storage.LockKey(f.docID), fresh.encode()); err != nil {
		return false, err
	}

	// confirmation re-read: without compare-and-swap a concurrent writer may
	// have overwritten the record between our write and now
	record, err = readLockRecord(ctx, f.storage, f.docID)
	if err != nil {
		return false, err
	}
	if record == nil || record.Token != token {
		return false, nil
	}

	f.fence.Store(fence)
	return true, nil
}

func (f *fallback) startHeartbeat(token string) {
	interval := f.ttl / 3
	if interval <= 0 {
		interval = time.Millisecond
	}

	f.heartbeat = ticker.New(interval)
	f.heartbeatDone = make(chan struct{})
	f.heartbeat.Start()

	f.heartbeatWG.Add(1)
	go func() {
		defer f.heartbeatWG.Done()
		for {
			select {
			case <-f.heartbeatDone:
				return
			case <-f.heartbeat.Ticks:
				if !f.refresh(token) {
					// best-effort liveness only: the heartbeat stops itself silently
					return
				}
			}
		}
	}()
}

// refresh extends the lock record while the token still matches. It reports
// whether the heartbeat should keep running.
func (f *fallback) refresh(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), f.ttl)
	defer cancel()

	record, err := readLockRecord(ctx, f.storage, f.docID)
	if err != nil || record == nil || record.Token != token {
		return false
	}

	counter, err := readFenceCounter(ctx, f.storage, f.docID)
	if err != nil {
		return false
	}
	fence := max(counter, record.Fence) + 1

	if err := writeFenceCounter(ctx, f.storage, f.docID, fence); err != nil {
		return false
	}

	fresh := &lockRecord{
		Token:     token,
		ExpiresAt: f.clock().Add(f.ttl).UnixMilli(),
		Fence:     fence,
	}
	if err := f.storage.Set(ctx, storage.LockKey(f.docID), fresh.encode()); err != nil {
		return false
	}

	f.fence.Store(fence)
	return true
}

func (f *fallback) release(ctx context.Context) {
	f.heartbeat.Stop()
	close(f.heartbeatDone)
	f.heartbeatWG.Wait()

	record, err := readLockRecord(ctx, f.storage, f.docID)
	if err == nil && record != nil && record.Token == f.token {
		if err := f.storage.Delete(ctx, storage.LockKey(f.docID)); err != nil {
			f.logger.Warnf("mutex=(%s) failed to delete lock record: %v", f.docID, err)
		}
	}

	if f.broadcaster != nil {
		if err := f.broadcaster.Publish(ctx, notify.Channel(f.docID)); err != nil {
			f.logger.Warnf("mutex=(%s) failed to broadcast release: %v", f.docID, err)
		}
	}

	f.token = ""
	f.state.Store(int32(Released))
}
