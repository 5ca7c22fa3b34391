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
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/peerlease/errors"
	"github.com/tochemey/peerlease/log"
)

// Locker is the native exclusive-lock capability: request-by-name with a
// cancellation signal. The capability is assumed to release the lock
// automatically when its holder terminates, so no heartbeat is layered on top.
type Locker interface {
	// Lock acquires the named lock, blocking until acquired or ctx is done.
	// The returned function releases the lock.
	Lock(ctx context.Context, name string) (unlock func() error, err error)
}

// native is the Mutex backend delegating to a Locker.
type native struct {
	docID          string
	locker         Locker
	acquireTimeout time.Duration
	logger         log.Logger

	local sync.Mutex
	state *atomic.Int32
}

// enforce compilation error
var _ Mutex = (*native)(nil)

func newNative(config *Config) *native {
	return &native{
		docID:          config.docID,
		locker:         config.locker,
		acquireTimeout: config.acquireTimeout,
		logger:         config.logger,
		state:          atomic.NewInt32(int32(Idle)),
	}
}

// RunExclusive implements Mutex.
func (n *native) RunExclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	n.local.Lock()
	defer n.local.Unlock()

	n.state.Store(int32(Acquiring))
	lockCtx, cancel := context.WithTimeout(ctx, n.acquireTimeout)
	defer cancel()

	unlock, err := n.locker.Lock(lockCtx, n.docID)
	if err != nil {
		// cancellation past the deadline translates into a timeout error
		if lockCtx.Err() != nil {
			n.state.Store(int32(TimedOut))
			return gerrors.NewErrMutexTimeout(n.docID, err)
		}
		n.state.Store(int32(Idle))
		return err
	}

	n.state.Store(int32(Held))
	defer func() {
		if err := unlock(); err != nil {
			n.logger.Warnf("mutex=(%s) failed to release native lock: %v", n.docID, err)
		}
		n.state.Store(int32(Released))
	}()
	return fn(ctx)
}

// State returns the state of the last acquisition attempt.
func (n *native) State() State {
	return State(n.state.Load())
}
