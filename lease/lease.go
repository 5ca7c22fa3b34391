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

package lease

import (
	"context"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/peerlease/errors"
)

const (
	releaseIdle int32 = iota
	releaseStaged
	releaseFlushed
)

// Lease is the handle of one acquired identifier. The handle exclusively owns
// the right to release its identifier; no other handle may release it.
//
// Release is idempotent: only the first call does work, repeated calls return
// nil without touching storage. Callers that need stricter misuse detection
// can branch on IsReleased before calling.
type Lease struct {
	manager *Manager
	docID   string
	value   string
	state   *atomic.Int32
}

func newLease(manager *Manager, docID, value string) *Lease {
	return &Lease{
		manager: manager,
		docID:   docID,
		value:   value,
		state:   atomic.NewInt32(releaseIdle),
	}
}

// Value returns the leased identifier.
func (l *Lease) Value() string {
	return l.value
}

// DocumentID returns the document id the lease is scoped to.
func (l *Lease) DocumentID() string {
	return l.docID
}

// IsReleased reports whether Release has been called.
func (l *Lease) IsReleased() bool {
	return l.state.Load() != releaseIdle
}

// Release returns the identifier to the pool, tagged with the version the
// caller last observed. The release is staged synchronously with one cheap
// storage write, then flushed into the lease state under the document mutex.
// When the flush cannot run (for instance a mutex timeout during shutdown)
// the entry stays staged and the next acquisition on the document folds it
// in, so Release still succeeds.
func (l *Lease) Release(ctx context.Context, version string) error {
	if version == "" {
		return gerrors.ErrVersionRequired
	}
	if !l.state.CompareAndSwap(releaseIdle, releaseStaged) {
		// idempotent: the release is already staged or flushed
		return nil
	}

	if err := stagePending(ctx, l.manager.storage, l.docID, l.value, version); err != nil {
		// nothing was staged: give the caller a chance to retry
		l.state.Store(releaseIdle)
		return err
	}

	if err := l.manager.flushPending(ctx, l.docID); err != nil {
		l.manager.logger.Warnf("document=(%s) release of id=(%s) staged but not flushed: %v", l.docID, l.value, err)
		return nil
	}

	l.state.Store(releaseFlushed)
	return nil
}
