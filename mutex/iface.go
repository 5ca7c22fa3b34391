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

// Package mutex provides mutually-exclusive execution of a critical section
// across independent processes that share only a key/value storage and, at
// best, a fire-and-forget notification channel.
//
// Two backends implement the same contract. The native backend delegates to an
// external exclusive-lock capability (for instance an etcd session mutex) that
// releases automatically when its holder terminates. The fallback backend
// maintains an advisory lock record over the shared storage with a TTL, a
// heartbeat and a monotonically increasing fence counter. The backend is
// selected once at construction, never per call.
package mutex

import "context"

// Mutex serializes a critical section for one document id across processes.
type Mutex interface {
	// RunExclusive acquires the mutex, runs fn and releases the mutex. The
	// acquisition is bounded by the configured acquire timeout; exceeding it
	// returns an error wrapping errors.ErrMutexTimeout and fn never runs.
	RunExclusive(ctx context.Context, fn func(ctx context.Context) error) error
}

// State represents the lifecycle of a single acquisition attempt.
type State int32

const (
	// Idle means no acquisition is in flight.
	Idle State = iota
	// Acquiring means an acquisition attempt is in progress.
	Acquiring
	// Held means the critical section is executing.
	Held
	// Released means the last acquisition completed and released the mutex.
	Released
	// TimedOut means the last acquisition exceeded its deadline.
	TimedOut
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Acquiring:
		return "Acquiring"
	case Held:
		return "Held"
	case Released:
		return "Released"
	case TimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}
