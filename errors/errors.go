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

// Package errors defines the sentinel errors shared by the peerlease packages.
// Callers are expected to branch on them with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentIDRequired is returned when an operation is invoked with an empty document id.
	ErrDocumentIDRequired = errors.New("document id is required")

	// ErrGeneratorRequired is returned when Acquire is invoked without an id generator.
	ErrGeneratorRequired = errors.New("id generator is required")

	// ErrComparatorRequired is returned when Acquire is invoked without a version comparator.
	ErrComparatorRequired = errors.New("version comparator is required")

	// ErrVersionRequired is returned when an operation is invoked with an empty version.
	ErrVersionRequired = errors.New("version is required")

	// ErrGeneratorExhausted is returned when the id generator failed to produce a
	// non-colliding, non-empty id within the allowed number of attempts.
	ErrGeneratorExhausted = errors.New("id generator exhausted")

	// ErrMutexTimeout is returned when a mutex could not be acquired before the
	// acquire deadline elapsed. The caller may retry at a higher level.
	ErrMutexTimeout = errors.New("mutex acquire timed out")

	// ErrStorageRequired is returned when a component is constructed without a storage.
	ErrStorageRequired = errors.New("storage is required")

	// ErrInvalidMutexTTL is returned when a fallback mutex is configured with a
	// time-to-live less than or equal to zero.
	ErrInvalidMutexTTL = errors.New("mutex ttl must be greater than zero")

	// ErrInvalidAcquireTimeout is returned when a mutex is configured with an
	// acquire timeout less than or equal to zero.
	ErrInvalidAcquireTimeout = errors.New("acquire timeout must be greater than zero")

	// ErrInvalidStaleThreshold is returned when a lease manager is configured with
	// a staleness threshold less than or equal to zero.
	ErrInvalidStaleThreshold = errors.New("stale threshold must be greater than zero")

	// ErrBrokenStorage is returned when the underlying storage medium failed an
	// operation. It always wraps the storage driver error.
	ErrBrokenStorage = errors.New("storage operation failed")
)

// NewErrGeneratorExhausted formats an ErrGeneratorExhausted with the number of attempts made.
func NewErrGeneratorExhausted(attempts int) error {
	return fmt.Errorf("no unique id after %d attempts: %w", attempts, ErrGeneratorExhausted)
}

// NewErrMutexTimeout formats an ErrMutexTimeout for the given document id with the underlying cause.
func NewErrMutexTimeout(docID string, cause error) error {
	return fmt.Errorf("document=(%s) cause=(%v) %w", docID, cause, ErrMutexTimeout)
}

// NewErrBrokenStorage wraps a storage driver error into an ErrBrokenStorage.
func NewErrBrokenStorage(err error) error {
	return errors.Join(ErrBrokenStorage, err)
}
