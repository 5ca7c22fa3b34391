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

// Package storage defines the key/value capability every coordinating process
// shares for a given document domain. The medium is assumed to offer plain
// get/set/delete only. No compare-and-swap is required: the callers that need
// stronger guarantees layer a read-modify-write-verify protocol on top.
package storage

import "context"

// Storage is the shared key/value capability. Values are opaque strings.
// All implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value stored at key. The boolean result reports whether
	// the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value at key, overwriting any previous value.
	Set(ctx context.Context, key string, value string) error
	// Delete removes the value stored at key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
