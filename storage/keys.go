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

package storage

import "fmt"

const keyPrefix = "peerlease"

// StateKey returns the storage key holding the lease state of the given document.
func StateKey(docID string) string {
	return fmt.Sprintf("%s:%s:state", keyPrefix, docID)
}

// PendingKey returns the storage key holding the pending-release buffer of the
// given document.
func PendingKey(docID string) string {
	return fmt.Sprintf("%s:%s:pending", keyPrefix, docID)
}

// LockKey returns the storage key holding the advisory lock record of the
// given document.
func LockKey(docID string) string {
	return fmt.Sprintf("%s:%s:lock", keyPrefix, docID)
}

// FenceKey returns the storage key holding the fence counter of the given
// document. The counter outlives the lock record so a crashed holder can
// never reset it.
func FenceKey(docID string) string {
	return fmt.Sprintf("%s:%s:fence", keyPrefix, docID)
}

// DocumentKeys returns every storage key scoped to the given document.
func DocumentKeys(docID string) []string {
	return []string{
		StateKey(docID),
		PendingKey(docID),
		LockKey(docID),
		FenceKey(docID),
	}
}
