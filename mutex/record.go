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
	"encoding/json"
	"strconv"

	"github.com/tochemey/peerlease/storage"
)

// lockRecord is the advisory lock persisted by the fallback backend.
type lockRecord struct {
	// Token identifies the current holder.
	Token string `json:"token"`
	// ExpiresAt is the unix millisecond timestamp after which the record is stale.
	ExpiresAt int64 `json:"expiresAt"`
	// Fence is the fencing token granted to the holder.
	Fence uint64 `json:"fence"`
}

func (r *lockRecord) encode() string {
	// marshaling a plain struct cannot fail
	bytea, _ := json.Marshal(r)
	return string(bytea)
}

// decodeLockRecord parses a persisted lock record. A malformed payload is
// treated as absence: the record will be overwritten by the next writer.
func decodeLockRecord(raw string) *lockRecord {
	record := new(lockRecord)
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return nil
	}
	if record.Token == "" {
		return nil
	}
	return record
}

// readLockRecord fetches and decodes the lock record of the given document.
func readLockRecord(ctx context.Context, store storage.Storage, docID string) (*lockRecord, error) {
	raw, ok, err := store.Get(ctx, storage.LockKey(docID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeLockRecord(raw), nil
}

// readFenceCounter fetches the persisted fence counter of the given document.
// A missing or malformed counter reads as zero.
func readFenceCounter(ctx context.Context, store storage.Storage, docID string) (uint64, error) {
	raw, ok, err := store.Get(ctx, storage.FenceKey(docID))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	counter, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, nil
	}
	return counter, nil
}

// writeFenceCounter persists the fence counter of the given document.
func writeFenceCounter(ctx context.Context, store storage.Storage, docID string, counter uint64) error {
	return store.Set(ctx, storage.FenceKey(docID), strconv.FormatUint(counter, 10))
}
