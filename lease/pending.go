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
	"encoding/json"

	"github.com/tochemey/peerlease/storage"
)

// pendingBuffer is the crash-tolerant release staging area of one document:
// a map of identifier to the version it was released at. The last write for
// an identifier wins.
type pendingBuffer map[string]string

func (b pendingBuffer) encode() string {
	// marshaling a plain map cannot fail
	bytea, _ := json.Marshal(b)
	return string(bytea)
}

// decodePending parses a persisted pending buffer. A malformed payload reads
// as empty, per the corruption policy.
func decodePending(raw string) pendingBuffer {
	buffer := make(pendingBuffer)
	if err := json.Unmarshal([]byte(raw), &buffer); err != nil {
		return make(pendingBuffer)
	}
	return buffer
}

// stagePending upserts a release into the pending buffer of the document.
// It runs outside the mutex on purpose: staging must stay cheap enough to be
// called from a non-blocking shutdown or suspend hook. The buffer converges
// through the drain/finalize protocol instead of locking.
func stagePending(ctx context.Context, store storage.Storage, docID, id, version string) error {
	key := storage.PendingKey(docID)
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return err
	}

	buffer := make(pendingBuffer)
	if ok {
		buffer = decodePending(raw)
	}
	buffer[id] = version
	return store.Set(ctx, key, buffer.encode())
}

// readPending fetches the pending buffer together with the raw snapshot the
// finalize step compares against.
func readPending(ctx context.Context, store storage.Storage, docID string) (buffer pendingBuffer, snapshot string, present bool, err error) {
	raw, ok, err := store.Get(ctx, storage.PendingKey(docID))
	if err != nil {
		return nil, "", false, err
	}
	if !ok {
		return make(pendingBuffer), "", false, nil
	}
	return decodePending(raw), raw, true, nil
}

// finalizePending acknowledges the entries folded into the lease state. When
// the stored snapshot is unchanged since the drain read the whole buffer is
// cleared; otherwise only the folded identifiers are removed so releases
// staged concurrently survive.
func finalizePending(ctx context.Context, store storage.Storage, docID, snapshot string, present bool, folded []string) error {
	key := storage.PendingKey(docID)
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if present && raw == snapshot {
		return store.Delete(ctx, key)
	}

	current := decodePending(raw)
	for _, id := range folded {
		delete(current, id)
	}
	if len(current) == 0 {
		return store.Delete(ctx, key)
	}
	return store.Set(ctx, key, current.encode())
}
