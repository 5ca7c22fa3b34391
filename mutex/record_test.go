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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/peerlease/storage"
)

func TestLockRecord(t *testing.T) {
	t.Run("With encode and decode", func(t *testing.T) {
		record := &lockRecord{Token: "token", ExpiresAt: 1234, Fence: 9}
		decoded := decodeLockRecord(record.encode())
		require.NotNil(t, decoded)
		assert.Equal(t, record, decoded)
	})
	t.Run("With a malformed payload", func(t *testing.T) {
		assert.Nil(t, decodeLockRecord("not json"))
	})
	t.Run("With an empty token", func(t *testing.T) {
		assert.Nil(t, decodeLockRecord(`{"expiresAt":1234,"fence":9}`))
	})
}

func TestFenceCounter(t *testing.T) {
	ctx := context.TODO()

	t.Run("With a missing counter", func(t *testing.T) {
		store := storage.NewMemory()
		counter, err := readFenceCounter(ctx, store, "doc-1")
		require.NoError(t, err)
		assert.Zero(t, counter)
	})
	t.Run("With a malformed counter", func(t *testing.T) {
		store := storage.NewMemory()
		require.NoError(t, store.Set(ctx, storage.FenceKey("doc-1"), "garbage"))
		counter, err := readFenceCounter(ctx, store, "doc-1")
		require.NoError(t, err)
		assert.Zero(t, counter)
	})
	t.Run("With write and read back", func(t *testing.T) {
		store := storage.NewMemory()
		require.NoError(t, writeFenceCounter(ctx, store, "doc-1", 42))
		counter, err := readFenceCounter(ctx, store, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(42), counter)
	})
}
