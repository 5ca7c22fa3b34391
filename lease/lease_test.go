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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/peerlease/errors"
	"github.com/tochemey/peerlease/storage"
)

func TestRelease(t *testing.T) {
	ctx := context.TODO()

	t.Run("With input validation", func(t *testing.T) {
		manager := newTestManager(t, storage.NewMemory())
		lease, err := manager.Acquire(ctx, "doc-1", sequence("p1"), "1", numericCompare)
		require.NoError(t, err)

		assert.ErrorIs(t, lease.Release(ctx, ""), gerrors.ErrVersionRequired)
		assert.False(t, lease.IsReleased())
	})
	t.Run("With the id returned to the pool", func(t *testing.T) {
		store := storage.NewMemory()
		manager := newTestManager(t, store)
		lease, err := manager.Acquire(ctx, "doc-1", sequence("p1"), "1", numericCompare)
		require.NoError(t, err)

		require.NoError(t, lease.Release(ctx, "5"))
		assert.True(t, lease.IsReleased())

		state := readState(t, store, "doc-1")
		assert.Empty(t, state.Active)
		require.Len(t, state.Available, 1)
		assert.Equal(t, AvailableEntry{ID: "p1", Version: "5"}, state.Available[0])
	})
	t.Run("With repeated releases being no-ops", func(t *testing.T) {
		store := storage.NewMemory()
		manager := newTestManager(t, store)
		lease, err := manager.Acquire(ctx, "doc-1", sequence("p1"), "1", numericCompare)
		require.NoError(t, err)

		require.NoError(t, lease.Release(ctx, "5"))
		require.NoError(t, lease.Release(ctx, "9"))

		// the second call changed nothing: the pool still carries version 5
		state := readState(t, store, "doc-1")
		require.Len(t, state.Available, 1)
		assert.Equal(t, "5", state.Available[0].Version)
	})
	t.Run("With a release not blocking other handles", func(t *testing.T) {
		store := storage.NewMemory()
		manager := newTestManager(t, store)

		first, err := manager.Acquire(ctx, "doc-1", sequence("p1"), "1", numericCompare)
		require.NoError(t, err)
		second, err := manager.Acquire(ctx, "doc-1", sequence("p2"), "1", numericCompare)
		require.NoError(t, err)

		require.NoError(t, first.Release(ctx, "5"))
		assert.False(t, second.IsReleased())

		state := readState(t, store, "doc-1")
		assert.Contains(t, state.Active, "p2")
		assert.NotContains(t, state.Active, "p1")
	})
}
