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

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.TODO()

	t.Run("With Publish waking a subscriber", func(t *testing.T) {
		broadcaster := NewMemory()
		channel := Channel("doc-1")

		signal, cancel, err := broadcaster.Subscribe(ctx, channel)
		require.NoError(t, err)
		defer cancel()

		require.NoError(t, broadcaster.Publish(ctx, channel))

		select {
		case <-signal:
		case <-time.After(time.Second):
			t.Fatal("expected a release signal")
		}
	})
	t.Run("With channels isolated per document", func(t *testing.T) {
		broadcaster := NewMemory()

		signal, cancel, err := broadcaster.Subscribe(ctx, Channel("doc-1"))
		require.NoError(t, err)
		defer cancel()

		require.NoError(t, broadcaster.Publish(ctx, Channel("doc-2")))

		select {
		case <-signal:
			t.Fatal("received a signal from another document")
		case <-time.After(50 * time.Millisecond):
		}
	})
	t.Run("With signals coalesced", func(t *testing.T) {
		broadcaster := NewMemory()
		channel := Channel("doc-1")

		signal, cancel, err := broadcaster.Subscribe(ctx, channel)
		require.NoError(t, err)
		defer cancel()

		// a slow subscriber never blocks the publisher
		for range 10 {
			require.NoError(t, broadcaster.Publish(ctx, channel))
		}

		select {
		case <-signal:
		case <-time.After(time.Second):
			t.Fatal("expected a release signal")
		}
	})
	t.Run("With cancel removing the subscription", func(t *testing.T) {
		broadcaster := NewMemory()
		channel := Channel("doc-1")

		signal, cancel, err := broadcaster.Subscribe(ctx, channel)
		require.NoError(t, err)
		cancel()

		require.NoError(t, broadcaster.Publish(ctx, channel))

		select {
		case <-signal:
			t.Fatal("received a signal after cancel")
		case <-time.After(50 * time.Millisecond):
		}
	})
	t.Run("With Close", func(t *testing.T) {
		broadcaster := NewMemory()
		_, cancel, err := broadcaster.Subscribe(ctx, Channel("doc-1"))
		require.NoError(t, err)
		defer cancel()

		assert.NoError(t, broadcaster.Close())
		assert.NoError(t, broadcaster.Publish(ctx, Channel("doc-1")))
	})
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "peerlease.release.doc-1", Channel("doc-1"))
}
