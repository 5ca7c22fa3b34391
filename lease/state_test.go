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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	t.Run("With normalize dropping active-shadowed entries", func(t *testing.T) {
		state := newState()
		state.Active["p1"] = ActiveEntry{LeasedAt: 1, Version: "1"}
		state.Available = []AvailableEntry{
			{ID: "p1", Version: "2"},
			{ID: "p2", Version: "3"},
		}

		state.normalize()
		require.Len(t, state.Available, 1)
		assert.Equal(t, "p2", state.Available[0].ID)
	})
	t.Run("With normalize deduplicating and keeping the first occurrence", func(t *testing.T) {
		state := newState()
		state.Available = []AvailableEntry{
			{ID: "p1", Version: "2"},
			{ID: "p2", Version: "3"},
			{ID: "p1", Version: "9"},
		}

		state.normalize()
		require.Len(t, state.Available, 2)
		assert.Equal(t, AvailableEntry{ID: "p1", Version: "2"}, state.Available[0])
		assert.Equal(t, AvailableEntry{ID: "p2", Version: "3"}, state.Available[1])
	})
	t.Run("With upsertAvailable overwriting the version in place", func(t *testing.T) {
		state := newState()
		state.upsertAvailable("p1", "2")
		state.upsertAvailable("p2", "3")
		state.upsertAvailable("p1", "7")

		require.Len(t, state.Available, 2)
		assert.Equal(t, AvailableEntry{ID: "p1", Version: "7"}, state.Available[0])
	})
	t.Run("With encode and decode", func(t *testing.T) {
		state := newState()
		state.Active["p1"] = ActiveEntry{LeasedAt: 42, Version: "1"}
		state.upsertAvailable("p2", "3")

		decoded := decodeState(state.encode())
		require.NotNil(t, decoded)
		assert.Equal(t, state, decoded)
	})
	t.Run("With a malformed payload", func(t *testing.T) {
		assert.Nil(t, decodeState("{not json"))
	})
	t.Run("With a nil active map reinitialized", func(t *testing.T) {
		decoded := decodeState(`{"available":[]}`)
		require.NotNil(t, decoded)
		assert.NotNil(t, decoded.Active)
	})
	t.Run("With emptiness", func(t *testing.T) {
		state := newState()
		assert.True(t, state.empty())
		state.upsertAvailable("p1", "1")
		assert.False(t, state.empty())
	})
	t.Run("With knownIDs spanning both sets", func(t *testing.T) {
		state := newState()
		state.Active["p1"] = ActiveEntry{}
		state.upsertAvailable("p2", "1")

		known := state.knownIDs()
		assert.True(t, known.Contains("p1"))
		assert.True(t, known.Contains("p2"))
		assert.False(t, known.Contains("p3"))
	})
}
