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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrappers(t *testing.T) {
	t.Run("With NewErrGeneratorExhausted", func(t *testing.T) {
		err := NewErrGeneratorExhausted(32)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGeneratorExhausted)
		assert.Contains(t, err.Error(), "32")
	})
	t.Run("With NewErrMutexTimeout", func(t *testing.T) {
		cause := errors.New("deadline exceeded")
		err := NewErrMutexTimeout("doc-1", cause)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMutexTimeout)
		assert.Contains(t, err.Error(), "doc-1")
	})
	t.Run("With NewErrBrokenStorage", func(t *testing.T) {
		cause := errors.New("disk gone")
		err := NewErrBrokenStorage(cause)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBrokenStorage)
		assert.ErrorIs(t, err, cause)
	})
}
