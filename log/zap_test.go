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

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logEntry(t *testing.T, buffer *bytes.Buffer) map[string]any {
	t.Helper()
	entry := make(map[string]any)
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	return entry
}

func TestLog(t *testing.T) {
	t.Run("With Info", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(InfoLevel, buffer)
		logger.Info("some message")

		entry := logEntry(t, buffer)
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "some message", entry["msg"])
		assert.Equal(t, InfoLevel, logger.LogLevel())
	})
	t.Run("With Warnf", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(WarningLevel, buffer)
		logger.Warnf("count=%d", 42)

		entry := logEntry(t, buffer)
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "count=42", entry["msg"])
	})
	t.Run("With Errorf", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(ErrorLevel, buffer)
		logger.Errorf("failed: %v", assert.AnError)

		entry := logEntry(t, buffer)
		assert.Equal(t, "error", entry["level"])
	})
	t.Run("With messages below the level suppressed", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(ErrorLevel, buffer)
		logger.Info("quiet")
		assert.Zero(t, buffer.Len())
	})
	t.Run("With Panicf", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(PanicLevel, buffer)
		assert.Panics(t, func() { logger.Panicf("boom") })
	})
	t.Run("With LogOutput", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(InfoLevel, buffer)
		require.Len(t, logger.LogOutput(), 1)
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
	assert.Equal(t, "PANIC", PanicLevel.String())
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Empty(t, InvalidLevel.String())
}

func TestDiscardLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		DiscardLogger.Info("dropped")
		DiscardLogger.Warnf("dropped %d", 1)
		DiscardLogger.Error("dropped")
	})
}
