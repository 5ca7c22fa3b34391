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

import (
	"context"

	"github.com/tochemey/peerlease/internal/syncmap"
)

// Memory is an in-process Storage implementation backed by a concurrency-safe
// map. Every process sharing a Memory instance shares one coordination domain,
// which makes it suitable for single-process deployments and tests.
type Memory struct {
	data *syncmap.SyncMap[string, string]
}

// enforce compilation error
var _ Storage = (*Memory)(nil)

// NewMemory creates an instance of Memory.
func NewMemory() *Memory {
	return &Memory{
		data: syncmap.New[string, string](),
	}
}

// Get implements Storage.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := m.data.Get(key)
	return value, ok, nil
}

// Set implements Storage.
func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.data.Set(key, value)
	return nil
}

// Delete implements Storage.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Len returns the number of keys currently stored.
func (m *Memory) Len() int {
	return m.data.Len()
}
