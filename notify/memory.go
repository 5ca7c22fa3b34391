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
	"sync"
)

// Memory is an in-process Broadcaster. It wakes waiters within the same
// process only, which is sufficient when all collaborators share one runtime.
type Memory struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]chan struct{}
	closed bool
}

// enforce compilation error
var _ Broadcaster = (*Memory)(nil)

// NewMemory creates an instance of Memory.
func NewMemory() *Memory {
	return &Memory{
		subs: make(map[string]map[uint64]chan struct{}),
	}
}

// Publish implements Broadcaster.
func (m *Memory) Publish(_ context.Context, channel string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, signal := range m.subs[channel] {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribe implements Broadcaster.
func (m *Memory) Subscribe(_ context.Context, channel string) (<-chan struct{}, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	signal := make(chan struct{}, 1)
	if m.subs[channel] == nil {
		m.subs[channel] = make(map[uint64]chan struct{})
	}
	m.subs[channel][id] = signal

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if subs, ok := m.subs[channel]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(m.subs, channel)
			}
		}
	}
	return signal, cancel, nil
}

// Close implements Broadcaster.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = make(map[string]map[uint64]chan struct{})
	m.closed = true
	return nil
}
