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
	"github.com/tochemey/peerlease/internal/syncmap"
)

// Factory creates the Mutex of a document id on first use.
type Factory func(docID string) (Mutex, error)

// Registry hands out one Mutex per document id for the lifetime of the
// process. Lookups create on miss and entries are never evicted: a mutex
// carries the in-process serialization of its document and must stay unique.
//
// The registry is an explicit object meant to be injected, not a package
// global.
type Registry struct {
	factory Factory
	mutexes *syncmap.SyncMap[string, Mutex]
}

// NewRegistry creates an instance of Registry with the given factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		mutexes: syncmap.New[string, Mutex](),
	}
}

// Get returns the Mutex of the given document id, creating it on first use.
// Concurrent first lookups may both invoke the factory; the first stored
// instance wins and the duplicate is discarded before anyone runs it.
func (r *Registry) Get(docID string) (Mutex, error) {
	if mutex, ok := r.mutexes.Get(docID); ok {
		return mutex, nil
	}
	created, err := r.factory(docID)
	if err != nil {
		return nil, err
	}
	mutex, _ := r.mutexes.GetOrSet(docID, created)
	return mutex, nil
}

// Len returns the number of mutexes currently registered.
func (r *Registry) Len() int {
	return r.mutexes.Len()
}
