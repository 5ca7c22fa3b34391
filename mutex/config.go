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
	"time"

	gerrors "github.com/tochemey/peerlease/errors"
	"github.com/tochemey/peerlease/internal/validation"
	"github.com/tochemey/peerlease/log"
	"github.com/tochemey/peerlease/notify"
	"github.com/tochemey/peerlease/storage"
)

const (
	// DefaultTTL is the default lifetime of an advisory lock record before a
	// crashed holder is considered stale.
	DefaultTTL = 10 * time.Second
	// DefaultAcquireTimeout is the default overall deadline of an acquisition.
	DefaultAcquireTimeout = 30 * time.Second
)

// Config carries the settings of a Mutex.
type Config struct {
	docID          string
	storage        storage.Storage
	broadcaster    notify.Broadcaster
	locker         Locker
	ttl            time.Duration
	acquireTimeout time.Duration
	logger         log.Logger
	clock          func() time.Time
}

// Option configures a Mutex at construction time.
type Option func(*Config)

// WithBroadcaster sets the optional broadcaster used to wake waiters early.
func WithBroadcaster(broadcaster notify.Broadcaster) Option {
	return func(c *Config) { c.broadcaster = broadcaster }
}

// WithLocker sets the native exclusive-lock capability. When present it is
// preferred over the storage-backed fallback.
func WithLocker(locker Locker) Option {
	return func(c *Config) { c.locker = locker }
}

// WithTTL sets the lifetime of the advisory lock record.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) { c.ttl = ttl }
}

// WithAcquireTimeout sets the overall acquisition deadline.
func WithAcquireTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.acquireTimeout = timeout }
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// WithClock sets a custom clock function for retrieving the current time.
// Mostly useful in tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) { c.clock = clock }
}

// Validate checks the configuration for misuse.
func (c *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddAssertion(c.docID != "", gerrors.ErrDocumentIDRequired).
		AddAssertion(c.storage != nil || c.locker != nil, gerrors.ErrStorageRequired).
		AddAssertion(c.ttl > 0, gerrors.ErrInvalidMutexTTL).
		AddAssertion(c.acquireTimeout > 0, gerrors.ErrInvalidAcquireTimeout).
		Validate()
}

// New creates a Mutex for the given document id. The native backend is chosen
// when a Locker is configured, otherwise the storage-backed fallback is used.
func New(docID string, store storage.Storage, opts ...Option) (Mutex, error) {
	config := &Config{
		docID:          docID,
		storage:        store,
		ttl:            DefaultTTL,
		acquireTimeout: DefaultAcquireTimeout,
		logger:         log.DefaultLogger,
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.locker != nil {
		return newNative(config), nil
	}
	return newFallback(config), nil
}
