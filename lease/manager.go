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

// Package lease hands out short peer identifiers scoped to a document id.
// An identifier is never concurrently held by two collaborators of the same
// document, and a released identifier is recycled only for callers whose
// version is at least as new as the one it was released at.
//
// All cross-process coordination runs over a shared storage capability,
// serialized by the mutex package. Releases are staged in a crash-tolerant
// pending buffer first, so a terminating process only needs one cheap write
// for its identifier to eventually return to the pool.
package lease

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	gerrors "github.com/tochemey/peerlease/errors"
	"github.com/tochemey/peerlease/internal/syncmap"
	"github.com/tochemey/peerlease/internal/validation"
	"github.com/tochemey/peerlease/log"
	"github.com/tochemey/peerlease/mutex"
	"github.com/tochemey/peerlease/notify"
	"github.com/tochemey/peerlease/storage"
)

const (
	// DefaultStaleThreshold is how long an active lease may go unreleased
	// before it is discarded. A holder that never confirmed a final version
	// cannot be trusted for reuse, so expired entries are dropped outright,
	// never recycled.
	DefaultStaleThreshold = 24 * time.Hour

	// maxGenerateAttempts caps the id generator retries on collision.
	maxGenerateAttempts = 32
)

// Compare orders two encoded versions. It returns a negative, zero or
// positive order when the versions are comparable, and comparable=false when
// they are not (for instance concurrent version vectors). Incomparable pairs
// never recycle an identifier.
type Compare func(a, b string) (order int, comparable bool)

// Manager coordinates lease acquisition, release and recycling over a shared
// storage. One Manager serves any number of document ids.
type Manager struct {
	storage        storage.Storage
	registry       *mutex.Registry
	logger         log.Logger
	clock          func() time.Time
	staleThreshold time.Duration

	// mutex construction settings captured for the default registry factory
	broadcaster    notify.Broadcaster
	locker         mutex.Locker
	mutexTTL       time.Duration
	acquireTimeout time.Duration

	flushGroup singleflight.Group
	knownDocs  *syncmap.SyncMap[string, struct{}]
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClock sets a custom clock function for retrieving the current time.
// Mostly useful in tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithStaleThreshold sets how long an unreleased active lease survives.
func WithStaleThreshold(threshold time.Duration) Option {
	return func(m *Manager) { m.staleThreshold = threshold }
}

// WithBroadcaster sets the optional broadcaster waking mutex waiters early.
func WithBroadcaster(broadcaster notify.Broadcaster) Option {
	return func(m *Manager) { m.broadcaster = broadcaster }
}

// WithLocker sets the native exclusive-lock capability, preferred over the
// storage-backed fallback mutex when present.
func WithLocker(locker mutex.Locker) Option {
	return func(m *Manager) { m.locker = locker }
}

// WithMutexTTL sets the advisory lock record time-to-live.
func WithMutexTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.mutexTTL = ttl }
}

// WithAcquireTimeout sets the mutex acquisition deadline.
func WithAcquireTimeout(timeout time.Duration) Option {
	return func(m *Manager) { m.acquireTimeout = timeout }
}

// WithRegistry replaces the default mutex registry. The registry decides how
// the per-document mutexes are built and owns their lifecycle.
func WithRegistry(registry *mutex.Registry) Option {
	return func(m *Manager) { m.registry = registry }
}

// NewManager creates an instance of Manager on top of the given storage.
func NewManager(store storage.Storage, opts ...Option) (*Manager, error) {
	manager := &Manager{
		storage:        store,
		logger:         log.DefaultLogger,
		clock:          time.Now,
		staleThreshold: DefaultStaleThreshold,
		mutexTTL:       mutex.DefaultTTL,
		acquireTimeout: mutex.DefaultAcquireTimeout,
		knownDocs:      syncmap.New[string, struct{}](),
	}
	for _, opt := range opts {
		opt(manager)
	}

	if err := validation.New(validation.FailFast()).
		AddAssertion(store != nil, gerrors.ErrStorageRequired).
		AddAssertion(manager.staleThreshold > 0, gerrors.ErrInvalidStaleThreshold).
		Validate(); err != nil {
		return nil, err
	}

	if manager.registry == nil {
		manager.registry = mutex.NewRegistry(func(docID string) (mutex.Mutex, error) {
			options := []mutex.Option{
				mutex.WithTTL(manager.mutexTTL),
				mutex.WithAcquireTimeout(manager.acquireTimeout),
				mutex.WithLogger(manager.logger),
				mutex.WithClock(manager.clock),
			}
			if manager.broadcaster != nil {
				options = append(options, mutex.WithBroadcaster(manager.broadcaster))
			}
			if manager.locker != nil {
				options = append(options, mutex.WithLocker(manager.locker))
			}
			return mutex.New(docID, store, options...)
		})
	}
	return manager, nil
}

// Acquire leases an identifier for the given document. The generator mints
// fresh identifiers when the pool has nothing recyclable; version is the
// caller's current document version and compare the ordering over versions.
//
// A pooled identifier is recycled for the first available entry whose release
// version compares less than or equal to the caller's version. The comparison
// uses a greater-or-equal boundary: a caller standing at exactly the release
// version may reuse the identifier.
func (m *Manager) Acquire(ctx context.Context, docID string, generate func() string, version string, compare Compare) (*Lease, error) {
	if err := validation.New(validation.FailFast()).
		AddAssertion(docID != "", gerrors.ErrDocumentIDRequired).
		AddAssertion(generate != nil, gerrors.ErrGeneratorRequired).
		AddAssertion(version != "", gerrors.ErrVersionRequired).
		AddAssertion(compare != nil, gerrors.ErrComparatorRequired).
		Validate(); err != nil {
		return nil, err
	}

	lock, err := m.registry.Get(docID)
	if err != nil {
		return nil, err
	}
	m.knownDocs.Set(docID, struct{}{})

	var leasedID string
	err = lock.RunExclusive(ctx, func(ctx context.Context) error {
		state, err := m.loadState(ctx, docID)
		if err != nil {
			return err
		}

		buffer, snapshot, present, err := readPending(ctx, m.storage, docID)
		if err != nil {
			return err
		}
		folded := foldPending(state, buffer)
		m.expireStale(state, docID)

		id, recycled := selectAvailable(state, version, compare)
		if !recycled {
			if id, err = mint(state, generate); err != nil {
				return err
			}
		}

		state.Active[id] = ActiveEntry{
			LeasedAt: m.clock().UnixMilli(),
			Version:  version,
		}
		state.normalize()

		if err := m.persistState(ctx, docID, state); err != nil {
			return err
		}
		if err := finalizePending(ctx, m.storage, docID, snapshot, present, folded); err != nil {
			// the folded entries are already part of the persisted state;
			// re-draining them later is idempotent
			m.logger.Warnf("document=(%s) failed to finalize pending releases: %v", docID, err)
		}

		leasedID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debugf("document=(%s) leased id=(%s)", docID, leasedID)
	return newLease(m, docID, leasedID), nil
}

// Flush folds every staged release of the document into the persisted lease
// state. Release calls it automatically; process-lifecycle hooks may call it
// again to push out entries a timed-out flush left behind.
func (m *Manager) Flush(ctx context.Context, docID string) error {
	if docID == "" {
		return gerrors.ErrDocumentIDRequired
	}
	return m.flushPending(ctx, docID)
}

// ResetState removes every persisted structure of the given document: lease
// state, pending buffer, lock record and fence counter. Meant for tooling and
// tests; running it while leases are live forfeits their guarantees.
func (m *Manager) ResetState(ctx context.Context, docID string) error {
	if docID == "" {
		return gerrors.ErrDocumentIDRequired
	}
	var err error
	for _, key := range storage.DocumentKeys(docID) {
		err = multierr.Append(err, m.storage.Delete(ctx, key))
	}
	return err
}

// ResetAll runs ResetState for every document id this Manager has seen.
func (m *Manager) ResetAll(ctx context.Context) error {
	var err error
	for _, docID := range m.knownDocs.Keys() {
		err = multierr.Append(err, m.ResetState(ctx, docID))
	}
	return err
}

// flushPending drains the pending buffer under the document mutex. Concurrent
// flushes of the same document collapse into one run.
func (m *Manager) flushPending(ctx context.Context, docID string) error {
	_, err, _ := m.flushGroup.Do(docID, func() (any, error) {
		lock, err := m.registry.Get(docID)
		if err != nil {
			return nil, err
		}
		return nil, lock.RunExclusive(ctx, func(ctx context.Context) error {
			state, err := m.loadState(ctx, docID)
			if err != nil {
				return err
			}

			buffer, snapshot, present, err := readPending(ctx, m.storage, docID)
			if err != nil {
				return err
			}
			if !present {
				return nil
			}

			folded := foldPending(state, buffer)
			m.expireStale(state, docID)
			state.normalize()

			if err := m.persistState(ctx, docID, state); err != nil {
				return err
			}
			return finalizePending(ctx, m.storage, docID, snapshot, present, folded)
		})
	})
	return err
}

func (m *Manager) loadState(ctx context.Context, docID string) (*State, error) {
	raw, ok, err := m.storage.Get(ctx, storage.StateKey(docID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return newState(), nil
	}
	state := decodeState(raw)
	if state == nil {
		// corrupted payloads read as absence, never as a fatal error
		m.logger.Warnf("document=(%s) discarding corrupted lease state", docID)
		return newState(), nil
	}
	return state, nil
}

func (m *Manager) persistState(ctx context.Context, docID string, state *State) error {
	key := storage.StateKey(docID)
	if state.empty() {
		return m.storage.Delete(ctx, key)
	}
	return m.storage.Set(ctx, key, state.encode())
}

// expireStale deletes active entries older than the staleness threshold.
func (m *Manager) expireStale(state *State, docID string) {
	now := m.clock()
	for id, entry := range state.Active {
		age := now.Sub(time.UnixMilli(entry.LeasedAt))
		if age >= m.staleThreshold {
			m.logger.Infof("document=(%s) discarding stale active id=(%s)", docID, id)
			delete(state.Active, id)
		}
	}
}

// foldPending merges the pending buffer into the state: each staged release
// removes the identifier from active and upserts it into available with the
// staged version. The merge is idempotent. It returns the folded identifiers.
func foldPending(state *State, buffer pendingBuffer) []string {
	folded := make([]string, 0, len(buffer))
	for id, version := range buffer {
		delete(state.Active, id)
		state.upsertAvailable(id, version)
		folded = append(folded, id)
	}
	return folded
}

// selectAvailable scans the pool in order and takes the first entry the
// caller's version can safely reuse.
func selectAvailable(state *State, version string, compare Compare) (string, bool) {
	for i, entry := range state.Available {
		order, comparable := compare(version, entry.Version)
		if !comparable || order < 0 {
			continue
		}
		state.Available = append(state.Available[:i], state.Available[i+1:]...)
		return entry.ID, true
	}
	return "", false
}

// mint asks the generator for an identifier colliding with nothing currently
// known, giving up after maxGenerateAttempts.
func mint(state *State, generate func() string) (string, error) {
	known := state.knownIDs()
	for range maxGenerateAttempts {
		id := generate()
		if id == "" || known.Contains(id) {
			continue
		}
		return id, nil
	}
	return "", gerrors.NewErrGeneratorExhausted(maxGenerateAttempts)
}
