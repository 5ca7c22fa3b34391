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
	"context"
	"path"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
	"go.uber.org/multierr"
)

const etcdLockPrefix = "/peerlease/lock"

// EtcdLocker implements Locker on top of an etcd cluster. The session lease
// makes the lock self-releasing when the holding process terminates, which is
// exactly the contract the native backend expects.
type EtcdLocker struct {
	client     *clientv3.Client
	ttlSeconds int
}

// enforce compilation error
var _ Locker = (*EtcdLocker)(nil)

// EtcdLockerOption configures an EtcdLocker.
type EtcdLockerOption func(*EtcdLocker)

// WithSessionTTL sets the etcd session time-to-live in seconds.
func WithSessionTTL(seconds int) EtcdLockerOption {
	return func(l *EtcdLocker) { l.ttlSeconds = seconds }
}

// NewEtcdLocker creates an EtcdLocker on top of an existing client.
// The caller retains ownership of the client and its lifecycle.
func NewEtcdLocker(client *clientv3.Client, opts ...EtcdLockerOption) *EtcdLocker {
	locker := &EtcdLocker{
		client:     client,
		ttlSeconds: 10,
	}
	for _, opt := range opts {
		opt(locker)
	}
	return locker
}

// Lock implements Locker.
func (l *EtcdLocker) Lock(ctx context.Context, name string) (func() error, error) {
	session, err := concurrency.NewSession(l.client,
		concurrency.WithTTL(l.ttlSeconds),
		concurrency.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	lock := concurrency.NewMutex(session, path.Join(etcdLockPrefix, name))
	if err := lock.Lock(ctx); err != nil {
		return nil, multierr.Append(err, session.Close())
	}

	unlock := func() error {
		err := lock.Unlock(context.WithoutCancel(ctx))
		return multierr.Append(err, session.Close())
	}
	return unlock, nil
}
