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

	"go.etcd.io/bbolt"

	gerrors "github.com/tochemey/peerlease/errors"
)

var boltBucket = []byte(keyPrefix)

// Bolt is a Storage implementation backed by a bbolt database file. Processes
// on the same host coordinate through the shared file.
type Bolt struct {
	db *bbolt.DB
}

// enforce compilation error
var _ Storage = (*Bolt)(nil)

// NewBolt opens (or creates) the bbolt database at the given path and returns
// a Bolt storage. Call Close when done.
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, gerrors.NewErrBrokenStorage(err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, gerrors.NewErrBrokenStorage(err)
	}
	return &Bolt{db: db}, nil
}

// Get implements Storage.
func (b *Bolt) Get(_ context.Context, key string) (string, bool, error) {
	var value string
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if raw != nil {
			value = string(raw)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, gerrors.NewErrBrokenStorage(err)
	}
	return value, found, nil
}

// Set implements Storage.
func (b *Bolt) Set(_ context.Context, key string, value string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return gerrors.NewErrBrokenStorage(err)
	}
	return nil
}

// Delete implements Storage.
func (b *Bolt) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
	if err != nil {
		return gerrors.NewErrBrokenStorage(err)
	}
	return nil
}

// Close closes the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
