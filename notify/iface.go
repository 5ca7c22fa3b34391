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

// Package notify defines the optional broadcast capability used to wake
// mutex waiters early. Signals are best-effort: a lost signal only delays a
// waiter until its next backoff round, it never affects correctness.
package notify

import (
	"context"
	"fmt"
)

// Broadcaster is a fire-and-forget pub/sub channel shared by the coordinating
// processes of a document domain.
type Broadcaster interface {
	// Publish emits a wake signal on the given channel.
	Publish(ctx context.Context, channel string) error
	// Subscribe registers interest in the given channel. Signals are delivered
	// on the returned channel, coalesced: a slow receiver observes at most one
	// pending signal. The returned function cancels the subscription.
	Subscribe(ctx context.Context, channel string) (<-chan struct{}, func(), error)
	// Close releases the resources held by the broadcaster.
	Close() error
}

// Channel derives the broadcast channel name for the given document id.
func Channel(docID string) string {
	return fmt.Sprintf("peerlease.release.%s", docID)
}
