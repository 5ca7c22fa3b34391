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
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"

	"github.com/tochemey/peerlease/log"
)

// NATSConfig configures the NATS broadcaster.
type NATSConfig struct {
	// Server specifies the NATS server url.
	Server string
	// Name specifies the connection name reported to the server.
	Name string
	// ReconnectWait specifies how long to wait between reconnect attempts.
	// Defaults to two seconds.
	ReconnectWait time.Duration
}

// NATS is a Broadcaster backed by a NATS subject per document id. It wakes
// waiters across processes and hosts.
type NATS struct {
	config     *NATSConfig
	connection *nats.Conn
	logger     log.Logger
}

// enforce compilation error
var _ Broadcaster = (*NATS)(nil)

// NATSOption configures the NATS broadcaster.
type NATSOption func(*NATS)

// WithNATSLogger sets the logger.
func WithNATSLogger(logger log.Logger) NATSOption {
	return func(n *NATS) { n.logger = logger }
}

// NewNATS connects to the configured NATS server and returns a broadcaster.
// The connection is attempted a few times with exponential backoff before
// giving up.
func NewNATS(config *NATSConfig, opts ...NATSOption) (*NATS, error) {
	broadcaster := &NATS{
		config: config,
		logger: log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(broadcaster)
	}

	if config.ReconnectWait <= 0 {
		config.ReconnectWait = 2 * time.Second
	}

	natsOptions := nats.GetDefaultOptions()
	natsOptions.Url = config.Server
	natsOptions.Name = config.Name
	natsOptions.ReconnectWait = config.ReconnectWait
	natsOptions.MaxReconnect = -1

	var connection *nats.Conn
	const maxRetries = 5
	retrier := retry.NewRetrier(maxRetries, 100*time.Millisecond, natsOptions.ReconnectWait)
	err := retrier.Run(func() error {
		var err error
		connection, err = natsOptions.Connect()
		return err
	})
	if err != nil {
		return nil, err
	}

	broadcaster.connection = connection
	return broadcaster, nil
}

// Publish implements Broadcaster.
func (n *NATS) Publish(_ context.Context, channel string) error {
	return n.connection.Publish(channel, nil)
}

// Subscribe implements Broadcaster.
func (n *NATS) Subscribe(_ context.Context, channel string) (<-chan struct{}, func(), error) {
	signal := make(chan struct{}, 1)
	subscription, err := n.connection.Subscribe(channel, func(*nats.Msg) {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, nil, err
	}

	cancel := func() {
		if err := subscription.Unsubscribe(); err != nil {
			n.logger.Warnf("failed to unsubscribe from channel=(%s): %v", channel, err)
		}
	}
	return signal, cancel, nil
}

// Close implements Broadcaster.
func (n *NATS) Close() error {
	if n.connection != nil {
		n.connection.Close()
	}
	return nil
}
