// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bassosimone/safeconn"
)

// DefaultIOTimeout is the deadline budget [NewNetConnAdapter] installs
// for each adapter read and write.
const DefaultIOTimeout = time.Millisecond

// NewNetConnAdapter returns a [*NetConnAdapter] wrapping the given
// connection.
//
// The cfg argument contains the common configuration for amqpeng components.
//
// The adapter owns the connection: the engine's terminal close closes it.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewNetConnAdapter(cfg *Config, conn net.Conn, logger SLogger) *NetConnAdapter {
	return &NetConnAdapter{
		closeonce:     sync.Once{},
		conn:          conn,
		laddr:         safeconn.LocalAddr(conn),
		protocol:      safeconn.Network(conn),
		raddr:         safeconn.RemoteAddr(conn),
		ErrClassifier: cfg.ErrClassifier,
		IOTimeout:     DefaultIOTimeout,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// NetConnAdapter adapts an existing [net.Conn] to the [IOAdapter]
// contract so an [*Engine] can be driven over it.
//
// The adapter dials and listens for nothing: the embedder establishes
// the connection and remains responsible for readiness detection. Each
// read and write installs a deadline of IOTimeout from now, so an
// operation that cannot make progress returns within that budget and is
// reported as a short read or write rather than an error. With the
// default budget of [DefaultIOTimeout] the adapter is close enough to
// non-blocking for event-loop use.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with adapter operations.
type NetConnAdapter struct {
	// closeonce makes Close idempotent.
	closeonce sync.Once

	// conn is the owned connection.
	conn net.Conn

	// laddr, protocol, raddr are captured for logging.
	laddr    string
	protocol string
	raddr    string

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewNetConnAdapter] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// IOTimeout bounds how long a single read or write may block.
	//
	// Set by [NewNetConnAdapter] to [DefaultIOTimeout].
	IOTimeout time.Duration

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewNetConnAdapter] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewNetConnAdapter] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ IOAdapter = &NetConnAdapter{}

// Read implements [IOAdapter].
//
// A deadline expiry maps to a short read with the stream open; [io.EOF]
// maps to end-of-stream. Everything else is a transport failure.
func (c *NetConnAdapter) Read(buf []byte) (int, bool, error) {
	t0 := c.TimeNow()
	c.Logger.Debug(
		"readStart",
		slog.Int("ioBufferSize", len(buf)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", t0),
	)

	_ = c.conn.SetReadDeadline(t0.Add(c.IOTimeout))
	count, err := c.conn.Read(buf)
	count, open, err := mapReadResult(count, err)

	c.Logger.Debug(
		"readDone",
		slog.Int("ioBytesCount", count),
		slog.Bool("ioStreamOpen", open),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)

	return count, open, err
}

// mapReadResult translates [net.Conn.Read] results into the
// [IOAdapter.Read] convention.
func mapReadResult(count int, err error) (int, bool, error) {
	switch {
	case err == nil:
		return count, true, nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return count, true, nil
	case errors.Is(err, io.EOF):
		return count, false, nil
	default:
		return 0, false, err
	}
}

// Write implements [IOAdapter].
//
// A deadline expiry maps to a short write. Everything else is a
// transport failure.
func (c *NetConnAdapter) Write(buf []byte) (int, error) {
	t0 := c.TimeNow()
	c.Logger.Debug(
		"writeStart",
		slog.Int("ioBufferSize", len(buf)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", t0),
	)

	_ = c.conn.SetWriteDeadline(t0.Add(c.IOTimeout))
	count, err := c.conn.Write(buf)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		err = nil
	}

	c.Logger.Debug(
		"writeDone",
		slog.Int("ioBytesCount", count),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)

	return count, err
}

// Close implements [IOAdapter].
//
// Subsequent calls return [net.ErrClosed], consistent with Go's standard
// library behavior for closed connections.
func (c *NetConnAdapter) Close() (err error) {
	err = net.ErrClosed
	c.closeonce.Do(func() {
		t0 := c.TimeNow()
		c.Logger.Info(
			"closeStart",
			slog.String("localAddr", c.laddr),
			slog.String("protocol", c.protocol),
			slog.String("remoteAddr", c.raddr),
			slog.Time("t", t0),
		)

		err = c.conn.Close()

		c.Logger.Info(
			"closeDone",
			slog.Any("err", err),
			slog.String("errClass", c.ErrClassifier.Classify(err)),
			slog.String("localAddr", c.laddr),
			slog.String("protocol", c.protocol),
			slog.String("remoteAddr", c.raddr),
			slog.Time("t0", t0),
			slog.Time("t", c.TimeNow()),
		)
	})
	return
}
