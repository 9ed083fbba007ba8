// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// newAdapterConn returns a [*netstub.FuncConn] with the methods invoked
// by [*NetConnAdapter] during construction and deadline installation
// stubbed out. Tests set ReadFunc, WriteFunc and CloseFunc as needed.
func newAdapterConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc:   func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		SetReadDeadFunc: func(t time.Time) error { return nil },
		SetWriteDeaFunc: func(t time.Time) error { return nil },
	}
}

// funcIOAdapter is a scripted [IOAdapter] for unit testing the engine
// without a real transport. Unset functions behave as benign no-ops:
// reads find nothing, writes accept everything, close succeeds.
type funcIOAdapter struct {
	ReadFunc  func(buf []byte) (int, bool, error)
	WriteFunc func(buf []byte) (int, error)
	CloseFunc func() error
}

var _ IOAdapter = &funcIOAdapter{}

func (a *funcIOAdapter) Read(buf []byte) (int, bool, error) {
	if a.ReadFunc == nil {
		return 0, true, nil
	}
	return a.ReadFunc(buf)
}

func (a *funcIOAdapter) Write(buf []byte) (int, error) {
	if a.WriteFunc == nil {
		return len(buf), nil
	}
	return a.WriteFunc(buf)
}

func (a *funcIOAdapter) Close() error {
	if a.CloseFunc == nil {
		return nil
	}
	return a.CloseFunc()
}

// fakeCore is a scripted [ProtocolCore] that deterministically emits the
// events and byte sequences configured by the test.
//
// The zero value advertises no decode capacity; set capacity to let the
// engine read. Termination tracking mirrors the real core contract:
// Closed reports true once both directions closed and pending drained.
type fakeCore struct {
	capacity   int
	configured []Options
	conn       Connection
	consumed   [][]byte
	events     []Event
	inClosed   bool
	inErr      error
	outClosed  bool
	outErr     error
	pending    []byte

	// onConsume optionally reacts to consumed bytes, e.g. by queueing
	// events or pending output.
	onConsume func(data []byte)

	// onCloseInbound optionally reacts to inbound termination, e.g. by
	// closing the outbound direction like a transport-close reaction.
	onCloseInbound func(err error)
}

var _ ProtocolCore = &fakeCore{}

func (c *fakeCore) Configure(opts Options) {
	c.configured = append(c.configured, opts)
}

func (c *fakeCore) Capacity() int {
	return c.capacity
}

func (c *fakeCore) Consume(data []byte) {
	c.consumed = append(c.consumed, append([]byte{}, data...))
	if c.onConsume != nil {
		c.onConsume(data)
	}
}

func (c *fakeCore) CloseInbound(err error) {
	c.inClosed = true
	c.inErr = err
	if c.onCloseInbound != nil {
		c.onCloseInbound(err)
	}
}

func (c *fakeCore) CloseOutbound(err error) {
	c.outClosed = true
	c.outErr = err
}

func (c *fakeCore) Pending() []byte {
	return c.pending
}

func (c *fakeCore) Advance(n int) {
	c.pending = c.pending[n:]
}

func (c *fakeCore) NextEvent() (Event, bool) {
	if len(c.events) <= 0 {
		return Event{}, false
	}
	event := c.events[0]
	c.events = c.events[1:]
	return event, true
}

func (c *fakeCore) Closed() bool {
	return c.inClosed && c.outClosed && len(c.pending) <= 0
}

func (c *fakeCore) Connection() Connection {
	return c.conn
}

// recordingHandler collects dispatched events in order.
type recordingHandler struct {
	events []Event

	// fail optionally makes HandleEvent fail for a given event.
	fail func(event Event) error
}

var _ Handler = &recordingHandler{}

func (h *recordingHandler) HandleEvent(event Event) error {
	h.events = append(h.events, event)
	if h.fail != nil {
		return h.fail(event)
	}
	return nil
}
