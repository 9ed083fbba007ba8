// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import (
	"log/slog"
	"time"
)

// Engine drives a single AMQP connection over an externally managed byte
// stream. Inbound bytes obtained from the [IOAdapter] are fed into the
// protocol core and decoded into events dispatched to the [Handler];
// handler actions are encoded by the core into outbound bytes drained
// back through the adapter.
//
// The engine does no I/O of its own and never blocks: it is meant to be
// driven by whatever event loop the embedder already runs. Call
// [*Engine.CanRead] and [*Engine.CanWrite] to size readiness interest,
// then [*Engine.Process] whenever the transport signals readiness, until
// [*Engine.Closed] reports true.
//
// A single engine instance must not be used concurrently: there is no
// internal locking and [*Engine.Process] fails with [ErrEngineBusy] when
// reentered. Different engine instances are fully independent and may be
// driven concurrently on separate goroutines.
//
// The exported fields are safe to modify after construction but before
// first use of Process. Fields must not be mutated concurrently with
// calls to Process.
//
// Construct via [NewEngine].
type Engine struct {
	// adapter is the embedder-supplied byte stream.
	adapter IOAdapter

	// busy is the reentrancy guard set while Process runs.
	busy bool

	// closed latches once the terminal state has been reached.
	closed bool

	// conn is the connection handle cached at construction.
	conn Connection

	// core is the owned protocol state machine.
	core ProtocolCore

	// handler receives dispatched events; referenced, not owned.
	handler Handler

	// readbuf is reused across read passes.
	readbuf []byte

	// readClosed records end-of-stream or error on the inbound side.
	readClosed bool

	// writeClosed records termination of the outbound side.
	writeClosed bool

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewEngine] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewEngine] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewEngine] from [Config.TimeNow].
	TimeNow func() time.Time
}

// NewEngine creates an [*Engine] that dispatches to the given handler.
//
// The cfg argument contains the common configuration for amqpeng components.
//
// The engine takes exclusive ownership of core and adapter. The handler
// is referenced, not owned, and must outlive the engine. The opts value
// is copied in and forwarded once to the core; obtain it from
// [*Container.MakeOptions] so the identity fields are unique.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewEngine(cfg *Config, core ProtocolCore,
	adapter IOAdapter, handler Handler, opts Options, logger SLogger) *Engine {
	core.Configure(opts.Clone())
	return &Engine{
		adapter:       adapter,
		busy:          false,
		closed:        false,
		conn:          core.Connection(),
		core:          core,
		handler:       handler,
		readbuf:       nil,
		readClosed:    false,
		writeClosed:   false,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// CanRead returns the number of bytes the engine is currently prepared
// to accept without blocking. Zero means either that the core has no
// decode capacity right now or that the read side has closed.
func (e *Engine) CanRead() int {
	if e.readClosed {
		return 0
	}
	return e.core.Capacity()
}

// CanWrite returns the number of already-encoded outbound bytes
// available to be drained through the adapter.
func (e *Engine) CanWrite() int {
	if e.writeClosed {
		return 0
	}
	return len(e.core.Pending())
}

// Closed reports whether the engine reached the terminal state: both
// directions terminated, all events dispatched, all output drained, and
// the adapter closed. Closed is monotonic: once true it never un-sets.
func (e *Engine) Closed() bool {
	return e.closed
}

// Connection returns the opaque connection handle associated with this
// engine. The handle is stable for the engine's lifetime.
func (e *Engine) Connection() Connection {
	return e.conn
}

// Process reads, writes and dispatches events according to flags.
//
// When [FlagRead] is set and the read side is open, Process performs one
// non-blocking adapter read and feeds the bytes into the core. All
// events available at that point are dispatched, in production order,
// before any write is attempted, so that handler actions are reflected
// in this same call's write pass. When [FlagWrite] is set and the write
// side is open, Process drains the core's pending output through one
// non-blocking adapter write; a second dispatch pass then delivers any
// events produced by writing. Short reads and partial writes are not
// errors: the engine retries on the next call with its state intact.
//
// With flags zero, Process performs no I/O but still dispatches events
// buffered by a prior call and still converges toward the closed state.
//
// Transport failures surface as [*IOError] and are never retried
// internally: the affected direction is closed and the failure fed to
// the core before Process returns, so a caller that continues observes
// consistent state. Handler errors propagate uncaught. Calling Process
// after [*Engine.Closed] reports true is a no-op returning nil.
//
// Process must not be reentered: a concurrent invocation on the same
// engine fails with [ErrEngineBusy].
func (e *Engine) Process(flags IOFlags) error {
	if e.busy {
		return ErrEngineBusy
	}
	e.busy = true
	defer func() { e.busy = false }()

	if e.closed {
		return nil
	}
	if flags.Has(FlagRead) && !e.readClosed {
		if err := e.tryRead(); err != nil {
			return err
		}
	}
	if err := e.dispatch(); err != nil {
		return err
	}
	if flags.Has(FlagWrite) && !e.writeClosed {
		if err := e.tryWrite(); err != nil {
			return err
		}
	}
	if err := e.dispatch(); err != nil {
		return err
	}
	return e.maybeClose()
}

// tryRead performs one non-blocking read sized to the core's current
// decode capacity and feeds the result into the core.
func (e *Engine) tryRead() error {
	capacity := e.core.Capacity()
	if capacity <= 0 {
		return nil
	}
	if cap(e.readbuf) < capacity {
		e.readbuf = make([]byte, capacity)
	}
	buf := e.readbuf[:capacity]

	t0 := e.TimeNow()
	e.Logger.Debug(
		"readStart",
		slog.Int("ioBufferSize", len(buf)),
		slog.Time("t", t0),
	)

	count, open, err := e.adapter.Read(buf)

	e.Logger.Debug(
		"readDone",
		slog.Int("ioBytesCount", count),
		slog.Bool("ioStreamOpen", open),
		slog.Any("err", err),
		slog.String("errClass", e.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", e.TimeNow()),
	)

	if err != nil {
		e.readClosed = true
		e.core.CloseInbound(err)
		return &IOError{Op: "read", Err: err}
	}
	if count > 0 {
		e.core.Consume(buf[:count])
	}
	if !open {
		e.readClosed = true
		e.core.CloseInbound(nil)
	}
	return nil
}

// tryWrite drains the core's pending outbound bytes through one
// non-blocking adapter write. Partial writes leave the remainder
// buffered inside the core for the next call.
func (e *Engine) tryWrite() error {
	pending := e.core.Pending()
	if len(pending) <= 0 {
		return nil
	}

	t0 := e.TimeNow()
	e.Logger.Debug(
		"writeStart",
		slog.Int("ioBufferSize", len(pending)),
		slog.Time("t", t0),
	)

	count, err := e.adapter.Write(pending)

	e.Logger.Debug(
		"writeDone",
		slog.Int("ioBytesCount", count),
		slog.Any("err", err),
		slog.String("errClass", e.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", e.TimeNow()),
	)

	if err != nil {
		e.writeClosed = true
		e.core.CloseOutbound(err)
		return &IOError{Op: "write", Err: err}
	}
	if count > 0 {
		e.core.Advance(count)
	}
	return nil
}

// dispatch delivers every currently-available event to the handler in
// the order the core produced them. Each event is popped from the core
// before the handler call, so a failing handler forfeits exactly the
// event it was given and the rest stay queued.
func (e *Engine) dispatch() error {
	for {
		event, ok := e.core.NextEvent()
		if !ok {
			return nil
		}
		e.Logger.Debug(
			"dispatchEvent",
			slog.String("eventKind", event.Kind.String()),
			slog.Any("err", event.Err),
			slog.Time("t", e.TimeNow()),
		)
		if err := e.handler.HandleEvent(event); err != nil {
			return err
		}
	}
}

// maybeClose closes the adapter and latches the terminal state once the
// core reports that both directions terminated and nothing remains to
// flush. The adapter Close is invoked exactly once.
func (e *Engine) maybeClose() error {
	if !e.core.Closed() {
		return nil
	}
	e.readClosed = true
	e.writeClosed = true

	t0 := e.TimeNow()
	e.Logger.Info(
		"closeStart",
		slog.Time("t", t0),
	)

	err := e.adapter.Close()
	e.closed = true

	e.Logger.Info(
		"closeDone",
		slog.Any("err", err),
		slog.String("errClass", e.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", e.TimeNow()),
	)

	if err != nil {
		return &IOError{Op: "close", Err: err}
	}
	return nil
}
