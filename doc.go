// SPDX-License-Identifier: GPL-3.0-or-later

// Package amqpeng provides a non-blocking, bytes-in/bytes-out AMQP
// protocol engine for integration into externally managed I/O loops.
//
// # Core Abstraction
//
// The package is built around the [*Engine], which manages a single AMQP
// connection without performing any I/O of its own. Incoming AMQP bytes
// from any kind of data connection are fed into the engine and decoded
// into events dispatched to a [Handler]; the resulting AMQP output bytes
// are drained back over the connection. The "connection" could be a
// socket managed by select, poll or epoll, an RDMA connection, a
// shared-memory buffer, or a pipe.
//
// The engine is assembled from three injected collaborators:
//
//   - [ProtocolCore]: the opaque AMQP encode/decode state machine the
//     engine owns and drives
//   - [IOAdapter]: the embedder-supplied non-blocking read/write/close
//     implementation, the sole point of actual data movement
//   - [Handler]: the application callback receiving transport,
//     connection, session, link and message events
//
// # Driving the Engine
//
// Construct a [*Container] once per application endpoint identity, then
// for each connection obtain fresh options with [*Container.MakeOptions]
// and build an engine with [NewEngine]. Whenever the embedder's event
// loop signals readiness, call [*Engine.Process] with [FlagRead],
// [FlagWrite] or both; use [*Engine.CanRead] and [*Engine.CanWrite] to
// size readiness interest. The engine converges to a terminal state
// observable via [*Engine.Closed] once both directions terminate and all
// buffered work has drained.
//
// No operation blocks: short reads and partial writes are tolerated and
// retried by the embedder on subsequent Process calls, never waited out.
//
// # Concurrency
//
// A single engine instance cannot be called concurrently: there is no
// internal locking, and a reentered [*Engine.Process] fails with
// [ErrEngineBusy]. Different engine instances are independent and can be
// processed concurrently in separate goroutines. A [*Container] shared
// across goroutines must be externally serialized.
//
// # Error Taxonomies
//
// Transport failures raised by the [IOAdapter] propagate synchronously
// out of [*Engine.Process] as [*IOError] and are never retried
// internally; retry policy belongs to the embedder. Protocol violations
// detected by the core are delivered to the [Handler] as ordinary
// [EventTransportError] events, never as Process errors.
//
// # Observability
//
// All components support structured logging via [SLogger] (compatible
// with [log/slog]).
//
// By default, logging is disabled. Pass a custom [*slog.Logger] to
// enable logging. Error classification is configurable via
// [ErrClassifier]; by default, errors are classified with the errclass
// package.
//
// I/O-level events (read, write, event dispatch) are emitted at
// [slog.LevelDebug]; lifecycle events (adapter close) use
// [slog.LevelInfo]. Completion events (*Done) include t0 (start time),
// err, and errClass fields.
//
// Use [NewSpanID] to generate a unique, time-ordered identifier (UUIDv7)
// for each engine, then attach it to the logger with [*slog.Logger.With]
// so all entries from that engine share the same spanID.
//
// # Design Boundaries
//
// This package intentionally provides only the byte-exchange engine and
// its option factory. The following are out of scope and should be
// implemented by the embedder or by higher-level packages:
//
//   - Reactor, selectable and timer abstractions
//   - Thread pools and scheduling
//   - Socket creation, dialing and listening ([*NetConnAdapter] only
//     bridges a connection the embedder already established)
//   - Retry and backoff policy for transport failures
//
// These concerns belong to the embedder's event loop, which owns timing
// and readiness for the engine.
package amqpeng
