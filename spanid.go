// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 representing a span.
//
// A span is a sequence of operations that can fail in a single, specific
// way. For example, the whole lifetime of one engine, from construction
// to convergence to the closed state.
//
// We recommend generating a span ID per engine and attaching it to the
// engine's logger with [*slog.Logger.With]: all log entries emitted while
// processing that engine will then share the same spanID, enabling
// correlation across the embedder's event loop iterations.
//
// The span terminology is borrowed from OTel.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
