// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import "errors"

// ErrEngineBusy indicates that [*Engine.Process] was invoked while a
// previous invocation on the same engine was still in progress.
//
// A single engine must be driven by one goroutine at a time. This error
// is never wrapped inside an [*IOError] so that callers can tell a
// contract violation apart from a transport failure.
var ErrEngineBusy = errors.New("amqpeng: engine is busy processing")

// IOError is a transport-level failure reported by an [IOAdapter]
// operation and propagated out of [*Engine.Process].
//
// Transport failures are disjoint from protocol failures: malformed or
// illegal peer behavior is detected by the protocol core and delivered
// to the [Handler] as an ordinary [Event], never as an IOError.
type IOError struct {
	// Op is the adapter operation that failed ("read", "write" or "close").
	Op string

	// Err is the underlying error returned by the adapter.
	Err error
}

var _ error = &IOError{}

// Error implements error.
func (e *IOError) Error() string {
	return "amqpeng: io " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying adapter error.
func (e *IOError) Unwrap() error {
	return e.Err
}
