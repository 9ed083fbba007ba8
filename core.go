// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

// Connection is the opaque handle to the AMQP connection state held by
// the protocol core. The engine never interprets it: it caches the handle
// at construction and returns it unchanged from [*Engine.Connection] for
// the engine's whole lifetime.
type Connection any

// EventKind identifies the granularity of a protocol [Event].
type EventKind int

const (
	// EventTransportError reports a protocol-level violation detected
	// by the core (malformed or illegal peer behavior). The Err field
	// of the event carries the condition.
	EventTransportError = EventKind(iota + 1)

	// EventTransportClosed reports that the transport terminated in
	// both directions at the protocol level.
	EventTransportClosed

	// EventConnectionOpen reports that the remote peer opened the
	// connection.
	EventConnectionOpen

	// EventConnectionClose reports that the remote peer closed the
	// connection.
	EventConnectionClose

	// EventSessionOpen reports that the remote peer opened a session.
	EventSessionOpen

	// EventSessionClose reports that the remote peer closed a session.
	EventSessionClose

	// EventLinkOpen reports that the remote peer opened a link.
	EventLinkOpen

	// EventLinkClose reports that the remote peer closed a link.
	EventLinkClose

	// EventDelivery reports an incoming message delivery.
	EventDelivery
)

// String returns the camel-case event name used in structured logs.
func (k EventKind) String() string {
	switch k {
	case EventTransportError:
		return "transportError"
	case EventTransportClosed:
		return "transportClosed"
	case EventConnectionOpen:
		return "connectionOpen"
	case EventConnectionClose:
		return "connectionClose"
	case EventSessionOpen:
		return "sessionOpen"
	case EventSessionClose:
		return "sessionClose"
	case EventLinkOpen:
		return "linkOpen"
	case EventLinkClose:
		return "linkClose"
	case EventDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Event is a protocol lifecycle event decoded by the [ProtocolCore] and
// dispatched by the engine to the application [Handler].
type Event struct {
	// Kind is the event granularity.
	Kind EventKind

	// Conn is the opaque connection handle the event belongs to.
	Conn Connection

	// Err carries the protocol error condition for
	// [EventTransportError] events and is nil otherwise.
	Err error
}

// ProtocolCore is the opaque AMQP encode/decode state machine driven by
// the engine. The engine exclusively owns one core instance.
//
// The core exposes a narrow feed-bytes/emit-events, take-actions/emit-bytes
// surface. It never performs I/O and never blocks. Implementations are
// not required to be safe for concurrent use: the engine serializes all
// calls within [*Engine.Process].
//
// Protocol violations must surface as [EventTransportError] events, not
// as panics or errors: the transport error taxonomy belongs to the
// [IOAdapter] alone.
type ProtocolCore interface {
	// Configure applies construction-time options. The engine calls
	// Configure exactly once, before any other method, with its own
	// copy of the options.
	Configure(opts Options)

	// Capacity returns the number of inbound bytes the core can accept
	// for decoding right now. Zero means the core wants no input.
	Capacity() int

	// Consume feeds inbound bytes into the decoder, possibly producing
	// events. The engine never feeds more than Capacity() bytes.
	Consume(data []byte)

	// CloseInbound signals that the inbound direction terminated: err
	// is nil for an orderly end-of-stream and non-nil for a transport
	// failure. The core may react by producing events.
	CloseInbound(err error)

	// CloseOutbound signals that the outbound direction terminated,
	// with the same err convention as CloseInbound.
	CloseOutbound(err error)

	// Pending encodes any outstanding protocol actions and returns the
	// encoded bytes awaiting transmission. The returned slice is valid
	// until the next call into the core.
	Pending() []byte

	// Advance discards the leading n bytes of Pending after they have
	// been written to the transport.
	Advance(n int)

	// NextEvent pops the next decoded event in production order.
	// The second result is false when no event is currently available.
	NextEvent() (Event, bool)

	// Closed reports whether the core has terminated in both
	// directions and holds no undelivered outbound bytes.
	Closed() bool

	// Connection returns the opaque handle to the connection state.
	// The handle is stable across the core's lifetime.
	Connection() Connection
}
