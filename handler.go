// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

// Handler receives the ordered sequence of protocol lifecycle events
// decoded by the engine's protocol core.
//
// Handlers attached to an engine receive transport, connection, session,
// link and message events. They never receive reactor, selectable or
// timer events: the engine assumes the embedder's event loop manages
// those externally.
//
// An error returned by HandleEvent propagates out of [*Engine.Process]
// uncaught. The event that produced the error is not re-delivered;
// events not yet dispatched remain queued for the next Process call.
type Handler interface {
	HandleEvent(event Event) error
}

// HandlerFunc adapts a function to the [Handler] interface.
//
// This allows using simple functions as handlers:
//
//	handler := HandlerFunc(func(event Event) error {
//		// react to the event
//		return nil
//	})
type HandlerFunc func(event Event) error

var _ Handler = HandlerFunc(nil)

// HandleEvent implements [Handler].
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}
