// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

// IOAdapter moves bytes between the engine and whatever two-way byte
// stream the embedder manages: a socket driven by select/poll/epoll, an
// RDMA connection, a shared-memory buffer, a pipe.
//
// The engine calls the adapter, never vice versa. All operations must be
// non-blocking: when no progress is possible they return immediately with
// a zero count rather than waiting for readiness.
//
// By making the [*Engine] depend on an abstract adapter we allow for
// unit testing with scripted fakes and for embedding the engine in any
// I/O framework. Use [*NetConnAdapter] to drive the engine over an
// existing [net.Conn].
type IOAdapter interface {
	// Read performs a non-blocking read of up to len(buf) bytes.
	//
	// Returns (n, true, nil) when n > 0 bytes were read; (0, true, nil)
	// when nothing is available right now and the stream is still open;
	// and (0, false, nil) when the stream reached end-of-stream.
	//
	// Genuine transport failures are reported through err, never as a
	// silent zero count.
	Read(buf []byte) (n int, open bool, err error)

	// Write performs a non-blocking write of up to len(buf) bytes and
	// returns the number of bytes written. Zero means nothing could be
	// written without blocking. Genuine transport failures are reported
	// through err.
	Write(buf []byte) (n int, err error)

	// Close releases the underlying stream. The engine calls Close
	// exactly once, only after both directions have terminated and all
	// buffered output has drained, and never calls any adapter method
	// afterward.
	Close() error
}
