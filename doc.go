// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package zmq is a zero-copy binding to libzmq (the ZeroMQ messaging
// engine). It wraps the engine's C ABI with a safe, idiomatic API whose
// hot path — renting a message, sending it, and having the engine hand
// the buffer back — never allocates on the Go heap and never copies the
// payload an extra time.
//
// # Resource model
//
// A Context owns zero or more Sockets; a Socket is single-owner and must
// not be shared across goroutines without external synchronization.
// Every resource (Context, Socket, Message, Poller) supports deterministic
// release and idempotent disposal; see [Context], [Socket], [Message] and
// [Poller].
//
// # Message pool
//
// [Pool] buckets reusable [Message] values by power-of-two size class (16
// bytes through 4 MiB) and wires each bucket into libzmq's external-data /
// free-callback protocol, so a rented message's native buffer is reused
// across sends instead of round-tripping through malloc/free. See
// [Shared], [Pool.Rent], [Pool.RentBytes].
//
// # Poller
//
// [Poller] is a fixed-capacity readiness multiplexer holding one
// natively-allocated array of poll descriptors shared with the engine.
//
// # Async helpers
//
// The engine itself is the event loop; [Socket.AsyncSend] and
// [Socket.AsyncRecv] only add a thin non-blocking-attempt-then-park loop
// on top, never an event-loop integration.
//
// # Dependencies
//
// zmq depends on:
//   - code.hybscloud.com/iox: semantic error types (ErrWouldBlock)
//   - github.com/google/uuid: diagnostic Context/Socket identifiers
//   - golang.org/x/sys/unix: fd-based readiness on the engine's `fd`
//     socket option, as an alternative to the async helpers' poll loop
//   - libzmq itself, via cgo (#cgo pkg-config: libzmq)
//
// github.com/prometheus/client_golang is an additional dependency of the
// zmqmetrics subpackage only; it is not imported by the root package.
package zmq
