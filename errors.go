// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock is returned by non-blocking send/recv/poll operations
// when the operation cannot complete immediately. Reusing iox's own
// sentinel lets callers write one errors.Is check regardless of which
// hybscloud library the would-block came from.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrAlreadyDisposed is returned by any operation attempted on a resource
// (Context, Socket, Message, Poller) that has already been released.
var ErrAlreadyDisposed = errors.New("zmq: resource already disposed")

// ErrInvalidArgument is returned for host-language precondition violations:
// nil buffers, negative sizes, an empty multipart send, a Poller capacity
// below 1, an out-of-range bucket index, or an actual-size larger than a
// message's buffer size.
var ErrInvalidArgument = errors.New("zmq: invalid argument")

// ErrCancelled is returned by an async helper that observed cancellation
// (context.Context.Done()) between retries.
var ErrCancelled = errors.New("zmq: operation cancelled")

// ErrNotInitialised is returned when Data/Size is accessed on a Message
// that was never initialised (the zero Message value).
var ErrNotInitialised = errors.New("zmq: message not initialised")

// EngineError wraps a failure reported by the native engine (libzmq),
// carrying its numeric errno so callers can compare against the
// engine's own constants (EAGAIN, EADDRINUSE, ETERM, EFSM, ...).
type EngineError struct {
	// Op names the engine call that failed, e.g. "zmq_connect".
	Op string
	// Errno is the engine's numeric error code (errno on POSIX systems).
	Errno int
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("zmq: %s: %s", e.Op, engineStrError(e.Errno))
}

// Is reports whether target is ErrWouldBlock and this error's errno is
// EAGAIN, so callers can write `errors.Is(err, zmq.ErrWouldBlock)`
// regardless of whether the error crossed the raw-recv or zmq_msg_recv
// path.
func (e *EngineError) Is(target error) bool {
	if target == ErrWouldBlock {
		return e.Errno == engineEAGAIN
	}
	return false
}

func newEngineError(op string) error {
	return &EngineError{Op: op, Errno: engineErrno()}
}
