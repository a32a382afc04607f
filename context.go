// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/google/uuid"
)

// Context represents a process-local instance of the engine. It exclusively
// owns one native engine context; closing it blocks until either pending
// sends drain per each socket's linger policy or the engine forces
// termination (spec.md §3 "Context").
//
// Applications should generally create one Context per process (spec.md
// §9 "Ambient I/O"): each Context pays for its own pool of engine I/O
// threads.
type Context struct {
	_ noCopy

	handle   unsafe.Pointer
	disposed atomic.Bool
	once     sync.Once
	id       uuid.UUID
}

// NewContext creates a new Context with the engine's default I/O thread
// count. Use SetOption before creating any Socket to tune io-threads,
// max-sockets, or other context-level options.
func NewContext() *Context {
	h := engineCtxNew()
	return &Context{handle: h, id: uuid.New()}
}

// ID returns a process-unique diagnostic identifier for this Context,
// useful for correlating zmq_socket_monitor events or log lines across
// multiple contexts without requiring the caller to thread an id through
// every call (spec.md does not log; this exists purely for callers who do).
func (c *Context) ID() uuid.UUID { return c.id }

// Disposed reports whether this Context has already been terminated.
func (c *Context) Disposed() bool { return c.disposed.Load() }

func (c *Context) checkLive() error {
	if c.disposed.Load() {
		return ErrAlreadyDisposed
	}
	return nil
}

// rawHandle is the "dangerous raw handle" accessor (spec.md §4.2), gated by
// liveness. It exists so Socket (and nothing else) can create engine
// sockets against this Context.
func (c *Context) rawHandle() (unsafe.Pointer, error) {
	if err := c.checkLive(); err != nil {
		return nil, err
	}
	return c.handle, nil
}

// SetOption sets an integer-valued context option (io-threads, max-sockets,
// ipv6, blocky-shutdown, thread-priority, thread-sched-policy, ...).
func (c *Context) SetOption(opt ContextOption, value int) error {
	if err := c.checkLive(); err != nil {
		return err
	}
	return engineCtxSet(c.handle, int(opt), value)
}

// GetOption reads an integer-valued context option.
func (c *Context) GetOption(opt ContextOption) (int, error) {
	if err := c.checkLive(); err != nil {
		return 0, err
	}
	return engineCtxGet(c.handle, int(opt))
}

// Shutdown begins an asynchronous, non-blocking shutdown of the context:
// blocking operations on its sockets start failing with ETERM, but the
// context itself is not released until Close/Dispose runs. Useful for
// unblocking other goroutines parked in a blocking recv before tearing
// the Context down.
func (c *Context) Shutdown() error {
	if err := c.checkLive(); err != nil {
		return err
	}
	return engineCtxShutdown(c.handle)
}

// Close terminates the Context. It blocks until every Socket created from
// it has been closed and its linger-time drain (if any) has completed.
// Close is idempotent: a second call is a no-op that returns nil.
func (c *Context) Close() error {
	var err error
	c.once.Do(func() {
		c.disposed.Store(true)
		err = engineCtxTerm(c.handle)
	})
	return err
}

// Dispose is an alias for Close, matching the scoped-acquisition
// terminology used for Socket, Message, and Poller (spec.md §4.2).
func (c *Context) Dispose() error { return c.Close() }
