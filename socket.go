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

// Socket is a single engine socket, bound to the Context it was created
// from (spec.md §3 "Socket"). A Socket is not safe for concurrent use
// unless OptThreadSafe reports true for its SocketType (DRAFT Client/
// Server/Radio/Dish sockets); conventional socket types require external
// synchronization, matching the underlying engine's own contract.
type Socket struct {
	_ noCopy

	ctx      *Context
	handle   unsafe.Pointer
	typ      SocketType
	disposed atomic.Bool
	once     sync.Once
	id       uuid.UUID
}

// NewSocket creates a Socket of the given type on ctx.
func NewSocket(ctx *Context, typ SocketType) (*Socket, error) {
	ch, err := ctx.rawHandle()
	if err != nil {
		return nil, err
	}
	h, err := engineSocketNew(ch, int(typ))
	if err != nil {
		return nil, err
	}
	return &Socket{ctx: ctx, handle: h, typ: typ, id: uuid.New()}, nil
}

// ID returns a process-unique diagnostic identifier for this Socket.
func (s *Socket) ID() uuid.UUID { return s.id }

// Type returns the SocketType this Socket was created with.
func (s *Socket) Type() SocketType { return s.typ }

// Context returns the Context this Socket was created from.
func (s *Socket) Context() *Context { return s.ctx }

// Disposed reports whether this Socket has already been closed.
func (s *Socket) Disposed() bool { return s.disposed.Load() }

func (s *Socket) checkLive() error {
	if s.disposed.Load() {
		return ErrAlreadyDisposed
	}
	return nil
}

// rawHandle is the "dangerous raw handle" accessor (spec.md §4.2), gated
// by liveness. send.go, recv.go, poller.go, and options.go all route
// through it rather than touching the field directly.
func (s *Socket) rawHandle() (unsafe.Pointer, error) {
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	return s.handle, nil
}

// Bind binds s to a local endpoint (e.g. "tcp://*:5555", "ipc:///tmp/x").
func (s *Socket) Bind(endpoint string) error {
	h, err := s.rawHandle()
	if err != nil {
		return err
	}
	return engineSocketBind(h, endpoint)
}

// Unbind removes a previously bound endpoint.
func (s *Socket) Unbind(endpoint string) error {
	h, err := s.rawHandle()
	if err != nil {
		return err
	}
	return engineSocketUnbind(h, endpoint)
}

// Connect connects s to a remote endpoint.
func (s *Socket) Connect(endpoint string) error {
	h, err := s.rawHandle()
	if err != nil {
		return err
	}
	return engineSocketConnect(h, endpoint)
}

// Disconnect disconnects s from a previously connected endpoint.
func (s *Socket) Disconnect(endpoint string) error {
	h, err := s.rawHandle()
	if err != nil {
		return err
	}
	return engineSocketDisconnect(h, endpoint)
}

// Close releases the Socket. Per spec.md §4.2, the actual teardown delay
// (if any pending sends remain) is governed by OptLinger, set before
// Close is called. Close is idempotent.
func (s *Socket) Close() error {
	var err error
	s.once.Do(func() {
		s.disposed.Store(true)
		err = engineSocketClose(s.handle)
	})
	return err
}

// Dispose is an alias for Close.
func (s *Socket) Dispose() error { return s.Close() }
