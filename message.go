// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import (
	"sync/atomic"
	"unsafe"
)

// messageState captures the state machine from spec.md §4.5:
// never-initialised → initialised → {disposed | successfully-sent} →
// disposed. Re-entering initialised from disposed is disallowed except
// through the pool's reuse reset (Pool.resetForReuse), which is a distinct
// transition that bypasses close/re-init entirely.
type messageState int32

const (
	stateNeverInitialised messageState = iota
	stateInitialised
	stateSent
	stateDisposed
)

// Message is a descriptor for one atomic wire frame (spec.md §3). A
// Message is either "Regular" (owns a native-heap block freed on
// disposal, or by the engine's free callback once sent) or "Pooled"
// (backed by Pool, its descriptor initialised once and reused across
// rents — see Pool.Rent).
type Message struct {
	_    noCopy
	desc unsafe.Pointer // native zmq_msg_t*, allocated on the C heap

	state atomic.Int32

	pooled bool

	// Pooled-message fields (spec.md §3 "Pooled Message").
	pool        *Pool
	bucketIndex int
	bufferSize  int
	// poolSlot is this Message's permanent slot in its bucket's
	// allocation-free array-of-slots LIFO (see bucket.go): assigned once,
	// on the rent that first constructs this Message, and reused for the
	// rest of the Message's life so that returning it to the pool never
	// needs a heap allocation. -1 means "never assigned a slot" (the
	// bucket's slot table was exhausted when this Message was created; it
	// degrades to a one-shot return — see Pool.Rent).
	poolSlot int32
	// nativeBuf is the malloc'd backing buffer handed to the engine via
	// zmq_msg_init_data. A Pooled Message keeps its own handle on this
	// buffer (distinct from the descriptor's internal copy of the pointer)
	// so disposePooledMessage can free it directly without reading back
	// through a descriptor the engine may already have invalidated.
	nativeBuf        unsafe.Pointer
	actualDataSize   int
	callbackExecuted atomic.Bool

	// freeHandle roots this Message (or, for a plain external-data Regular
	// Message, this same Message acting as a one-shot free target) behind
	// the cgo free-callback trampoline. It is meaningful only while
	// hasFreeHandle is true (0 is a valid registry handle); hasFreeHandle
	// is false for a plain zmq_msg_init/zmq_msg_init_size Message (no
	// external data, nothing to route).
	freeHandle    int32
	hasFreeHandle bool
}

// NewMessage allocates a Regular Message with an engine-owned buffer of
// exactly n bytes (zmq_msg_init_size). This is the common case for a
// one-shot send outside the pool. The descriptor struct is allocated on
// the C heap, and zmq_msg_init_size allocates the payload storage.
func NewMessage(n int) (*Message, error) {
	if n < 0 {
		return nil, ErrInvalidArgument
	}
	m := &Message{desc: engineMsgAllocDescriptor()}
	if err := engineMsgInitSize(m.desc, n); err != nil {
		engineMsgFreeDescriptor(m.desc)
		return nil, err
	}
	m.state.Store(int32(stateInitialised))
	return m, nil
}

// NewEmptyMessage allocates a Regular Message with no backing buffer
// (zmq_msg_init), the required receive target for Socket.Recv: the engine
// itself allocates storage for the incoming frame during zmq_msg_recv.
func NewEmptyMessage() (*Message, error) {
	m := &Message{desc: engineMsgAllocDescriptor()}
	if err := engineMsgInitEmpty(m.desc); err != nil {
		engineMsgFreeDescriptor(m.desc)
		return nil, err
	}
	m.state.Store(int32(stateInitialised))
	return m, nil
}

// newRegularFromExternal wraps a natively-allocated buffer of exactly n
// bytes as a Regular Message using the engine's external-data protocol, so
// that on a never-sent disposal or (per the engine's own contract) on
// msg_close of an externally-initialised message, the engine's free
// callback reclaims the native buffer (spec.md §3, §9 open question).
func newRegularFromExternal(buf unsafe.Pointer, n int) (*Message, error) {
	m := &Message{desc: engineMsgAllocDescriptor()}
	m.freeHandle = registerFreeCallbackTarget(m)
	m.hasFreeHandle = true
	if err := engineMsgInitData(m.desc, buf, n, m.freeHandle); err != nil {
		releaseFreeCallbackTarget(m.freeHandle)
		engineMsgFreeDescriptor(m.desc)
		return nil, err
	}
	m.state.Store(int32(stateInitialised))
	return m, nil
}

// NewMessageFromBytes allocates a Regular Message sized to len(data) and
// copies data into its native buffer.
func NewMessageFromBytes(data []byte) (*Message, error) {
	m, err := NewMessage(len(data))
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		copyIntoBuffer(engineMsgData(m.desc), data)
	}
	return m, nil
}

// onEngineFree implements freeCallbackTarget. For a Pooled Message it only
// flips callbackExecuted and routes control back to the pool (it must
// NEVER free native memory itself — the pool owns that decision). For a
// plain external-data Regular Message it frees the native buffer directly.
func (m *Message) onEngineFree(data unsafe.Pointer) {
	if m.pooled {
		if m.callbackExecuted.CompareAndSwap(false, true) {
			m.pool.returnToPool(m)
		}
		return
	}
	freeBuffer(data)
}

// IsPooled reports whether this Message is backed by a Pool bucket.
func (m *Message) IsPooled() bool { return m.pooled }

// BucketIndex returns the pool bucket index backing this Message, or -1
// for a Regular Message.
func (m *Message) BucketIndex() int {
	if !m.pooled {
		return -1
	}
	return m.bucketIndex
}

// BufferSize returns the native buffer's full capacity: for a Pooled
// Message this is the owning bucket's size class; for a Regular Message it
// equals the size it was constructed with.
func (m *Message) BufferSize() int {
	if m.pooled {
		return m.bufferSize
	}
	return engineMsgSize(m.desc)
}

// ActualDataSize returns the payload extent: 0 <= ActualDataSize() <=
// BufferSize(). For a Regular Message this always equals BufferSize().
func (m *Message) ActualDataSize() int {
	if m.pooled {
		return m.actualDataSize
	}
	return engineMsgSize(m.desc)
}

// SetActualDataSize sets the payload extent of a Pooled Message, clamped
// logically (not silently truncated) to BufferSize: a size exceeding
// BufferSize is ErrInvalidArgument. Regular Messages do not support this
// (their actual size is always their full buffer).
func (m *Message) SetActualDataSize(n int) error {
	if !m.pooled {
		return ErrInvalidArgument
	}
	if n < 0 || n > m.bufferSize {
		return ErrInvalidArgument
	}
	m.actualDataSize = n
	return nil
}

// Data returns a view over exactly ActualDataSize() bytes of this
// Message's native buffer. The returned slice aliases native (non-Go-heap)
// memory and must not be retained past the Message's lifetime or past a
// successful send.
func (m *Message) Data() ([]byte, error) {
	st := messageState(m.state.Load())
	if st == stateNeverInitialised {
		return nil, ErrNotInitialised
	}
	if st == stateDisposed {
		return nil, ErrAlreadyDisposed
	}
	n := m.ActualDataSize()
	if n == 0 {
		return nil, nil
	}
	ptr := engineMsgData(m.desc)
	return unsafe.Slice((*byte)(ptr), n), nil
}

// Size is an alias for ActualDataSize with the disposed/uninitialised
// guards Data() has, matching spec.md §3 "Accessing data/size on a
// disposed message is an error."
func (m *Message) Size() (int, error) {
	st := messageState(m.state.Load())
	if st == stateNeverInitialised {
		return 0, ErrNotInitialised
	}
	if st == stateDisposed {
		return 0, ErrAlreadyDisposed
	}
	return m.ActualDataSize(), nil
}

// More reflects whether another frame of the current logical message
// follows this one (set by the engine on the most recent recv into this
// Message; spec.md §3 "The more attribute").
func (m *Message) More() bool {
	return engineMsgMore(m.desc)
}

// markSent records a successful send: subsequent disposal must not close
// a Regular descriptor (ownership passed to the engine) and must not
// invoke a Pooled Message's return callback a second time (Socket.Send
// already returned it to its pool right after the raw send — see the
// send-divergence handling in send.go).
func (m *Message) markSent() {
	m.state.Store(int32(stateSent))
}

// Dispose releases the Message. Per spec.md §3/§4.5:
//   - Regular, never sent: msg_close (which may itself invoke a registered
//     free callback for an external-data message).
//   - Regular, successfully sent: the descriptor is not closed (the engine
//     owns its content); only the descriptor struct itself is freed.
//   - Pooled, never sent: invoke the pool-return path directly (the
//     "disposed_without_sending" path of spec.md §4.3) exactly once.
//   - Pooled, successfully sent: no-op (Socket.Send already returned it
//     to its pool).
//
// Dispose is idempotent.
func (m *Message) Dispose() error {
	prev := messageState(m.state.Swap(int32(stateDisposed)))
	switch prev {
	case stateDisposed:
		return nil
	case stateNeverInitialised:
		return nil
	case stateSent:
		if m.pooled {
			// Socket.Send already returned this Message to its pool; the
			// descriptor itself is never closed so it can be reused for
			// the next rent (spec.md §3).
			return nil
		}
		// zmq_msg_send took over the descriptor's content on success, so
		// it is not closed here; the 64-byte descriptor struct is still
		// ours to free.
		engineMsgFreeDescriptor(m.desc)
		return nil
	case stateInitialised:
		if m.pooled {
			if m.callbackExecuted.CompareAndSwap(false, true) {
				m.pool.returnToPool(m)
			}
			return nil
		}
		err := engineMsgClose(m.desc)
		if m.hasFreeHandle {
			releaseFreeCallbackTarget(m.freeHandle)
		}
		engineMsgFreeDescriptor(m.desc)
		return err
	default:
		return nil
	}
}
