// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

/*
#cgo pkg-config: libzmq
#include <zmq.h>
#include <stdlib.h>
#include <string.h>

extern void zmqgoFreeTrampoline(void *data, void *hint);

static int zmqgo_msg_init_data(zmq_msg_t *msg, void *data, size_t size, void *hint) {
	return zmq_msg_init_data(msg, data, size, zmqgoFreeTrampoline, hint);
}
*/
import "C"
import (
	"unsafe"

	"code.hybscloud.com/zmq/internal"
)

// freeCallbackRegistry roots the Go-side target of every external-data
// Message's free callback behind a small integer handle, because the hint
// pointer libzmq retains inside a C-owned zmq_msg_t must not be a real Go
// pointer (cgo forbids C code from retaining a Go pointer past the call
// that produced it). See spec §9 "Cyclic or callback-rooted graphs".
var freeCallbackRegistry internal.HandleRegistry

// freeCallbackTarget is implemented by whatever owns an external-data
// Message's native buffer: either the pool bucket that rents it back out,
// or a one-shot regular Message whose buffer must simply be freed.
type freeCallbackTarget interface {
	onEngineFree(data unsafe.Pointer)
}

func registerFreeCallbackTarget(t freeCallbackTarget) int32 {
	return freeCallbackRegistry.Register(t)
}

func releaseFreeCallbackTarget(handle int32) {
	freeCallbackRegistry.Release(handle)
}

//export zmqgoFreeTrampoline
func zmqgoFreeTrampoline(data unsafe.Pointer, hint unsafe.Pointer) {
	// Invoked from the engine's I/O thread. Must never panic or unwind
	// across the cgo boundary (spec §7, §9): any anomaly is swallowed.
	defer func() { _ = recover() }()

	handle := int32(uintptr(hint))
	v := freeCallbackRegistry.Lookup(handle)
	if v == nil {
		return
	}
	if t, ok := v.(freeCallbackTarget); ok {
		t.onEngineFree(data)
	}
}

func engineMsgAllocDescriptor() unsafe.Pointer {
	return C.malloc(C.sizeof_zmq_msg_t)
}

func engineMsgFreeDescriptor(d unsafe.Pointer) {
	C.free(d)
}

func engineMsgInitEmpty(d unsafe.Pointer) error {
	if C.zmq_msg_init((*C.zmq_msg_t)(d)) != 0 {
		return newEngineError("zmq_msg_init")
	}
	return nil
}

func engineMsgInitSize(d unsafe.Pointer, n int) error {
	if C.zmq_msg_init_size((*C.zmq_msg_t)(d), C.size_t(n)) != 0 {
		return newEngineError("zmq_msg_init_size")
	}
	return nil
}

// engineMsgInitData initialises d as an external-data message backed by the
// natively-allocated buffer at data (exactly n bytes), registering
// zmqgoFreeTrampoline as the engine's free callback with the given handle
// as its opaque hint.
func engineMsgInitData(d unsafe.Pointer, data unsafe.Pointer, n int, handle int32) error {
	hint := unsafe.Pointer(uintptr(handle))
	if C.zmqgo_msg_init_data((*C.zmq_msg_t)(d), data, C.size_t(n), hint) != 0 {
		return newEngineError("zmq_msg_init_data")
	}
	return nil
}

func engineMsgClose(d unsafe.Pointer) error {
	if C.zmq_msg_close((*C.zmq_msg_t)(d)) != 0 {
		return newEngineError("zmq_msg_close")
	}
	return nil
}

func engineMsgSend(d unsafe.Pointer, s unsafe.Pointer, flags int) (int, error) {
	rc := C.zmq_msg_send((*C.zmq_msg_t)(d), s, C.int(flags))
	if rc < 0 {
		return 0, newEngineError("zmq_msg_send")
	}
	return int(rc), nil
}

func engineMsgRecv(d unsafe.Pointer, s unsafe.Pointer, flags int) (int, error) {
	rc := C.zmq_msg_recv((*C.zmq_msg_t)(d), s, C.int(flags))
	if rc < 0 {
		return 0, newEngineError("zmq_msg_recv")
	}
	return int(rc), nil
}

func engineMsgData(d unsafe.Pointer) unsafe.Pointer {
	return C.zmq_msg_data((*C.zmq_msg_t)(d))
}

func engineMsgSize(d unsafe.Pointer) int {
	return int(C.zmq_msg_size((*C.zmq_msg_t)(d)))
}

func engineMsgMore(d unsafe.Pointer) bool {
	return C.zmq_msg_more((*C.zmq_msg_t)(d)) != 0
}

func engineMsgMove(dst, src unsafe.Pointer) error {
	if C.zmq_msg_move((*C.zmq_msg_t)(dst), (*C.zmq_msg_t)(src)) != 0 {
		return newEngineError("zmq_msg_move")
	}
	return nil
}

func engineMsgCopy(dst, src unsafe.Pointer) error {
	if C.zmq_msg_copy((*C.zmq_msg_t)(dst), (*C.zmq_msg_t)(src)) != 0 {
		return newEngineError("zmq_msg_copy")
	}
	return nil
}

func engineMsgGetOpt(d unsafe.Pointer, property int) int {
	return int(C.zmq_msg_get((*C.zmq_msg_t)(d), C.int(property)))
}

func engineMsgGets(d unsafe.Pointer, property string) (string, error) {
	cstr := C.CString(property)
	defer C.free(unsafe.Pointer(cstr))
	v := C.zmq_msg_gets((*C.zmq_msg_t)(d), cstr)
	if v == nil {
		return "", newEngineError("zmq_msg_gets")
	}
	return C.GoString(v), nil
}

// mallocBuffer allocates an n-byte block on the native (C) heap, not the Go
// heap, so the pointer can be safely handed to the engine and retained by
// it across an arbitrary number of subsequent Go GC cycles.
func mallocBuffer(n int) unsafe.Pointer {
	if n == 0 {
		// A zero-size malloc is implementation-defined (may return NULL);
		// allocate one byte so the engine always gets a non-NULL pointer
		// for zero-length payloads (spec §8 "Rent(0 bytes) succeeds").
		n = 1
	}
	return C.malloc(C.size_t(n))
}

func freeBuffer(p unsafe.Pointer) {
	C.free(p)
}

func copyIntoBuffer(dst unsafe.Pointer, src []byte) {
	if len(src) == 0 {
		return
	}
	C.memcpy(dst, unsafe.Pointer(&src[0]), C.size_t(len(src)))
}
