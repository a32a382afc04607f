// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

/*
#cgo pkg-config: libzmq
#include <zmq.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// Poll event bits, mirroring ZMQ_POLLIN/ZMQ_POLLOUT/ZMQ_POLLERR.
const (
	PollIn  = int(C.ZMQ_POLLIN)
	PollOut = int(C.ZMQ_POLLOUT)
	PollErr = int(C.ZMQ_POLLERR)
)

// enginePollItemSize is the size in bytes of one native zmq_pollitem_t.
// The layout (including the platform-dependent socket-handle field width
// described in spec.md §6 — a SOCKET on Windows, a pointer elsewhere) is
// resolved by the C compiler via zmq.h, so the Go side never has to
// hand-maintain a per-OS mirror struct.
const enginePollItemSize = C.sizeof_zmq_pollitem_t

func enginePollItemsAlloc(n int) unsafe.Pointer {
	return C.malloc(C.size_t(n) * C.sizeof_zmq_pollitem_t)
}

func enginePollItemsFree(p unsafe.Pointer) {
	C.free(p)
}

func enginePollItemAt(base unsafe.Pointer, i int) *C.zmq_pollitem_t {
	return (*C.zmq_pollitem_t)(unsafe.Add(base, uintptr(i)*C.sizeof_zmq_pollitem_t))
}

func enginePollItemSet(base unsafe.Pointer, i int, socket unsafe.Pointer, events int) {
	item := enginePollItemAt(base, i)
	item.socket = socket
	item.fd = 0
	item.events = C.short(events)
	item.revents = 0
}

func enginePollItemUpdateEvents(base unsafe.Pointer, i int, events int) {
	enginePollItemAt(base, i).events = C.short(events)
}

func enginePollItemRevents(base unsafe.Pointer, i int) int {
	return int(enginePollItemAt(base, i).revents)
}

// enginePoll forwards the native array and count to zmq_poll. timeoutMs <
// 0 means block indefinitely. Returns the number of sockets with at least
// one requested event ready, or an error.
func enginePoll(base unsafe.Pointer, count int, timeoutMs int) (int, error) {
	rc := C.zmq_poll((*C.zmq_pollitem_t)(base), C.int(count), C.long(timeoutMs))
	if rc < 0 {
		return 0, newEngineError("zmq_poll")
	}
	return int(rc), nil
}
