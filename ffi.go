// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

/*
#cgo pkg-config: libzmq
#include <zmq.h>
#include <stdlib.h>
#include <string.h>
*/
import "C"
import "unsafe"

// engineErrno returns the native engine's last error code for the calling
// OS thread. libzmq stores errno per-thread the same way the C library
// does, so this must be read immediately after the failing call, before
// any other cgo call on the same goroutine (Go does not migrate a
// goroutine to a different OS thread mid-cgo-call, so this is safe as
// long as no other engine call is interleaved first).
func engineErrno() int {
	return int(C.zmq_errno())
}

// engineEAGAIN is the engine's "would block" errno, equivalent to POSIX
// EAGAIN. It is resolved from the engine itself rather than hardcoded so
// the binding keeps working on platforms where libzmq remaps it.
var engineEAGAIN = int(C.EAGAIN)

// engineStrError renders the engine's textual description for an errno,
// per spec.md §7's "helper that renders the engine's textual description".
func engineStrError(errno int) string {
	return C.GoString(C.zmq_strerror(C.int(errno)))
}

// engineVersion returns the engine's major, minor, and patch version.
func engineVersion() (major, minor, patch int) {
	var M, m, p C.int
	C.zmq_version(&M, &m, &p)
	return int(M), int(m), int(p)
}

// EngineVersion returns the linked libzmq version as (major, minor, patch).
func EngineVersion() (major, minor, patch int) {
	return engineVersion()
}

// EngineHasCapability reports whether the linked libzmq build advertises
// the named optional capability (e.g. "curve", "ipc", "pgm", "draft").
func EngineHasCapability(capability string) bool {
	cstr := C.CString(capability)
	defer C.free(unsafe.Pointer(cstr))
	return C.zmq_has(cstr) != 0
}

// --- Context ---

func engineCtxNew() unsafe.Pointer {
	return unsafe.Pointer(C.zmq_ctx_new())
}

func engineCtxTerm(ctx unsafe.Pointer) error {
	if C.zmq_ctx_term(ctx) != 0 {
		return newEngineError("zmq_ctx_term")
	}
	return nil
}

func engineCtxShutdown(ctx unsafe.Pointer) error {
	if C.zmq_ctx_shutdown(ctx) != 0 {
		return newEngineError("zmq_ctx_shutdown")
	}
	return nil
}

func engineCtxGet(ctx unsafe.Pointer, opt int) (int, error) {
	rc := C.zmq_ctx_get(ctx, C.int(opt))
	if rc < 0 {
		return 0, newEngineError("zmq_ctx_get")
	}
	return int(rc), nil
}

func engineCtxSet(ctx unsafe.Pointer, opt, value int) error {
	if C.zmq_ctx_set(ctx, C.int(opt), C.int(value)) != 0 {
		return newEngineError("zmq_ctx_set")
	}
	return nil
}

// --- Socket ---

func engineSocketNew(ctx unsafe.Pointer, socketType int) (unsafe.Pointer, error) {
	s := C.zmq_socket(ctx, C.int(socketType))
	if s == nil {
		return nil, newEngineError("zmq_socket")
	}
	return unsafe.Pointer(s), nil
}

func engineSocketClose(s unsafe.Pointer) error {
	if C.zmq_close(s) != 0 {
		return newEngineError("zmq_close")
	}
	return nil
}

func engineSocketBind(s unsafe.Pointer, endpoint string) error {
	cstr := C.CString(endpoint)
	defer C.free(unsafe.Pointer(cstr))
	if C.zmq_bind(s, cstr) != 0 {
		return newEngineError("zmq_bind")
	}
	return nil
}

func engineSocketConnect(s unsafe.Pointer, endpoint string) error {
	cstr := C.CString(endpoint)
	defer C.free(unsafe.Pointer(cstr))
	if C.zmq_connect(s, cstr) != 0 {
		return newEngineError("zmq_connect")
	}
	return nil
}

func engineSocketUnbind(s unsafe.Pointer, endpoint string) error {
	cstr := C.CString(endpoint)
	defer C.free(unsafe.Pointer(cstr))
	if C.zmq_unbind(s, cstr) != 0 {
		return newEngineError("zmq_unbind")
	}
	return nil
}

func engineSocketDisconnect(s unsafe.Pointer, endpoint string) error {
	cstr := C.CString(endpoint)
	defer C.free(unsafe.Pointer(cstr))
	if C.zmq_disconnect(s, cstr) != 0 {
		return newEngineError("zmq_disconnect")
	}
	return nil
}

func engineSocketMonitor(s unsafe.Pointer, endpoint string, events int) error {
	cstr := C.CString(endpoint)
	defer C.free(unsafe.Pointer(cstr))
	if C.zmq_socket_monitor(s, cstr, C.int(events)) != 0 {
		return newEngineError("zmq_socket_monitor")
	}
	return nil
}

// engineSend performs a raw, non-owning send of buf[:n] with the given
// flags. It is used both for byte-buffer sends and, per spec.md §4.3's
// send-divergence rule, for pooled-Message sends (where only the actual
// payload extent, not the bucket size, must hit the wire).
func engineSend(s unsafe.Pointer, buf unsafe.Pointer, n int, flags int) (int, error) {
	rc := C.zmq_send(s, buf, C.size_t(n), C.int(flags))
	if rc < 0 {
		return 0, newEngineError("zmq_send")
	}
	return int(rc), nil
}

func engineRecv(s unsafe.Pointer, buf unsafe.Pointer, n int, flags int) (int, error) {
	rc := C.zmq_recv(s, buf, C.size_t(n), C.int(flags))
	if rc < 0 {
		return 0, newEngineError("zmq_recv")
	}
	return int(rc), nil
}

// --- Socket options (typed dispatch lives in options.go) ---

func engineSocketGetOptInt(s unsafe.Pointer, opt int) (int, error) {
	var v C.int
	l := C.size_t(unsafe.Sizeof(v))
	if C.zmq_getsockopt(s, C.int(opt), unsafe.Pointer(&v), &l) != 0 {
		return 0, newEngineError("zmq_getsockopt")
	}
	return int(v), nil
}

func engineSocketSetOptInt(s unsafe.Pointer, opt, value int) error {
	v := C.int(value)
	if C.zmq_setsockopt(s, C.int(opt), unsafe.Pointer(&v), C.size_t(unsafe.Sizeof(v))) != 0 {
		return newEngineError("zmq_setsockopt")
	}
	return nil
}

func engineSocketGetOptInt64(s unsafe.Pointer, opt int) (int64, error) {
	var v C.int64_t
	l := C.size_t(unsafe.Sizeof(v))
	if C.zmq_getsockopt(s, C.int(opt), unsafe.Pointer(&v), &l) != 0 {
		return 0, newEngineError("zmq_getsockopt")
	}
	return int64(v), nil
}

func engineSocketSetOptInt64(s unsafe.Pointer, opt int, value int64) error {
	v := C.int64_t(value)
	if C.zmq_setsockopt(s, C.int(opt), unsafe.Pointer(&v), C.size_t(unsafe.Sizeof(v))) != 0 {
		return newEngineError("zmq_setsockopt")
	}
	return nil
}

func engineSocketGetOptBytes(s unsafe.Pointer, opt int, maxLen int) ([]byte, error) {
	buf := make([]byte, maxLen)
	l := C.size_t(maxLen)
	if C.zmq_getsockopt(s, C.int(opt), unsafe.Pointer(&buf[0]), &l) != 0 {
		return nil, newEngineError("zmq_getsockopt")
	}
	return buf[:l], nil
}

func engineSocketSetOptBytes(s unsafe.Pointer, opt int, value []byte) error {
	var ptr unsafe.Pointer
	if len(value) > 0 {
		ptr = unsafe.Pointer(&value[0])
	}
	if C.zmq_setsockopt(s, C.int(opt), ptr, C.size_t(len(value))) != 0 {
		return newEngineError("zmq_setsockopt")
	}
	return nil
}

func engineSocketGetOptString(s unsafe.Pointer, opt int, maxLen int) (string, error) {
	b, err := engineSocketGetOptBytes(s, opt, maxLen)
	if err != nil {
		return "", err
	}
	// Engine string options are NUL-terminated within the buffer.
	for i, c := range b {
		if c == 0 {
			return string(b[:i]), nil
		}
	}
	return string(b), nil
}

func engineSocketSetOptString(s unsafe.Pointer, opt int, value string) error {
	return engineSocketSetOptBytes(s, opt, []byte(value))
}
