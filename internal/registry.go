// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package internal

import "sync"

// HandleRegistry roots Go values behind small integer handles so that a cgo
// free-callback trampoline — which may only carry an integer-sized hint
// across the C ABI, never a Go pointer (see cgo's pointer-passing rules) —
// can look the value back up from the engine's I/O thread.
//
// A slice-of-slots with a free-list is used instead of a map so that the
// hot path (Lookup) never touches the Go map implementation or triggers a
// map-resize allocation from inside a callback invoked off the Go
// scheduler's usual call paths.
type HandleRegistry struct {
	mu    sync.Mutex
	slots []any
	free  []int32
}

// Register roots v and returns a stable handle. The handle remains valid
// until Release is called with it.
func (r *HandleRegistry) Register(v any) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.free); n > 0 {
		h := r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[h] = v
		return h
	}
	r.slots = append(r.slots, v)
	return int32(len(r.slots) - 1)
}

// Lookup returns the value rooted at handle, or nil if it has been released.
func (r *HandleRegistry) Lookup(handle int32) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handle < 0 || int(handle) >= len(r.slots) {
		return nil
	}
	return r.slots[handle]
}

// Release unroots the value at handle, making it eligible for GC and the
// handle eligible for reuse.
func (r *HandleRegistry) Release(handle int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handle < 0 || int(handle) >= len(r.slots) {
		return
	}
	r.slots[handle] = nil
	r.free = append(r.free, handle)
}
