// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import (
	"sync/atomic"

	"code.hybscloud.com/zmq/internal"
)

// numBuckets is the fixed bucket count from spec.md §4.3: a monotonically
// increasing power-of-two sequence from 16 B to 4 MiB.
const numBuckets = 19

// bucketSizes is the fixed size-class table. Index i holds the largest
// payload size that bucket i can serve; requests are rounded up to the
// smallest bucket whose size is >= the request.
var bucketSizes = [numBuckets]int{
	1 << 4, 1 << 5, 1 << 6, 1 << 7, 1 << 8, 1 << 9, // 16B .. 512B
	1 << 10, 1 << 11, 1 << 12, // 1KiB .. 4KiB
	1 << 13, 1 << 14, 1 << 15, 1 << 16, // 8KiB .. 64KiB
	1 << 17, 1 << 18, 1 << 19, // 128KiB .. 512KiB
	1 << 20, 1 << 21, 1 << 22, // 1MiB .. 4MiB
}

// defaultMaxBuffers mirrors spec.md §4.3's heuristic defaults: small
// buckets pool many items, large ones pool few.
var defaultMaxBuffers = [numBuckets]int{
	1000, 1000, 1000, 1000, 1000, 1000, // <= 512B
	500, 500, 500, // 1KiB .. 4KiB
	250, 250, 250, 250, // 8KiB .. 64KiB
	100, 100, 100, // 128KiB .. 512KiB
	50, 50, 50, // 1MiB .. 4MiB
}

// bucketCapacities is the fixed number of slots each bucket's
// allocation-free array preallocates at Pool construction. SetMaxBuffers
// may tune max_buffers anywhere from 1 up to this ceiling, but never past
// it: growing the slot array itself would require a reallocation, which
// would reintroduce exactly the per-return heap traffic this array is
// built to avoid. The ceiling is set generously above defaultMaxBuffers
// so ordinary tuning never gets in its own way.
var bucketCapacities = [numBuckets]int{
	4000, 4000, 4000, 4000, 4000, 4000, // <= 512B
	2000, 2000, 2000, // 1KiB .. 4KiB
	1000, 1000, 1000, 1000, // 8KiB .. 64KiB
	400, 400, 400, // 128KiB .. 512KiB
	200, 200, 200, // 1MiB .. 4MiB
}

// bucketIndexFor returns the smallest bucket able to hold n bytes. ok is
// false when n exceeds the largest bucket (spec.md "sentinel not
// poolable"); the request must then be served by a one-shot Message.
func bucketIndexFor(n int) (idx int, ok bool) {
	for i, sz := range bucketSizes {
		if n <= sz {
			return i, true
		}
	}
	return 0, false
}

// taggedIndexStack is a lock-free LIFO over preallocated array slots,
// addressed by index rather than by pointer: each slot's successor is
// recorded in a shared `next` array instead of a heap-allocated link
// node, so push/pop never allocate (spec.md §1's "no heap allocation on
// the hot path" applied to the Message Pool).
//
// A plain index-stack recycles the same slot index across many push/pop
// cycles, which reintroduces the classic Treiber-stack ABA hazard that a
// pointer-based stack backed by fresh per-push allocations normally
// avoids (a freshly allocated node can never alias an address a stalled
// CAS still remembers; a recycled slot index can). head therefore packs
// a monotonically incrementing generation counter alongside the top
// index — the same turn-tagging technique the teacher's BoundedPool uses
// on its ring entries — so a CAS can only succeed against the exact
// (generation, index) pair it observed.
type taggedIndexStack struct {
	head atomic.Uint64
}

// headEncode packs (generation, indexPlus1) into one word. indexPlus1 ==
// 0 is the empty-stack / end-of-chain sentinel.
func headEncode(generation uint32, indexPlus1 uint32) uint64 {
	return uint64(generation)<<32 | uint64(indexPlus1)
}

// push links idx onto the stack, recording the previous top in next[idx].
func (s *taggedIndexStack) push(next []int32, idx int32) {
	for {
		old := s.head.Load()
		topPlus1 := uint32(old)
		generation := uint32(old >> 32)
		if topPlus1 == 0 {
			next[idx] = -1
		} else {
			next[idx] = int32(topPlus1) - 1
		}
		if s.head.CompareAndSwap(old, headEncode(generation+1, uint32(idx)+1)) {
			return
		}
	}
}

// pop removes and returns the top index, or ok=false if the stack is empty.
func (s *taggedIndexStack) pop(next []int32) (idx int32, ok bool) {
	for {
		old := s.head.Load()
		topPlus1 := uint32(old)
		if topPlus1 == 0 {
			return 0, false
		}
		generation := uint32(old >> 32)
		top := int32(topPlus1) - 1
		var succPlus1 uint32
		if n := next[top]; n >= 0 {
			succPlus1 = uint32(n) + 1
		}
		if s.head.CompareAndSwap(old, headEncode(generation+1, succPlus1)) {
			return top, true
		}
	}
}

// bucketStore is one size class's pool of available pooled Messages: an
// allocation-free, array-backed LIFO stack (taggedIndexStack) plus the
// separate atomic population counter spec.md calls for ("the stack
// implementation may not offer O(1) size"). maxBuffers is independently
// mutable at runtime (Pool.SetMaxBuffers); a reduction takes effect on
// the next Return, never evicting what is already pooled (spec.md §4.3
// "Bucketing").
type bucketStore struct {
	_ noCopy

	available taggedIndexStack // slots holding a currently-pooled Message
	freeSlots taggedIndexStack // slots not currently tied to any Message
	next      []int32          // shared successor links for both stacks above
	msgs      []*Message       // slot index -> the Message currently assigned to it
	nextSlot  atomic.Int32     // bump allocator for never-yet-used slots

	capacity    int32
	pooledCount atomic.Int64
	maxBuffers  atomic.Int64

	// pad keeps adjacent buckets in Pool.buckets on separate cache lines:
	// the hottest buckets (small sizes) are pushed/popped by every
	// goroutine touching the pool, and without padding their counters
	// would false-share a line with a neighboring bucket's.
	pad [internal.CacheLineSize]byte
}

// init preallocates this bucket's slot tables. Called once per bucket
// from NewPool; never invoked again, so it does not violate the hot-path
// allocation-free requirement.
func (b *bucketStore) init(capacity int) {
	b.capacity = int32(capacity)
	b.next = make([]int32, capacity)
	b.msgs = make([]*Message, capacity)
}

// allocSlot reserves a slot for a brand-new pooled Message, preferring a
// previously recycled slot over bumping into never-used territory. ok is
// false once both the free-slot stack and the bump allocator are
// exhausted, at which point the caller must degrade this Message to a
// one-shot, non-cached return (Pool.Rent).
func (b *bucketStore) allocSlot() (idx int32, ok bool) {
	if idx, ok := b.freeSlots.pop(b.next); ok {
		return idx, true
	}
	n := b.nextSlot.Add(1) - 1
	if n >= b.capacity {
		b.nextSlot.Add(-1)
		return 0, false
	}
	return n, true
}

// recycleSlot returns a permanently-freed Message's slot to the free-slot
// stack so a future allocSlot can reuse it, instead of letting repeated
// Clear/reject cycles permanently shrink a bucket's effective capacity.
func (b *bucketStore) recycleSlot(idx int32) {
	b.msgs[idx] = nil
	b.freeSlots.push(b.next, idx)
}

func (b *bucketStore) tryPop() (*Message, bool) {
	idx, ok := b.available.pop(b.next)
	if !ok {
		return nil, false
	}
	b.pooledCount.Add(-1)
	return b.msgs[idx], true
}

// tryPush attempts to push msg onto the stack, subject to maxBuffers.
// The check against maxBuffers and the push itself are not atomic as a
// pair (spec.md §4.3: "advisory... mild over-population under contention
// is acceptable"); what must never happen — double-free, use-after-free,
// leak — does not depend on this check being exact. A Message that was
// never assigned a slot (poolSlot < 0, because the bucket's slot table
// was exhausted when it was created) can never be pushed.
func (b *bucketStore) tryPush(msg *Message) bool {
	if msg.poolSlot < 0 {
		return false
	}
	if b.pooledCount.Load() >= b.maxBuffers.Load() {
		return false
	}
	b.available.push(b.next, msg.poolSlot)
	b.pooledCount.Add(1)
	return true
}

// drain pops every Message currently in the stack, invoking fn for each
// (used by Pool.Clear). Not safe concurrently with outstanding rents,
// exactly as spec.md §4.3 documents for Clear.
func (b *bucketStore) drain(fn func(*Message)) {
	for {
		msg, ok := b.tryPop()
		if !ok {
			return
		}
		fn(msg)
	}
}
