// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import (
	"sync/atomic"
	"unsafe"
)

// Pool is a bucketed, thread-safe pool of reusable Messages wired into the
// engine's external-data + free-callback protocol, per spec.md §4.3. A
// singleton instance, Shared, is typically used; additional instances may
// be created with NewPool for isolation between subsystems.
type Pool struct {
	_ noCopy

	buckets [numBuckets]bucketStore

	totalRents  atomic.Int64
	totalReturns atomic.Int64
	poolHits    atomic.Int64
	poolMisses  atomic.Int64
	poolRejects atomic.Int64
}

// NewPool creates a Pool with the default per-bucket population caps
// (spec.md §4.3 defaults). Use SetMaxBuffers to tune them per deployment.
func NewPool() *Pool {
	p := &Pool{}
	for i := range p.buckets {
		p.buckets[i].init(bucketCapacities[i])
		p.buckets[i].maxBuffers.Store(int64(defaultMaxBuffers[i]))
	}
	return p
}

// Shared is the package-level default Pool instance most callers should
// use, matching spec.md §4.3 "A singleton instance (Shared) is typically
// used".
var Shared = NewPool()

// SetMaxBuffers sets bucket i's population cap. Per spec.md §8, n <= 0 is
// ErrInvalidArgument; reducing n below the current population never
// evicts already-pooled Messages, it only affects future Return calls. n
// may not exceed the bucket's preallocated slot capacity (bucketCapacities):
// the array-of-slots LIFO backing each bucket is sized once at construction
// precisely so that Return never allocates, and growing it on demand would
// undo that.
func (p *Pool) SetMaxBuffers(bucketIndex int, n int) error {
	if bucketIndex < 0 || bucketIndex >= numBuckets {
		return ErrInvalidArgument
	}
	if n <= 0 || n > bucketCapacities[bucketIndex] {
		return ErrInvalidArgument
	}
	p.buckets[bucketIndex].maxBuffers.Store(int64(n))
	return nil
}

// MaxBuffers returns bucket i's current population cap.
func (p *Pool) MaxBuffers(bucketIndex int) (int, error) {
	if bucketIndex < 0 || bucketIndex >= numBuckets {
		return 0, ErrInvalidArgument
	}
	return int(p.buckets[bucketIndex].maxBuffers.Load()), nil
}

// PooledCount returns bucket i's current available population.
func (p *Pool) PooledCount(bucketIndex int) (int, error) {
	if bucketIndex < 0 || bucketIndex >= numBuckets {
		return 0, ErrInvalidArgument
	}
	return int(p.buckets[bucketIndex].pooledCount.Load()), nil
}

// BucketSize returns the payload capacity of bucket i.
func BucketSize(bucketIndex int) (int, error) {
	if bucketIndex < 0 || bucketIndex >= numBuckets {
		return 0, ErrInvalidArgument
	}
	return bucketSizes[bucketIndex], nil
}

// NumBuckets returns the fixed number of size-class buckets (19, per
// spec.md §4.3).
func NumBuckets() int { return numBuckets }

// Rent returns a Message able to hold n bytes. If n exceeds the largest
// bucket, a one-shot, non-pooled Message is returned instead (spec.md
// §4.3 step 1) and PoolStatistics.PoolMisses is incremented.
func (p *Pool) Rent(n int) (*Message, error) {
	if n < 0 {
		return nil, ErrInvalidArgument
	}
	idx, ok := bucketIndexFor(n)
	if !ok {
		buf := mallocBuffer(n)
		m, err := newRegularFromExternal(buf, n)
		if err != nil {
			freeBuffer(buf)
			return nil, err
		}
		p.poolMisses.Add(1)
		p.totalRents.Add(1)
		return m, nil
	}

	if m, ok := p.buckets[idx].tryPop(); ok {
		p.resetForReuse(m)
		p.poolHits.Add(1)
		p.totalRents.Add(1)
		return m, nil
	}

	m, err := p.newPooledMessage(idx)
	if err != nil {
		return nil, err
	}
	p.poolMisses.Add(1)
	p.totalRents.Add(1)
	return m, nil
}

// newPooledMessage constructs a fresh pooled Message for bucket idx: a
// native malloc'd buffer wired into the engine's external-data protocol,
// plus a permanent slot reservation in the bucket's allocation-free
// array-of-slots LIFO (bucket.go). If the bucket's slot table is
// exhausted (allocSlot returns !ok), the Message is still constructed and
// usable, but poolSlot is left at -1 so a later Return degrades it to a
// one-shot deep-free instead of pooling it (bucketStore.tryPush).
func (p *Pool) newPooledMessage(idx int) (*Message, error) {
	size := bucketSizes[idx]
	buf := mallocBuffer(size)
	m := &Message{
		desc:        engineMsgAllocDescriptor(),
		pooled:      true,
		pool:        p,
		bucketIndex: idx,
		bufferSize:  size,
		poolSlot:    -1,
	}
	m.freeHandle = registerFreeCallbackTarget(m)
	m.hasFreeHandle = true
	if err := engineMsgInitData(m.desc, buf, size, m.freeHandle); err != nil {
		releaseFreeCallbackTarget(m.freeHandle)
		engineMsgFreeDescriptor(m.desc)
		freeBuffer(buf)
		return nil, err
	}
	m.nativeBuf = buf
	m.actualDataSize = size
	m.state.Store(int32(stateInitialised))

	if slot, ok := p.buckets[idx].allocSlot(); ok {
		m.poolSlot = slot
		p.buckets[idx].msgs[slot] = m
	}
	return m, nil
}

// RentBytes rents a Message sized to len(data) and copies data into its
// native buffer, setting ActualDataSize to len(data) (spec.md §4.3 "The
// overload that accepts a byte span").
func (p *Pool) RentBytes(data []byte) (*Message, error) {
	m, err := p.Rent(len(data))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		if m.pooled {
			_ = m.SetActualDataSize(0)
		}
		return m, nil
	}
	var dst unsafe.Pointer
	if m.pooled {
		dst = m.nativeBuf
	} else {
		dst = engineMsgData(m.desc)
	}
	copyIntoBuffer(dst, data)
	if m.pooled {
		_ = m.SetActualDataSize(len(data))
	}
	return m, nil
}

// resetForReuse prepares a popped-from-stack pooled Message for a new
// rent: per spec.md §4.3 step 2, disposed=false, was-successfully-sent=
// false, callback-executed=0, actual-data-size = buffer-size. This is the
// one transition allowed to re-enter "initialised" from "disposed"
// (spec.md §4.5 state machine) — it bypasses close/re-init entirely,
// reusing the same already-registered engine descriptor and free handle.
func (p *Pool) resetForReuse(m *Message) {
	m.callbackExecuted.Store(false)
	m.actualDataSize = m.bufferSize
	m.state.Store(int32(stateInitialised))
}

// returnToPool is the single chokepoint both return paths funnel through
// (spec.md §4.3 "Return protocol"): the sent path, via the engine's free
// callback manually invoked after a successful pooled raw send (see
// send.go), and the not-sent path, via Message.Dispose. Exactly one of
// "accepted back into the bucket" or "deep-freed as a reject" happens.
func (p *Pool) returnToPool(m *Message) {
	p.totalReturns.Add(1)
	if p.buckets[m.bucketIndex].tryPush(m) {
		return
	}
	p.poolRejects.Add(1)
	p.disposePooledMessage(m)
}

// disposePooledMessage permanently frees a pooled Message that was
// rejected by its bucket (over max_buffers) or evicted by Clear: releases
// the callback registry root, closes the (now-unused) engine descriptor,
// frees the native buffer, frees the descriptor struct itself, and —
// unless this Message never held one — returns its bucket slot to the
// free-slot stack so a future rent can reuse it instead of permanently
// shrinking the bucket's effective capacity.
func (p *Pool) disposePooledMessage(m *Message) {
	if m.hasFreeHandle {
		releaseFreeCallbackTarget(m.freeHandle)
		m.hasFreeHandle = false
	}
	_ = engineMsgClose(m.desc)
	freeBuffer(m.nativeBuf)
	engineMsgFreeDescriptor(m.desc)
	if m.poolSlot >= 0 {
		p.buckets[m.bucketIndex].recycleSlot(m.poolSlot)
	}
}

// PrewarmConfig requests a target population for a set of buckets.
type PrewarmConfig struct {
	// Counts maps bucket index to the number of Messages to pre-allocate.
	// A requested count is clamped to that bucket's current MaxBuffers.
	Counts map[int]int
}

// Prewarm fills selected buckets up to the requested counts, never
// exceeding each bucket's MaxBuffers (spec.md §4.3 "Prewarm and clear").
func (p *Pool) Prewarm(cfg PrewarmConfig) error {
	for idx, want := range cfg.Counts {
		if idx < 0 || idx >= numBuckets {
			return ErrInvalidArgument
		}
		max := int(p.buckets[idx].maxBuffers.Load())
		if want > max {
			want = max
		}
		for int(p.buckets[idx].pooledCount.Load()) < want {
			m, err := p.newPooledMessage(idx)
			if err != nil {
				return err
			}
			if !p.buckets[idx].tryPush(m) {
				// Lost a race against a concurrent Return filling the
				// bucket first, or the slot table is exhausted; this
				// extra Message is simply deep-freed.
				p.disposePooledMessage(m)
				break
			}
		}
	}
	return nil
}

// Clear drains every bucket, deep-freeing each pooled Message. Unsafe
// while other goroutines hold outstanding rents from this Pool (spec.md
// §4.3 "Clear is unsafe while other threads hold outstanding rents; the
// contract places this responsibility on the caller").
func (p *Pool) Clear() {
	for i := range p.buckets {
		p.buckets[i].drain(func(m *Message) {
			p.disposePooledMessage(m)
		})
	}
}

// PoolStatistics is a point-in-time snapshot of a Pool's monotonic
// counters (spec.md §3 "PoolStatistics").
type PoolStatistics struct {
	TotalRents   int64
	TotalReturns int64
	PoolHits     int64
	PoolMisses   int64
	PoolRejects  int64
}

// Outstanding returns rents not yet matched by a return.
func (s PoolStatistics) Outstanding() int64 { return s.TotalRents - s.TotalReturns }

// HitRate returns PoolHits / TotalRents, or 0 when there have been no
// rents yet.
func (s PoolStatistics) HitRate() float64 {
	if s.TotalRents == 0 {
		return 0
	}
	return float64(s.PoolHits) / float64(s.TotalRents)
}

// Stats returns a snapshot of this Pool's counters.
func (p *Pool) Stats() PoolStatistics {
	return PoolStatistics{
		TotalRents:   p.totalRents.Load(),
		TotalReturns: p.totalReturns.Load(),
		PoolHits:     p.poolHits.Load(),
		PoolMisses:   p.poolMisses.Load(),
		PoolRejects:  p.poolRejects.Load(),
	}
}

// Snapshot is an alias for Stats, for any point-in-time consumer of a
// Pool's counters.
func (p *Pool) Snapshot() PoolStatistics { return p.Stats() }
