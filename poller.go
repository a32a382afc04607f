// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import (
	"sync"
	"time"
	"unsafe"
)

// Poller multiplexes readiness across a fixed-capacity set of Sockets
// (spec.md §3 "Poller"), backed by a single native zmq_pollitem_t array so
// a call to Poll issues exactly one zmq_poll regardless of how many
// sockets are registered.
//
// Per spec.md §4.4, Add returns a stable slot index; Update/IsReadable/
// IsWritable/HasError are addressed by that index rather than by Socket,
// matching invariant 6 and scenario S6 (`poller.add(REP, IN); ...;
// is_readable(0) = true`). The index remains valid until a Remove shifts
// it (Remove compacts the array, so only the removed and the former-last
// slot's indices change).
type Poller struct {
	_ noCopy

	mu       sync.Mutex
	base     unsafe.Pointer
	cap      int
	count    int
	sockets  []*Socket
	disposed bool
}

// NewPoller creates a Poller able to track up to capacity Sockets without
// reallocating its native array. capacity must be > 0.
func NewPoller(capacity int) (*Poller, error) {
	if capacity <= 0 {
		return nil, ErrInvalidArgument
	}
	return &Poller{
		base:    enginePollItemsAlloc(capacity),
		cap:     capacity,
		sockets: make([]*Socket, capacity),
	}, nil
}

func (p *Poller) checkLive() error {
	if p.disposed {
		return ErrAlreadyDisposed
	}
	return nil
}

// indexOf returns the slot index for s, or -1 if not registered. Caller
// must hold p.mu.
func (p *Poller) indexOf(s *Socket) int {
	for i := 0; i < p.count; i++ {
		if p.sockets[i] == s {
			return i
		}
	}
	return -1
}

// validIndex reports whether idx currently names a registered slot.
// Caller must hold p.mu.
func (p *Poller) validIndex(idx int) bool {
	return idx >= 0 && idx < p.count
}

// Add registers s for the given event mask (PollIn|PollOut) and returns
// its stable slot index (spec.md §4.4 "add(socket, events) -> index").
// Returns ErrInvalidArgument once capacity is exhausted.
func (p *Poller) Add(s *Socket, events int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkLive(); err != nil {
		return -1, err
	}
	if p.indexOf(s) >= 0 {
		return -1, ErrInvalidArgument
	}
	if p.count >= p.cap {
		return -1, ErrInvalidArgument
	}
	h, err := s.rawHandle()
	if err != nil {
		return -1, err
	}
	idx := p.count
	enginePollItemSet(p.base, idx, h, events)
	p.sockets[idx] = s
	p.count++
	return idx, nil
}

// Update changes the event mask registered at index (spec.md §4.4
// "update(index, events)").
func (p *Poller) Update(index int, events int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkLive(); err != nil {
		return err
	}
	if !p.validIndex(index) {
		return ErrInvalidArgument
	}
	enginePollItemUpdateEvents(p.base, index, events)
	return nil
}

// Remove deregisters s, compacting the native array so it stays dense
// (spec.md §4.4 "Remove must not leave a gap that wastes a poll slot").
// Compaction moves the former-last slot into idx's place, so that slot's
// index changes from count-1 to idx.
func (p *Poller) Remove(s *Socket) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkLive(); err != nil {
		return err
	}
	idx := p.indexOf(s)
	if idx < 0 {
		return ErrInvalidArgument
	}
	last := p.count - 1
	if idx != last {
		item := enginePollItemAt(p.base, last)
		enginePollItemSet(p.base, idx, item.socket, int(item.events))
		p.sockets[idx] = p.sockets[last]
	}
	p.sockets[last] = nil
	p.count--
	return nil
}

// Poll blocks up to timeout waiting for any registered Socket to become
// ready, or indefinitely if timeout < 0. It returns the number of sockets
// with at least one requested event ready.
func (p *Poller) Poll(timeout time.Duration) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkLive(); err != nil {
		return 0, err
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	return enginePoll(p.base, p.count, ms)
}

// IsReadable reports whether the slot at index observed POLLIN on the
// most recent Poll (spec.md §4.4 "is_readable(index)").
func (p *Poller) IsReadable(index int) bool { return p.revents(index)&PollIn != 0 }

// IsWritable reports whether the slot at index observed POLLOUT on the
// most recent Poll (spec.md §4.4 "is_writable(index)").
func (p *Poller) IsWritable(index int) bool { return p.revents(index)&PollOut != 0 }

// HasError reports whether the slot at index observed POLLERR on the
// most recent Poll (spec.md §4.4 "has_error(index)").
func (p *Poller) HasError(index int) bool { return p.revents(index)&PollErr != 0 }

func (p *Poller) revents(index int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.validIndex(index) {
		return 0
	}
	return enginePollItemRevents(p.base, index)
}

// Clear deregisters every Socket, resetting the Poller to an empty state
// without freeing its native array (it remains reusable).
func (p *Poller) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkLive(); err != nil {
		return err
	}
	for i := 0; i < p.count; i++ {
		p.sockets[i] = nil
	}
	p.count = 0
	return nil
}

// Dispose frees the Poller's native array. Dispose is idempotent.
func (p *Poller) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return nil
	}
	p.disposed = true
	enginePollItemsFree(p.base)
	p.base = nil
	return nil
}
