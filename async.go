// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import (
	"context"
	"errors"
	"sync"
	"time"
)

// defaultAsyncPollInterval is the poll timeout async helpers use while
// parked waiting for readiness (spec.md §4.5 "pins the default at 10 ms
// and leaves it as a tunable").
var defaultAsyncPollInterval = 10 * time.Millisecond

// asyncSpinSleep caps spin CPU between poll failures (spec.md §4.5 "sleep
// 1 ms between poll failures").
const asyncSpinSleep = 1 * time.Millisecond

// asyncPollerPool caches single-slot Pollers for the async helpers (spec.md §4.5
// "park on a thread-local cached single-slot Poller"). Go has no
// first-class thread-local storage, and a goroutine is not pinned to an
// OS thread between blocking points, so this is approximated with a
// sync.Pool: each park acquires one cached Poller, reconfigures it for
// the socket at hand, and returns it when done. This keeps the common
// case allocation-free across repeated async calls from the same
// goroutine without claiming a guarantee Go cannot make.
var asyncPollerPool = sync.Pool{
	New: func() any {
		p, err := NewPoller(1)
		if err != nil {
			panic(err) // capacity is a compile-time constant; cannot fail
		}
		return p
	},
}

func acquireAsyncPoller() *Poller {
	return asyncPollerPool.Get().(*Poller)
}

func releaseAsyncPoller(p *Poller) {
	_ = p.Clear()
	asyncPollerPool.Put(p)
}

// AsyncSend attempts a non-blocking send; on EAGAIN it parks on a cached
// Poller waiting for POLLOUT, re-attempting the non-blocking send after
// each wakeup, until it succeeds, ctx is cancelled, or a non-EAGAIN error
// occurs (spec.md §4.5 "Async polling helpers").
func (s *Socket) AsyncSend(ctx context.Context, m *Message, flags Flag) error {
	return s.asyncLoop(ctx, PollOut, func() error {
		return s.Send(m, flags|FlagDontWait)
	})
}

// AsyncSendBytes is the AsyncSend counterpart of SendBytes.
func (s *Socket) AsyncSendBytes(ctx context.Context, data []byte, flags Flag) error {
	return s.asyncLoop(ctx, PollOut, func() error {
		return s.SendBytes(data, flags|FlagDontWait)
	})
}

// AsyncRecv attempts a non-blocking receive; on EAGAIN it parks on a
// cached Poller waiting for POLLIN, re-attempting after each wakeup,
// until data arrives, ctx is cancelled, or a non-EAGAIN error occurs.
func (s *Socket) AsyncRecv(ctx context.Context, flags Flag) (*Message, error) {
	var result *Message
	err := s.asyncLoop(ctx, PollIn, func() error {
		m, err := s.Recv(flags | FlagDontWait)
		if err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// asyncLoop implements the three-step protocol from spec.md §4.5:
// attempt non-blocking, then on ErrWouldBlock park on a cached Poller and
// retry, checking ctx between every step.
func (s *Socket) asyncLoop(ctx context.Context, event int, attempt func() error) error {
	if err := ctx.Err(); err != nil {
		return ErrCancelled
	}
	if err := attempt(); err == nil {
		return nil
	} else if !errors.Is(err, ErrWouldBlock) {
		return err
	}

	poller := acquireAsyncPoller()
	defer releaseAsyncPoller(poller)
	if _, err := poller.Add(s, event); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return ErrCancelled
		}
		n, err := poller.Poll(defaultAsyncPollInterval)
		if err != nil {
			return err
		}
		if n == 0 {
			time.Sleep(asyncSpinSleep)
			continue
		}
		if err := ctx.Err(); err != nil {
			return ErrCancelled
		}
		if err := attempt(); err == nil {
			return nil
		} else if !errors.Is(err, ErrWouldBlock) {
			return err
		}
	}
}
