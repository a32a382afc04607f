// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !windows

package zmq

import (
	"time"

	"golang.org/x/sys/unix"
)

// WaitReadableFD blocks on s's underlying edge-triggered file descriptor
// (the engine's ZMQ_FD option) until the engine signals readiness or
// timeout elapses, without running the poll loop AsyncRecv/AsyncSend use.
// This is the "edge-triggered FD-based reactor" alternative spec.md §4.5
// explicitly permits: after each wakeup, the socket's ZMQ_EVENTS option
// must still be consulted (and the actual recv/send retried) since the fd
// only edge-triggers on state *change*, not on the condition itself.
func (s *Socket) WaitReadableFD(timeout time.Duration) error {
	v, err := s.GetOption(OptFD)
	if err != nil {
		return err
	}
	fd := v.(int)

	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return &EngineError{Op: "poll", Errno: int(err.(unix.Errno))}
	}
	if n == 0 {
		return ErrWouldBlock
	}
	return nil
}
