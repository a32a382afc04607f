// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

// noCopy is a sentinel used to prevent copying of resources that own a
// native (non-Go-GC-visible) handle: Context, Socket, Poller, Message.
// `go vet` flags accidental value copies of any struct embedding noCopy.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Flag is a bitmask of send/recv behaviour modifiers.
type Flag int

const (
	// FlagNone requests default (blocking, single-frame) send/recv behaviour.
	FlagNone Flag = 0
	// FlagSendMore marks a frame as followed by at least one more frame of
	// the same logical multipart message.
	// The value is libzmq's ZMQ_SNDMORE (2).
	FlagSendMore Flag = 1 << 1
	// FlagDontWait makes the call non-blocking; it fails with ErrWouldBlock
	// instead of blocking the calling thread. The value is libzmq's
	// ZMQ_DONTWAIT (1).
	FlagDontWait Flag = 1 << 0
)

func (f Flag) has(bit Flag) bool { return f&bit != 0 }
