// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

/*
#cgo pkg-config: libzmq
#include <zmq.h>
*/
import "C"

// SocketType identifies the messaging pattern a Socket implements.
type SocketType int

// Socket types from the engine's socket-type enumeration (spec.md §3).
const (
	Pair   SocketType = C.ZMQ_PAIR
	Pub    SocketType = C.ZMQ_PUB
	Sub    SocketType = C.ZMQ_SUB
	Req    SocketType = C.ZMQ_REQ
	Rep    SocketType = C.ZMQ_REP
	Dealer SocketType = C.ZMQ_DEALER
	Router SocketType = C.ZMQ_ROUTER
	Pull   SocketType = C.ZMQ_PULL
	Push   SocketType = C.ZMQ_PUSH
	XPub   SocketType = C.ZMQ_XPUB
	XSub   SocketType = C.ZMQ_XSUB
	Stream SocketType = C.ZMQ_STREAM
)

func (t SocketType) String() string {
	switch t {
	case Pair:
		return "PAIR"
	case Pub:
		return "PUB"
	case Sub:
		return "SUB"
	case Req:
		return "REQ"
	case Rep:
		return "REP"
	case Dealer:
		return "DEALER"
	case Router:
		return "ROUTER"
	case Pull:
		return "PULL"
	case Push:
		return "PUSH"
	case XPub:
		return "XPUB"
	case XSub:
		return "XSUB"
	case Stream:
		return "STREAM"
	default:
		return "UNKNOWN"
	}
}
