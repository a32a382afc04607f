// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

/*
#cgo pkg-config: libzmq
#include <zmq.h>
*/
import "C"

// Monitor event bits, mirroring the ZMQ_EVENT_* family. These are
// supplemental to the wire protocol itself (spec.md's Non-goals exclude
// reimplementing the engine, not observing it), letting a caller watch a
// socket's connection lifecycle without polling application traffic.
const (
	EventConnected      = int(C.ZMQ_EVENT_CONNECTED)
	EventConnectDelayed = int(C.ZMQ_EVENT_CONNECT_DELAYED)
	EventConnectRetried = int(C.ZMQ_EVENT_CONNECT_RETRIED)
	EventListening      = int(C.ZMQ_EVENT_LISTENING)
	EventBindFailed     = int(C.ZMQ_EVENT_BIND_FAILED)
	EventAccepted       = int(C.ZMQ_EVENT_ACCEPTED)
	EventAcceptFailed   = int(C.ZMQ_EVENT_ACCEPT_FAILED)
	EventClosed         = int(C.ZMQ_EVENT_CLOSED)
	EventCloseFailed    = int(C.ZMQ_EVENT_CLOSE_FAILED)
	EventDisconnected   = int(C.ZMQ_EVENT_DISCONNECTED)
	EventMonitorStopped = int(C.ZMQ_EVENT_MONITOR_STOPPED)
	EventAll            = int(C.ZMQ_EVENT_ALL)
)

// Monitor attaches an inproc monitoring socket to s via
// zmq_socket_monitor, delivering the events in the mask as two-frame
// messages on the returned PAIR Socket: DecodeMonitorEvent turns each
// received frame pair into (event, value, address).
func (s *Socket) Monitor(events int) (*Socket, error) {
	h, err := s.rawHandle()
	if err != nil {
		return nil, err
	}
	endpoint := "inproc://zmqgo-monitor-" + s.id.String()
	if err := engineSocketMonitor(h, endpoint, events); err != nil {
		return nil, err
	}
	mon, err := NewSocket(s.ctx, Pair)
	if err != nil {
		return nil, err
	}
	if err := mon.Connect(endpoint); err != nil {
		_ = mon.Close()
		return nil, err
	}
	return mon, nil
}

// MonitorEvent is the decoded form of one monitor frame pair.
type MonitorEvent struct {
	Event   int
	Value   int
	Address string
}

// DecodeMonitorEvent decodes a monitor socket's two-frame event message.
// The first frame packs event-id (uint16) + value (uint32) per libzmq's
// wire layout; the second carries the affected endpoint address as text.
func DecodeMonitorEvent(mm *MultipartMessage) (MonitorEvent, error) {
	if len(mm.Frames) != 2 {
		return MonitorEvent{}, ErrInvalidArgument
	}
	head, err := mm.Frames[0].Data()
	if err != nil {
		return MonitorEvent{}, err
	}
	if len(head) < 6 {
		return MonitorEvent{}, ErrInvalidArgument
	}
	event := int(head[0]) | int(head[1])<<8
	value := int(head[2]) | int(head[3])<<8 | int(head[4])<<16 | int(head[5])<<24
	addr, err := mm.Frames[1].Data()
	if err != nil {
		return MonitorEvent{}, err
	}
	return MonitorEvent{Event: event, Value: value, Address: string(addr)}, nil
}
