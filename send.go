// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import "unsafe"

// emptyBufPointerOr returns a pointer to data's first byte, or nil for an
// empty slice. zmq_send accepts a NULL buffer when len is 0.
func emptyBufPointerOr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

// Send transmits a Message on s. Per spec.md §4.3's send divergence for
// Pooled Messages, the wire engages two different native calls depending
// on origin:
//
//   - Regular Message: zmq_msg_send, which transfers ownership of the
//     descriptor's buffer to the engine on success.
//   - Pooled Message: a raw zmq_send of exactly m.ActualDataSize() bytes
//     (not the full bucket size), since the engine's own msg-level send
//     would transmit the whole buffer. Because raw zmq_send never
//     triggers a msg-level free callback, the caller (here) must manually
//     invoke the pool-return path once the send succeeds.
//
// On success m transitions to "sent" and must not be used for Data/Size
// again; Dispose becomes a no-op (the buffer is already handled). On
// failure m is left usable, untouched, for a retry.
func (s *Socket) Send(m *Message, flags Flag) error {
	h, err := s.rawHandle()
	if err != nil {
		return err
	}
	if m.pooled {
		data, derr := m.Data()
		if derr != nil {
			return derr
		}
		_, err = engineSend(h, m.nativeBuf, len(data), int(flags))
		if err != nil {
			return err
		}
		m.markSent()
		// Raw zmq_send never fires the msg-level free callback; return
		// this Message to its pool explicitly now that the wire copy is
		// complete (spec.md §4.3 "Send divergence for pooled messages").
		if m.callbackExecuted.CompareAndSwap(false, true) {
			m.pool.returnToPool(m)
		}
		return nil
	}

	_, err = engineMsgSend(m.desc, h, int(flags))
	if err != nil {
		return err
	}
	m.markSent()
	return nil
}

// SendBytes sends data as one frame with a raw zmq_send; no Message is
// created, and the engine copies the bytes before the call returns.
func (s *Socket) SendBytes(data []byte, flags Flag) error {
	h, err := s.rawHandle()
	if err != nil {
		return err
	}
	_, err = engineSend(h, emptyBufPointerOr(data), len(data), int(flags))
	return err
}

// SendPooled rents a Message from pool sized to len(data), copies data
// into it, and sends it — the common zero-extra-allocation send path
// spec.md §4.3 is built around.
func (s *Socket) SendPooled(pool *Pool, data []byte, flags Flag) error {
	m, err := pool.RentBytes(data)
	if err != nil {
		return err
	}
	if err := s.Send(m, flags); err != nil {
		_ = m.Dispose()
		return err
	}
	return nil
}
