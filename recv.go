// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import "unsafe"

// Recv receives one frame into a freshly allocated, engine-owned Regular
// Message (NewEmptyMessage + zmq_msg_recv). The caller owns the returned
// Message and must Dispose it.
func (s *Socket) Recv(flags Flag) (*Message, error) {
	h, err := s.rawHandle()
	if err != nil {
		return nil, err
	}
	m, err := NewEmptyMessage()
	if err != nil {
		return nil, err
	}
	if _, err := engineMsgRecv(m.desc, h, int(flags)); err != nil {
		_ = m.Dispose()
		return nil, err
	}
	return m, nil
}

// RecvPooled rents a pooled Message at the largest bucket, raw-receives
// directly into its buffer, and sets its ActualDataSize to the number of
// bytes the engine actually delivered (spec.md §4.5 "recv_with_pool"). A
// frame too large for the largest bucket is reported as
// ErrInvalidArgument; the over-length bytes the engine already wrote into
// the buffer are discarded along with the Message.
func (s *Socket) RecvPooled(pool *Pool, flags Flag) (*Message, error) {
	m, err := pool.Rent(bucketSizes[numBuckets-1])
	if err != nil {
		return nil, err
	}
	n, err := s.RecvInto(unsafeBytesOf(m.nativeBuf, m.bufferSize), flags)
	if err != nil {
		_ = m.Dispose()
		return nil, err
	}
	if n > m.bufferSize {
		_ = m.Dispose()
		return nil, ErrInvalidArgument
	}
	_ = m.SetActualDataSize(n)
	return m, nil
}

// RecvBytes receives one frame and copies it into a freshly allocated Go
// byte slice, the simplest (but not zero-copy) receive path.
func (s *Socket) RecvBytes(flags Flag) ([]byte, error) {
	m, err := s.Recv(flags)
	if err != nil {
		return nil, err
	}
	defer func() { _ = m.Dispose() }()
	data, err := m.Data()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// RecvInto receives at most len(buf) bytes directly into buf via raw
// zmq_recv, truncating any excess per the engine's own contract (the
// return value is the full frame size, which may exceed len(buf)).
func (s *Socket) RecvInto(buf []byte, flags Flag) (int, error) {
	h, err := s.rawHandle()
	if err != nil {
		return 0, err
	}
	var ptr unsafe.Pointer
	if len(buf) > 0 {
		ptr = unsafe.Pointer(&buf[0])
	}
	return engineRecv(h, ptr, len(buf), int(flags))
}

// unsafeBytesOf views an n-byte native buffer as a Go slice without
// copying, for use as the destination of a raw receive.
func unsafeBytesOf(p unsafe.Pointer, n int) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}
