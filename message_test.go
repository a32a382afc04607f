// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/zmq"
)

func TestMessage_NewMessageFromBytes(t *testing.T) {
	payload := []byte("zero-copy")
	m, err := zmq.NewMessageFromBytes(payload)
	if err != nil {
		t.Fatalf("NewMessageFromBytes() failed: %v", err)
	}
	defer func() { _ = m.Dispose() }()

	if m.IsPooled() {
		t.Fatalf("expected a Regular Message, not pooled")
	}
	data, err := m.Data()
	if err != nil {
		t.Fatalf("Data() failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("expected %q, got %q", payload, data)
	}
}

func TestMessage_EmptyPayloadHasZeroSize(t *testing.T) {
	m, err := zmq.NewMessage(0)
	if err != nil {
		t.Fatalf("NewMessage(0) failed: %v", err)
	}
	defer func() { _ = m.Dispose() }()

	size, err := m.Size()
	if err != nil {
		t.Fatalf("Size() failed: %v", err)
	}
	if size != 0 {
		t.Fatalf("expected Size() == 0, got %d", size)
	}
}

func TestMessage_DisposeIsIdempotent(t *testing.T) {
	m, err := zmq.NewMessage(16)
	if err != nil {
		t.Fatalf("NewMessage() failed: %v", err)
	}
	if err := m.Dispose(); err != nil {
		t.Fatalf("first Dispose() failed: %v", err)
	}
	if err := m.Dispose(); err != nil {
		t.Fatalf("second Dispose() should be a no-op, got: %v", err)
	}
}

func TestMessage_DataAfterDisposeFails(t *testing.T) {
	m, err := zmq.NewMessage(16)
	if err != nil {
		t.Fatalf("NewMessage() failed: %v", err)
	}
	if err := m.Dispose(); err != nil {
		t.Fatalf("Dispose() failed: %v", err)
	}
	if _, err := m.Data(); !errors.Is(err, zmq.ErrAlreadyDisposed) {
		t.Fatalf("expected ErrAlreadyDisposed, got %v", err)
	}
	if _, err := m.Size(); !errors.Is(err, zmq.ErrAlreadyDisposed) {
		t.Fatalf("expected ErrAlreadyDisposed, got %v", err)
	}
}

func TestMessage_SetActualDataSizeValidation(t *testing.T) {
	pool := zmq.NewPool()
	m, err := pool.Rent(64)
	if err != nil {
		t.Fatalf("Rent() failed: %v", err)
	}
	defer func() { _ = m.Dispose() }()

	if err := m.SetActualDataSize(m.BufferSize() + 1); !errors.Is(err, zmq.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for an over-large size, got %v", err)
	}
	if err := m.SetActualDataSize(-1); !errors.Is(err, zmq.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a negative size, got %v", err)
	}
	if err := m.SetActualDataSize(10); err != nil {
		t.Fatalf("SetActualDataSize(10) failed: %v", err)
	}
	size, err := m.Size()
	if err != nil {
		t.Fatalf("Size() failed: %v", err)
	}
	if size != 10 {
		t.Fatalf("expected Size() == 10, got %d", size)
	}
}

func TestMessage_RegularSetActualDataSizeRejected(t *testing.T) {
	m, err := zmq.NewMessage(16)
	if err != nil {
		t.Fatalf("NewMessage() failed: %v", err)
	}
	defer func() { _ = m.Dispose() }()
	if err := m.SetActualDataSize(8); !errors.Is(err, zmq.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a Regular Message, got %v", err)
	}
}
