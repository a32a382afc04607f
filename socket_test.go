// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/zmq"
)

func TestSocket_CloseIsIdempotent(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() should be a no-op, got: %v", err)
	}
}

func TestSocket_OperationsAfterCloseFail(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := s.Bind("inproc://closed-socket-test"); !errors.Is(err, zmq.ErrAlreadyDisposed) {
		t.Fatalf("expected ErrAlreadyDisposed, got %v", err)
	}
}

func TestSocket_TypeAndContextAccessors(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Router)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if s.Type() != zmq.Router {
		t.Fatalf("expected SocketType Router, got %v", s.Type())
	}
	if s.Context() != ctx {
		t.Fatalf("expected Context() to return the owning Context")
	}
}

func TestSocket_PairSendRecvRoundTrip(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	endpoint := "inproc://socket-pair-roundtrip"

	server, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket(server) failed: %v", err)
	}
	defer func() { _ = server.Close() }()
	if err := server.Bind(endpoint); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	client, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket(client) failed: %v", err)
	}
	defer func() { _ = client.Close() }()
	if err := client.Connect(endpoint); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	if err := client.SendBytes([]byte("ping"), zmq.FlagNone); err != nil {
		t.Fatalf("SendBytes() failed: %v", err)
	}
	got, err := server.RecvBytes(zmq.FlagNone)
	if err != nil {
		t.Fatalf("RecvBytes() failed: %v", err)
	}
	if string(got) != "ping" {
		t.Fatalf("expected %q, got %q", "ping", got)
	}
}

func TestSocket_SetGetOption(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.SetOption(zmq.OptLinger, 0); err != nil {
		t.Fatalf("SetOption(OptLinger) failed: %v", err)
	}
	v, err := s.GetOption(zmq.OptLinger)
	if err != nil {
		t.Fatalf("GetOption(OptLinger) failed: %v", err)
	}
	if v.(int) != 0 {
		t.Fatalf("expected linger == 0, got %v", v)
	}
}

func TestSocket_SetOptionTypeMismatch(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.SetOption(zmq.OptLinger, "not-an-int"); !errors.Is(err, zmq.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a type-mismatched option value, got %v", err)
	}
}
