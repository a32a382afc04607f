// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq_test

import (
	"testing"

	"code.hybscloud.com/zmq"
)

func TestOptions_SubscribeUnsubscribe(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	sub, err := zmq.NewSocket(ctx, zmq.Sub)
	if err != nil {
		t.Fatalf("NewSocket(sub) failed: %v", err)
	}
	defer func() { _ = sub.Close() }()

	if err := sub.SetOption(zmq.OptSubscribe, []byte("topic-a")); err != nil {
		t.Fatalf("SetOption(OptSubscribe) failed: %v", err)
	}
	if err := sub.SetOption(zmq.OptUnsubscribe, []byte("topic-a")); err != nil {
		t.Fatalf("SetOption(OptUnsubscribe) failed: %v", err)
	}
}

func TestOptions_RoutingIDBytesRoundTrip(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Dealer)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	id := []byte("worker-07")
	if err := s.SetOption(zmq.OptRoutingID, id); err != nil {
		t.Fatalf("SetOption(OptRoutingID) failed: %v", err)
	}
	v, err := s.GetOption(zmq.OptRoutingID)
	if err != nil {
		t.Fatalf("GetOption(OptRoutingID) failed: %v", err)
	}
	if string(v.([]byte)) != string(id) {
		t.Fatalf("expected routing id %q, got %q", id, v)
	}
}

func TestOptions_ReadOnlyTypeReflectsConstructor(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Push)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	v, err := s.GetOption(zmq.OptType)
	if err != nil {
		t.Fatalf("GetOption(OptType) failed: %v", err)
	}
	if zmq.SocketType(v.(int)) != zmq.Push {
		t.Fatalf("expected ZMQ_TYPE to reflect Push, got %v", v)
	}
}

func TestOptions_MaxMsgSizeInt64(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.SetOption(zmq.OptMaxMsgSize, int64(1<<20)); err != nil {
		t.Fatalf("SetOption(OptMaxMsgSize) failed: %v", err)
	}
	v, err := s.GetOption(zmq.OptMaxMsgSize)
	if err != nil {
		t.Fatalf("GetOption(OptMaxMsgSize) failed: %v", err)
	}
	if v.(int64) != 1<<20 {
		t.Fatalf("expected maxmsgsize == %d, got %v", 1<<20, v)
	}
}
