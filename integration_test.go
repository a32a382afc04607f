// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build zmq_integration

package zmq_test

import (
	"context"
	"testing"
	"time"

	"code.hybscloud.com/zmq"
)

// TestIntegration_ReqRepPooledRoundTrip exercises a full REQ/REP exchange
// using pool-backed sends and receives on both sides: a client rents a
// pooled Message, sends it, the server receives and replies with its own
// pooled Message.
func TestIntegration_ReqRepPooledRoundTrip(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()
	pool := zmq.NewPool()

	endpoint := "inproc://integration-reqrep"

	rep, err := zmq.NewSocket(ctx, zmq.Rep)
	if err != nil {
		t.Fatalf("NewSocket(rep) failed: %v", err)
	}
	defer func() { _ = rep.Close() }()
	if err := rep.Bind(endpoint); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	req, err := zmq.NewSocket(ctx, zmq.Req)
	if err != nil {
		t.Fatalf("NewSocket(req) failed: %v", err)
	}
	defer func() { _ = req.Close() }()
	if err := req.Connect(endpoint); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	if err := req.SendPooled(pool, []byte("request-payload"), zmq.FlagNone); err != nil {
		t.Fatalf("SendPooled(req) failed: %v", err)
	}

	got, err := rep.RecvPooled(pool, zmq.FlagNone)
	if err != nil {
		t.Fatalf("RecvPooled(rep) failed: %v", err)
	}
	data, err := got.Data()
	if err != nil {
		t.Fatalf("Data() failed: %v", err)
	}
	if string(data) != "request-payload" {
		t.Fatalf("expected %q, got %q", "request-payload", data)
	}
	if err := got.Dispose(); err != nil {
		t.Fatalf("Dispose() failed: %v", err)
	}

	if err := rep.SendPooled(pool, []byte("reply-payload"), zmq.FlagNone); err != nil {
		t.Fatalf("SendPooled(rep) failed: %v", err)
	}
	reply, err := req.RecvPooled(pool, zmq.FlagNone)
	if err != nil {
		t.Fatalf("RecvPooled(req) failed: %v", err)
	}
	replyData, err := reply.Data()
	if err != nil {
		t.Fatalf("Data() failed: %v", err)
	}
	if string(replyData) != "reply-payload" {
		t.Fatalf("expected %q, got %q", "reply-payload", replyData)
	}
	if err := reply.Dispose(); err != nil {
		t.Fatalf("Dispose() failed: %v", err)
	}

	stats := pool.Stats()
	if stats.Outstanding() != 0 {
		t.Fatalf("expected 0 outstanding rents after the exchange, got %d", stats.Outstanding())
	}
}

// TestIntegration_PubSubFanout covers one publisher and several
// subscribers, each receiving every published frame.
func TestIntegration_PubSubFanout(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	endpoint := "inproc://integration-pubsub"

	pub, err := zmq.NewSocket(ctx, zmq.Pub)
	if err != nil {
		t.Fatalf("NewSocket(pub) failed: %v", err)
	}
	defer func() { _ = pub.Close() }()
	if err := pub.Bind(endpoint); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	const numSubs = 3
	subs := make([]*zmq.Socket, numSubs)
	for i := range subs {
		sub, err := zmq.NewSocket(ctx, zmq.Sub)
		if err != nil {
			t.Fatalf("NewSocket(sub) failed: %v", err)
		}
		defer func() { _ = sub.Close() }()
		if err := sub.SetOption(zmq.OptSubscribe, []byte("")); err != nil {
			t.Fatalf("SetOption(OptSubscribe) failed: %v", err)
		}
		if err := sub.Connect(endpoint); err != nil {
			t.Fatalf("Connect() failed: %v", err)
		}
		subs[i] = sub
	}

	// Allow subscriptions to propagate before publishing (PUB/SUB has no
	// synchronization handshake of its own).
	time.Sleep(100 * time.Millisecond)

	bgCtx := context.Background()
	if err := pub.AsyncSendBytes(bgCtx, []byte("fanout-message"), zmq.FlagNone); err != nil {
		t.Fatalf("AsyncSendBytes() failed: %v", err)
	}

	for i, sub := range subs {
		got, err := sub.RecvBytes(zmq.FlagNone)
		if err != nil {
			t.Fatalf("RecvBytes(sub %d) failed: %v", i, err)
		}
		if string(got) != "fanout-message" {
			t.Fatalf("sub %d: expected %q, got %q", i, "fanout-message", got)
		}
	}
}
