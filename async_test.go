// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq_test

import (
	"context"
	"testing"
	"time"

	"code.hybscloud.com/zmq"
)

func TestAsync_SendRecvRoundTrip(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	endpoint := "inproc://async-roundtrip"

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

	bgCtx := context.Background()
	if err := client.AsyncSendBytes(bgCtx, []byte("async-ping"), zmq.FlagNone); err != nil {
		t.Fatalf("AsyncSendBytes() failed: %v", err)
	}

	m, err := server.AsyncRecv(bgCtx, zmq.FlagNone)
	if err != nil {
		t.Fatalf("AsyncRecv() failed: %v", err)
	}
	defer func() { _ = m.Dispose() }()

	data, err := m.Data()
	if err != nil {
		t.Fatalf("Data() failed: %v", err)
	}
	if string(data) != "async-ping" {
		t.Fatalf("expected %q, got %q", "async-ping", data)
	}
}

func TestAsync_RecvCancellation(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Pull)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()
	if err := s.Bind("inproc://async-cancel-test"); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	cancelCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = s.AsyncRecv(cancelCtx, zmq.FlagNone)
	if err != zmq.ErrCancelled {
		t.Fatalf("expected ErrCancelled on a deadline with no data, got %v", err)
	}
}
