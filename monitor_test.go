// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq_test

import (
	"testing"

	"code.hybscloud.com/zmq"
)

func TestMonitor_ReportsListening(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	s, err := zmq.NewSocket(ctx, zmq.Pair)
	if err != nil {
		t.Fatalf("NewSocket() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	mon, err := s.Monitor(zmq.EventListening)
	if err != nil {
		t.Fatalf("Monitor() failed: %v", err)
	}
	defer func() { _ = mon.Close() }()

	if err := s.Bind("inproc://monitor-test"); err != nil {
		t.Fatalf("Bind() failed: %v", err)
	}

	if err := mon.SetOption(zmq.OptRecvTimeout, 1000); err != nil {
		t.Fatalf("SetOption(OptRecvTimeout) failed: %v", err)
	}
	mm, err := mon.RecvMultipart(zmq.FlagNone)
	if err != nil {
		t.Fatalf("RecvMultipart() failed: %v", err)
	}
	defer func() { _ = mm.Dispose() }()

	ev, err := zmq.DecodeMonitorEvent(mm)
	if err != nil {
		t.Fatalf("DecodeMonitorEvent() failed: %v", err)
	}
	if ev.Event&zmq.EventListening == 0 {
		t.Fatalf("expected a LISTENING event, got event bits %d", ev.Event)
	}
}
