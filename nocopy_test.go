// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq

import "testing"

// TestNoCopy exercises the noCopy sentinel type embedded in Context,
// Socket, Message, and Poller so `go vet`'s copylocks check flags an
// accidental value copy of any of them.
func TestNoCopy(t *testing.T) {
	var nc noCopy
	nc.Lock()
	nc.Unlock()
}

func TestFlag_Has(t *testing.T) {
	f := FlagSendMore | FlagDontWait
	if !f.has(FlagSendMore) {
		t.Fatalf("expected FlagSendMore to be set")
	}
	if !f.has(FlagDontWait) {
		t.Fatalf("expected FlagDontWait to be set")
	}
	if FlagNone.has(FlagSendMore) {
		t.Fatalf("expected FlagNone to have no bits set")
	}
}
