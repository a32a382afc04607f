// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/zmq"
)

func TestContext_CloseIsIdempotent(t *testing.T) {
	ctx := zmq.NewContext()
	if err := ctx.Close(); err != nil {
		t.Fatalf("first Close() failed: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("second Close() should be a no-op, got: %v", err)
	}
	if !ctx.Disposed() {
		t.Fatalf("expected Disposed() == true after Close()")
	}
}

func TestContext_OptionsAfterCloseFail(t *testing.T) {
	ctx := zmq.NewContext()
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := ctx.SetOption(zmq.CtxIOThreads, 2); !errors.Is(err, zmq.ErrAlreadyDisposed) {
		t.Fatalf("expected ErrAlreadyDisposed, got %v", err)
	}
}

func TestContext_SetGetIOThreads(t *testing.T) {
	ctx := zmq.NewContext()
	defer func() { _ = ctx.Close() }()

	if err := ctx.SetOption(zmq.CtxIOThreads, 2); err != nil {
		t.Fatalf("SetOption(CtxIOThreads) failed: %v", err)
	}
	v, err := ctx.GetOption(zmq.CtxIOThreads)
	if err != nil {
		t.Fatalf("GetOption(CtxIOThreads) failed: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected io-threads == 2, got %d", v)
	}
}

func TestContext_IDsAreUnique(t *testing.T) {
	a := zmq.NewContext()
	defer func() { _ = a.Close() }()
	b := zmq.NewContext()
	defer func() { _ = b.Close() }()

	if a.ID() == b.ID() {
		t.Fatalf("expected distinct Context IDs")
	}
}
