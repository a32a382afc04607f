// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zmq_test

import (
	"testing"

	"code.hybscloud.com/spin"
	"code.hybscloud.com/zmq"
)

func BenchmarkPool_RentReturn(b *testing.B) {
	pool := zmq.NewPool()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m, err := pool.Rent(256)
			if err != nil {
				b.Fatal(err)
			}
			// Simulate a small amount of work between rent and return.
			spin.Yield()
			if err := m.Dispose(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkPool_RentBytes(b *testing.B) {
	pool := zmq.NewPool()
	payload := make([]byte, 512)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m, err := pool.RentBytes(payload)
			if err != nil {
				b.Fatal(err)
			}
			if err := m.Dispose(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkMessage_NewRegular(b *testing.B) {
	for i := 0; i < b.N; i++ {
		m, err := zmq.NewMessage(256)
		if err != nil {
			b.Fatal(err)
		}
		if err := m.Dispose(); err != nil {
			b.Fatal(err)
		}
	}
}
