// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package zmq_test

// raceEnabled is true when the race detector is active. Pool concurrency
// tests use this to widen iteration counts, since the race
// detector's instrumentation makes contended CAS loops far more likely to
// actually interleave within a short test run.
const raceEnabled = true
