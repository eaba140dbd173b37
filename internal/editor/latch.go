// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package editor

import (
	"context"
	"sync"
	"time"
)

// latch is a thread-safe one-shot signal. It only transitions from
// unset to set, never back. Waits block on the underlying channel, so
// no spin-sleeping is involved.
type latch struct {
	once sync.Once
	ch   chan struct{}
}

func newLatch() *latch {
	return &latch{ch: make(chan struct{})}
}

// Set latches the signal. Safe to call multiple times.
func (l *latch) Set() {
	l.once.Do(func() { close(l.ch) })
}

// IsSet reports whether the signal has been latched.
func (l *latch) IsSet() bool {
	select {
	case <-l.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the signal is latched or the context is done.
func (l *latch) Wait(ctx context.Context) error {
	select {
	case <-l.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout blocks up to d and reports whether the signal was latched.
func (l *latch) WaitTimeout(d time.Duration) bool {
	select {
	case <-l.ch:
		return true
	case <-time.After(d):
		return false
	}
}
