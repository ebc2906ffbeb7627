/*
 *
 * Copyright 2026 The inputwire Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package transport

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// semAcquireTimeout bounds every semaphore wait. The legitimate hold time
// is a handful of field writes, so a wait anywhere near this long means
// the other process died inside its mutation window.
const semAcquireTimeout = 500 * time.Millisecond

// semTryAcquire attempts to take the record semaphore without waiting.
func semTryAcquire(addr *uint32) bool {
	return atomic.CompareAndSwapUint32(addr, 1, 0)
}

// semAcquire takes the record semaphore, waiting on the futex word while
// the other side holds it. Returns ErrTimedOut when the wait exceeds
// timeout.
func semAcquire(addr *uint32, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if semTryAcquire(addr) {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrTimedOut
		}
		if err := futexWaitTimeout(addr, 0, remaining.Nanoseconds()); err != nil {
			if errors.Is(err, errFutexTimeout) {
				return ErrTimedOut
			}
			return fmt.Errorf("semaphore wait: %w", err)
		}
	}
}

// semRelease publishes the record as complete and wakes one waiter.
func semRelease(addr *uint32) {
	atomic.StoreUint32(addr, 1)
	futexWake(addr, 1)
}
