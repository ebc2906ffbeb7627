//go:build linux && (amd64 || arm64)

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
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex operations without FUTEX_PRIVATE_FLAG: the word lives in a
// MAP_SHARED region and must be visible to both processes.
const (
	futexOpWait = 0 // FUTEX_WAIT
	futexOpWake = 1 // FUTEX_WAKE
)

// errFutexTimeout is returned by futexWaitTimeout when the wait times out.
var errFutexTimeout = errors.New("futex timeout")

// futexWaitTimeout waits until the value at addr is no longer val or the
// timeout elapses. timeoutNs <= 0 waits indefinitely.
//
// Callers must re-check their logical condition after this returns:
// spurious wakeups and value races are expected.
func futexWaitTimeout(addr *uint32, val uint32, timeoutNs int64) error {
	// Re-check atomically before entering the syscall to close the
	// lost-wake window between the caller's snapshot and the futex entry.
	if atomic.LoadUint32(addr) != val {
		return nil
	}

	var timeout *unix.Timespec
	if timeoutNs > 0 {
		ts := unix.NsecToTimespec(timeoutNs)
		timeout = &ts
	}

	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),    // uaddr
		futexOpWait,                      // futex_op
		uintptr(val),                     // val - expected value
		uintptr(unsafe.Pointer(timeout)), // timeout, nil waits forever
		0,                                // uaddr2 - unused
		0,                                // val3 - unused
	)

	switch errno {
	case 0:
		return nil
	case unix.EAGAIN, unix.EINTR:
		// Value already changed or interrupted; the caller re-checks.
		return nil
	case unix.ETIMEDOUT:
		return errFutexTimeout
	default:
		return fmt.Errorf("futex wait failed: %w", errno)
	}
}

// futexWake wakes up to n waiters on addr. Returns the number of waiters
// actually woken.
func futexWake(addr *uint32, n int) (int, error) {
	r1, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexOpWake,
		uintptr(n),
		0, 0, 0,
	)
	if errno != 0 {
		return 0, fmt.Errorf("futex wake failed: %w", errno)
	}
	return int(r1), nil
}
