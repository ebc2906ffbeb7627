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

import "errors"

var (
	// ErrWouldBlock is returned by the non-blocking signal receive
	// operations when no signal is pending. It is an expected outcome, not
	// a failure; the caller retries after the next readiness notification.
	ErrWouldBlock = errors.New("operation would block")

	// ErrPeerClosed indicates the remote endpoint has closed its side of
	// the channel. The condition is fatal for the channel; the caller must
	// tear it down.
	ErrPeerClosed = errors.New("peer closed channel")

	// ErrInvalidState reports a protocol misuse: publishing over an
	// unconsumed record, appending to a record that is not a current
	// move-type motion record, or consuming when nothing is published.
	ErrInvalidState = errors.New("invalid operation for current state")

	// ErrBadValue reports an argument outside its permitted range, such as
	// a pointer count outside [1, MaxPointers].
	ErrBadValue = errors.New("bad argument value")

	// ErrAlreadyConsumed is returned by AppendMotionSample when the
	// consumer has already copied the record out. The caller publishes a
	// fresh event instead.
	ErrAlreadyConsumed = errors.New("record already consumed")

	// ErrNoSpace is returned by AppendMotionSample when the shared region
	// cannot hold another sample. The caller publishes a fresh event
	// instead.
	ErrNoSpace = errors.New("no space for another sample")

	// ErrTimedOut is returned when the record semaphore cannot be acquired
	// within the bounded wait, which under correct usage only happens when
	// the other side died inside its mutation window.
	ErrTimedOut = errors.New("timed out waiting for record semaphore")

	// ErrUnsupported is returned on platforms without the shared memory
	// and futex primitives the transport is built on.
	ErrUnsupported = errors.New("transport not supported on this platform")
)
