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
	"sync/atomic"
	"testing"
	"time"
)

func TestSemTryAcquire(t *testing.T) {
	var word uint32

	// A held (or never released) semaphore cannot be taken.
	if semTryAcquire(&word) {
		t.Fatal("acquired semaphore at 0")
	}

	semRelease(&word)
	if atomic.LoadUint32(&word) != 1 {
		t.Fatalf("word %d after release, want 1", word)
	}

	if !semTryAcquire(&word) {
		t.Fatal("failed to acquire released semaphore")
	}
	if atomic.LoadUint32(&word) != 0 {
		t.Fatalf("word %d after acquire, want 0", word)
	}
	if semTryAcquire(&word) {
		t.Fatal("double acquire succeeded")
	}
}

func TestSemAcquireTimesOut(t *testing.T) {
	var word uint32 // held

	start := time.Now()
	err := semAcquire(&word, 50*time.Millisecond)
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("expected ErrTimedOut, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("timed out after %v, before the bound", elapsed)
	}
}

func TestSemAcquireWokenByRelease(t *testing.T) {
	var word uint32 // held

	go func() {
		time.Sleep(20 * time.Millisecond)
		semRelease(&word)
	}()

	if err := semAcquire(&word, 2*time.Second); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if atomic.LoadUint32(&word) != 0 {
		t.Fatalf("word %d after acquire, want 0", word)
	}
}

func TestSemAcquireAlreadyReleased(t *testing.T) {
	var word uint32
	semRelease(&word)

	// Must not wait at all.
	start := time.Now()
	if err := semAcquire(&word, 2*time.Second); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("acquire of a free semaphore took %v", elapsed)
	}
}
