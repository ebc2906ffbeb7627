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
	"testing"

	"github.com/inputwire/inputwire/event"
)

func TestPublishBeforeInitialize(t *testing.T) {
	server, _ := newTestChannelPair(t, DefaultRegionSize)
	pub := NewPublisher(server, nil)

	err := pub.PublishKeyEvent(1, event.SourceKeyboard, event.KeyActionDown,
		0, 30, 0, 0, 0, 1000, 1000)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestSingleSlotInvariant(t *testing.T) {
	pub, con := newTestEndpoints(t, DefaultRegionSize)

	if err := pub.PublishKeyEvent(1, event.SourceKeyboard, event.KeyActionDown,
		0, 30, 0, 0, 0, 1000, 1000); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// A second publish without reset must fail without touching the slot.
	err := pub.PublishKeyEvent(2, event.SourceKeyboard, event.KeyActionUp,
		0, 31, 0, 0, 0, 2000, 2000)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	err = pub.PublishMotionEvent(2, event.SourceTouchscreen, event.MotionActionDown,
		0, 0, event.EdgeNone, 0, 0, 1, 1, 2000, 2000,
		[]int32{0}, testCoords(1, 0))
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	// The original record is intact.
	ev, err := con.Consume(event.HeapFactory{})
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	key := ev.(*event.KeyEvent)
	if key.DeviceID != 1 || key.KeyCode != 30 || key.Action != event.KeyActionDown {
		t.Fatalf("record corrupted by rejected publish: %+v", key)
	}
}

func TestPublishAfterResetAndConsume(t *testing.T) {
	pub, con := newTestEndpoints(t, DefaultRegionSize)

	for i := int32(0); i < 3; i++ {
		if err := pub.PublishKeyEvent(1, event.SourceKeyboard, event.KeyActionDown,
			0, 30+i, 0, 0, 0, 1000, 1000); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
		ev, err := con.Consume(event.HeapFactory{})
		if err != nil {
			t.Fatalf("consume %d failed: %v", i, err)
		}
		if got := ev.(*event.KeyEvent).KeyCode; got != 30+i {
			t.Fatalf("consume %d got key code %d, want %d", i, got, 30+i)
		}
		if err := pub.Reset(); err != nil {
			t.Fatalf("reset %d failed: %v", i, err)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	pub, con := newTestEndpoints(t, DefaultRegionSize)

	for i := 0; i < 3; i++ {
		if err := pub.Reset(); err != nil {
			t.Fatalf("reset %d failed: %v", i, err)
		}
	}

	// Repeated resets do not corrupt a subsequent publish.
	if err := pub.PublishKeyEvent(1, event.SourceKeyboard, event.KeyActionDown,
		0, 30, 0, 0, 0, 1000, 1000); err != nil {
		t.Fatalf("publish after resets failed: %v", err)
	}
	if _, err := con.Consume(event.HeapFactory{}); err != nil {
		t.Fatalf("consume after resets failed: %v", err)
	}
}

func TestPublishMotionPointerCountBounds(t *testing.T) {
	pub, con := newTestEndpoints(t, DefaultRegionSize)

	err := pub.PublishMotionEvent(1, event.SourceTouchscreen, event.MotionActionDown,
		0, 0, event.EdgeNone, 0, 0, 1, 1, 1000, 1000,
		nil, nil)
	if !errors.Is(err, ErrBadValue) {
		t.Fatalf("expected ErrBadValue for 0 pointers, got %v", err)
	}

	ids := make([]int32, event.MaxPointers+1)
	err = pub.PublishMotionEvent(1, event.SourceTouchscreen, event.MotionActionDown,
		0, 0, event.EdgeNone, 0, 0, 1, 1, 1000, 1000,
		ids, testCoords(event.MaxPointers+1, 0))
	if !errors.Is(err, ErrBadValue) {
		t.Fatalf("expected ErrBadValue for %d pointers, got %v", len(ids), err)
	}

	// The rejected publishes wrote nothing: the slot still has no record.
	if _, err := con.Consume(event.HeapFactory{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestPublishMotionCoordsMismatch(t *testing.T) {
	pub, _ := newTestEndpoints(t, DefaultRegionSize)

	err := pub.PublishMotionEvent(1, event.SourceTouchscreen, event.MotionActionDown,
		0, 0, event.EdgeNone, 0, 0, 1, 1, 1000, 1000,
		[]int32{0, 1}, testCoords(1, 0))
	if !errors.Is(err, ErrBadValue) {
		t.Fatalf("expected ErrBadValue, got %v", err)
	}
}

func TestAppendRequiresMoveRecord(t *testing.T) {
	pub, _ := newTestEndpoints(t, DefaultRegionSize)

	// No record at all.
	err := pub.AppendMotionSample(1000, testCoords(1, 0))
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	// Key record.
	if err := pub.PublishKeyEvent(1, event.SourceKeyboard, event.KeyActionDown,
		0, 30, 0, 0, 0, 1000, 1000); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	err = pub.AppendMotionSample(1000, testCoords(1, 0))
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	pub.Reset()

	// Motion record with a non-move action.
	if err := pub.PublishMotionEvent(1, event.SourceTouchscreen, event.MotionActionDown,
		0, 0, event.EdgeNone, 0, 0, 1, 1, 1000, 1000,
		[]int32{0}, testCoords(1, 0)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	err = pub.AppendMotionSample(2000, testCoords(1, 1))
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestAppendUntilNoSpace(t *testing.T) {
	pub, con := newTestEndpoints(t, MinRegionSize)

	if err := pub.PublishMotionEvent(1, event.SourceTouchscreen, event.MotionActionMove,
		0, 0, event.EdgeNone, 0, 0, 1, 1, 1000, 1000,
		[]int32{0}, testCoords(1, 0)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	capacity := sampleCapacity(MinRegionSize, 1)
	appended := 0
	for {
		err := pub.AppendMotionSample(int64(2000+appended), testCoords(1, float32(appended+1)))
		if errors.Is(err, ErrNoSpace) {
			break
		}
		if err != nil {
			t.Fatalf("append %d failed: %v", appended, err)
		}
		appended++
		if appended > capacity {
			t.Fatalf("appended %d samples past capacity %d", appended, capacity)
		}
	}
	if appended != capacity-1 {
		t.Fatalf("appended %d samples before no-space, want %d", appended, capacity-1)
	}

	// The full record travels intact.
	ev, err := con.Consume(event.HeapFactory{})
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	motion := ev.(*event.MotionEvent)
	if motion.SampleCount() != capacity {
		t.Fatalf("consumed %d samples, want %d", motion.SampleCount(), capacity)
	}
}

func TestSendDispatchToClosedPeer(t *testing.T) {
	pub, con := newTestEndpoints(t, DefaultRegionSize)

	if err := pub.PublishKeyEvent(1, event.SourceKeyboard, event.KeyActionDown,
		0, 30, 0, 0, 0, 1000, 1000); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := con.Channel().Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := pub.SendDispatchSignal(); !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed, got %v", err)
	}
	if _, err := pub.ReceiveFinishedSignal(); !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed, got %v", err)
	}
}

func TestReceiveFinishedWouldBlock(t *testing.T) {
	pub, _ := newTestEndpoints(t, DefaultRegionSize)

	if _, err := pub.ReceiveFinishedSignal(); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
}
