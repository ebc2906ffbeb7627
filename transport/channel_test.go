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
)

func TestOpenPair(t *testing.T) {
	server, client := newTestChannelPair(t, DefaultRegionSize)

	for _, ch := range []*Channel{server, client} {
		if ch.RegionFd() < 0 {
			t.Fatalf("channel '%s' has no region fd", ch.Name())
		}
		if ch.SignalReadFd() < 0 || ch.SignalWriteFd() < 0 {
			t.Fatalf("channel '%s' has unopened conduit fds", ch.Name())
		}
		if ch.Region().Size() != DefaultRegionSize {
			t.Fatalf("channel '%s' region size %d, want %d",
				ch.Name(), ch.Region().Size(), DefaultRegionSize)
		}
	}

	// The endpoints hold independent region handles onto the same memory.
	if server.RegionFd() == client.RegionFd() {
		t.Fatal("endpoints share a region descriptor")
	}
}

func TestOpenPairRejectsTinyRegion(t *testing.T) {
	_, _, err := OpenPairSized("tiny", MinRegionSize/2)
	if err == nil {
		t.Fatal("expected error for undersized region")
	}
}

func TestSignalRoundTrip(t *testing.T) {
	server, client := newTestChannelPair(t, DefaultRegionSize)

	// server -> client direction.
	if err := server.SendSignal('D'); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	b, err := client.ReceiveSignal()
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if b != 'D' {
		t.Fatalf("received %q, want 'D'", b)
	}

	// client -> server direction.
	if err := client.SendSignal('f'); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	b, err = server.ReceiveSignal()
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if b != 'f' {
		t.Fatalf("received %q, want 'f'", b)
	}
}

func TestReceiveSignalWouldBlock(t *testing.T) {
	server, client := newTestChannelPair(t, DefaultRegionSize)

	if _, err := server.ReceiveSignal(); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
	if _, err := client.ReceiveSignal(); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
}

func TestPeerClosedOnSend(t *testing.T) {
	server, client := newTestChannelPair(t, DefaultRegionSize)

	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := server.SendSignal('D'); !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed, got %v", err)
	}
}

func TestPeerClosedOnReceive(t *testing.T) {
	server, client := newTestChannelPair(t, DefaultRegionSize)

	// A byte already in flight is still delivered after the peer closes;
	// the closure is reported once the conduit drains.
	if err := server.SendSignal('D'); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := server.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	b, err := client.ReceiveSignal()
	if err != nil {
		t.Fatalf("receive of in-flight byte failed: %v", err)
	}
	if b != 'D' {
		t.Fatalf("received %q, want 'D'", b)
	}
	if _, err := client.ReceiveSignal(); !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed, got %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	server, client := newTestChannelPair(t, DefaultRegionSize)

	if err := server.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := server.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("client close failed: %v", err)
	}

	if _, err := server.ReceiveSignal(); !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed on closed channel, got %v", err)
	}
	if err := server.SendSignal('D'); !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("expected ErrPeerClosed on closed channel, got %v", err)
	}
}
