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
	"fmt"
	"testing"
	"time"

	"github.com/inputwire/inputwire/event"
)

// newTestChannelPair opens a channel pair with a unique name and registers
// cleanup. Close is idempotent, so tests may also close explicitly.
func newTestChannelPair(t *testing.T, regionSize int) (server, client *Channel) {
	t.Helper()
	name := fmt.Sprintf("test-%d", time.Now().UnixNano())
	server, client, err := OpenPairSized(name, regionSize)
	if err != nil {
		t.Fatalf("failed to open channel pair: %v", err)
	}
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return server, client
}

// newTestEndpoints opens a pair and returns an initialized publisher and
// consumer over it.
func newTestEndpoints(t *testing.T, regionSize int) (*Publisher, *Consumer) {
	t.Helper()
	server, client := newTestChannelPair(t, regionSize)
	pub := NewPublisher(server, nil)
	if err := pub.Initialize(); err != nil {
		t.Fatalf("publisher initialize failed: %v", err)
	}
	con := NewConsumer(client, nil)
	if err := con.Initialize(); err != nil {
		t.Fatalf("consumer initialize failed: %v", err)
	}
	return pub, con
}

// testCoords builds one coordinate set per pointer with distinguishable
// values derived from seed.
func testCoords(pointerCount int, seed float32) []event.PointerCoords {
	coords := make([]event.PointerCoords, pointerCount)
	for i := range coords {
		base := seed + float32(i)*100
		coords[i] = event.PointerCoords{
			X:           base,
			Y:           base + 1,
			Pressure:    base + 2,
			Size:        base + 3,
			TouchMajor:  base + 4,
			TouchMinor:  base + 5,
			ToolMajor:   base + 6,
			ToolMinor:   base + 7,
			Orientation: base + 8,
		}
	}
	return coords
}

// failingFactory fails every allocation.
type failingFactory struct{}

func (failingFactory) NewKeyEvent() (*event.KeyEvent, error) {
	return nil, fmt.Errorf("allocation refused")
}

func (failingFactory) NewMotionEvent() (*event.MotionEvent, error) {
	return nil, fmt.Errorf("allocation refused")
}
