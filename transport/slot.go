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
	"sync/atomic"
	"unsafe"

	"github.com/inputwire/inputwire/event"
)

// Shared slot layout constants. The layout is a flat, fixed-offset
// structure so both processes agree on it without negotiation.
const (
	// Magic bytes identifying an initialized slot.
	SlotMagic = "INPUTWR\x00"

	// Current layout version.
	SlotVersion = uint32(1)

	// Slot header size (aligned to 64 bytes).
	SlotHeaderSize = 64

	// Default shared region size. Fixed at channel creation; sample
	// appends are bounded by whatever fits below this.
	DefaultRegionSize = 32 * 1024

	// Minimum region size accepted at channel creation: header plus a
	// motion record with one full-width sample.
	MinRegionSize = 4096
)

// Record kind discriminator values stored in the slot header. They mirror
// event.Type so the consumer can hand the discriminator straight to its
// factory.
const (
	kindNone   = uint32(event.TypeNone)
	kindKey    = uint32(event.TypeKey)
	kindMotion = uint32(event.TypeMotion)
)

// slotHeader is the fixed header at offset 0 of the shared region.
// The sem word doubles as a cross-process binary semaphore: 1 means a
// complete record is present and stable, 0 means the record is being
// written, being updated, or has been reset.
type slotHeader struct {
	magic    [8]byte  // 0x00: "INPUTWR\0"
	version  uint32   // 0x08: layout version
	sem      uint32   // 0x0C: futex word, binary semaphore
	consumed uint32   // 0x10: set by the consumer only
	kind     uint32   // 0x14: record kind discriminator
	reserved [40]byte // 0x18-0x3F: padding to 64B
}

// Version returns the layout version.
func (h *slotHeader) Version() uint32 {
	return atomic.LoadUint32(&h.version)
}

// Kind returns the record kind discriminator.
func (h *slotHeader) Kind() uint32 {
	return atomic.LoadUint32(&h.kind)
}

// SetKind sets the record kind discriminator.
func (h *slotHeader) SetKind(kind uint32) {
	atomic.StoreUint32(&h.kind, kind)
}

// Consumed returns the consumed flag.
func (h *slotHeader) Consumed() bool {
	return atomic.LoadUint32(&h.consumed) != 0
}

// SetConsumed sets the consumed flag.
func (h *slotHeader) SetConsumed(consumed bool) {
	var val uint32
	if consumed {
		val = 1
	}
	atomic.StoreUint32(&h.consumed, val)
}

// semWord returns the address of the futex word.
func (h *slotHeader) semWord() *uint32 {
	return &h.sem
}

// keyPayload is the fixed-size key record body at payloadOffset.
type keyPayload struct {
	deviceID    int32  // 0x00
	source      uint32 // 0x04
	action      int32  // 0x08
	flags       int32  // 0x0C
	keyCode     int32  // 0x10
	scanCode    int32  // 0x14
	metaState   int32  // 0x18
	repeatCount int32  // 0x1C
	downTime    int64  // 0x20
	eventTime   int64  // 0x28
}

// motionPayload is the fixed-size prefix of a motion record body at
// payloadOffset. The variable-length sample array follows at
// samplesOffset; each sample is one eventTime plus pointerCount coordinate
// sets, written at a stride computed by sampleStride.
type motionPayload struct {
	deviceID     int32                    // 0x00
	source       uint32                   // 0x04
	action       int32                    // 0x08
	flags        int32                    // 0x0C
	metaState    int32                    // 0x10
	edgeFlags    int32                    // 0x14
	xOffset      float32                  // 0x18
	yOffset      float32                  // 0x1C
	xPrecision   float32                  // 0x20
	yPrecision   float32                  // 0x24
	downTime     int64                    // 0x28
	pointerCount uint32                   // 0x30
	sampleCount  uint32                   // 0x34
	pointerIDs   [event.MaxPointers]int32 // 0x38-0x5F
	// sample array starts at 0x60 relative to the payload
}

const (
	payloadOffset     = SlotHeaderSize
	keyPayloadSize    = int(unsafe.Sizeof(keyPayload{}))
	motionPayloadSize = int(unsafe.Sizeof(motionPayload{}))
	samplesOffset     = payloadOffset + motionPayloadSize
	pointerCoordsSize = int(unsafe.Sizeof(event.PointerCoords{}))
)

// sampleStride returns the byte stride between consecutive samples for the
// given pointer count, padded so every sample's timestamp stays 8-aligned.
func sampleStride(pointerCount int) int {
	return align8(8 + pointerCount*pointerCoordsSize)
}

// sampleCapacity returns how many samples fit in a region of the given
// total size for the given pointer count.
func sampleCapacity(regionSize, pointerCount int) int {
	avail := regionSize - samplesOffset
	if avail < 0 {
		return 0
	}
	return avail / sampleStride(pointerCount)
}

// align8 aligns a size to an 8-byte boundary.
func align8(n int) int {
	return (n + 7) &^ 7
}

// slotView provides typed access to the record in a mapped region via
// pointer arithmetic. It holds the mapped bytes, not Go pointers into
// shared memory; typed addresses are computed on demand.
type slotView struct {
	mem []byte
}

// header returns a pointer to the slotHeader.
func (v *slotView) header() *slotHeader {
	return (*slotHeader)(unsafe.Pointer(&v.mem[0]))
}

// key returns a pointer to the key record body.
func (v *slotView) key() *keyPayload {
	return (*keyPayload)(unsafe.Pointer(&v.mem[payloadOffset]))
}

// motion returns a pointer to the motion record body.
func (v *slotView) motion() *motionPayload {
	return (*motionPayload)(unsafe.Pointer(&v.mem[payloadOffset]))
}

// sampleTime returns a pointer to sample i's timestamp.
func (v *slotView) sampleTime(i, stride int) *int64 {
	return (*int64)(unsafe.Pointer(&v.mem[samplesOffset+i*stride]))
}

// sampleCoords returns a pointer to pointer j's coordinates in sample i.
func (v *slotView) sampleCoords(i, stride, j int) *event.PointerCoords {
	off := samplesOffset + i*stride + 8 + j*pointerCoordsSize
	return (*event.PointerCoords)(unsafe.Pointer(&v.mem[off]))
}

// initSlot writes a fresh header into a newly created region. Called once
// by the channel factory before either endpoint maps the region.
func initSlot(mem []byte) {
	v := &slotView{mem: mem}
	h := v.header()
	copy(h.magic[:], SlotMagic)
	atomic.StoreUint32(&h.version, SlotVersion)
	atomic.StoreUint32(&h.sem, 0)
	h.SetConsumed(false)
	h.SetKind(kindNone)
}

// validateSlot checks that a mapped region carries an initialized slot of
// a layout version this process understands.
func validateSlot(mem []byte) error {
	if len(mem) < MinRegionSize {
		return fmt.Errorf("region too small: %d bytes", len(mem))
	}
	v := &slotView{mem: mem}
	h := v.header()
	if string(h.magic[:]) != SlotMagic {
		return fmt.Errorf("invalid slot magic")
	}
	if got := h.Version(); got != SlotVersion {
		return fmt.Errorf("unsupported slot version %d, expected %d", got, SlotVersion)
	}
	return nil
}
