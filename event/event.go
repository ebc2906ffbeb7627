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

// Package event defines the input event model carried by the transport:
// key events with scalar fields only, and motion events with a variable
// number of per-pointer coordinate samples.
package event

// MaxPointers is the maximum number of simultaneous pointers a motion
// event may carry. The transport's wire layout reserves exactly this many
// pointer id slots, so the bound is part of the cross-process contract.
const MaxPointers = 10

// Type discriminates the two event kinds.
type Type uint32

const (
	TypeNone Type = iota
	TypeKey
	TypeMotion
)

// String returns a human-readable name for the event type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeKey:
		return "key"
	case TypeMotion:
		return "motion"
	default:
		return "unknown"
	}
}

// Source identifies the class of input device an event originated from.
// Values combine a class bitmask in the low byte with a device-specific
// discriminator in the high bits.
type Source uint32

const (
	SourceClassButton    Source = 0x00000001
	SourceClassPointer   Source = 0x00000002
	SourceClassTrackball Source = 0x00000004
	SourceClassPosition  Source = 0x00000008

	SourceUnknown     Source = 0x00000000
	SourceKeyboard    Source = 0x00000101
	SourceDpad        Source = 0x00000201
	SourceTouchscreen Source = 0x00001002
	SourceMouse       Source = 0x00002002
	SourceTrackball   Source = 0x00010004
	SourceTouchpad    Source = 0x00100008
)

// Modifiers is the bitmask of modifier keys held when an event was
// generated.
type Modifiers int32

const (
	ModShift      Modifiers = 0x01
	ModAlt        Modifiers = 0x02
	ModSym        Modifiers = 0x04
	ModShiftLeft  Modifiers = 0x40
	ModShiftRight Modifiers = 0x80
	ModAltLeft    Modifiers = 0x10
	ModAltRight   Modifiers = 0x20
)

// Contain reports whether all modifiers in want are set in m.
func (m Modifiers) Contain(want Modifiers) bool {
	return m&want == want
}

// Event is the common interface of key and motion events. Concrete events
// are allocated by a Factory and populated by the transport's consumer.
type Event interface {
	// Type reports the concrete kind of the event.
	Type() Type
	// Device reports the id of the originating input device.
	Device() int32
}
