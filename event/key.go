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

package event

// KeyAction describes what happened to a key.
type KeyAction int32

const (
	KeyActionDown     KeyAction = 0
	KeyActionUp       KeyAction = 1
	KeyActionMultiple KeyAction = 2
)

// Key event flags.
const (
	KeyFlagWokeHere      int32 = 0x01
	KeyFlagSoftKeyboard  int32 = 0x02
	KeyFlagKeepTouchMode int32 = 0x04
	KeyFlagFromSystem    int32 = 0x08
	KeyFlagCanceled      int32 = 0x20
	KeyFlagLongPress     int32 = 0x80
)

// KeyEvent is a fully scalar input event describing a key state change.
// Timestamps are nanoseconds on an unspecified monotonic base shared by
// both sides of the transport.
type KeyEvent struct {
	DeviceID    int32
	Source      Source
	Action      KeyAction
	Flags       int32
	KeyCode     int32
	ScanCode    int32
	MetaState   Modifiers
	RepeatCount int32
	DownTime    int64
	EventTime   int64
}

// Type implements Event.
func (e *KeyEvent) Type() Type { return TypeKey }

// Device implements Event.
func (e *KeyEvent) Device() int32 { return e.DeviceID }
