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

// MotionAction describes the kind of state change a motion event reports.
type MotionAction int32

const (
	MotionActionDown        MotionAction = 0
	MotionActionUp          MotionAction = 1
	MotionActionMove        MotionAction = 2
	MotionActionCancel      MotionAction = 3
	MotionActionOutside     MotionAction = 4
	MotionActionPointerDown MotionAction = 5
	MotionActionPointerUp   MotionAction = 6
	MotionActionHoverMove   MotionAction = 7
)

// Motion event edge flags, reporting that a touch intersected a display
// edge.
const (
	EdgeNone   int32 = 0
	EdgeTop    int32 = 0x01
	EdgeBottom int32 = 0x02
	EdgeLeft   int32 = 0x04
	EdgeRight  int32 = 0x08
)

// Motion event flags.
const (
	MotionFlagWindowIsObscured int32 = 0x01
)

// PointerCoords holds the full coordinate set reported for one pointer in
// one sample. All axes are in device-dependent units except X and Y, which
// are in the consumer's surface coordinates after the per-dispatch offset
// has been applied.
type PointerCoords struct {
	X           float32
	Y           float32
	Pressure    float32
	Size        float32
	TouchMajor  float32
	TouchMinor  float32
	ToolMajor   float32
	ToolMinor   float32
	Orientation float32
}

// MotionSample is one time-stamped coordinate set per active pointer.
// len(Coords) always equals the owning event's pointer count.
type MotionSample struct {
	EventTime int64
	Coords    []PointerCoords
}

// MotionEvent is a pointer event with one or more historical samples. The
// first sample is written at publish time; a publisher may append further
// samples to a move event until it is consumed, so a consumed event carries
// every sample that had been appended by the time it was copied out.
type MotionEvent struct {
	DeviceID   int32
	Source     Source
	Action     MotionAction
	Flags      int32
	MetaState  Modifiers
	EdgeFlags  int32
	XOffset    float32
	YOffset    float32
	XPrecision float32
	YPrecision float32
	DownTime   int64
	PointerIDs []int32
	Samples    []MotionSample
}

// Type implements Event.
func (e *MotionEvent) Type() Type { return TypeMotion }

// Device implements Event.
func (e *MotionEvent) Device() int32 { return e.DeviceID }

// PointerCount returns the number of active pointers.
func (e *MotionEvent) PointerCount() int { return len(e.PointerIDs) }

// SampleCount returns the number of samples, including the initial one.
func (e *MotionEvent) SampleCount() int { return len(e.Samples) }

// EventTime returns the timestamp of the most recent sample, or 0 when the
// event carries no samples.
func (e *MotionEvent) EventTime() int64 {
	if len(e.Samples) == 0 {
		return 0
	}
	return e.Samples[len(e.Samples)-1].EventTime
}

// AddSample appends one sample. The coords slice is copied.
func (e *MotionEvent) AddSample(eventTime int64, coords []PointerCoords) {
	c := make([]PointerCoords, len(coords))
	copy(c, coords)
	e.Samples = append(e.Samples, MotionSample{EventTime: eventTime, Coords: c})
}
