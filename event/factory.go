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

// Factory allocates concrete event objects for the transport's consumer.
// The consumer asks the factory for an object matching the record kind it
// found in the shared region and then populates it. Implementations that
// pool or otherwise constrain allocation may fail; the consumer surfaces
// the failure to its caller without consuming the record.
type Factory interface {
	NewKeyEvent() (*KeyEvent, error)
	NewMotionEvent() (*MotionEvent, error)
}

// HeapFactory is the default Factory. It allocates from the Go heap and
// never fails.
type HeapFactory struct{}

// NewKeyEvent implements Factory.
func (HeapFactory) NewKeyEvent() (*KeyEvent, error) { return &KeyEvent{}, nil }

// NewMotionEvent implements Factory.
func (HeapFactory) NewMotionEvent() (*MotionEvent, error) { return &MotionEvent{}, nil }
