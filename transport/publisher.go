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

	"go.uber.org/zap"

	"github.com/inputwire/inputwire/event"
)

// Publisher is the producer-side API of a channel. It writes records into
// the shared slot, appends samples to a published move record, and
// exchanges dispatch/finished signals with the consumer.
//
// A Publisher is not safe for concurrent use: the protocol assumes at most
// one publishing thread per channel.
type Publisher struct {
	ch     *Channel
	logger *zap.Logger

	slot        slotView
	initialized bool
	pinned      bool

	// Tracking of the in-progress record, reset by Reset.
	kind         uint32
	motionAction event.MotionAction
	pointerCount int
	samples      int
	capacity     int
}

// NewPublisher wraps the producer endpoint of a channel pair. A nil logger
// disables diagnostics.
func NewPublisher(ch *Channel, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{ch: ch, logger: logger}
}

// Channel returns the underlying endpoint.
func (p *Publisher) Channel() *Channel { return p.ch }

// Initialize maps the shared region and prepares the publisher for its
// first publish. Must be called once before any other operation; performs
// an implicit Reset. Fails only if the region cannot be mapped or does not
// carry a valid slot.
func (p *Publisher) Initialize() error {
	mem, err := p.ch.Region().Map()
	if err != nil {
		return fmt.Errorf("channel '%s': %w", p.ch.Name(), err)
	}
	if err := validateSlot(mem); err != nil {
		return fmt.Errorf("channel '%s': %w", p.ch.Name(), err)
	}
	p.slot = slotView{mem: mem}
	p.initialized = true
	return p.Reset()
}

// Reset releases the pin on the shared region and discards tracking of the
// in-progress record, making the slot writable again. Valid from any
// state, idempotent, and always succeeds. Resetting before the consumer
// has copied the record out discards the unread content.
func (p *Publisher) Reset() error {
	p.pinned = false
	p.kind = kindNone
	p.motionAction = 0
	p.pointerCount = 0
	p.samples = 0
	p.capacity = 0

	if !p.initialized {
		return nil
	}

	// Return the slot to its fresh state when no one holds the semaphore.
	// If the consumer is mid-copy the slot is left as is; the next publish
	// takes the semaphore once the consumer releases it.
	h := p.slot.header()
	if h.Kind() != kindNone && semTryAcquire(h.semWord()) {
		h.SetKind(kindNone)
		h.SetConsumed(false)
	}
	return nil
}

// acquireForWrite takes the slot for a fresh publish. A fresh or reset
// slot already holds the semaphore at 0 with no record; a slot carrying a
// consumed record must be acquired from the consumer's release.
func (p *Publisher) acquireForWrite() error {
	h := p.slot.header()
	if h.Kind() == kindNone {
		return nil
	}
	if err := semAcquire(h.semWord(), semAcquireTimeout); err != nil {
		return err
	}
	return nil
}

// PublishKeyEvent writes a complete key record into the slot and marks it
// available. Returns ErrInvalidState when a previously published record
// has not been reset yet; the previous record is left intact.
func (p *Publisher) PublishKeyEvent(deviceID int32, source event.Source, action event.KeyAction,
	flags, keyCode, scanCode int32, metaState event.Modifiers, repeatCount int32,
	downTime, eventTime int64) error {
	if !p.initialized {
		return fmt.Errorf("channel '%s': publisher not initialized: %w", p.ch.Name(), ErrInvalidState)
	}
	if p.kind != kindNone {
		return fmt.Errorf("channel '%s': slot occupied, publish requires reset: %w", p.ch.Name(), ErrInvalidState)
	}
	if err := p.acquireForWrite(); err != nil {
		return fmt.Errorf("channel '%s': %w", p.ch.Name(), err)
	}

	h := p.slot.header()
	h.SetConsumed(false)
	k := p.slot.key()
	k.deviceID = deviceID
	k.source = uint32(source)
	k.action = int32(action)
	k.flags = flags
	k.keyCode = keyCode
	k.scanCode = scanCode
	k.metaState = int32(metaState)
	k.repeatCount = repeatCount
	k.downTime = downTime
	k.eventTime = eventTime
	h.SetKind(kindKey)
	semRelease(h.semWord())

	p.pinned = true
	p.kind = kindKey
	p.logger.Debug("published key event",
		zap.String("channel", p.ch.Name()),
		zap.Int32("keyCode", keyCode),
		zap.Int32("action", int32(action)))
	return nil
}

// PublishMotionEvent writes a complete motion record with exactly one
// sample into the slot and marks it available. The pointer count is
// len(pointerIDs) and must be within [1, event.MaxPointers], with coords
// carrying one coordinate set per pointer; violations return ErrBadValue
// and write nothing.
func (p *Publisher) PublishMotionEvent(deviceID int32, source event.Source, action event.MotionAction,
	flags int32, metaState event.Modifiers, edgeFlags int32,
	xOffset, yOffset, xPrecision, yPrecision float32, downTime, eventTime int64,
	pointerIDs []int32, coords []event.PointerCoords) error {
	if !p.initialized {
		return fmt.Errorf("channel '%s': publisher not initialized: %w", p.ch.Name(), ErrInvalidState)
	}
	pc := len(pointerIDs)
	if pc < 1 || pc > event.MaxPointers {
		return fmt.Errorf("channel '%s': pointer count %d outside [1, %d]: %w",
			p.ch.Name(), pc, event.MaxPointers, ErrBadValue)
	}
	if len(coords) != pc {
		return fmt.Errorf("channel '%s': %d coordinate sets for %d pointers: %w",
			p.ch.Name(), len(coords), pc, ErrBadValue)
	}
	if p.kind != kindNone {
		return fmt.Errorf("channel '%s': slot occupied, publish requires reset: %w", p.ch.Name(), ErrInvalidState)
	}
	if err := p.acquireForWrite(); err != nil {
		return fmt.Errorf("channel '%s': %w", p.ch.Name(), err)
	}

	h := p.slot.header()
	h.SetConsumed(false)
	m := p.slot.motion()
	m.deviceID = deviceID
	m.source = uint32(source)
	m.action = int32(action)
	m.flags = flags
	m.metaState = int32(metaState)
	m.edgeFlags = edgeFlags
	m.xOffset = xOffset
	m.yOffset = yOffset
	m.xPrecision = xPrecision
	m.yPrecision = yPrecision
	m.downTime = downTime
	m.pointerCount = uint32(pc)
	for i := 0; i < pc; i++ {
		m.pointerIDs[i] = pointerIDs[i]
	}

	stride := sampleStride(pc)
	*p.slot.sampleTime(0, stride) = eventTime
	for j := 0; j < pc; j++ {
		*p.slot.sampleCoords(0, stride, j) = coords[j]
	}
	m.sampleCount = 1
	h.SetKind(kindMotion)
	semRelease(h.semWord())

	p.pinned = true
	p.kind = kindMotion
	p.motionAction = action
	p.pointerCount = pc
	p.samples = 1
	p.capacity = sampleCapacity(p.ch.Region().Size(), pc)
	p.logger.Debug("published motion event",
		zap.String("channel", p.ch.Name()),
		zap.Int32("action", int32(action)),
		zap.Int("pointers", pc))
	return nil
}

// AppendMotionSample adds one sample to the currently published move
// record without re-signaling the consumer; a consumer that has not copied
// the record out yet observes the extra samples when it does.
//
// Returns ErrInvalidState when the current record is not a move-type
// motion record, ErrAlreadyConsumed when the consumer has already copied
// the record out, and ErrNoSpace when the region cannot hold another
// sample. The last two are normal flow control: the caller starts a new
// event and carries the remaining samples there.
func (p *Publisher) AppendMotionSample(eventTime int64, coords []event.PointerCoords) error {
	if !p.initialized || p.kind != kindMotion {
		return fmt.Errorf("channel '%s': no motion record published: %w", p.ch.Name(), ErrInvalidState)
	}
	if p.motionAction != event.MotionActionMove && p.motionAction != event.MotionActionHoverMove {
		return fmt.Errorf("channel '%s': append requires a move record: %w", p.ch.Name(), ErrInvalidState)
	}
	if len(coords) != p.pointerCount {
		return fmt.Errorf("channel '%s': %d coordinate sets for %d pointers: %w",
			p.ch.Name(), len(coords), p.pointerCount, ErrBadValue)
	}

	h := p.slot.header()
	if err := semAcquire(h.semWord(), semAcquireTimeout); err != nil {
		return fmt.Errorf("channel '%s': %w", p.ch.Name(), err)
	}
	if h.Consumed() {
		semRelease(h.semWord())
		return fmt.Errorf("channel '%s': %w", p.ch.Name(), ErrAlreadyConsumed)
	}
	if p.samples >= p.capacity {
		semRelease(h.semWord())
		return fmt.Errorf("channel '%s': region full at %d samples: %w", p.ch.Name(), p.samples, ErrNoSpace)
	}

	stride := sampleStride(p.pointerCount)
	*p.slot.sampleTime(p.samples, stride) = eventTime
	for j := 0; j < p.pointerCount; j++ {
		*p.slot.sampleCoords(p.samples, stride, j) = coords[j]
	}
	p.samples++
	p.slot.motion().sampleCount = uint32(p.samples)
	semRelease(h.semWord())
	return nil
}

// SendDispatchSignal notifies the consumer that a record is ready. Called
// once after each publish; appends need no further signal.
func (p *Publisher) SendDispatchSignal() error {
	return p.ch.SendSignal(signalDispatch)
}

// ReceiveFinishedSignal reads the consumer's acknowledgement without
// blocking and reports whether the consumer acted on the event. Returns
// ErrWouldBlock while no acknowledgement is pending.
func (p *Publisher) ReceiveFinishedSignal() (handled bool, err error) {
	b, err := p.ch.ReceiveSignal()
	if err != nil {
		return false, err
	}
	switch b {
	case signalFinishedHandled:
		return true, nil
	case signalFinishedUnhandled:
		return false, nil
	default:
		return false, fmt.Errorf("channel '%s': unexpected finished signal %q", p.ch.Name(), b)
	}
}
