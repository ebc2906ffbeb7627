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

// Consumer is the consumer-side API of a channel. It checks for dispatch
// signals, copies the shared record out into a caller-allocated event,
// marks it consumed and acknowledges handling back to the publisher.
//
// A Consumer is not safe for concurrent use: the protocol assumes at most
// one consuming thread per channel.
type Consumer struct {
	ch     *Channel
	logger *zap.Logger

	slot        slotView
	initialized bool
}

// NewConsumer wraps the consumer endpoint of a channel pair. A nil logger
// disables diagnostics.
func NewConsumer(ch *Channel, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{ch: ch, logger: logger}
}

// Channel returns the underlying endpoint.
func (c *Consumer) Channel() *Channel { return c.ch }

// Initialize maps the shared region for reading. Must be called once
// before Consume.
func (c *Consumer) Initialize() error {
	mem, err := c.ch.Region().Map()
	if err != nil {
		return fmt.Errorf("channel '%s': %w", c.ch.Name(), err)
	}
	if err := validateSlot(mem); err != nil {
		return fmt.Errorf("channel '%s': %w", c.ch.Name(), err)
	}
	c.slot = slotView{mem: mem}
	c.initialized = true
	return nil
}

// ReceiveDispatchSignal checks for a pending dispatch signal without
// blocking. The readiness waiter calls this once it has observed the
// dispatch conduit readable; ErrWouldBlock means the readiness was stale.
func (c *Consumer) ReceiveDispatchSignal() error {
	b, err := c.ch.ReceiveSignal()
	if err != nil {
		return err
	}
	if b != signalDispatch {
		return fmt.Errorf("channel '%s': unexpected dispatch signal %q", c.ch.Name(), b)
	}
	return nil
}

// Consume copies the current record out into an event allocated by
// factory, marks the record consumed and releases it. This is the one
// operation that may block: the semaphore acquire waits out a publisher
// that is mid-append. The wait is bounded; a publisher that died inside
// its mutation window surfaces as ErrTimedOut.
//
// Returns ErrInvalidState when no record is published. A factory
// allocation failure is returned verbatim and leaves the record
// unconsumed.
func (c *Consumer) Consume(factory event.Factory) (event.Event, error) {
	if !c.initialized {
		return nil, fmt.Errorf("channel '%s': consumer not initialized: %w", c.ch.Name(), ErrInvalidState)
	}

	h := c.slot.header()
	if h.Kind() == kindNone {
		return nil, fmt.Errorf("channel '%s': no record published: %w", c.ch.Name(), ErrInvalidState)
	}
	if err := semAcquire(h.semWord(), semAcquireTimeout); err != nil {
		return nil, fmt.Errorf("channel '%s': %w", c.ch.Name(), err)
	}

	var ev event.Event
	var err error
	switch h.Kind() {
	case kindKey:
		ev, err = c.consumeKey(factory)
	case kindMotion:
		ev, err = c.consumeMotion(factory)
	default:
		err = fmt.Errorf("channel '%s': no record published: %w", c.ch.Name(), ErrInvalidState)
	}
	if err != nil {
		semRelease(h.semWord())
		return nil, err
	}

	h.SetConsumed(true)
	semRelease(h.semWord())
	c.logger.Debug("consumed event",
		zap.String("channel", c.ch.Name()),
		zap.Stringer("type", ev.Type()))
	return ev, nil
}

func (c *Consumer) consumeKey(factory event.Factory) (event.Event, error) {
	ev, err := factory.NewKeyEvent()
	if err != nil {
		return nil, fmt.Errorf("channel '%s': key event allocation: %w", c.ch.Name(), err)
	}
	k := c.slot.key()
	ev.DeviceID = k.deviceID
	ev.Source = event.Source(k.source)
	ev.Action = event.KeyAction(k.action)
	ev.Flags = k.flags
	ev.KeyCode = k.keyCode
	ev.ScanCode = k.scanCode
	ev.MetaState = event.Modifiers(k.metaState)
	ev.RepeatCount = k.repeatCount
	ev.DownTime = k.downTime
	ev.EventTime = k.eventTime
	return ev, nil
}

func (c *Consumer) consumeMotion(factory event.Factory) (event.Event, error) {
	ev, err := factory.NewMotionEvent()
	if err != nil {
		return nil, fmt.Errorf("channel '%s': motion event allocation: %w", c.ch.Name(), err)
	}
	m := c.slot.motion()
	ev.DeviceID = m.deviceID
	ev.Source = event.Source(m.source)
	ev.Action = event.MotionAction(m.action)
	ev.Flags = m.flags
	ev.MetaState = event.Modifiers(m.metaState)
	ev.EdgeFlags = m.edgeFlags
	ev.XOffset = m.xOffset
	ev.YOffset = m.yOffset
	ev.XPrecision = m.xPrecision
	ev.YPrecision = m.yPrecision
	ev.DownTime = m.downTime

	pc := int(m.pointerCount)
	ev.PointerIDs = make([]int32, pc)
	for i := 0; i < pc; i++ {
		ev.PointerIDs[i] = m.pointerIDs[i]
	}

	// Every sample appended up to this point travels with the record.
	stride := sampleStride(pc)
	samples := int(m.sampleCount)
	coords := make([]event.PointerCoords, pc)
	for i := 0; i < samples; i++ {
		for j := 0; j < pc; j++ {
			coords[j] = *c.slot.sampleCoords(i, stride, j)
		}
		ev.AddSample(*c.slot.sampleTime(i, stride), coords)
	}
	return ev, nil
}

// SendFinishedSignal acknowledges the consumed record and reports whether
// the event was acted upon. The publisher uses the outcome as an
// application-level signal only; it does not gate the publisher's Reset.
func (c *Consumer) SendFinishedSignal(handled bool) error {
	b := signalFinishedUnhandled
	if handled {
		b = signalFinishedHandled
	}
	return c.ch.SendSignal(b)
}
