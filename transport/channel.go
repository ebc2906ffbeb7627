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

import "fmt"

// Signal bytes carried on the conduits. Dispatch flows publisher to
// consumer; the two finished bytes flow back and encode the handled
// outcome directly in the signal.
const (
	signalDispatch          = byte('D')
	signalFinishedHandled   = byte('f')
	signalFinishedUnhandled = byte('u')
)

// Channel is one endpoint of a transport pair: a handle to the shared
// record region plus the local ends of the two signal conduits. A Channel
// moves raw signal bytes only; record semantics live in Publisher and
// Consumer.
//
// A Channel is usable only while all three handles remain open. When the
// peer closes its endpoint, every subsequent signal operation reports
// ErrPeerClosed and the channel is dead.
type Channel struct {
	name    string
	region  *Region
	readFD  int // local read end of the inbound conduit
	writeFD int // local write end of the outbound conduit
	closed  bool
}

// OpenPair creates the shared region and both signal conduits and returns
// the two connected endpoints. The server endpoint sends dispatch signals
// and receives finished signals; the client endpoint is the mirror image.
// Transferring the client's handles into the consuming process is the
// owning framework's job.
//
// Partially allocated resources are released if any allocation fails.
func OpenPair(name string) (server, client *Channel, err error) {
	return OpenPairSized(name, DefaultRegionSize)
}

// OpenPairSized is OpenPair with an explicit region size. The size is
// fixed for the life of the pair and bounds how many motion samples a
// record can accumulate.
func OpenPairSized(name string, regionSize int) (server, client *Channel, err error) {
	region, err := newRegion(name, regionSize)
	if err != nil {
		return nil, nil, fmt.Errorf("channel '%s': %w", name, err)
	}
	cleanupRegion := region
	defer func() {
		if cleanupRegion != nil {
			cleanupRegion.Close()
		}
	}()

	// Write the initial slot header before either endpoint exists, so
	// neither side ever observes uninitialized memory.
	mem, err := region.Map()
	if err != nil {
		return nil, nil, fmt.Errorf("channel '%s': %w", name, err)
	}
	initSlot(mem)
	if err := region.Unmap(); err != nil {
		return nil, nil, fmt.Errorf("channel '%s': %w", name, err)
	}

	clientRegion, err := region.Dup()
	if err != nil {
		return nil, nil, fmt.Errorf("channel '%s': %w", name, err)
	}
	defer func() {
		if err != nil {
			clientRegion.Close()
		}
	}()

	// Conduit one carries dispatch signals, conduit two finished signals.
	dispatchR, dispatchW, err := signalPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("channel '%s': %w", name, err)
	}
	defer func() {
		if err != nil {
			closeFD(dispatchR)
			closeFD(dispatchW)
		}
	}()

	finishedR, finishedW, err := signalPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("channel '%s': %w", name, err)
	}

	server = &Channel{
		name:    name + " (server)",
		region:  region,
		readFD:  finishedR,
		writeFD: dispatchW,
	}
	client = &Channel{
		name:    name + " (client)",
		region:  clientRegion,
		readFD:  dispatchR,
		writeFD: finishedW,
	}
	cleanupRegion = nil
	return server, client, nil
}

// Name returns the channel's diagnostic name.
func (c *Channel) Name() string { return c.name }

// Region returns the endpoint's handle to the shared record region.
func (c *Channel) Region() *Region { return c.region }

// RegionFd returns the shared region descriptor for the readiness waiter.
func (c *Channel) RegionFd() int { return c.region.Fd() }

// SignalReadFd returns the local read end of the inbound conduit. A
// readiness waiter polls this descriptor for read readiness before the
// endpoint calls its receive operation.
func (c *Channel) SignalReadFd() int { return c.readFD }

// SignalWriteFd returns the local write end of the outbound conduit.
func (c *Channel) SignalWriteFd() int { return c.writeFD }

// SendSignal writes one signal byte to the outbound conduit without
// blocking. The conduits are drained one byte at a time under the
// single-slot protocol, so a full conduit cannot occur in correct usage.
func (c *Channel) SendSignal(b byte) error {
	if c.closed {
		return fmt.Errorf("channel '%s': %w", c.name, ErrPeerClosed)
	}
	if err := writeSignalByte(c.writeFD, b); err != nil {
		return fmt.Errorf("channel '%s': %w", c.name, err)
	}
	return nil
}

// ReceiveSignal reads one signal byte from the inbound conduit without
// blocking. Returns ErrWouldBlock when no signal is pending.
func (c *Channel) ReceiveSignal() (byte, error) {
	if c.closed {
		return 0, fmt.Errorf("channel '%s': %w", c.name, ErrPeerClosed)
	}
	b, err := readSignalByte(c.readFD)
	if err != nil {
		return 0, fmt.Errorf("channel '%s': %w", c.name, err)
	}
	return b, nil
}

// Close releases the endpoint's local handles. The peer observes the
// closure as ErrPeerClosed on its next signal operation. Idempotent.
func (c *Channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	firstErr := c.region.Close()
	if err := closeFD(c.readFD); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := closeFD(c.writeFD); err != nil && firstErr == nil {
		firstErr = err
	}
	c.readFD = -1
	c.writeFD = -1
	return firstErr
}
