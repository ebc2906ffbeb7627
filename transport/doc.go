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

// Package transport implements a low-latency cross-process transport for
// input events.
//
// A channel pair connects one publishing process to one consuming process
// through a shared memory region holding a single event record, plus two
// unidirectional pipes used purely for one-byte readiness signals. The
// shared record carries its own futex-based binary semaphore and a consumed
// flag, which together implement a single-slot mailbox: the publisher
// writes a record and signals dispatch, the consumer copies the record out,
// marks it consumed and signals back whether it was handled, and only then
// may the publisher reset the slot and publish the next record.
//
// Motion records with a move action support in-place streaming: the
// publisher may keep appending coordinate samples to the published record
// until the consumer copies it out, so a consumer that lags behind receives
// one record carrying the whole sample history instead of a queue of stale
// events.
//
// Neither endpoint spawns threads or blocks on signal I/O. The only
// blocking operation is the consumer's record copy, which waits on the
// record semaphore while the publisher is mid-append; the wait is bounded
// so a publisher that dies inside its mutation window surfaces as an error
// rather than a hang. Readiness of the signal pipes is established
// externally by whatever poller owns the endpoint's descriptors.
package transport
