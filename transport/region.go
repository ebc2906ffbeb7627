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

// Region is one endpoint's handle to the shared memory region holding the
// record slot. The region's content is jointly owned by both endpoints;
// the descriptor and mapping are owned exclusively by this endpoint and
// released by Close. The kernel frees the memory itself once the last
// descriptor across both processes is gone.
type Region struct {
	fd   int
	size int
	mem  []byte
}

// newRegion creates a fresh shared region of the given size.
func newRegion(name string, size int) (*Region, error) {
	if size < MinRegionSize {
		return nil, fmt.Errorf("region size %d below minimum %d", size, MinRegionSize)
	}
	fd, err := createRegionFD(name, size)
	if err != nil {
		return nil, err
	}
	return &Region{fd: fd, size: size}, nil
}

// Dup returns an independent handle to the same region, with no mapping.
func (r *Region) Dup() (*Region, error) {
	fd, err := dupFD(r.fd)
	if err != nil {
		return nil, err
	}
	return &Region{fd: fd, size: r.size}, nil
}

// Fd returns the region descriptor.
func (r *Region) Fd() int { return r.fd }

// Size returns the fixed region size.
func (r *Region) Size() int { return r.size }

// Map maps the region into this process. Idempotent.
func (r *Region) Map() ([]byte, error) {
	if r.mem != nil {
		return r.mem, nil
	}
	mem, err := mapRegion(r.fd, r.size)
	if err != nil {
		return nil, err
	}
	r.mem = mem
	return mem, nil
}

// Unmap releases the local mapping, leaving the descriptor open.
func (r *Region) Unmap() error {
	if r.mem == nil {
		return nil
	}
	err := unmapRegion(r.mem)
	r.mem = nil
	return err
}

// Close unmaps and closes the local handle.
func (r *Region) Close() error {
	firstErr := r.Unmap()
	if r.fd >= 0 {
		if err := closeFD(r.fd); err != nil && firstErr == nil {
			firstErr = err
		}
		r.fd = -1
	}
	return firstErr
}
