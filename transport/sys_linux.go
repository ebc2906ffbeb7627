//go:build linux && (amd64 || arm64)

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

	"golang.org/x/sys/unix"
)

// createRegionFD creates an anonymous shared memory region of the given
// size. The descriptor is sealable and has no filesystem presence, so it
// lives exactly as long as the endpoints holding it.
func createRegionFD(name string, size int) (int, error) {
	fd, err := unix.MemfdCreate("inputwire:"+name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return -1, fmt.Errorf("memfd_create failed: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("failed to size region to %d bytes: %w", size, err)
	}
	// Freeze the size so neither side can invalidate the other's mapping.
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK|unix.F_SEAL_GROW); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("failed to seal region size: %w", err)
	}
	return fd, nil
}

// dupFD duplicates a descriptor with close-on-exec set.
func dupFD(fd int) (int, error) {
	nfd, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("dup failed: %w", err)
	}
	return nfd, nil
}

// closeFD closes a descriptor.
func closeFD(fd int) error {
	return unix.Close(fd)
}

// mapRegion memory maps a region read-write and shared.
func mapRegion(fd, size int) ([]byte, error) {
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return mem, nil
}

// unmapRegion unmaps a mapped region.
func unmapRegion(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("munmap failed: %w", err)
	}
	return nil
}

// signalPipe creates one unidirectional non-blocking signal conduit.
func signalPipe() (readFD, writeFD int, err error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return -1, -1, fmt.Errorf("pipe2 failed: %w", err)
	}
	return p[0], p[1], nil
}

// writeSignalByte writes one signal byte without blocking. A closed remote
// read end surfaces as ErrPeerClosed.
func writeSignalByte(fd int, b byte) error {
	buf := [1]byte{b}
	for {
		n, err := unix.Write(fd, buf[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EPIPE:
			return ErrPeerClosed
		case err != nil:
			return fmt.Errorf("signal write failed: %w", err)
		case n != 1:
			return fmt.Errorf("signal write returned %d bytes", n)
		}
		return nil
	}
}

// readSignalByte reads one signal byte without blocking. An empty conduit
// surfaces as ErrWouldBlock, a closed remote write end as ErrPeerClosed.
func readSignalByte(fd int) (byte, error) {
	var buf [1]byte
	for {
		n, err := unix.Read(fd, buf[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, ErrWouldBlock
		case err != nil:
			return 0, fmt.Errorf("signal read failed: %w", err)
		case n == 0:
			return 0, ErrPeerClosed
		}
		return buf[0], nil
	}
}
