//go:build !linux || !(amd64 || arm64)

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

func createRegionFD(name string, size int) (int, error) {
	return -1, ErrUnsupported
}

func dupFD(fd int) (int, error) {
	return -1, ErrUnsupported
}

func closeFD(fd int) error {
	return ErrUnsupported
}

func mapRegion(fd, size int) ([]byte, error) {
	return nil, ErrUnsupported
}

func unmapRegion(mem []byte) error {
	return ErrUnsupported
}

func signalPipe() (readFD, writeFD int, err error) {
	return -1, -1, ErrUnsupported
}

func writeSignalByte(fd int, b byte) error {
	return ErrUnsupported
}

func readSignalByte(fd int) (byte, error) {
	return 0, ErrUnsupported
}
