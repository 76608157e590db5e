// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.
//
// Modifications (c) 2017 The Memory Authors.
// Further reworked: single reserve-then-grow arena instead of a
// per-size-class mapping, and golang.org/x/sys/unix instead of raw
// syscall.Mmap/syscall.Syscall(SYS_MUNMAP).

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd

package memory

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mmapReserve asks the OS to reserve size contiguous bytes of
// read/write, anonymous memory. On Linux-family kernels this does not
// commit physical pages until they are actually touched, so a large
// reservation is cheap.
func mmapReserve(size int) ([]byte, error) {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrap(err, "memory: mmap reserve failed")
	}
	return b, nil
}

func munmapRelease(b []byte) error {
	if err := unix.Munmap(b); err != nil {
		return errors.Wrap(err, "memory: munmap failed")
	}
	return nil
}

func pointerOf(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
