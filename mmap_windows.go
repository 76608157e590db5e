// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.
//
// Modifications (c) 2017 The Memory Authors.
// Further reworked: single reserve-then-grow arena, wrapped errors.

//go:build windows

package memory

import (
	"os"
	"reflect"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

// mmapWindowsState remembers the file-mapping handle behind a reserved
// region so it can be released again.
var mmapWindowsState = map[uintptr]syscall.Handle{}

// mmapReserve reserves size contiguous, read/write bytes via
// CreateFileMapping + MapViewOfFile, Windows' two-step equivalent of an
// anonymous mmap.
func mmapReserve(size int) ([]byte, error) {
	flProtect := uint32(syscall.PAGE_READWRITE)
	dwDesiredAccess := uint32(syscall.FILE_MAP_WRITE)

	maxSizeHigh := uint32(int64(size) >> 32)
	maxSizeLow := uint32(int64(size) & 0xFFFFFFFF)
	h, errno := syscall.CreateFileMapping(syscall.Handle(^uintptr(0)), nil, flProtect, maxSizeHigh, maxSizeLow, nil)
	if h == 0 {
		return nil, errors.Wrap(os.NewSyscallError("CreateFileMapping", errno), "memory: reserve failed")
	}

	addr, errno := syscall.MapViewOfFile(h, dwDesiredAccess, 0, 0, uintptr(size))
	if addr == 0 {
		return nil, errors.Wrap(os.NewSyscallError("MapViewOfFile", errno), "memory: reserve failed")
	}

	mmapWindowsState[addr] = h
	var b []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = addr
	sh.Len = size
	sh.Cap = size
	return b, nil
}

func munmapRelease(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&b[0]))

	if err := syscall.UnmapViewOfFile(addr); err != nil {
		return errors.Wrap(err, "memory: release failed")
	}

	handle, ok := mmapWindowsState[addr]
	if !ok {
		return errors.New("memory: release failed: unknown base address")
	}
	delete(mmapWindowsState, addr)

	return errors.Wrap(os.NewSyscallError("CloseHandle", syscall.CloseHandle(handle)), "memory: release failed")
}

func pointerOf(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
