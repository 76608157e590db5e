// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"unsafe"
)

// maxArenaSize bounds how much contiguous address space the default page
// provider reserves up front. Reservation is cheap (no physical memory is
// committed until a page is actually touched); growth just advances a
// logical end pointer within it until the reservation is exhausted.
const maxArenaSize = 1 << 32

// pageProvider is the external collaborator that grows the heap one page
// (page bytes) at a time, per spec.md §6. The allocator core never talks
// to the OS directly - it only calls grow/start/end.
type pageProvider interface {
	// grow appends exactly page bytes to the managed region and returns
	// the address of the start of the new page, or an error if no more
	// space is available.
	grow() (unsafe.Pointer, error)
	start() uintptr
	end() uintptr
}

// osProvider is the default pageProvider: one large anonymous mapping
// reserved up front, grown logically page by page.
type osProvider struct {
	arena []byte
	base  uintptr
	used  int
}

func newOSProvider() (*osProvider, error) {
	arena, err := mmapReserve(maxArenaSize)
	if err != nil {
		return nil, err
	}
	return &osProvider{arena: arena, base: uintptr(pointerOf(arena))}, nil
}

func (p *osProvider) grow() (unsafe.Pointer, error) {
	if p.used+page > len(p.arena) {
		return nil, ErrNoMem
	}
	addr := unsafe.Pointer(p.base + uintptr(p.used))
	p.used += page
	return addr, nil
}

func (p *osProvider) start() uintptr { return p.base }
func (p *osProvider) end() uintptr   { return p.base + uintptr(p.used) }

func (p *osProvider) release() error {
	if p.arena == nil {
		return nil
	}
	err := munmapRelease(p.arena)
	p.arena = nil
	p.used = 0
	return err
}

// initializeHeap performs the very first heap growth: one page carrying
// the prologue, the initial free block and the epilogue.
func (a *Allocator) initializeHeap() error {
	if _, err := a.provider.grow(); err != nil {
		return ErrNoMem
	}

	heapStart := a.provider.start()
	prologue := block(unsafe.Pointer(heapStart + mrow))
	prologue.setHeaderAndFooter(pack(0, prologueSize, false, true), prologueSize)

	firstFreeSize := page - epilogueSize - prologueSize - mrow
	firstFree := block(addPtr(unsafe.Pointer(prologue), prologueSize))
	firstFree.setHeaderAndFooter(pack(0, firstFreeSize, false, false), firstFreeSize)

	epilogueAddr := unsafe.Pointer(a.provider.end() - mrow)
	storeWord(epilogueAddr, pack(0, 0, false, true))

	a.insertMain(firstFree)
	return nil
}

// extendHeap grows the heap by one page, folding the new page into a free
// block that typically coalesces with whatever free block preceded the
// old epilogue.
func (a *Allocator) extendHeap() error {
	oldEnd := a.provider.end()

	if _, err := a.provider.grow(); err != nil {
		return ErrNoMem
	}

	newFree := block(unsafe.Pointer(oldEnd - mrow))
	newFree.setHeaderAndFooter(pack(0, page, false, false), page)

	epilogueAddr := unsafe.Pointer(a.provider.end() - mrow)
	storeWord(epilogueAddr, pack(0, 0, false, true))

	merged := a.coalesce(newFree)
	a.insertMain(merged)
	return nil
}
