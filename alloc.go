// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// Allocator allocates, frees and resizes memory out of a single
// contiguous heap grown page by page from a pageProvider. Its zero value
// is ready for use. An Allocator must not be copied after first use: it
// takes internal addresses of its own free-list sentinels.
type Allocator struct {
	mainLists  [numFreeLists]links
	quickLists [numQuickLists]quickList

	provider pageProvider

	runningPayload int
	peakPayload    int
}

func (a *Allocator) ensureHeap() error {
	if a.provider != nil {
		return nil
	}

	p, err := newOSProvider()
	if err != nil {
		return err
	}
	a.provider = p
	a.resetMainLists()
	return a.initializeHeap()
}

func (a *Allocator) updatePayload(delta int) {
	a.runningPayload += delta
	if a.runningPayload > a.peakPayload {
		a.peakPayload = a.runningPayload
	}
}

// blockSizeFor computes the total block size (header + payload + footer +
// padding) needed to hold size payload bytes.
func blockSizeFor(size int) int {
	bs := roundUp16(size + 2*mrow)
	if bs < minBlock {
		bs = minBlock
	}
	return bs
}

// Allocate returns a pointer to size bytes of uninitialized memory, or
// (nil, ErrNoMem) if the heap cannot be grown further. If the first call
// cannot reserve the arena from the OS, that wrapped OS error is returned
// instead. Allocate(0) returns (nil, nil) with no heap mutation.
func (a *Allocator) Allocate(size int) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, nil
	}

	if err := a.ensureHeap(); err != nil {
		return nil, err
	}

	blockSize := blockSizeFor(size)

	if blockSize < qlMaxSize {
		if b, ok := a.popQuick(quickIndex(blockSize)); ok {
			b.setHeaderAndFooter(pack(size, blockSize, false, true), blockSize)
			a.updatePayload(size)
			return b.payload(), nil
		}
	}

	var fit block
	for {
		var ok bool
		fit, ok = a.findFit(blockSize)
		if ok {
			break
		}
		if err := a.extendHeap(); err != nil {
			return nil, err
		}
	}

	unlinkMain(fit)
	fit = a.splitFree(fit, blockSize)
	fit.setHeaderAndFooter(pack(size, fit.blockSize(), false, true), fit.blockSize())
	a.updatePayload(size)
	return fit.payload(), nil
}

// Free returns the block at payload to the allocator. p must have been
// returned by Allocate or Reallocate and not already freed. An invalid
// pointer is a client contract violation: Free logs the anomaly and
// panics rather than silently corrupting the heap.
func (a *Allocator) Free(p unsafe.Pointer) {
	if !a.validate(p) {
		a.logInternalError("Free: invalid pointer %p", p)
		panic("memory: Free called with an invalid pointer")
	}

	b := blockFromPayload(p)
	payloadSize := b.payloadSize()
	blockSize := b.blockSize()

	b.setHeaderAndFooter(pack(0, blockSize, false, false), blockSize)
	merged := a.coalesce(b)

	if merged.blockSize() < qlMaxSize {
		a.insertQuick(merged)
	} else {
		a.insertMain(merged)
	}

	a.updatePayload(-payloadSize)
}

// Reallocate resizes the block at p to newSize bytes, preserving the
// smaller of the old and new payload sizes. An invalid p yields
// (nil, ErrInvalid). newSize == 0 frees p and returns (nil, nil). Growing
// allocates fresh, copies and frees the old block; shrinking splits the
// existing block in place.
func (a *Allocator) Reallocate(p unsafe.Pointer, newSize int) (unsafe.Pointer, error) {
	if !a.validate(p) {
		return nil, ErrInvalid
	}

	if newSize == 0 {
		a.Free(p)
		return nil, nil
	}

	b := blockFromPayload(p)
	oldPayloadSize := b.payloadSize()

	if newSize == oldPayloadSize {
		return p, nil
	}

	if oldPayloadSize < newSize {
		np, err := a.Allocate(newSize)
		if err != nil {
			return nil, err
		}
		copyBytes(np, p, oldPayloadSize)
		a.Free(p)
		return np, nil
	}

	blockSize := blockSizeFor(newSize)
	shrunk := a.splitAllocated(b, blockSize, newSize)
	a.updatePayload(newSize - oldPayloadSize)
	return shrunk.payload(), nil
}

func copyBytes(dst, src unsafe.Pointer, n int) {
	d := (*[1 << 30]byte)(dst)[:n:n]
	s := (*[1 << 30]byte)(src)[:n:n]
	copy(d, s)
}

// validate reports whether p looks like a payload pointer currently owned
// by an allocated, non-quick-list block of this heap.
func (a *Allocator) validate(p unsafe.Pointer) bool {
	if p == nil || a.provider == nil {
		return false
	}
	if uintptr(p)%align != 0 {
		return false
	}

	hdrAddr := uintptr(p) - mrow
	if hdrAddr < a.provider.start() {
		return false
	}

	b := block(unsafe.Pointer(hdrAddr))
	word := b.header()
	blockSize := blockSizeOf(word)
	if blockSize < minBlock || blockSize%align != 0 {
		return false
	}

	// Footer address computed from the payload pointer and decoded
	// block size, not from the raw header word - see SPEC_FULL.md §5.
	footerAddr := uintptr(p) - mrow + uintptr(blockSize) - mrow
	if footerAddr > a.provider.end() {
		return false
	}

	if !allocBit(word) || quickBit(word) {
		return false
	}

	return true
}
