// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// block is the address of a block's header word (prologue, free,
// allocated, quick-list or epilogue). It is never the payload pointer.
type block unsafe.Pointer

// blockSizeMask keeps bits 31..4, matching the original C allocator's
// ~0xFFFFFFFF0000000F mask: payload_size (bits 63..32) and the reserved
// low 4 bits are cleared.
const blockSizeMask = uint64(0xFFFFFFF0)

func pack(payloadSize, blockSize int, inQuick, allocated bool) uint64 {
	w := uint64(uint32(payloadSize))<<32 | (uint64(blockSize) & blockSizeMask)
	if inQuick {
		w |= flagInQuick
	}
	if allocated {
		w |= flagAllocated
	}
	return w
}

func blockSizeOf(word uint64) int    { return int(word & blockSizeMask) }
func payloadSizeOf(word uint64) int  { return int(word >> 32) }
func allocBit(word uint64) bool      { return word&flagAllocated != 0 }
func quickBit(word uint64) bool      { return word&flagInQuick != 0 }

// rawWord reads the obfuscated 8-byte word stored at p and de-obfuscates it.
func rawWord(p unsafe.Pointer) uint64 {
	return *(*uint64)(p) ^ magic
}

// storeWord obfuscates word and stores it at p.
func storeWord(p unsafe.Pointer, word uint64) {
	*(*uint64)(p) = word ^ magic
}

// header returns the logical (de-obfuscated) header word of b.
func (b block) header() uint64 { return rawWord(unsafe.Pointer(b)) }

// setHeader stores word as b's header, obfuscated.
func (b block) setHeader(word uint64) { storeWord(unsafe.Pointer(b), word) }

// footer returns the address of b's footer word, given b's current
// (already-written) block size.
func (b block) footer() unsafe.Pointer {
	size := blockSizeOf(b.header())
	return addPtr(unsafe.Pointer(b), size-mrow)
}

// footerAt is like footer but takes an explicit block size, for use while
// constructing a block whose header has not been written yet.
func (b block) footerAt(blockSize int) unsafe.Pointer {
	return addPtr(unsafe.Pointer(b), blockSize-mrow)
}

// setHeaderAndFooter writes word to both the header and the footer of a
// block of the given size. Every header mutation must go through this (or
// setHeader followed by an explicit footer write) so the two never diverge.
func (b block) setHeaderAndFooter(word uint64, blockSize int) {
	b.setHeader(word)
	storeWord(b.footerAt(blockSize), word)
}

func (b block) blockSize() int   { return blockSizeOf(b.header()) }
func (b block) payloadSize() int { return payloadSizeOf(b.header()) }
func (b block) allocated() bool  { return allocBit(b.header()) }
func (b block) inQuickList() bool { return quickBit(b.header()) }

// next returns the block physically following b, using b's own recorded
// size - valid for any non-epilogue block.
func (b block) next() block {
	return block(addPtr(unsafe.Pointer(b), b.blockSize()))
}

// prev returns the block physically preceding b, read from the footer word
// stored immediately before b.
func (b block) prev() block {
	footerWord := rawWord(subPtr(unsafe.Pointer(b), mrow))
	size := blockSizeOf(footerWord)
	return block(subPtr(unsafe.Pointer(b), size))
}

// payload returns the address one memory row past the header, i.e. the
// user-visible payload of an allocated block.
func (b block) payload() unsafe.Pointer { return addPtr(unsafe.Pointer(b), mrow) }

// blockFromPayload recovers a block's header address from a payload
// pointer previously returned by Allocate.
func blockFromPayload(p unsafe.Pointer) block { return block(subPtr(p, mrow)) }

// links overlays the free block body (the bytes between header
// and footer) with the two pointers used for main-list linkage.
type links struct {
	prev, next unsafe.Pointer
}

func (b block) links() *links {
	return (*links)(addPtr(unsafe.Pointer(b), mrow))
}

// qnext overlays the single "next" pointer used by quick-list blocks.
func (b block) qnext() *unsafe.Pointer {
	return (*unsafe.Pointer)(addPtr(unsafe.Pointer(b), mrow))
}
