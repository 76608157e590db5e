// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// walkHeap walks every block between the prologue and the epilogue,
// calling visit with each block (its header address). It mirrors the
// block-walking loop allocatedBlockBytes uses for statistics.
func walkHeap(a *Allocator, visit func(b block)) {
	b := block(unsafe.Pointer(a.provider.start() + mrow + uintptr(prologueSize)))
	end := a.provider.end() - mrow
	for uintptr(b) < end {
		bs := b.blockSize()
		if bs == 0 {
			break
		}
		visit(b)
		b = b.next()
	}
}

func TestHeapTilesExactlyWithNoGaps(t *testing.T) {
	var a Allocator
	a.provider = newFakeProvider(4)
	a.resetMainLists()
	require.NoError(t, a.initializeHeap())

	p1, err := a.Allocate(40)
	require.NoError(t, err)
	p2, err := a.Allocate(4000)
	require.NoError(t, err)
	_ = p2

	covered := 0
	walkHeap(&a, func(b block) {
		covered += b.blockSize()

		footerWord := rawWord(b.footerAt(b.blockSize()))
		require.Equal(t, b.header(), footerWord, "header/footer parity at %p", unsafe.Pointer(b))
	})

	heapStart := a.provider.start() + mrow + uintptr(prologueSize)
	heapEnd := a.provider.end() - mrow
	require.Equal(t, int(heapEnd-heapStart), covered)

	a.Free(p1)
}

func TestHeapGrowsAcrossMultiplePages(t *testing.T) {
	var a Allocator
	a.provider = newFakeProvider(8)
	a.resetMainLists()
	require.NoError(t, a.initializeHeap())

	var ptrs []unsafe.Pointer
	for i := 0; i < 50; i++ {
		p, err := a.Allocate(500)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}

	require.Greater(t, a.provider.end(), a.provider.start()+page)

	for _, p := range ptrs {
		a.Free(p)
	}
}
