// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"math"
	"testing"
	"unsafe"

	"github.com/cznic/mathutil"
	"github.com/stretchr/testify/require"
)

const soakQuota = 4 << 20

// writeAt fills n bytes at p with a deterministic byte stream.
func writeAt(p unsafe.Pointer, n int, rng *mathutil.FC32) {
	buf := (*[1 << 30]byte)(p)[:n:n]
	for i := range buf {
		buf[i] = byte(rng.Next())
	}
}

func verifyAt(t *testing.T, p unsafe.Pointer, n int, rng *mathutil.FC32) {
	t.Helper()
	buf := (*[1 << 30]byte)(p)[:n:n]
	for i, g := range buf {
		require.Equal(t, byte(rng.Next()), g, "byte %d at %p", i, p)
	}
}

func soakAllocateThenFree(t *testing.T, maxSize int) {
	var a Allocator
	rem := soakQuota
	var sizes []int
	var ptrs []unsafe.Pointer

	rng, err := mathutil.NewFC32(0, math.MaxInt32, true)
	require.NoError(t, err)
	rng.Seed(42)
	pos := rng.Pos()

	for rem > 0 {
		size := rng.Next()%maxSize + 1
		rem -= size
		p, err := a.Allocate(size)
		require.NoError(t, err)
		writeAt(p, size, rng)
		sizes = append(sizes, size)
		ptrs = append(ptrs, p)
	}

	rng.Seek(pos)
	for i, p := range ptrs {
		size := rng.Next()%maxSize + 1
		require.Equal(t, sizes[i], size)
		verifyAt(t, p, size, rng)
	}

	for _, p := range ptrs {
		a.Free(p)
	}

	require.Equal(t, 0, a.LivePayload())
}

func TestSoakSmall(t *testing.T) { soakAllocateThenFree(t, 256) }
func TestSoakLarge(t *testing.T) { soakAllocateThenFree(t, page*2) }

func TestAllocateZeroReturnsNil(t *testing.T) {
	var a Allocator
	p, err := a.Allocate(0)
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestReallocateGrowPreservesPrefix(t *testing.T) {
	var a Allocator
	p, err := a.Allocate(32)
	require.NoError(t, err)

	buf := (*[32]byte)(p)
	for i := range buf {
		buf[i] = byte(i)
	}

	grown, err := a.Reallocate(p, 512)
	require.NoError(t, err)
	require.NotNil(t, grown)

	gbuf := (*[32]byte)(grown)
	for i := range gbuf {
		require.Equal(t, byte(i), gbuf[i])
	}

	a.Free(grown)
}

func TestReallocateShrinkSplitsInPlace(t *testing.T) {
	var a Allocator
	p, err := a.Allocate(512)
	require.NoError(t, err)

	shrunk, err := a.Reallocate(p, 16)
	require.NoError(t, err)
	require.Equal(t, p, shrunk)

	a.Free(shrunk)
	require.Equal(t, 0, a.LivePayload())
}

func TestReallocateToZeroFrees(t *testing.T) {
	var a Allocator
	p, err := a.Allocate(64)
	require.NoError(t, err)

	out, err := a.Reallocate(p, 0)
	require.NoError(t, err)
	require.Nil(t, out)
	require.Equal(t, 0, a.LivePayload())
}

func TestReallocateInvalidPointer(t *testing.T) {
	var a Allocator
	_, err := a.Allocate(16) // force heap initialization
	require.NoError(t, err)

	_, err = a.Reallocate(unsafe.Pointer(uintptr(1)), 16)
	require.Equal(t, ErrInvalid, err)
}

func TestFreePanicsOnInvalidPointer(t *testing.T) {
	var a Allocator
	_, err := a.Allocate(16)
	require.NoError(t, err)

	require.Panics(t, func() {
		a.Free(unsafe.Pointer(uintptr(1)))
	})
}

func TestCoalesceReclaimsAdjacentFreedBlocks(t *testing.T) {
	var a Allocator
	p1, err := a.Allocate(64)
	require.NoError(t, err)
	p2, err := a.Allocate(64)
	require.NoError(t, err)
	p3, err := a.Allocate(64)
	require.NoError(t, err)

	a.Free(p1)
	a.Free(p3)
	a.Free(p2)

	require.Equal(t, 0, a.LivePayload())

	big, err := a.Allocate(200)
	require.NoError(t, err)
	require.NotNil(t, big)
	a.Free(big)
}
