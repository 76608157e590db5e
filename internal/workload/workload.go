// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workload drives a deterministic allocate/free workload against
// the memory package, for use by cmd/heapstat.
package workload

import (
	"math"
	"unsafe"

	"github.com/cznic/mathutil"
	"github.com/pkg/errors"

	"github.com/Biskkit/Memory-Allocator"
)

// Config parameterizes a workload run.
type Config struct {
	Ops      int
	MinSize  int
	MaxSize  int
	Seed     int64
	FreeProb float64
}

// Result summarizes the allocator's state at the end of a run.
type Result struct {
	Allocations   int
	Frees         int
	Fragmentation float64
	Utilization   float64
	PeakPayload   int
	FinalPayload  int
}

type liveBlock struct {
	ptr  unsafe.Pointer
	size int
}

// Run executes cfg against a fresh Allocator and returns the resulting
// statistics. It never leaks: every surviving live block is freed before
// returning.
func Run(cfg Config) (Result, error) {
	if cfg.MinSize <= 0 || cfg.MaxSize < cfg.MinSize {
		return Result{}, errors.Errorf("workload: invalid size range [%d, %d]", cfg.MinSize, cfg.MaxSize)
	}

	rng, err := mathutil.NewFC32(int(cfg.MinSize), int(cfg.MaxSize), true)
	if err != nil {
		return Result{}, errors.Wrap(err, "workload: failed to build size generator")
	}
	rng.Seed(cfg.Seed)

	coin, err := mathutil.NewFC32(0, math.MaxInt32, true)
	if err != nil {
		return Result{}, errors.Wrap(err, "workload: failed to build coin generator")
	}
	coin.Seed(cfg.Seed + 1)

	var a memory.Allocator
	var live []liveBlock
	var allocations, frees int

	for i := 0; i < cfg.Ops; i++ {
		doFree := len(live) > 0 && float64(coin.Next())/math.MaxInt32 < cfg.FreeProb
		if doFree {
			idx := int(coin.Next()) % len(live)
			a.Free(live[idx].ptr)
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			frees++
			continue
		}

		size := rng.Next()
		p, err := a.Allocate(size)
		if err != nil {
			continue
		}
		live = append(live, liveBlock{ptr: p, size: size})
		allocations++
	}

	result := Result{
		Allocations:   allocations,
		Frees:         frees,
		Fragmentation: a.Fragmentation(),
		Utilization:   a.Utilization(),
		PeakPayload:   a.PeakPayload(),
		FinalPayload:  a.LivePayload(),
	}

	for _, b := range live {
		a.Free(b.ptr)
	}

	return result, nil
}
