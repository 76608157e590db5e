// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunProducesBoundedStats(t *testing.T) {
	result, err := Run(Config{
		Ops:      2000,
		MinSize:  1,
		MaxSize:  512,
		Seed:     7,
		FreeProb: 0.4,
	})
	require.NoError(t, err)

	require.Greater(t, result.Allocations, 0)
	require.GreaterOrEqual(t, result.Fragmentation, 0.0)
	require.LessOrEqual(t, result.Fragmentation, 1.0)
	require.GreaterOrEqual(t, result.Utilization, 0.0)
	require.LessOrEqual(t, result.Utilization, 1.0)
}

func TestRunRejectsInvalidSizeRange(t *testing.T) {
	_, err := Run(Config{Ops: 10, MinSize: 100, MaxSize: 1})
	require.Error(t, err)
}

func TestRunIsDeterministicForSameSeed(t *testing.T) {
	cfg := Config{Ops: 500, MinSize: 1, MaxSize: 128, Seed: 99, FreeProb: 0.3}

	a, err := Run(cfg)
	require.NoError(t, err)
	b, err := Run(cfg)
	require.NoError(t, err)

	require.Equal(t, a.Allocations, b.Allocations)
	require.Equal(t, a.Frees, b.Frees)
	require.Equal(t, a.PeakPayload, b.PeakPayload)
}
