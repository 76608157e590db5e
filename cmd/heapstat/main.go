// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command heapstat drives a synthetic allocate/free workload against the
// memory package's Allocator and reports its fragmentation and
// utilization at the end of the run.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Biskkit/Memory-Allocator/internal/workload"
)

var log = logrus.StandardLogger()

// logLevelValue adapts a plain string flag into a pflag.Value so
// --log-level rejects unknown logrus levels at parse time instead of at
// first use.
type logLevelValue string

func newLogLevelValue(def string) *logLevelValue {
	v := logLevelValue(def)
	return &v
}

func (v *logLevelValue) String() string { return string(*v) }
func (v *logLevelValue) Type() string   { return "string" }
func (v *logLevelValue) Set(s string) error {
	if _, err := logrus.ParseLevel(s); err != nil {
		return err
	}
	*v = logLevelValue(s)
	return nil
}

var _ pflag.Value = (*logLevelValue)(nil)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heapstat",
		Short: "Run a synthetic workload against the segregated-fit allocator",
		RunE:  runHeapstat,
	}

	flags := cmd.Flags()
	flags.Int("ops", 10000, "number of allocate/free operations to perform")
	flags.Int("min-size", 1, "minimum payload size requested")
	flags.Int("max-size", 4096, "maximum payload size requested")
	flags.Int64P("seed", "s", 1, "seed for the deterministic workload generator")
	flags.Float64("free-prob", 0.5, "probability of a free versus an allocate at each step")
	flags.VarP(newLogLevelValue("info"), "log-level", "l", "logrus level: debug, info, warn, error")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}

	return cmd
}

func runHeapstat(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("heapstat: %w", err)
	}
	log.SetLevel(level)

	cfg := workload.Config{
		Ops:      viper.GetInt("ops"),
		MinSize:  viper.GetInt("min-size"),
		MaxSize:  viper.GetInt("max-size"),
		Seed:     viper.GetInt64("seed"),
		FreeProb: viper.GetFloat64("free-prob"),
	}

	log.WithFields(logrus.Fields{
		"ops":       cfg.Ops,
		"min_size":  cfg.MinSize,
		"max_size":  cfg.MaxSize,
		"seed":      cfg.Seed,
		"free_prob": cfg.FreeProb,
	}).Info("starting workload")

	result, err := workload.Run(cfg)
	if err != nil {
		return fmt.Errorf("heapstat: %w", err)
	}

	log.WithFields(logrus.Fields{
		"allocations":    result.Allocations,
		"frees":          result.Frees,
		"fragmentation":  result.Fragmentation,
		"utilization":    result.Utilization,
		"peak_payload":   result.PeakPayload,
		"final_payload":  result.FinalPayload,
	}).Info("workload complete")

	fmt.Printf("allocations=%d frees=%d fragmentation=%.4f utilization=%.4f\n",
		result.Allocations, result.Frees, result.Fragmentation, result.Utilization)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
