// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package benchmark measures client throughput against an in-process
// stand-in for the Data API, so runs exercise the full command and
// pagination paths without network variance.
package benchmark

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

const (
	ExecutionTimeout = 5 * time.Minute
	StandardRuntime  = 15 * time.Second
	MinIterations    = 10
)

// BenchCase performs count logical operations and reports the first
// failure. Cases must be re-runnable; the harness calls them in a loop.
type BenchCase func(ctx context.Context, count int) error

type CaseDefinition struct {
	Bench   BenchCase
	Count   int
	Runtime time.Duration
}

// Result is a single timed execution of a case.
type Result struct {
	Duration time.Duration
	Error    error
}

// BenchResult aggregates every trial of one case.
type BenchResult struct {
	Name       string
	Trials     int
	Operations int
	Duration   time.Duration
	Raw        []Result
}

func (r *BenchResult) HasErrors() bool {
	for _, raw := range r.Raw {
		if raw.Error != nil {
			return true
		}
	}
	return false
}

func (r *BenchResult) seconds() []float64 {
	out := make([]float64, 0, len(r.Raw))
	for _, raw := range r.Raw {
		if raw.Error == nil {
			out = append(out, raw.Duration.Seconds())
		}
	}
	return out
}

// OpsPerSecond reports throughput at the given percentile of trial
// durations, e.g. 50 for the median trial.
func (r *BenchResult) OpsPerSecond(percentile float64) float64 {
	samples := r.seconds()
	if len(samples) == 0 {
		return 0
	}
	p, err := stats.Percentile(samples, percentile)
	if err != nil || p == 0 {
		return 0
	}
	return float64(r.Operations) / p
}

func (r *BenchResult) String() string {
	return fmt.Sprintf("name=%s, trials=%d, ops/sec(median)=%.1f, ops/sec(p90)=%.1f",
		r.Name, r.Trials, r.OpsPerSecond(50), r.OpsPerSecond(90))
}

// Run repeats the case until its runtime budget and the minimum trial
// count are both satisfied.
func (c *CaseDefinition) Run(ctx context.Context) *BenchResult {
	out := &BenchResult{
		Name:       c.Name(),
		Operations: c.Count,
	}
	ctx, cancel := context.WithTimeout(ctx, ExecutionTimeout)
	defer cancel()

	startAt := time.Now()
	for {
		if time.Since(startAt) > c.Runtime && (out.Trials >= MinIterations || ctx.Err() != nil) {
			break
		}

		res := Result{}
		runStartAt := time.Now()
		res.Error = c.Bench(ctx, c.Count)
		res.Duration = time.Since(runStartAt)

		if res.Error == context.Canceled || res.Error == context.DeadlineExceeded {
			break
		}
		out.Trials++
		out.Raw = append(out.Raw, res)
	}
	out.Duration = time.Since(startAt)
	return out
}

func (c *CaseDefinition) Name() string { return getName(c.Bench) }

func getName(i interface{}) string {
	n := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	parts := strings.Split(n, ".")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return n
}
