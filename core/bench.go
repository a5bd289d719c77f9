// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package core

import (
	"context"
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/Qitmeer/qitmeer-clbench/common"
	"github.com/Qitmeer/qitmeer-clbench/kernel"
	"github.com/google/uuid"
)

const (
	DEFAULT_ELEMENTS = 9600000
)

type BenchCase struct {
	Description    string `toml:"description" yaml:"description"`
	Kernel         string `toml:"kernel" yaml:"kernel"`
	GlobalWorkSize int    `toml:"global_work_size" yaml:"global_work_size"`
	LocalWorkSize  int    `toml:"local_work_size" yaml:"local_work_size"`
}

type Plan struct {
	Cases []BenchCase `toml:"case"`
}

var variantTitles = map[string]string{
	kernel.VARIANT_SCALAR:     "Scalar",
	kernel.VARIANT_VECTORIZED: "Vectorized",
}

func describe(variant string, local int) string {
	title, ok := variantTitles[variant]
	if !ok {
		title = variant
	}
	return fmt.Sprintf("%s version with localWorkSize=%d", title, local)
}

// DefaultPlan is the scalar kernel at local sizes 160 and 256 followed by the
// float4 kernel at 40 and 64, all over the same element count.
func DefaultPlan() Plan {
	vectorized := DEFAULT_ELEMENTS / 4
	return Plan{Cases: []BenchCase{
		{describe(kernel.VARIANT_SCALAR, 160), kernel.VARIANT_SCALAR, DEFAULT_ELEMENTS, 160},
		{describe(kernel.VARIANT_SCALAR, 256), kernel.VARIANT_SCALAR, DEFAULT_ELEMENTS, 256},
		{describe(kernel.VARIANT_VECTORIZED, 40), kernel.VARIANT_VECTORIZED, vectorized, 40},
		{describe(kernel.VARIANT_VECTORIZED, 64), kernel.VARIANT_VECTORIZED, vectorized, 64},
	}}
}

// LoadPlan reads [[case]] tables from a TOML file. Cases without a
// description get the generated one.
func LoadPlan(path string) (Plan, error) {
	var plan Plan
	if _, err := toml.DecodeFile(path, &plan); err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", path, err)
	}
	if len(plan.Cases) == 0 {
		return Plan{}, fmt.Errorf("plan %s has no [[case]]", path)
	}
	for i := range plan.Cases {
		c := &plan.Cases[i]
		if c.Kernel == "" {
			c.Kernel = kernel.VARIANT_SCALAR
		}
		if c.Description == "" {
			c.Description = describe(c.Kernel, c.LocalWorkSize)
		}
	}
	return plan, nil
}

// PlanFromFlags builds one case per local size. elements is the number of
// floats to add; the vectorized kernel gets a quarter as many work items.
func PlanFromFlags(variant string, elements int, locals []int) (Plan, error) {
	prog, err := kernel.Source(variant)
	if err != nil {
		return Plan{}, err
	}
	if elements <= 0 || elements%prog.Width != 0 {
		return Plan{}, fmt.Errorf("element count %d is not a positive multiple of the %s width %d", elements, variant, prog.Width)
	}
	plan := Plan{Cases: make([]BenchCase, 0, len(locals))}
	for _, local := range locals {
		plan.Cases = append(plan.Cases, BenchCase{
			Description:    describe(variant, local),
			Kernel:         variant,
			GlobalWorkSize: elements / prog.Width,
			LocalWorkSize:  local,
		})
	}
	return plan, nil
}

// PlanFromConfig picks the plan file when given, then the --local_sizes
// cases, then the default plan.
func PlanFromConfig(cfg *common.GlobalConfig) (Plan, error) {
	bc := cfg.BenchConfig
	if bc.Plan != "" {
		return LoadPlan(bc.Plan)
	}
	if len(cfg.LocalWorkSizes) > 0 {
		return PlanFromFlags(bc.Kernel, bc.GlobalSize, cfg.LocalWorkSizes)
	}
	return DefaultPlan(), nil
}

// Limits are the device properties a case is checked against. Zero means
// unknown and is not enforced.
type Limits struct {
	MaxWorkGroupSize int
	MaxWorkItemSize  int
	MaxMemAllocSize  int64
}

func LimitsOf(d DeviceInfo) Limits {
	return Limits{
		MaxWorkGroupSize: d.MaxWorkGroupSize,
		MaxWorkItemSize:  d.MaxWorkItemSize(),
		MaxMemAllocSize:  d.MaxMemAllocSize,
	}
}

// Validate rejects a case the device cannot launch. The global size must be a
// multiple of the local size.
func Validate(c BenchCase, l Limits) error {
	prog, err := kernel.Source(c.Kernel)
	if err != nil {
		return err
	}
	if c.GlobalWorkSize <= 0 || c.LocalWorkSize <= 0 {
		return fmt.Errorf("work sizes must be positive (global=%d, local=%d)", c.GlobalWorkSize, c.LocalWorkSize)
	}
	if c.GlobalWorkSize > math.MaxInt32 {
		return fmt.Errorf("global work size %d does not fit the int element count argument", c.GlobalWorkSize)
	}
	if c.GlobalWorkSize%c.LocalWorkSize != 0 {
		return fmt.Errorf("global work size %d is not a multiple of local work size %d", c.GlobalWorkSize, c.LocalWorkSize)
	}
	if l.MaxWorkGroupSize > 0 && c.LocalWorkSize > l.MaxWorkGroupSize {
		return fmt.Errorf("local work size %d exceeds the device max work group size %d", c.LocalWorkSize, l.MaxWorkGroupSize)
	}
	if l.MaxWorkItemSize > 0 && c.LocalWorkSize > l.MaxWorkItemSize {
		return fmt.Errorf("local work size %d exceeds the device max work item size %d", c.LocalWorkSize, l.MaxWorkItemSize)
	}
	bufSize := int64(c.GlobalWorkSize) * int64(prog.Width) * 4
	if l.MaxMemAllocSize > 0 && bufSize > l.MaxMemAllocSize {
		return fmt.Errorf("buffer of %d bytes exceeds the device max allocation %d", bufSize, l.MaxMemAllocSize)
	}
	return nil
}

// Timing is the profiling counter pair of one kernel launch, in nanoseconds.
type Timing struct {
	Start int64
	End   int64
}

func (t Timing) Millis() float64 {
	return common.NanosToMillis(t.End - t.Start)
}

// Launcher runs one case over a and b and returns the kernel timing and C.
type Launcher interface {
	Launch(c BenchCase, a, b []float32) (Timing, []float32, error)
}

type ResultSink interface {
	Publish(r BenchResult)
}

type BenchResult struct {
	RunID    string    `yaml:"run_id"`
	Device   string    `yaml:"device"`
	Case     BenchCase `yaml:"case"`
	RunsMs   []float64 `yaml:"runs_ms"`
	BestMs   float64   `yaml:"best_ms"`
	MeanMs   float64   `yaml:"mean_ms"`
	Verified bool      `yaml:"verified"`
	Skipped  bool      `yaml:"skipped"`
	Error    string    `yaml:"error,omitempty"`
}

func (r *BenchResult) summarize() {
	if len(r.RunsMs) == 0 {
		return
	}
	best, sum := r.RunsMs[0], 0.0
	for _, ms := range r.RunsMs {
		if ms < best {
			best = ms
		}
		sum += ms
	}
	r.BestMs = best
	r.MeanMs = sum / float64(len(r.RunsMs))
}

// Inputs fills A[i] = i and B[i] = 2i.
func Inputs(n int) ([]float32, []float32) {
	a := make([]float32, n)
	b := make([]float32, n)
	for i := 0; i < n; i++ {
		a[i] = float32(i) * 1.0
		b[i] = float32(i) * 2.0
	}
	return a, b
}

// Verify returns the first index where c differs from a + b, or -1.
func Verify(a, b, c []float32) int {
	if len(c) != len(a) || len(b) != len(a) {
		return 0
	}
	for i := range a {
		if c[i] != a[i]+b[i] {
			return i
		}
	}
	return -1
}

type Runner struct {
	Launcher Launcher
	Device   string
	Limits   Limits
	Repeat   int
	Verify   bool
	Sink     ResultSink
}

// Run launches every case of the plan Repeat times. A case that fails
// validation or launch is reported in its result and the next case runs.
// Cancelling ctx stops before the next launch.
func (r *Runner) Run(ctx context.Context, plan Plan) ([]BenchResult, error) {
	repeat := r.Repeat
	if repeat < 1 {
		repeat = 1
	}
	runID := uuid.New().String()
	results := make([]BenchResult, 0, len(plan.Cases))
	for _, c := range plan.Cases {
		res := BenchResult{RunID: runID, Device: r.Device, Case: c, RunsMs: []float64{}}
		if err := Validate(c, r.Limits); err != nil {
			common.ProbeLoger.Warningf("%s skipped: %v", c.Description, err)
			res.Skipped = true
			res.Error = err.Error()
			results = append(results, r.publish(res))
			continue
		}
		prog, _ := kernel.Source(c.Kernel)
		a, b := Inputs(c.GlobalWorkSize * prog.Width)
		verified := r.Verify
		for i := 0; i < repeat; i++ {
			if err := ctx.Err(); err != nil {
				res.summarize()
				res.Verified = false
				results = append(results, r.publish(res))
				return results, err
			}
			common.ProbeLoger.Debugf("- %s - run:%d - Global item size:%d - Local item size:%d", c.Kernel, i, c.GlobalWorkSize, c.LocalWorkSize)
			timing, out, err := r.Launcher.Launch(c, a, b)
			if err != nil {
				common.ProbeLoger.Errorf("%s launch failed: %v", c.Description, err)
				res.Error = err.Error()
				verified = false
				break
			}
			res.RunsMs = append(res.RunsMs, timing.Millis())
			if r.Verify {
				if idx := Verify(a, b, out); idx >= 0 {
					verified = false
					res.Error = mismatch(idx, a, b, out)
					break
				}
			}
		}
		res.Verified = verified
		res.summarize()
		results = append(results, r.publish(res))
	}
	return results, nil
}

func mismatch(idx int, a, b, c []float32) string {
	if len(c) != len(a) {
		return fmt.Sprintf("output has %d elements, want %d", len(c), len(a))
	}
	return fmt.Sprintf("output mismatch at %d: %v + %v != %v", idx, a[idx], b[idx], c[idx])
}

func (r *Runner) publish(res BenchResult) BenchResult {
	if r.Sink != nil {
		r.Sink.Publish(res)
	}
	return res
}
