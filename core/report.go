// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/Qitmeer/qitmeer-clbench/common"
	"github.com/fatih/color"
)

// Printer writes the plain text reports. Headings are coloured only when
// the printer was created with colour on.
type Printer struct {
	w       io.Writer
	heading *color.Color
	failed  *color.Color

	compatLabels bool
}

func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		failed:  color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.heading, p.failed} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// SetCompatLabels makes the summary repeat "Device Type:" for the flag list,
// each name followed by a space, so scripts parsing the older layout keep
// working.
func (p *Printer) SetCompatLabels(on bool) {
	p.compatLabels = on
}

func (p *Printer) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) platformHeader(info PlatformInfo) {
	p.printf("Platform #%d:\n", info.Index)
	p.printf("Platform Name: %s\n", info.Name)
	p.printf("Platform Vendor: %s\n", info.Vendor)
	p.printf("Platform Version: %s\n", info.Version)
	p.printf("\tNumber of devices: %d\n", len(info.Devices))
}

// Summary prints the short listing: platform identification plus name,
// vendor, type and version of each device.
func (p *Printer) Summary(inv *Inventory) {
	p.printf("Number of platforms: %d\n", len(inv.Platforms))
	for _, platform := range inv.Platforms {
		p.platformHeader(platform)
		for _, d := range platform.Devices {
			p.printf("\tDevice Name: %s\n", d.Name)
			p.printf("\tDevice Vendor: %s\n", d.Vendor)
			p.printf("\tDevice Type: %d\n", uint64(d.Type))
			p.printf("\tDevice Version: %s\n", d.Version)
			if p.compatLabels {
				p.printf("\tDevice Type: ")
				for _, name := range DeviceTypeNames(d.Type) {
					p.printf("%s ", name)
				}
				p.printf("\n")
			} else {
				p.printf("\tDevice Type Flags: %s\n", d.TypeNames())
			}
		}
	}
}

// Detail prints every queried attribute of every device, grouped in sections.
func (p *Printer) Detail(inv *Inventory) {
	p.printf("Number of platforms: %d\n", len(inv.Platforms))
	for _, platform := range inv.Platforms {
		p.platformHeader(platform)
		for _, d := range platform.Devices {
			p.Device(d)
		}
	}
}

func (p *Printer) section(title string) {
	_, _ = p.heading.Fprintf(p.w, "%s:", title)
	p.printf("\n")
}

func (p *Printer) Device(d DeviceInfo) {
	p.section("Device Identification")
	p.printf("\tName: %s\n", d.Name)
	p.printf("\tVendor: %s\n", d.Vendor)
	p.printf("\tVersion: %s\n", d.Version)
	p.printf("\tDriver Version: %s\n", d.DriverVersion)
	p.printf("\tType: %s\n", d.TypeNames())
	p.printf("\tAvailable: %s\n", common.YesNo(d.Available))

	p.section("Compute Resources")
	p.printf("\tMax Compute Units: %d\n", d.MaxComputeUnits)
	p.printf("\tMax Clock Frequency: %d MHz\n", d.MaxClockFrequency)
	p.printf("\tMax Work Group Size: %d\n", d.MaxWorkGroupSize)
	p.printf("\tMax Work Item Dimensions: %d\n", d.MaxWorkItemDimensions)
	sizes := make([]string, len(d.MaxWorkItemSizes))
	for i, s := range d.MaxWorkItemSizes {
		sizes[i] = fmt.Sprint(s)
	}
	p.printf("\tMax Work Item Sizes: %s\n", strings.Join(sizes, ", "))

	p.section("Memory Information")
	p.printf("\tGlobal Memory Size: %s\n", common.FormatBytes(d.GlobalMemSize))
	p.printf("\tMax Memory Allocation Size: %s\n", common.FormatBytes(d.MaxMemAllocSize))
	p.printf("\tLocal Memory Size: %s\n", common.FormatBytes(d.LocalMemSize))
	p.printf("\tMax Parameter Size: %d bytes\n", d.MaxParameterSize)
	p.printf("\tGlobal Memory Cache Size: %s\n", common.FormatBytes(d.GlobalMemCacheSize))
	p.printf("\tGlobal Memory Cache Line Size: %d bytes\n", d.GlobalMemCachelineSize)
	p.printf("\tError Correction Support: %s\n", common.YesNo(d.ErrorCorrectionSupport))

	p.section("Performance and Capabilities")
	p.printf("\tProfiling Timer Resolution: %d nanoseconds\n", d.ProfilingTimerResolution)
	p.printf("\tLittle Endian: %s\n", common.YesNo(d.EndianLittle))
	p.printf("\tCompiler Available: %s\n", common.YesNo(d.CompilerAvailable))
	caps := make([]string, 0, 2)
	if d.ExecKernel {
		caps = append(caps, "OpenCL Kernels")
	}
	if d.ExecNativeKernel {
		caps = append(caps, "Native Kernels")
	}
	p.printf("\tExecution Capabilities: %s\n", strings.Join(caps, " "))
	p.printf("\tExtensions: %s\n", d.Extensions)

	p.section("Preferred Vector Widths")
	p.printf("\tChar: %d\n", d.VectorWidths.Char)
	p.printf("\tShort: %d\n", d.VectorWidths.Short)
	p.printf("\tInt: %d\n", d.VectorWidths.Int)
	p.printf("\tLong: %d\n", d.VectorWidths.Long)
	p.printf("\tFloat: %d\n", d.VectorWidths.Float)
	p.printf("\tDouble: %d\n", d.VectorWidths.Double)
}

// Result prints one line per launch, then best and mean when a case ran more
// than once.
func (p *Printer) Result(r BenchResult) {
	c := r.Case
	if r.Skipped {
		_, _ = p.failed.Fprintf(p.w, "%s - skipped: %s", c.Description, r.Error)
		p.printf("\n")
		return
	}
	for _, ms := range r.RunsMs {
		p.printf("%s - Execution time (globalWorkSize=%d, localWorkSize=%d): %f ms\n",
			c.Description, c.GlobalWorkSize, c.LocalWorkSize, ms)
	}
	if len(r.RunsMs) > 1 {
		p.printf("%s - best %f ms, mean %f ms over %d runs (%s)\n",
			c.Description, r.BestMs, r.MeanMs, len(r.RunsMs), common.FormatWorkRate(c.GlobalWorkSize, r.BestMs))
	}
	if r.Error != "" {
		_, _ = p.failed.Fprintf(p.w, "%s - failed: %s", c.Description, r.Error)
		p.printf("\n")
	}
}

func (p *Printer) Results(results []BenchResult) {
	for _, r := range results {
		p.Result(r)
	}
}
