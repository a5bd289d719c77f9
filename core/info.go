// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package core

import (
	"strings"

	"github.com/Qitmeer/go-opencl/cl"
	"github.com/Qitmeer/qitmeer-clbench/common"
)

type PlatformInfo struct {
	Index      int          `yaml:"index"`
	Name       string       `yaml:"name"`
	Vendor     string       `yaml:"vendor"`
	Version    string       `yaml:"version"`
	Profile    string       `yaml:"profile"`
	Extensions string       `yaml:"extensions"`
	Devices    []DeviceInfo `yaml:"devices"`
}

type DeviceInfo struct {
	Index int `yaml:"index"`

	// identification
	Name          string        `yaml:"name"`
	Vendor        string        `yaml:"vendor"`
	Version       string        `yaml:"version"`
	DriverVersion string        `yaml:"driver_version"`
	Type          cl.DeviceType `yaml:"-"`
	Available     bool          `yaml:"available"`

	// compute resources
	MaxComputeUnits       int   `yaml:"max_compute_units"`
	MaxClockFrequency     int   `yaml:"max_clock_frequency_mhz"`
	MaxWorkGroupSize      int   `yaml:"max_work_group_size"`
	MaxWorkItemDimensions int   `yaml:"max_work_item_dimensions"`
	MaxWorkItemSizes      []int `yaml:"max_work_item_sizes"`

	// memory
	GlobalMemSize          int64 `yaml:"global_mem_size"`
	MaxMemAllocSize        int64 `yaml:"max_mem_alloc_size"`
	LocalMemSize           int64 `yaml:"local_mem_size"`
	MaxParameterSize       int64 `yaml:"max_parameter_size"`
	GlobalMemCacheSize     int64 `yaml:"global_mem_cache_size"`
	GlobalMemCachelineSize int64 `yaml:"global_mem_cacheline_size"`
	ErrorCorrectionSupport bool  `yaml:"error_correction_support"`

	// performance and capabilities
	ProfilingTimerResolution int    `yaml:"profiling_timer_resolution_ns"`
	EndianLittle             bool   `yaml:"endian_little"`
	CompilerAvailable        bool   `yaml:"compiler_available"`
	ExecKernel               bool   `yaml:"exec_kernel"`
	ExecNativeKernel         bool   `yaml:"exec_native_kernel"`
	Extensions               string `yaml:"extensions"`

	VectorWidths VectorWidths `yaml:"preferred_vector_widths"`
}

type VectorWidths struct {
	Char   int `yaml:"char"`
	Short  int `yaml:"short"`
	Int    int `yaml:"int"`
	Long   int `yaml:"long"`
	Float  int `yaml:"float"`
	Double int `yaml:"double"`
}

type Inventory struct {
	Platforms []PlatformInfo `yaml:"platforms"`
}

var deviceTypeFlags = []struct {
	t    cl.DeviceType
	name string
}{
	{cl.DeviceTypeCPU, "CPU"},
	{cl.DeviceTypeGPU, "GPU"},
	{cl.DeviceTypeAccelerator, "Accelerator"},
	{cl.DeviceTypeDefault, "Default"},
}

// DeviceTypeNames lists the type bits set on a device, in CPU, GPU,
// Accelerator, Default order.
func DeviceTypeNames(t cl.DeviceType) []string {
	names := make([]string, 0, len(deviceTypeFlags))
	for _, f := range deviceTypeFlags {
		if t&f.t != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// TypeNames is DeviceTypeNames joined by spaces.
func (d DeviceInfo) TypeNames() string {
	return strings.Join(DeviceTypeNames(d.Type), " ")
}

// MaxWorkItemSize returns the limit of the first work-item dimension, 0 when
// the device reported none.
func (d DeviceInfo) MaxWorkItemSize() int {
	if len(d.MaxWorkItemSizes) == 0 {
		return 0
	}
	return d.MaxWorkItemSizes[0]
}

func QueryPlatform(index int, p *cl.Platform) PlatformInfo {
	return PlatformInfo{
		Index:      index,
		Name:       p.Name(),
		Vendor:     p.Vendor(),
		Version:    p.Version(),
		Profile:    p.Profile(),
		Extensions: p.Extensions(),
		Devices:    []DeviceInfo{},
	}
}

func QueryDevice(index int, d *cl.Device) DeviceInfo {
	caps := d.ExecutionCapabilities()
	info := DeviceInfo{
		Index:         index,
		Name:          d.Name(),
		Vendor:        d.Vendor(),
		Version:       d.Version(),
		DriverVersion: d.DriverVersion(),
		Type:          d.Type(),
		Available:     d.Available(),

		MaxComputeUnits:       int(d.MaxComputeUnits()),
		MaxClockFrequency:     int(d.MaxClockFrequency()),
		MaxWorkGroupSize:      int(d.MaxWorkGroupSize()),
		MaxWorkItemDimensions: int(d.MaxWorkItemDimensions()),
		MaxWorkItemSizes:      d.MaxWorkItemSizes(),

		GlobalMemSize:          int64(d.GlobalMemSize()),
		MaxMemAllocSize:        int64(d.MaxMemAllocSize()),
		LocalMemSize:           int64(d.LocalMemSize()),
		MaxParameterSize:       int64(d.MaxParameterSize()),
		GlobalMemCachelineSize: int64(d.GlobalMemCachelineSize()),
		ErrorCorrectionSupport: d.ErrorCorrectionSupport(),

		ProfilingTimerResolution: int(d.ProfilingTimerResolution()),
		EndianLittle:             d.EndianLittle(),
		CompilerAvailable:        d.CompilerAvailable(),
		ExecKernel:               caps&cl.ExecCapabilityKernel != 0,
		ExecNativeKernel:         caps&cl.ExecCapabilityNativeKernel != 0,
		Extensions:               d.Extensions(),
	}
	if err := queryExtra(newRawDevice(d), &info); err != nil {
		common.ProbeLoger.Warningf("device #%d %s: %v", index, info.Name, err)
	}
	return info
}

// clGetDeviceInfo parameters without a go-opencl getter.
const (
	clDevicePreferredVectorWidthChar   = 0x1006
	clDevicePreferredVectorWidthShort  = 0x1007
	clDevicePreferredVectorWidthInt    = 0x1008
	clDevicePreferredVectorWidthLong   = 0x1009
	clDevicePreferredVectorWidthFloat  = 0x100A
	clDevicePreferredVectorWidthDouble = 0x100B
	clDeviceGlobalMemCacheSize         = 0x101E
)

type deviceInfoReader interface {
	uintInfo(param uint32) (uint32, error)
	ulongInfo(param uint32) (uint64, error)
}

// queryExtra fills the global cache size and the preferred vector widths.
// A failed query leaves its field at 0 and the first error is returned.
func queryExtra(r deviceInfoReader, info *DeviceInfo) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cache, err := r.ulongInfo(clDeviceGlobalMemCacheSize)
	keep(err)
	if err == nil {
		info.GlobalMemCacheSize = int64(cache)
	}
	widths := []struct {
		param uint32
		field *int
	}{
		{clDevicePreferredVectorWidthChar, &info.VectorWidths.Char},
		{clDevicePreferredVectorWidthShort, &info.VectorWidths.Short},
		{clDevicePreferredVectorWidthInt, &info.VectorWidths.Int},
		{clDevicePreferredVectorWidthLong, &info.VectorWidths.Long},
		{clDevicePreferredVectorWidthFloat, &info.VectorWidths.Float},
		{clDevicePreferredVectorWidthDouble, &info.VectorWidths.Double},
	}
	for _, w := range widths {
		v, err := r.uintInfo(w.param)
		keep(err)
		if err == nil {
			*w.field = int(v)
		}
	}
	return firstErr
}

// CollectInventory walks every platform and the devices of type t under it.
// A platform whose device query fails is kept with no devices.
func CollectInventory(t cl.DeviceType) (*Inventory, error) {
	platforms, err := common.GetPlatforms()
	if err != nil {
		return nil, err
	}
	inv := &Inventory{Platforms: make([]PlatformInfo, 0, len(platforms))}
	for i, platform := range platforms {
		info := QueryPlatform(i, platform)
		devices, err := common.GetDevices(platform, t)
		if err != nil {
			common.ProbeLoger.Warningf("platform #%d %s skipped: %v", i, info.Name, err)
			inv.Platforms = append(inv.Platforms, info)
			continue
		}
		for j, device := range devices {
			info.Devices = append(info.Devices, QueryDevice(j, device))
		}
		inv.Platforms = append(inv.Platforms, info)
	}
	return inv, nil
}
