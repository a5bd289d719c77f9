package core

import (
	"github.com/mailru/easyjson/jwriter"
)

// easyjson marshalers for the report types. Only encoding is needed.

func writeInts(out *jwriter.Writer, v []int) {
	out.RawByte('[')
	for i, n := range v {
		if i > 0 {
			out.RawByte(',')
		}
		out.Int(n)
	}
	out.RawByte(']')
}

func writeFloats(out *jwriter.Writer, v []float64) {
	out.RawByte('[')
	for i, f := range v {
		if i > 0 {
			out.RawByte(',')
		}
		out.Float64(f)
	}
	out.RawByte(']')
}

func writeStrings(out *jwriter.Writer, v []string) {
	out.RawByte('[')
	for i, s := range v {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(s)
	}
	out.RawByte(']')
}

func (v VectorWidths) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"char":`)
	out.Int(v.Char)
	out.RawString(`,"short":`)
	out.Int(v.Short)
	out.RawString(`,"int":`)
	out.Int(v.Int)
	out.RawString(`,"long":`)
	out.Int(v.Long)
	out.RawString(`,"float":`)
	out.Int(v.Float)
	out.RawString(`,"double":`)
	out.Int(v.Double)
	out.RawByte('}')
}

func (d DeviceInfo) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"index":`)
	out.Int(d.Index)
	out.RawString(`,"name":`)
	out.String(d.Name)
	out.RawString(`,"vendor":`)
	out.String(d.Vendor)
	out.RawString(`,"version":`)
	out.String(d.Version)
	out.RawString(`,"driver_version":`)
	out.String(d.DriverVersion)
	out.RawString(`,"type":`)
	writeStrings(out, DeviceTypeNames(d.Type))
	out.RawString(`,"available":`)
	out.Bool(d.Available)

	out.RawString(`,"max_compute_units":`)
	out.Int(d.MaxComputeUnits)
	out.RawString(`,"max_clock_frequency_mhz":`)
	out.Int(d.MaxClockFrequency)
	out.RawString(`,"max_work_group_size":`)
	out.Int(d.MaxWorkGroupSize)
	out.RawString(`,"max_work_item_dimensions":`)
	out.Int(d.MaxWorkItemDimensions)
	out.RawString(`,"max_work_item_sizes":`)
	writeInts(out, d.MaxWorkItemSizes)

	out.RawString(`,"global_mem_size":`)
	out.Int64(d.GlobalMemSize)
	out.RawString(`,"max_mem_alloc_size":`)
	out.Int64(d.MaxMemAllocSize)
	out.RawString(`,"local_mem_size":`)
	out.Int64(d.LocalMemSize)
	out.RawString(`,"max_parameter_size":`)
	out.Int64(d.MaxParameterSize)
	out.RawString(`,"global_mem_cache_size":`)
	out.Int64(d.GlobalMemCacheSize)
	out.RawString(`,"global_mem_cacheline_size":`)
	out.Int64(d.GlobalMemCachelineSize)
	out.RawString(`,"error_correction_support":`)
	out.Bool(d.ErrorCorrectionSupport)

	out.RawString(`,"profiling_timer_resolution_ns":`)
	out.Int(d.ProfilingTimerResolution)
	out.RawString(`,"endian_little":`)
	out.Bool(d.EndianLittle)
	out.RawString(`,"compiler_available":`)
	out.Bool(d.CompilerAvailable)
	out.RawString(`,"exec_kernel":`)
	out.Bool(d.ExecKernel)
	out.RawString(`,"exec_native_kernel":`)
	out.Bool(d.ExecNativeKernel)
	out.RawString(`,"extensions":`)
	out.String(d.Extensions)
	out.RawString(`,"preferred_vector_widths":`)
	d.VectorWidths.MarshalEasyJSON(out)
	out.RawByte('}')
}

func (p PlatformInfo) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"index":`)
	out.Int(p.Index)
	out.RawString(`,"name":`)
	out.String(p.Name)
	out.RawString(`,"vendor":`)
	out.String(p.Vendor)
	out.RawString(`,"version":`)
	out.String(p.Version)
	out.RawString(`,"profile":`)
	out.String(p.Profile)
	out.RawString(`,"extensions":`)
	out.String(p.Extensions)
	out.RawString(`,"devices":[`)
	for i, d := range p.Devices {
		if i > 0 {
			out.RawByte(',')
		}
		d.MarshalEasyJSON(out)
	}
	out.RawString(`]}`)
}

func (inv *Inventory) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"platforms":[`)
	for i, p := range inv.Platforms {
		if i > 0 {
			out.RawByte(',')
		}
		p.MarshalEasyJSON(out)
	}
	out.RawString(`]}`)
}

func (c BenchCase) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"description":`)
	out.String(c.Description)
	out.RawString(`,"kernel":`)
	out.String(c.Kernel)
	out.RawString(`,"global_work_size":`)
	out.Int(c.GlobalWorkSize)
	out.RawString(`,"local_work_size":`)
	out.Int(c.LocalWorkSize)
	out.RawByte('}')
}

func (r BenchResult) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"run_id":`)
	out.String(r.RunID)
	out.RawString(`,"device":`)
	out.String(r.Device)
	out.RawString(`,"case":`)
	r.Case.MarshalEasyJSON(out)
	out.RawString(`,"runs_ms":`)
	writeFloats(out, r.RunsMs)
	out.RawString(`,"best_ms":`)
	out.Float64(r.BestMs)
	out.RawString(`,"mean_ms":`)
	out.Float64(r.MeanMs)
	out.RawString(`,"verified":`)
	out.Bool(r.Verified)
	out.RawString(`,"skipped":`)
	out.Bool(r.Skipped)
	if r.Error != "" {
		out.RawString(`,"error":`)
		out.String(r.Error)
	}
	out.RawByte('}')
}

// BenchResults is a result list that marshals as a JSON array.
type BenchResults []BenchResult

func (rs BenchResults) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawByte('[')
	for i, r := range rs {
		if i > 0 {
			out.RawByte(',')
		}
		r.MarshalEasyJSON(out)
	}
	out.RawByte(']')
}
