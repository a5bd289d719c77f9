/**
Qitmeer
james
*/
package core

import (
	"fmt"

	"github.com/Qitmeer/go-opencl/cl"
	"github.com/Qitmeer/qitmeer-clbench/common"
	"github.com/Qitmeer/qitmeer-clbench/kernel"
)

// Device owns the context and the profiling queue of the benchmark device.
// Program, kernel and buffers live for a single Launch.
type Device struct {
	DeviceName   string
	ClDevice     *cl.Device
	Context      *cl.Context
	CommandQueue *cl.CommandQueue
	IsValid      bool
}

func NewDevice(device *cl.Device) *Device {
	return &Device{
		DeviceName: device.Name(),
		ClDevice:   device,
	}
}

func (this *Device) InitDevice() error {
	var err error
	this.Context, err = cl.CreateContext([]*cl.Device{this.ClDevice})
	if err != nil {
		return fmt.Errorf("%s CreateContext: %w", this.DeviceName, err)
	}
	this.CommandQueue, err = this.Context.CreateCommandQueue(this.ClDevice, cl.CommandQueueProfilingEnable)
	if err != nil {
		this.Context.Release()
		this.Context = nil
		return fmt.Errorf("%s CreateCommandQueue: %w", this.DeviceName, err)
	}
	this.IsValid = true
	return nil
}

// launch holds the per-case objects so they can be released together.
type launch struct {
	program *cl.Program
	kernel  *cl.Kernel
	bufs    []*cl.MemObject
	event   *cl.Event
}

func (l *launch) release() {
	if l.event != nil {
		l.event.Release()
	}
	for i := len(l.bufs) - 1; i >= 0; i-- {
		l.bufs[i].Release()
	}
	if l.kernel != nil {
		l.kernel.Release()
	}
	if l.program != nil {
		l.program.Release()
	}
}

// Launch builds the case's kernel, uploads a and b, runs one NDRange, waits
// on its event and reads C back.
func (this *Device) Launch(c BenchCase, a, b []float32) (Timing, []float32, error) {
	if !this.IsValid {
		return Timing{}, nil, fmt.Errorf("%s is not initialized", this.DeviceName)
	}
	prog, err := kernel.Source(c.Kernel)
	if err != nil {
		return Timing{}, nil, err
	}
	n := c.GlobalWorkSize * prog.Width
	if len(a) != n || len(b) != n {
		return Timing{}, nil, fmt.Errorf("inputs hold %d/%d floats, want %d", len(a), len(b), n)
	}
	l := &launch{}
	defer l.release()

	if l.program, err = this.Context.CreateProgramWithSource([]string{prog.Source}); err != nil {
		return Timing{}, nil, fmt.Errorf("CreateProgramWithSource: %w", err)
	}
	if err = l.program.BuildProgram([]*cl.Device{this.ClDevice}, ""); err != nil {
		// the build error carries the compiler log
		return Timing{}, nil, fmt.Errorf("error in kernel %s: %w", prog.Entry, err)
	}
	if l.kernel, err = l.program.CreateKernel(prog.Entry); err != nil {
		return Timing{}, nil, fmt.Errorf("failed to create kernel %s: %w", prog.Entry, err)
	}
	size := n * 4
	flags := []cl.MemFlag{cl.MemReadOnly, cl.MemReadOnly, cl.MemWriteOnly}
	for i, flag := range flags {
		buf, err := this.Context.CreateEmptyBuffer(flag, size)
		if err != nil {
			return Timing{}, nil, fmt.Errorf("CreateEmptyBuffer #%d (%d bytes): %w", i, size, err)
		}
		l.bufs = append(l.bufs, buf)
	}
	for i, data := range [][]float32{a, b} {
		ev, err := this.CommandQueue.EnqueueWriteBufferFloat32(l.bufs[i], true, 0, data, nil)
		if err != nil {
			return Timing{}, nil, fmt.Errorf("EnqueueWriteBufferFloat32 #%d: %w", i, err)
		}
		ev.Release()
	}
	for i, buf := range l.bufs {
		if err = l.kernel.SetArgBuffer(i, buf); err != nil {
			return Timing{}, nil, fmt.Errorf("failed to set kernel argument %d: %w", i, err)
		}
	}
	if err = l.kernel.SetArgInt32(3, int32(c.GlobalWorkSize)); err != nil {
		return Timing{}, nil, fmt.Errorf("failed to set kernel argument 3: %w", err)
	}

	l.event, err = this.CommandQueue.EnqueueNDRangeKernel(l.kernel, []int{0}, []int{c.GlobalWorkSize}, []int{c.LocalWorkSize}, nil)
	if err != nil {
		return Timing{}, nil, fmt.Errorf("failed to enqueue NDRange kernel: %w", err)
	}
	if err = cl.WaitForEvents([]*cl.Event{l.event}); err != nil {
		return Timing{}, nil, fmt.Errorf("failed to wait for event completion: %w", err)
	}
	var t Timing
	if t.Start, err = l.event.GetEventProfilingInfo(cl.ProfilingInfoCommandStart); err != nil {
		return Timing{}, nil, fmt.Errorf("profiling start: %w", err)
	}
	if t.End, err = l.event.GetEventProfilingInfo(cl.ProfilingInfoCommandEnd); err != nil {
		return Timing{}, nil, fmt.Errorf("profiling end: %w", err)
	}

	out := make([]float32, n)
	ev, err := this.CommandQueue.EnqueueReadBufferFloat32(l.bufs[2], true, 0, out, nil)
	if err != nil {
		return Timing{}, nil, fmt.Errorf("EnqueueReadBufferFloat32: %w", err)
	}
	ev.Release()
	common.ProbeLoger.Debugf("- Device:%s - %s - Global item size:%d - Local item size:%d - %f ms",
		this.DeviceName, prog.Entry, c.GlobalWorkSize, c.LocalWorkSize, t.Millis())
	return t, out, nil
}

func (this *Device) Release() {
	if this.CommandQueue != nil {
		this.CommandQueue.Release()
		this.CommandQueue = nil
	}
	if this.Context != nil {
		this.Context.Release()
		this.Context = nil
	}
	this.IsValid = false
}
