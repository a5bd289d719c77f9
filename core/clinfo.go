// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package core

/*
#cgo darwin LDFLAGS: -framework OpenCL
#cgo linux LDFLAGS: -lOpenCL
#cgo windows LDFLAGS: -lOpenCL
#include <stddef.h>
#include <stdint.h>

typedef int32_t clb_int;
typedef uint32_t clb_uint;
typedef struct _cl_device_id *clb_device_id;

extern clb_int clGetDeviceInfo(clb_device_id device, clb_uint param_name,
	size_t param_value_size, void *param_value, size_t *param_value_size_ret);
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/Qitmeer/go-opencl/cl"
)

// rawDevice reads device properties go-opencl has no getter for.
type rawDevice struct {
	id C.clb_device_id
}

// newRawDevice takes the cl_device_id held by d. cl.Device wraps the id as
// its only field.
func newRawDevice(d *cl.Device) rawDevice {
	return rawDevice{id: *(*C.clb_device_id)(unsafe.Pointer(d))}
}

func (r rawDevice) query(param uint32, size uintptr, value unsafe.Pointer) error {
	if status := C.clGetDeviceInfo(r.id, C.clb_uint(param), C.size_t(size), value, nil); status != 0 {
		return fmt.Errorf("clGetDeviceInfo(0x%x): status %d", param, int32(status))
	}
	return nil
}

func (r rawDevice) uintInfo(param uint32) (uint32, error) {
	var v C.clb_uint
	err := r.query(param, unsafe.Sizeof(v), unsafe.Pointer(&v))
	return uint32(v), err
}

func (r rawDevice) ulongInfo(param uint32) (uint64, error) {
	var v C.uint64_t
	err := r.query(param, unsafe.Sizeof(v), unsafe.Pointer(&v))
	return uint64(v), err
}
