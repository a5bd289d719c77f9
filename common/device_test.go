package common

import (
	"testing"

	"github.com/Qitmeer/go-opencl/cl"
	"github.com/stretchr/testify/assert"
)

func TestParseDeviceType(t *testing.T) {
	cases := map[string]cl.DeviceType{
		"all":         cl.DeviceTypeAll,
		"GPU":         cl.DeviceTypeGPU,
		" cpu ":       cl.DeviceTypeCPU,
		"accelerator": cl.DeviceTypeAccelerator,
		"default":     cl.DeviceTypeDefault,
	}
	for name, want := range cases {
		got, err := ParseDeviceType(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseDeviceType("fpga")
	assert.Error(t, err)
}
