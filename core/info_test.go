package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapReader answers clGetDeviceInfo parameters from fixed maps.
type mapReader struct {
	uints  map[uint32]uint32
	ulongs map[uint32]uint64
}

func (m mapReader) uintInfo(param uint32) (uint32, error) {
	v, ok := m.uints[param]
	if !ok {
		return 0, errors.New("CL_INVALID_VALUE")
	}
	return v, nil
}

func (m mapReader) ulongInfo(param uint32) (uint64, error) {
	v, ok := m.ulongs[param]
	if !ok {
		return 0, errors.New("CL_INVALID_VALUE")
	}
	return v, nil
}

func TestQueryExtra(t *testing.T) {
	r := mapReader{
		uints: map[uint32]uint32{
			0x1006: 16, // CL_DEVICE_PREFERRED_VECTOR_WIDTH_CHAR
			0x1007: 8,
			0x1008: 4,
			0x1009: 2,
			0x100A: 4,
			0x100B: 1, // CL_DEVICE_PREFERRED_VECTOR_WIDTH_DOUBLE
		},
		ulongs: map[uint32]uint64{
			0x101E: 262144, // CL_DEVICE_GLOBAL_MEM_CACHE_SIZE
		},
	}
	var info DeviceInfo
	require.NoError(t, queryExtra(r, &info))
	assert.Equal(t, int64(262144), info.GlobalMemCacheSize)
	assert.Equal(t, VectorWidths{Char: 16, Short: 8, Int: 4, Long: 2, Float: 4, Double: 1}, info.VectorWidths)
}

func TestQueryExtraPartial(t *testing.T) {
	// devices without fp64 may reject the double width query
	r := mapReader{
		uints:  map[uint32]uint32{0x1006: 4, 0x1007: 2, 0x1008: 1, 0x1009: 1, 0x100A: 1},
		ulongs: map[uint32]uint64{},
	}
	info := DeviceInfo{Name: "kept"}
	err := queryExtra(r, &info)
	assert.Error(t, err)
	assert.Equal(t, "kept", info.Name)
	assert.Equal(t, int64(0), info.GlobalMemCacheSize)
	assert.Equal(t, VectorWidths{Char: 4, Short: 2, Int: 1, Long: 1, Float: 1}, info.VectorWidths)
}
