package common

import (
	"fmt"
	"strings"

	"github.com/Qitmeer/go-opencl/cl"
)

var deviceTypes = map[string]cl.DeviceType{
	"all":         cl.DeviceTypeAll,
	"cpu":         cl.DeviceTypeCPU,
	"gpu":         cl.DeviceTypeGPU,
	"accelerator": cl.DeviceTypeAccelerator,
	"default":     cl.DeviceTypeDefault,
}

func ParseDeviceType(name string) (cl.DeviceType, error) {
	t, ok := deviceTypes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown device type %q (all|cpu|gpu|accelerator|default)", name)
	}
	return t, nil
}

func GetPlatforms() ([]*cl.Platform, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		ProbeLoger.Errorf("Get OpenCL platforms error,please check the driver! error:%v", err)
		return nil, fmt.Errorf("get platforms: %w", err)
	}
	ProbeLoger.Debugf("Found %d platform(s)", len(platforms))
	return platforms, nil
}

// GetDevices lists the devices of one platform. A platform without a device of
// the requested type yields an empty list, not an error.
func GetDevices(platform *cl.Platform, t cl.DeviceType) ([]*cl.Device, error) {
	platformDevices, err := cl.GetDevices(platform, t)
	if err == cl.ErrDeviceNotFound {
		ProbeLoger.Debugf("platform %s has no %s device", platform.Name(), t)
		return []*cl.Device{}, nil
	}
	if err != nil {
		ProbeLoger.Errorf("Get Devices Error platform:%s error:%v", platform.Name(), err)
		return nil, fmt.Errorf("get devices of %s: %w", platform.Name(), err)
	}
	for i, device := range platformDevices {
		ProbeLoger.Debugf("Found Device platform:%s deviceID:%d deviceName:%s MaxWorkGroupSize:%d MaxMemAllocSize(MB):%.2f",
			platform.Name(), i, device.Name(), device.MaxWorkGroupSize(), float64(device.MaxMemAllocSize())/1024.00/1024.00)
	}
	return platformDevices, nil
}

// SelectDevice picks the benchmark device by platform and device index.
func SelectDevice(platformIdx, deviceIdx int, t cl.DeviceType) (*cl.Device, error) {
	platforms, err := GetPlatforms()
	if err != nil {
		return nil, err
	}
	if platformIdx < 0 || platformIdx >= len(platforms) {
		return nil, fmt.Errorf("platform #%d not found, %d platform(s) available", platformIdx, len(platforms))
	}
	platform := platforms[platformIdx]
	devices, err := GetDevices(platform, t)
	if err != nil {
		return nil, err
	}
	if deviceIdx < 0 || deviceIdx >= len(devices) {
		return nil, fmt.Errorf("device #%d (%s) not found on platform #%d %s, %d device(s) available",
			deviceIdx, t, platformIdx, platform.Name(), len(devices))
	}
	device := devices[deviceIdx]
	ProbeLoger.Infof("Selected platform #%d %s device #%d %s", platformIdx, platform.Name(), deviceIdx, device.Name())
	return device, nil
}
