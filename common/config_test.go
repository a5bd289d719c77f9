package common

import (
	"os"
	"path/filepath"
	"testing"

	flags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, rest, err := LoadConfig([]string{})
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, cfg.DeviceConfig.ListDevices, "listing is the default command")
	assert.Equal(t, "all", cfg.DeviceConfig.DeviceType)
	assert.Equal(t, "gpu", cfg.BenchConfig.DeviceType)
	assert.Equal(t, 9600000, cfg.BenchConfig.GlobalSize)
	assert.Equal(t, 1, cfg.BenchConfig.Repeat)
	assert.Equal(t, OUTPUT_TEXT, cfg.OptionConfig.Output)
	assert.Nil(t, cfg.LocalWorkSizes)
}

func TestLoadConfigBench(t *testing.T) {
	cfg, _, err := LoadConfig([]string{"-b", "--kernel", "vectorized", "--global_size", "1024",
		"--local_sizes", "32, 64", "--repeat", "3", "--verify", "-o", "json"})
	require.NoError(t, err)
	assert.True(t, cfg.DeviceConfig.Bench)
	assert.False(t, cfg.DeviceConfig.ListDevices)
	assert.Equal(t, "vectorized", cfg.BenchConfig.Kernel)
	assert.Equal(t, 1024, cfg.BenchConfig.GlobalSize)
	assert.Equal(t, []int{32, 64}, cfg.LocalWorkSizes)
	assert.Equal(t, 3, cfg.BenchConfig.Repeat)
	assert.True(t, cfg.BenchConfig.Verify)
	assert.Equal(t, OUTPUT_JSON, cfg.OptionConfig.Output)
}

func TestLoadConfigCompatLabels(t *testing.T) {
	cfg, _, err := LoadConfig([]string{"-l"})
	require.NoError(t, err)
	assert.False(t, cfg.OptionConfig.CompatLabels)

	cfg, _, err = LoadConfig([]string{"-l", "--compat_labels"})
	require.NoError(t, err)
	assert.True(t, cfg.OptionConfig.CompatLabels)
}

func TestLoadConfigRepeatOutOfRange(t *testing.T) {
	cfg, _, err := LoadConfig([]string{"-b", "--repeat", "0"})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.BenchConfig.Repeat)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := [][]string{
		{"-t", "fpga"},
		{"--bench_device_type", "tpu"},
		{"-o", "xml"},
		{"--local_sizes", "64,abc"},
		{"--local_sizes", "0"},
		{"--global_size", "-1"},
		{"--platform", "-1"},
		{"--no_such_flag"},
	}
	for _, args := range cases {
		_, _, err := LoadConfig(args)
		assert.Error(t, err, "args %v", args)
	}
}

func TestLoadConfigHelp(t *testing.T) {
	_, _, err := LoadConfig([]string{"-h"})
	require.Error(t, err)
	ferr, ok := err.(*flags.Error)
	require.True(t, ok)
	assert.Equal(t, flags.ErrHelp, ferr.Type)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clbench.conf")
	ini := "[Bench Options]\nrepeat = 5\nkernel = vectorized\n"
	require.NoError(t, os.WriteFile(path, []byte(ini), 0600))

	cfg, _, err := LoadConfig([]string{"-C", path})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.BenchConfig.Repeat)
	assert.Equal(t, "vectorized", cfg.BenchConfig.Kernel)

	cfg, _, err = LoadConfig([]string{"-C", path, "--repeat", "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.BenchConfig.Repeat)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, _, err := LoadConfig([]string{"-C", filepath.Join(t.TempDir(), "missing.conf")})
	assert.Error(t, err)
}

func TestParseLocalSizes(t *testing.T) {
	sizes, err := ParseLocalSizes("160,256,")
	require.NoError(t, err)
	assert.Equal(t, []int{160, 256}, sizes)

	_, err = ParseLocalSizes(" , ")
	assert.Error(t, err)
}
