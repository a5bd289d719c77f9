// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	flags "github.com/jessevdk/go-flags"
)

const (
	OUTPUT_TEXT = "text"
	OUTPUT_JSON = "json"
	OUTPUT_YAML = "yaml"
)

var (
	defaultDeviceType      = "all"
	defaultBenchDeviceType = "gpu"
	defaultKernel          = "scalar"
	defaultGlobalSize      = 9600000
	defaultRepeat          = 1
	defaultLogLevel        = "info"
	defaultOutput          = OUTPUT_TEXT
	maxRepeat              = 1000
)

type DeviceConfig struct {
	ListDevices   bool   `short:"l" long:"listdevices" description:"List platforms and devices."`
	DetailDevices bool   `short:"d" long:"detail" description:"Print every queried capability of every device."`
	Bench         bool   `short:"b" long:"bench" description:"Run the vector add work-group benchmark."`
	DeviceType    string `short:"t" long:"device_type" description:"all|cpu|gpu|accelerator|default" default-mask:"all"`
}

type FileConfig struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	LogFile    string `long:"logfile" description:"Write log file"`
}

type BenchConfig struct {
	Platform   int    `long:"platform" description:"Platform index of the benchmark device" default-mask:"0"`
	Device     int    `long:"device" description:"Device index inside the platform" default-mask:"0"`
	DeviceType string `long:"bench_device_type" description:"all|cpu|gpu|accelerator|default" default-mask:"gpu"`
	Plan       string `long:"plan" description:"TOML plan file with [[case]] tables"`
	Kernel     string `long:"kernel" description:"scalar|vectorized, used with --local_sizes" default-mask:"scalar"`
	GlobalSize int    `long:"global_size" description:"Global work size, used with --local_sizes" default-mask:"9600000"`
	LocalSizes string `long:"local_sizes" description:"Comma separated local work sizes. examples:64,128,256"`
	Repeat     int    `long:"repeat" description:"Launches per case" default-mask:"1"`
	Verify     bool   `long:"verify" description:"Check that C equals A + B after every launch"`
}

type OptionalConfig struct {
	LogLevel     string `long:"log_level" description:"info|debug|error|warn|trace" default-mask:"info"`
	Output       string `short:"o" long:"output" description:"text|json|yaml" default-mask:"text"`
	NoColor      bool   `long:"nocolor" description:"Disable coloured section headings"`
	CompatLabels bool   `long:"compat_labels" description:"Print the device type flags as a second \"Device Type:\" line"`
	StatsServer  string `long:"stats_server" description:"Serve devices and results over http/websocket. examples:127.0.0.1:1235"`
}

type GlobalConfig struct {
	DeviceConfig   DeviceConfig
	BenchConfig    BenchConfig
	OptionConfig   OptionalConfig
	LogConfig      FileConfig
	LocalWorkSizes []int
}

// cleanAndExpandPath expands environement variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

func newParser(appName string, cfg *GlobalConfig) (*flags.Parser, error) {
	parser := flags.NewNamedParser(appName, flags.HelpFlag)
	groups := []struct {
		name string
		desc string
		data interface{}
	}{
		{"Debug Command", "The device listing and benchmark commands", &cfg.DeviceConfig},
		{"The Config File Options", "The Config File Options", &cfg.LogConfig},
		{"Bench Options", "The work-group benchmark options", &cfg.BenchConfig},
		{"The Optional Config Option", "The Optional Config Option", &cfg.OptionConfig},
	}
	for _, g := range groups {
		if _, err := parser.AddGroup(g.name, g.desc, g.data); err != nil {
			return nil, err
		}
	}
	return parser, nil
}

// LoadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
// 	1) Start with a default config with sane settings
// 	2) Pre-parse the command line to check for an alternative config file
// 	3) Load configuration file overwriting defaults with any specified options
// 	4) Parse CLI options and overwrite/add any specified options
//
// Command line options always take precedence. A help request is returned as a
// *flags.Error of type flags.ErrHelp carrying the usage text.
func LoadConfig(args []string) (*GlobalConfig, []string, error) {
	cfg := &GlobalConfig{
		DeviceConfig: DeviceConfig{
			DeviceType: defaultDeviceType,
		},
		BenchConfig: BenchConfig{
			DeviceType: defaultBenchDeviceType,
			Kernel:     defaultKernel,
			GlobalSize: defaultGlobalSize,
			Repeat:     defaultRepeat,
		},
		OptionConfig: OptionalConfig{
			LogLevel: defaultLogLevel,
			Output:   defaultOutput,
		},
	}
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parser, err := newParser(appName, cfg)
	if err != nil {
		return nil, nil, err
	}
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogConfig.ConfigFile != "" {
		cfgFile := cleanAndExpandPath(cfg.LogConfig.ConfigFile)
		if err = flags.NewIniParser(parser).ParseFile(cfgFile); err != nil {
			return nil, nil, fmt.Errorf("config file %s: %w", cfgFile, err)
		}
		// command line wins over the file
		if remainingArgs, err = parser.ParseArgs(args); err != nil {
			return nil, nil, err
		}
	}
	if err = cfg.validate(); err != nil {
		return nil, nil, err
	}
	logLevel := cfg.OptionConfig.LogLevel
	if cfg.OptionConfig.Output != OUTPUT_TEXT && logLevel == defaultLogLevel {
		// keep json/yaml on stdout parseable
		logLevel = "warn"
	}
	if err = InitLogger(logLevel, cleanAndExpandPath(cfg.LogConfig.LogFile)); err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, remainingArgs, nil
}

func (cfg *GlobalConfig) validate() error {
	dc := &cfg.DeviceConfig
	if !dc.ListDevices && !dc.DetailDevices && !dc.Bench {
		dc.ListDevices = true
	}
	if _, err := ParseDeviceType(dc.DeviceType); err != nil {
		return err
	}
	bc := &cfg.BenchConfig
	if _, err := ParseDeviceType(bc.DeviceType); err != nil {
		return err
	}
	if bc.Platform < 0 || bc.Device < 0 {
		return fmt.Errorf("platform and device indexes must not be negative (got %d/%d)", bc.Platform, bc.Device)
	}
	if bc.Repeat < 1 || bc.Repeat > maxRepeat {
		bc.Repeat = defaultRepeat
	}
	if bc.GlobalSize <= 0 {
		return fmt.Errorf("global work size must be positive (got %d)", bc.GlobalSize)
	}
	if bc.LocalSizes != "" {
		sizes, err := ParseLocalSizes(bc.LocalSizes)
		if err != nil {
			return err
		}
		cfg.LocalWorkSizes = sizes
	}
	bc.Plan = cleanAndExpandPath(bc.Plan)
	switch cfg.OptionConfig.Output {
	case OUTPUT_TEXT, OUTPUT_JSON, OUTPUT_YAML:
	default:
		return fmt.Errorf("unknown output format %q (text|json|yaml)", cfg.OptionConfig.Output)
	}
	return nil
}

// ParseLocalSizes parses a comma separated list of positive work-group sizes.
func ParseLocalSizes(s string) ([]int, error) {
	sizes := make([]int, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("local work size %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("local work size must be positive (got %d)", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no local work size in %q", s)
	}
	return sizes, nil
}
