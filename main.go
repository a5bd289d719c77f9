// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/Qitmeer/qitmeer-clbench/common"
	"github.com/Qitmeer/qitmeer-clbench/core"
	"github.com/Qitmeer/qitmeer-clbench/stats_server"
	flags "github.com/jessevdk/go-flags"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	cfg, _, err := common.LoadConfig(os.Args[1:])
	if err != nil {
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		log.Fatal("Config error,please check it.【", err, "】")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		common.ProbeLoger.Info("Got Control+C, exiting...")
		cancel()
	}()
	if err = run(ctx, cfg); err != nil {
		common.ProbeLoger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.GlobalConfig) error {
	colored := !cfg.OptionConfig.NoColor && isatty.IsTerminal(os.Stdout.Fd())
	printer := core.NewPrinter(colorable.NewColorableStdout(), colored)
	printer.SetCompatLabels(cfg.OptionConfig.CompatLabels)
	output := cfg.OptionConfig.Output
	dc := cfg.DeviceConfig

	var inv *core.Inventory
	if dc.ListDevices || dc.DetailDevices || cfg.OptionConfig.StatsServer != "" {
		listType, err := common.ParseDeviceType(dc.DeviceType)
		if err != nil {
			return err
		}
		if inv, err = core.CollectInventory(listType); err != nil {
			return err
		}
	}

	var sink core.ResultSink
	var srv *stats_server.Server
	var serveErr <-chan error
	if addr := cfg.OptionConfig.StatsServer; addr != "" {
		srv = stats_server.NewServer(ctx, inv)
		sink = srv
		ln, err := srv.Listen(addr)
		if err != nil {
			return err
		}
		errc := make(chan error, 1)
		go func() {
			errc <- srv.Serve(ctx, ln)
		}()
		serveErr = errc
	}

	if dc.ListDevices {
		if err := core.WriteInventory(printer, output, inv, false); err != nil {
			return err
		}
	}
	if dc.DetailDevices {
		if err := core.WriteInventory(printer, output, inv, true); err != nil {
			return err
		}
	}
	if dc.Bench {
		results, err := bench(ctx, cfg, sink)
		if results != nil {
			if werr := core.WriteResults(printer, output, results); werr != nil {
				return werr
			}
		}
		if err != nil && err != context.Canceled {
			return err
		}
	}
	if srv != nil {
		return waitServing(ctx, cfg.OptionConfig.StatsServer, serveErr)
	}
	return nil
}

// waitServing keeps the stats server up until Control+C. A server that stops
// on its own is an error.
func waitServing(ctx context.Context, addr string, serveErr <-chan error) error {
	if ctx.Err() == nil {
		common.ProbeLoger.Infof("stats server keeps serving on %s, Control+C to exit", addr)
	}
	select {
	case <-ctx.Done():
		return nil
	case err := <-serveErr:
		if err == nil || err == http.ErrServerClosed {
			err = fmt.Errorf("stats server on %s stopped", addr)
		}
		return err
	}
}

func bench(ctx context.Context, cfg *common.GlobalConfig, sink core.ResultSink) ([]core.BenchResult, error) {
	bc := cfg.BenchConfig
	plan, err := core.PlanFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	benchType, err := common.ParseDeviceType(bc.DeviceType)
	if err != nil {
		return nil, err
	}
	clDevice, err := common.SelectDevice(bc.Platform, bc.Device, benchType)
	if err != nil {
		return nil, err
	}
	info := core.QueryDevice(bc.Device, clDevice)
	device := core.NewDevice(clDevice)
	if err = device.InitDevice(); err != nil {
		return nil, err
	}
	defer device.Release()
	common.ProbeLoger.Debugf("==============Vector add on %s: %d case(s) x %d run(s)==============", info.Name, len(plan.Cases), bc.Repeat)
	runner := &core.Runner{
		Launcher: device,
		Device:   info.Name,
		Limits:   core.LimitsOf(info),
		Repeat:   bc.Repeat,
		Verify:   bc.Verify,
		Sink:     sink,
	}
	return runner.Run(ctx, plan)
}
