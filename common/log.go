// Copyright (c) 2019 The qitmeer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package common

import (
	go_logger "github.com/phachon/go-logger"
)

var ProbeLoger = go_logger.NewLogger()

// InitLogger replaces the default console adapter with one at the requested
// level and attaches a file adapter when logFile is set.
func InitLogger(level string, logFile string) error {
	logFormat := "[%timestamp_format%][%level_string%]%body%"
	if level == "trace" {
		logFormat = "[%timestamp_format%][%level_string%][%file%][%line%][%function%]%body%"
	}
	_ = ProbeLoger.Detach("console")
	consoleConfig := &go_logger.ConsoleConfig{
		Color:      false,
		JsonFormat: false,
		Format:     logFormat,
	}
	if err := ProbeLoger.Attach("console", ConvertLogLevel(level), consoleConfig); err != nil {
		return err
	}
	if logFile == "" {
		return nil
	}
	fileConfig := &go_logger.FileConfig{
		Filename: logFile,
		LevelFileName: map[int]string{
			ProbeLoger.LoggerLevel("debug"): logFile,
		},
		MaxSize:    1024 * 1024 * 1024,
		MaxLine:    10000000,
		DateSlice:  "d",
		JsonFormat: false,
		Format:     "",
	}
	return ProbeLoger.Attach("file", go_logger.LOGGER_LEVEL_DEBUG, fileConfig)
}

func ConvertLogLevel(level string) int {
	switch level {
	case "warn":
		return go_logger.LOGGER_LEVEL_WARNING
	case "info":
		return go_logger.LOGGER_LEVEL_INFO
	case "debug", "trace":
		return go_logger.LOGGER_LEVEL_DEBUG
	case "error":
		return go_logger.LOGGER_LEVEL_ERROR
	default:
		return go_logger.LOGGER_LEVEL_INFO
	}
}
