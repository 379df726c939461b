// Package common supplies the logging, configuration and service
// lifecycle facilities shared by the visit counter packages.
package common

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

// ILogger defines the leveled logging operations used across the repo.
type ILogger interface {
	Debugf(format string, params ...interface{})

	Infof(format string, params ...interface{})

	Warnf(format string, params ...interface{})

	Errorf(format string, params ...interface{})

	// Sync flush the buffered log entries
	Sync()
}

// LogLevel is the log level name
type LogLevel string

// Log levels
const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func (p LogLevel) zapLevel() (level zapcore.Level, ok bool) {
	switch p {
	case Debug:
		return zapcore.DebugLevel, true
	case Info:
		return zapcore.InfoLevel, true
	case Warn:
		return zapcore.WarnLevel, true
	case Error:
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

var logger ILogger = NewZapLogger(&LogConfig{})
var loggerMutex sync.Mutex

// Debugf log with the default logger
func Debugf(format string, params ...interface{}) {
	logger.Debugf(format, params...)
}

// Infof log with the default logger
func Infof(format string, params ...interface{}) {
	logger.Infof(format, params...)
}

// Warnf log with the default logger
func Warnf(format string, params ...interface{}) {
	logger.Warnf(format, params...)
}

// Errorf log with the default logger
func Errorf(format string, params ...interface{}) {
	logger.Errorf(format, params...)
}

// SyncLogger flush the default logger
func SyncLogger() {
	logger.Sync()
}

// initLogger replace the default logger with one built from logConfig
func initLogger(logConfig *LogConfig) error {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	old := logger
	logger = NewZapLogger(logConfig)
	old.Sync()
	return nil
}
