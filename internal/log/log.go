// Package log owns the process-wide zap logger. Long-lived components are
// handed a *zap.SugaredLogger from GetSugaredLogger; the package-level
// helpers exist for the CLI entry point.
package log

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	mu   sync.Mutex
	base *zap.Logger
)

// Init builds the process logger. Debug mode uses zap's development
// encoder at debug level; otherwise output is production JSON at info.
func Init(debug bool) error {
	newLogger := zap.NewProduction
	if debug {
		newLogger = zap.NewDevelopment
	}

	l, err := newLogger()
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	mu.Lock()
	base = l
	mu.Unlock()
	return nil
}

func current() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		// Init was never called
		base, _ = zap.NewProduction()
	}
	return base
}

// GetSugaredLogger returns a sugared logger for injection into components
func GetSugaredLogger() *zap.SugaredLogger {
	return current().Sugar()
}

// Infof logs at info level from the CLI entry point
func Infof(template string, args ...interface{}) {
	current().WithOptions(zap.AddCallerSkip(1)).Sugar().Infof(template, args...)
}

// Errorf logs at error level from the CLI entry point
func Errorf(template string, args ...interface{}) {
	current().WithOptions(zap.AddCallerSkip(1)).Sugar().Errorf(template, args...)
}

// Sync flushes any buffered log entries
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
	}
}
