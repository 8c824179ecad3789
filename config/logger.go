package config

import (
	"sync"

	"github.com/MonkyMars/gecho"
)

var (
	logger     *gecho.Logger
	loggerOnce sync.Once
)

// InitializeLogger builds the process-wide logger at the configured level
func InitializeLogger() *gecho.Logger {
	loggerOnce.Do(func() {
		logger = NewLogger(true)
	})
	return logger
}

func GetLogger() *gecho.Logger {
	return InitializeLogger()
}

// NewLogger returns a logger at the configured level; access logs skip the caller
func NewLogger(showCaller bool) *gecho.Logger {
	logLevel := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(logLevel)))
}
