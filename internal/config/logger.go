package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName names the logger and the default log file.
const AppName = "tale"

// Prepare returns the program logger and a function closing its file. With
// level "none" the logger discards everything.
func (conf *LoggingConfig) Prepare() (*zap.Logger, func() error, error) {
	var level zapcore.Level
	switch conf.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "normal":
		level = zapcore.InfoLevel
	default:
		return zap.NewNop(), func() error { return nil }, nil
	}

	f, err := os.OpenFile(conf.Destination, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to access log destination (%s): %w", conf.Destination, err)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(f), zap.NewAtomicLevelAt(level))

	log := zap.New(core, zap.AddCaller()).Named(AppName)
	closer := func() error {
		return multierr.Combine(log.Sync(), f.Close())
	}
	return log, closer, nil
}
