// Package logging builds the zap loggers used by the CLI and the build pipeline.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidFormat indicates an unsupported encoder name.
var ErrInvalidFormat = errors.New("invalid log format")

// Supported encoder names.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options selects level, encoding and destination.
type Options struct {
	Level  string // debug, info, warn, error (default info)
	Format string // console or json (default console)
	Output io.Writer
}

// New builds a logger writing to opts.Output.
// A nil Output yields a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.Output == nil {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = lvl
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		encoder = zapcore.NewConsoleEncoder(cfg)
	case FormatJSON:
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(opts.Output)), level)
	return zap.New(core), nil
}

// LevelFor maps CLI verbosity flags onto a level name, letting explicit
// flags override the configured level.
func LevelFor(configured string, verbose, quiet bool) string {
	switch {
	case quiet:
		return "error"
	case verbose:
		return "debug"
	case configured != "":
		return configured
	default:
		return "info"
	}
}
