// Package logging builds the process logger: a zerolog.Logger over an optional
// coloured console writer and an optional plain-text log file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaxSize is the size past which the previous log file is rotated to .old
const DefaultMaxSize = 10 * 1024 * 1024

// Config controls where log lines go
type Config struct {
	Level string `mapstructure:"level"`
	// File is the log file path; empty disables file output
	File string `mapstructure:"file"`
	// Console enables coloured output on the console writer
	Console bool  `mapstructure:"console"`
	MaxSize int64 `mapstructure:"maxSize"`
}

func DefaultConfig() Config {
	return Config{Level: "info", Console: true, MaxSize: DefaultMaxSize}
}

// ParseLevel maps a level name to zerolog, falling back to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds a logger writing to console and/or cfg.File
// The returned closer releases the log file and is never nil
// With no console and no file the logger discards everything
func Setup(cfg Config, console io.Writer) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var writers []io.Writer
	if cfg.Console && console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		})
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := openLogFile(cfg.File, cfg.MaxSize)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		closer = f
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	level := ParseLevel(cfg.Level)
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	logger.Debug().Str("loglevel", level.String()).Msg("Logging set up")
	return logger, closer, nil
}

// openLogFile creates the directory, rotates an oversized previous file to
// path.old and opens path for appending
func openLogFile(path string, maxSize int64) (*os.File, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if info, err := os.Stat(path); err == nil && info.Size() > maxSize {
		if err := os.Rename(path, path+".old"); err != nil {
			return nil, fmt.Errorf("rotate log file: %w", err)
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
