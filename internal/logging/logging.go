// Package logging provides the structured JSON loggers used across the
// module: one zerolog logger per component, level and optional tee file from
// configuration.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu    sync.Mutex
	out   io.Writer = os.Stdout
	level           = zerolog.InfoLevel
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Configure sets the global level and, when filePath is non-empty, tees log
// output to that file. The returned func closes the file.
func Configure(levelName, filePath string) (func(), error) {
	mu.Lock()
	defer mu.Unlock()

	level = parseLevel(levelName)
	if filePath == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return func() {}, err
	}
	out = io.MultiWriter(os.Stdout, f)
	return func() { _ = f.Close() }, nil
}

// New returns a logger tagged with the component name.
func New(component string) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug", "DEBUG":
		return zerolog.DebugLevel
	case "warn", "WARN", "warning", "WARNING":
		return zerolog.WarnLevel
	case "error", "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
