package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// componentLogger is a lazily built JSON logger with an adjustable level.
type componentLogger struct {
	once      sync.Once
	component string
	initial   slog.Level
	level     slog.LevelVar
	logger    *slog.Logger
}

func (c *componentLogger) get() *slog.Logger {
	c.once.Do(func() {
		c.level.Set(c.initial)
		handler := slog.NewJSONHandler(sink(), &slog.HandlerOptions{Level: &c.level})
		c.logger = slog.New(handler).With("component", c.component)
	})
	return c.logger
}

var (
	pathMu   sync.Mutex
	filePath string
	file     *os.File

	sinkOnce sync.Once
	out      io.Writer

	service = &componentLogger{component: "navstack", initial: slog.LevelInfo}

	// Subscriber panics are always worth reporting, so containers log at
	// error level only.
	containers = &componentLogger{component: "navstack/stack", initial: slog.LevelError}
)

// SetLogPath sets the full path of a log file, including its name. Parent
// directories are created on first use. It has no effect once any logger
// has been built.
func SetLogPath(path string) {
	pathMu.Lock()
	defer pathMu.Unlock()
	filePath = path
}

// sink returns stdout, teed into the log file when one is configured and
// can be opened.
func sink() io.Writer {
	sinkOnce.Do(func() {
		pathMu.Lock()
		path := filePath
		pathMu.Unlock()

		out = os.Stdout
		if path == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return
		}
		file = f
		out = io.MultiWriter(os.Stdout, f)
	})
	return out
}

// GetLogger returns the service logger. It starts at info level.
func GetLogger() *slog.Logger {
	return service.get()
}

// GetInternalLogger returns the logger used by the stack containers.
func GetInternalLogger() *slog.Logger {
	return containers.get()
}

// SetLogLevel changes the service logger's minimum level.
func SetLogLevel(level slog.Level) {
	service.get()
	service.level.Set(level)
}

// ParseLevel maps a level name to a slog level. Unknown names are info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetRawLogLevel is SetLogLevel for a level name such as "debug".
func SetRawLogLevel(raw string) {
	SetLogLevel(ParseLevel(raw))
}

// CloseLogger closes the log file, if one was opened.
func CloseLogger() {
	if file != nil {
		_ = file.Close()
	}
}
