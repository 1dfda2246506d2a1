package navstack

import (
	"fmt"
	"log/slog"

	"github.com/BrandonKowalski/navstack/pkg/navstack/constants"
	"github.com/BrandonKowalski/navstack/pkg/navstack/i18n"
	"github.com/BrandonKowalski/navstack/pkg/navstack/internal"
	"github.com/BurntSushi/toml"
)

// Options configures a Service.
type Options struct {
	LogLevel string `toml:"log_level"` // debug, info, warn or error (default: info)
	LogPath  string `toml:"log_path"`  // Full path for a log file; stdout only when empty
	Language string `toml:"language"`  // BCP 47 tag for Describe (default: en)

	// Logger overrides the package logger. LogLevel and LogPath are ignored
	// when it is set.
	Logger *slog.Logger `toml:"-"`

	// OnDesync is called when a host signal cannot be reconciled with the
	// model. The error is always logged; OnDesync lets the application treat
	// it as fatal.
	OnDesync func(error) `toml:"-"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		LogLevel: "info",
		Language: constants.LanguageFromEnv(constants.DefaultLanguage),
	}
}

// LoadOptions decodes a TOML file into Options, starting from DefaultOptions.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("navstack: load options %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks that the language tag can be parsed.
func (o Options) Validate() error {
	if o.Language == "" {
		return nil
	}
	if _, err := i18n.ParseLanguage(o.Language); err != nil {
		return fmt.Errorf("navstack: options: %w", err)
	}
	return nil
}

// logger resolves the logger the Service writes to.
func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if o.LogPath != "" {
		internal.SetLogPath(o.LogPath)
	}
	if constants.IsDebug() {
		internal.SetLogLevel(slog.LevelDebug)
	} else if o.LogLevel != "" {
		internal.SetRawLogLevel(o.LogLevel)
	}
	return internal.GetLogger()
}

func (o Options) language() string {
	if o.Language == "" {
		return constants.DefaultLanguage
	}
	return o.Language
}

// SetLogLevel sets the minimum level of the package logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// GetLogger returns the package logger.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// CloseLogger closes the log file opened for Options.LogPath, if any.
func CloseLogger() {
	internal.CloseLogger()
}
