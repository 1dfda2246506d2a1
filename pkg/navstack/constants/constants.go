// Package constants defines environment variables and defaults shared by the
// navstack packages and the navsim tool.
package constants

import (
	"os"
	"strings"
	"time"
)

// DebugEnvVar forces debug logging when set to any non-empty value.
const DebugEnvVar = "NAVSTACK_DEBUG"

// LanguageEnvVar overrides the language used for user-facing error messages.
const LanguageEnvVar = "NAVSTACK_LANG"

// DefaultLanguage is the language used when none is configured.
const DefaultLanguage = "en"

// DefaultSignalBuffer is the channel depth for host-originated pop signals.
const DefaultSignalBuffer = 16

// DefaultTransitionDelay is the simulated duration of an animated transition.
const DefaultTransitionDelay = 250 * time.Millisecond

// IsDebug returns true if NAVSTACK_DEBUG is set.
func IsDebug() bool {
	return os.Getenv(DebugEnvVar) != ""
}

// LanguageFromEnv returns NAVSTACK_LANG, or fallback if it is unset.
func LanguageFromEnv(fallback string) string {
	if lang := strings.TrimSpace(os.Getenv(LanguageEnvVar)); lang != "" {
		return lang
	}
	return fallback
}
