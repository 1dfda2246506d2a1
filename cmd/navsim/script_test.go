package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrandonKowalski/navstack/pkg/navstack"
	"github.com/BrandonKowalski/navstack/pkg/navstack/constants"
	"github.com/BrandonKowalski/navstack/pkg/navstack/simhost"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoScript = `
[host]
transition_delay = "0s"
signal_buffer = 4

[[step]]
op = "push"
title = "Home"

[[step]]
op = "push"
title = "Library"

[[step]]
op = "push-modal"
title = "Alert"

[[step]]
op = "push"
title = "Blocked"

[[step]]
op = "dismiss"

[[step]]
op = "push-nav-modal"
pages = ["Settings"]

[[step]]
op = "push"
title = "Wifi"
animate = false

[[step]]
op = "back"

[[step]]
op = "pop-modal"

[[step]]
op = "pop"
count = 1
`

func TestParseScript(t *testing.T) {
	script, err := ParseScript(demoScript)
	require.NoError(t, err)

	assert.Len(t, script.Steps, 10)
	assert.Equal(t, 4, script.Host.SignalBuffer)
	assert.Equal(t, time.Duration(0), script.Host.TransitionDelay)
	assert.Equal(t, []string{"Settings"}, script.Steps[5].Pages)
	assert.False(t, script.Steps[6].animate())
	assert.True(t, script.Steps[0].animate())
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "unknown op", script: "[[step]]\nop = \"jump\"\n"},
		{name: "unknown key", script: "[[step]]\nop = \"push\"\ntitel = \"Home\"\n"},
		{name: "invalid toml", script: "[[step]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(tt.script)
			assert.Error(t, err)
		})
	}
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "push Home", Step{Op: "push", Title: "Home"}.String())
	assert.Equal(t, "insert Z at 0", Step{Op: "insert", Title: "Z"}.String())
	assert.Equal(t, "pop 1", Step{Op: "pop"}.String())
	assert.Equal(t, "push-nav-modal A, B", Step{Op: "push-nav-modal", Pages: []string{"A", "B"}}.String())
	assert.Equal(t, "back", Step{Op: "back"}.String())
}

func TestRunner_Run(t *testing.T) {
	script, err := ParseScript(demoScript)
	require.NoError(t, err)

	host := simhost.New(script.Host)
	defer host.Close()
	nav, err := navstack.New(host, navstack.Options{
		Language: "en",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	defer nav.Close()

	var out bytes.Buffer
	failed := NewRunner(nav, host, "en", &out).Run(context.Background(), script.Steps)

	assert.Equal(t, 1, failed, "only the push behind the bare modal fails")

	want := `1. push Home
   pages: [Home]
   modals: []
2. push Library
   pages: [Home Library]
   modals: []
3. push-modal Alert
   (no page stack)
   modals: [Alert]
4. push Blocked
   ! The open dialog has no pages to navigate.
   (no page stack)
   modals: [Alert]
5. dismiss
   pages: [Home Library]
   modals: []
6. push-nav-modal Settings
   pages: [Settings]
   modals: [Settings]
7. push Wifi
   pages: [Settings Wifi]
   modals: [Settings]
8. back
   pages: [Settings]
   modals: [Settings]
9. pop-modal
   pages: [Home Library]
   modals: []
10. pop 1
   pages: [Home]
   modals: []
`
	assert.Equal(t, want, out.String())
	assert.Equal(t, []string{"Home"}, host.Pages())
}

func TestRunner_GestureFailure(t *testing.T) {
	host := simhost.New(simhost.Options{})
	defer host.Close()
	nav, err := navstack.New(host, navstack.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	defer nav.Close()

	r := NewRunner(nav, host, "en", io.Discard)
	require.NoError(t, r.Apply(context.Background(), Step{Op: "push", Title: "Home"}))

	assert.ErrorIs(t, r.Apply(context.Background(), Step{Op: "back"}), simhost.ErrNothingToPop)
	assert.ErrorIs(t, r.Apply(context.Background(), Step{Op: "dismiss"}), simhost.ErrNothingToPop)
}

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()

	scriptPath := filepath.Join(dir, "demo.toml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`
[[step]]
op = "push"
title = "Inicio"

[[step]]
op = "pop"
`), 0o644))

	configPath := filepath.Join(dir, "navstack.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`log_level = "error"`), 0o644))

	out, err := executeCommand(rootCmd, "run", scriptPath, "--config", configPath, "--lang", "es", "--delay", "0s")
	require.NoError(t, err)

	assert.Contains(t, out, "1. push Inicio\n   páginas: [Inicio]\n   diálogos: []\n")
	assert.Contains(t, out, "No se puede retroceder 1 páginas en una pila de 1")

	_, err = executeCommand(rootCmd, "run", scriptPath, "--strict")
	assert.Error(t, err, "a failed step fails the run in strict mode")
	strict = false
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)
	assert.Equal(t, "navsim dev\n", out)
}

func TestParseScript_DefaultDelay(t *testing.T) {
	script, err := ParseScript("[[step]]\nop = \"back\"\n")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultTransitionDelay, script.Host.TransitionDelay)
}

func TestRunner_MultiPageNavigationModal(t *testing.T) {
	host := simhost.New(simhost.Options{})
	defer host.Close()
	nav, err := navstack.New(host, navstack.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	defer nav.Close()

	r := NewRunner(nav, host, "en", io.Discard)
	ctx := context.Background()
	require.NoError(t, r.Apply(ctx, Step{Op: "push-nav-modal", Pages: []string{"Settings", "Wifi", "Advanced"}}))
	assert.Equal(t, []string{"Settings", "Wifi", "Advanced"}, host.Pages())

	require.NoError(t, r.Apply(ctx, Step{Op: "back"}))
	require.NoError(t, r.Apply(ctx, Step{Op: "pop"}))
	assert.Equal(t, []string{"Settings"}, navstack.Titles(nav.PageStack().Snapshot()))
	assert.Equal(t, []string{"Settings"}, host.Pages())
}
