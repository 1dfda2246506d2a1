package main

import (
	"github.com/BrandonKowalski/navstack/pkg/navstack"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "navsim",
	Short: "Navigation stack simulator",
	Long: `navsim drives a navstack Service against a simulated presentation host.

Scripts are TOML files listing navigation steps. After each step navsim
prints the active page stack and the modal stack, so the effect of pushes,
pops, modals and user gestures can be followed step by step.`,
	SilenceUsage: true,
}

var (
	configPath string
	language   string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "navstack options file (TOML)")
	rootCmd.PersistentFlags().StringVarP(&language, "lang", "l", "", "language for error messages (default: $NAVSTACK_LANG or en)")
}

// loadOptions resolves the service options from --config and --lang.
func loadOptions() (navstack.Options, error) {
	opts := navstack.DefaultOptions()
	if configPath != "" {
		loaded, err := navstack.LoadOptions(configPath)
		if err != nil {
			return navstack.Options{}, err
		}
		opts = loaded
	}

	if language != "" {
		opts.Language = language
	}
	return opts, opts.Validate()
}
