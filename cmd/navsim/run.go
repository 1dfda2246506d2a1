package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BrandonKowalski/navstack/pkg/navstack"
	"github.com/BrandonKowalski/navstack/pkg/navstack/simhost"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script.toml>",
	Short: "Run a navigation script",
	Long: `Run a navigation script against the simulated host.

Steps:
  push            push a page (title, contract, reset, animate)
  insert          insert a page before index (title, index)
  pop             pop count pages (count, animate)
  pop-to          pop every page above index (index, animate)
  push-modal      present a modal without navigation (title)
  push-nav-modal  present a modal with its own page stack (pages)
  pop-modal       dismiss the top modal
  back            simulate the user's back gesture
  dismiss         simulate the user swiping the top modal away

Example:
  [[step]]
  op = "push"
  title = "Home"

  [[step]]
  op = "push-nav-modal"
  pages = ["Settings"]`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

var (
	transitionDelay time.Duration
	strict          bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationVar(&transitionDelay, "delay", 0, "override the script's transition delay (e.g. 0s, 150ms)")
	runCmd.Flags().BoolVar(&strict, "strict", false, "exit with an error if any step fails")
}

func runScript(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("navsim: read script: %w", err)
	}

	script, err := ParseScript(string(data))
	if err != nil {
		return err
	}

	hostOpts := script.Host
	if cmd.Flags().Changed("delay") {
		hostOpts.TransitionDelay = transitionDelay
	}

	opts, err := loadOptions()
	if err != nil {
		return err
	}

	defer navstack.CloseLogger()

	host := simhost.New(hostOpts)
	defer host.Close()

	nav, err := navstack.New(host, opts)
	if err != nil {
		return err
	}
	defer nav.Close()

	failed := NewRunner(nav, host, opts.Language, cmd.OutOrStdout()).Run(cmd.Context(), script.Steps)
	if strict && failed > 0 {
		return fmt.Errorf("navsim: %d of %d steps failed", failed, len(script.Steps))
	}
	return nil
}
