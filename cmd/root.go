// Package cmd provides the root command and CLI setup for luxdeck.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"luxdeck/internal/adapter"
	"luxdeck/internal/config"
	"luxdeck/internal/controller"
)

var cfg *config.Config
var scenes adapter.SceneService
var live adapter.LiveSession
var plans adapter.FixturePlanService
var playback adapter.PlaybackService
var client *adapter.Client
var ui controller.UI

var configFlag string
var rigURLFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "luxdeck",
		Short: "Operator console for a lighting-scene playback rig",
		Long: `Luxdeck is the operator console for a lighting rig: it stores scenes as
per-universe channel levels, plays them back, and opens an editing session
where channel changes can be auditioned live on the rig output.

Run the rig itself with "luxdeck serve", then point the console commands at
it (local rig by default).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().StringVar(&rigURLFlag, "rig", "", "rig daemon URL (overrides config)")

	return cmd
}

// setup loads the config and builds the rig client and UI. Tests preload
// the package-level services with fakes; setup leaves those alone.
func setup(cmd *cobra.Command) error {
	if cfg == nil {
		path := configFlag
		if path == "" {
			path = config.DefaultPath()
		}

		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	if rigURLFlag != "" {
		cfg.RigURL = rigURLFlag
	}

	if client == nil && scenes == nil {
		client = adapter.NewClient(cfg.RigURL, cfg.RequestTimeout())
	}

	if scenes == nil {
		scenes = client
	}
	if live == nil {
		live = client
	}
	if plans == nil {
		plans = client
	}
	if playback == nil {
		playback = client
	}

	if ui == nil {
		ui = controller.NewUI(cmd, controller.IsTTY(os.Stdout))
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
