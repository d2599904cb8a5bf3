package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"luxdeck/internal/model"
)

// playCmd represents the play command.
var playCmd = newPlayCmd()

// stopCmd represents the stop command.
var stopCmd = newStopCmd()

// blackoutCmd represents the blackout command.
var blackoutCmd = newBlackoutCmd()

// masterCmd represents the master command.
var masterCmd = newMasterCmd()

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <scene-id>",
		Short: "Send a stored scene to the rig output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := playback.PlayScene(cmd.Context(), model.SceneID(args[0])); err != nil {
				return err
			}

			ui.Message(fmt.Sprintf("playing %s", args[0]))

			return nil
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop scene playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := playback.StopPlayback(cmd.Context()); err != nil {
				return err
			}

			ui.Message("playback stopped")

			return nil
		},
	}
}

func newBlackoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blackout",
		Short: "Zero all rig output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := playback.Blackout(cmd.Context()); err != nil {
				return err
			}

			ui.Message("blackout")

			return nil
		},
	}
}

func newMasterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "master <percent>",
		Short: "Set the master dimmer (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[0])
			if err != nil || percent < 0 || percent > 100 {
				return fmt.Errorf("invalid master level %q, want 0-100", args[0])
			}

			if err := playback.SetMaster(cmd.Context(), float64(percent)/100); err != nil {
				return err
			}

			ui.Message(fmt.Sprintf("master %d%%", percent))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(playCmd, stopCmd, blackoutCmd, masterCmd)
}
