package cmd

import (
	"github.com/spf13/cobra"

	"luxdeck/internal/controller"
	"luxdeck/internal/model"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show rig playback and session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := playback.Status(cmd.Context())
			if err != nil {
				return err
			}

			return ui.ShowStatus(controller.RigStatus{
				Playing:     model.SceneID(status.Playing),
				LiveSession: status.LiveSession,
				LiveScene:   model.SceneID(status.LiveScene),
				Master:      status.Master,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
