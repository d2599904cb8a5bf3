package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"luxdeck/internal/adapter"
)

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

// sceneEvents opens the rig's scene-change stream; swapped in tests.
var sceneEvents func(ctx context.Context) (<-chan adapter.SceneEvent, error)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the scene list as it changes",
		Long: `Subscribe to the rig's change feed and reprint the scene list whenever a
scene is created, saved, renamed or deleted. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if sceneEvents == nil {
				sceneEvents = client.SubscribeScenes
			}

			events, err := sceneEvents(ctx)
			if err != nil {
				return err
			}

			summaries, err := scenes.ListScenes(ctx)
			if err != nil {
				return err
			}

			if err := ui.ShowScenes(summaries); err != nil {
				return err
			}

			for range events {
				summaries, err := scenes.ListScenes(ctx)
				if err != nil {
					return err
				}

				if err := ui.ShowScenes(summaries); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
