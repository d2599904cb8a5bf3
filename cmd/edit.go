package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"luxdeck/internal/adapter"
	"luxdeck/internal/controller"
	"luxdeck/internal/model"
)

// editCmd represents the edit command.
var editCmd = newEditCmd()

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <scene-id>",
		Short: "Open the interactive scene editor",
		Long: `Open a full-screen editor on a scene's channel content. Edits are local
until saved; toggling live mode streams them to the rig output as they
happen and restores the previous output when the session ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := scenes.GetScene(cmd.Context(), model.SceneID(args[0]))
			if err != nil {
				return err
			}

			result, err := controller.RunEditor(controller.EditorOptions{
				Scene:      scene,
				Sessions:   live,
				Scenes:     scenes,
				Plans:      plans,
				Quiescence: cfg.PushDebounce(),
				Control:    controlProbe(playback),
			})
			if err != nil {
				return err
			}

			if result.Saved != "" {
				ui.Message(fmt.Sprintf("saved %s", result.Saved))
			} else {
				ui.Message("closed without saving")
			}

			return nil
		},
	}
}

// controlProbe asks the rig who owns the console surface; the editor
// consults it before attempting live mode. An unreachable rig reads as
// panel control: the subsequent session start reports the real failure.
func controlProbe(playback adapter.PlaybackService) func() model.ControlMode {
	return func() model.ControlMode {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		status, err := playback.Status(ctx)
		if err != nil || status.Control != string(model.ControlExternal) {
			return model.ControlPanel
		}

		return model.ControlExternal
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
}
