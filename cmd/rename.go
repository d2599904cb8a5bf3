package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"luxdeck/internal/model"
)

// renameCmd represents the rename command.
var renameCmd = newRenameCmd()

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <scene-id> <name>",
		Short: "Rename a scene",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scenes.RenameScene(cmd.Context(), model.SceneID(args[0]), args[1]); err != nil {
				return err
			}

			ui.Message(fmt.Sprintf("renamed %s to %q", args[0], args[1]))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
