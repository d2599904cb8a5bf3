package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"luxdeck/internal/model"
)

// deleteCmd represents the delete command.
var deleteCmd = newDeleteCmd()

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <scene-id>",
		Short: "Delete a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scenes.DeleteScene(cmd.Context(), model.SceneID(args[0])); err != nil {
				return err
			}

			ui.Message(fmt.Sprintf("deleted %s", args[0]))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
