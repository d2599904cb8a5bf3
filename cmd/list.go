package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scenes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := scenes.ListScenes(cmd.Context())
			if err != nil {
				return err
			}

			return ui.ShowScenes(summaries)
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
