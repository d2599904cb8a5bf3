package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"luxdeck/internal/config"
)

// configCmd represents the config command.
var configCmd = newConfigCmd()

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the luxdeck configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an annotated sample config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configFlag
			if path == "" {
				path = config.DefaultPath()
			}

			if err := config.WriteSample(path); err != nil {
				return err
			}

			ui.Message(fmt.Sprintf("wrote %s", path))

			return nil
		},
	})

	return cmd
}

func init() {
	rootCmd.AddCommand(configCmd)
}
