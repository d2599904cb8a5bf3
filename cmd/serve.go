package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"luxdeck/internal/rig"
)

// serveCmd represents the serve command.
var serveCmd = newServeCmd()
var serveVerboseFlag bool

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rig daemon",
		Long: `Run the rig daemon: scene storage, playback output and the live editing
session endpoint. Console commands talk to this process over HTTP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if serveVerboseFlag {
				level = slog.LevelDebug
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return rig.Run(ctx, cfg, logger)
		},
	}
	cmd.Flags().BoolVarP(&serveVerboseFlag, "verbose", "v", false, "enable debug logging")

	return cmd
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
