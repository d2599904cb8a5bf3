package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"luxdeck/internal/model"
)

// createCmd represents the create command.
var createCmd = newCreateCmd()
var createUniverseFlags []string

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty scene",
		Long: `Create a scene with all channels at zero. Universe layout comes from the
--universe flags, falling back to the configured rig universes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			universes, err := parseUniverseFlags(createUniverseFlags)
			if err != nil {
				return err
			}

			if len(universes) == 0 {
				universes = model.Universes{}
				for id, size := range cfg.Rig.Universes {
					universes[model.UniverseID(id)] = make([]byte, size)
				}
			}

			scene, err := scenes.CreateScene(cmd.Context(), args[0], universes)
			if err != nil {
				return err
			}

			ui.Message(fmt.Sprintf("created %s (%s)", scene.Name, scene.ID))

			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&createUniverseFlags, "universe", "u", nil, "universe layout as ID=CHANNELS (can be repeated)")

	return cmd
}

// parseUniverseFlags turns repeated ID=CHANNELS flags into zeroed universes.
func parseUniverseFlags(flags []string) (model.Universes, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	universes := model.Universes{}

	for _, flag := range flags {
		id, size, found := strings.Cut(flag, "=")
		if !found || id == "" {
			return nil, fmt.Errorf("invalid universe %q, want ID=CHANNELS", flag)
		}

		channels, err := strconv.Atoi(size)
		if err != nil || channels < 1 || channels > 512 {
			return nil, fmt.Errorf("invalid channel count in %q, want 1-512", flag)
		}

		universes[model.UniverseID(id)] = make([]byte, channels)
	}

	return universes, nil
}

func init() {
	rootCmd.AddCommand(createCmd)
}
