package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"luxdeck/internal/model"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <scene-id>",
		Short: "Print a scene's channel content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := scenes.GetScene(cmd.Context(), model.SceneID(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", scene.Name, scene.ID)

			for _, id := range sortedUniverses(scene.Universes) {
				fmt.Fprintf(out, "universe %s: %s\n", id, formatChannels(scene.Universes[id]))
			}

			return nil
		},
	}
}

// sortedUniverses orders universe ids numerically where possible.
func sortedUniverses(universes model.Universes) []model.UniverseID {
	ids := make([]model.UniverseID, 0, len(universes))
	for id := range universes {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(string(ids[i]))
		b, errB := strconv.Atoi(string(ids[j]))

		if errA == nil && errB == nil {
			return a < b
		}

		return ids[i] < ids[j]
	})

	return ids
}

func formatChannels(channels []byte) string {
	values := make([]string, len(channels))
	for i, v := range channels {
		values[i] = strconv.Itoa(int(v))
	}

	return strings.Join(values, " ")
}

func init() {
	rootCmd.AddCommand(showCmd)
}
