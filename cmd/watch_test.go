package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"luxdeck/internal/adapter"
	"luxdeck/internal/config"
	"luxdeck/internal/controller"
	"luxdeck/internal/model"
)

func TestWatchCmd_ReprintsOnEvents(t *testing.T) {
	origCfg, origScenes, origUI, origEvents := cfg, scenes, ui, sceneEvents
	t.Cleanup(func() {
		cfg, scenes, ui, sceneEvents = origCfg, origScenes, origUI, origEvents
	})

	sceneFake := &fakeSceneService{
		summaries: []model.SceneSummary{{ID: "a1", Name: "Warm Wash"}},
	}

	events := make(chan adapter.SceneEvent, 2)
	events <- adapter.SceneEvent{SceneID: "a1"}
	events <- adapter.SceneEvent{SceneID: "a1"}
	close(events)

	sceneEvents = func(context.Context) (<-chan adapter.SceneEvent, error) {
		return events, nil
	}

	var buf bytes.Buffer

	cfg = config.Default()
	scenes = sceneFake
	ui = controller.NewSimpleUI(&buf)

	root := newRootCmd()
	root.AddCommand(newWatchCmd())
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"watch"})

	require.NoError(t, root.Execute())

	// initial print plus one per event
	require.Equal(t, 3, strings.Count(buf.String(), "Warm Wash"))
}
