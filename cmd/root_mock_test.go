package cmd

import (
	"bytes"
	"context"
	"testing"

	"luxdeck/internal/adapter"
	"luxdeck/internal/api"
	"luxdeck/internal/config"
	"luxdeck/internal/controller"
	"luxdeck/internal/model"
)

type fakeSceneService struct {
	summaries []model.SceneSummary
	scene     *model.Scene
	err       error

	created  []string
	saved    []model.SceneID
	renamed  map[model.SceneID]string
	deleted  []model.SceneID
	lastSize model.Universes
}

func (f *fakeSceneService) ListScenes(context.Context) ([]model.SceneSummary, error) {
	return f.summaries, f.err
}

func (f *fakeSceneService) GetScene(context.Context, model.SceneID) (*model.Scene, error) {
	return f.scene, f.err
}

func (f *fakeSceneService) CreateScene(_ context.Context, name string, universes model.Universes) (*model.Scene, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.created = append(f.created, name)
	f.lastSize = universes

	return &model.Scene{ID: "new-id", Name: name, Universes: universes}, nil
}

func (f *fakeSceneService) SaveSceneContent(_ context.Context, id model.SceneID, _ model.Universes) error {
	f.saved = append(f.saved, id)

	return f.err
}

func (f *fakeSceneService) RenameScene(_ context.Context, id model.SceneID, name string) error {
	if f.renamed == nil {
		f.renamed = map[model.SceneID]string{}
	}

	f.renamed[id] = name

	return f.err
}

func (f *fakeSceneService) DeleteScene(_ context.Context, id model.SceneID) error {
	f.deleted = append(f.deleted, id)

	return f.err
}

type fakePlaybackService struct {
	played    []model.SceneID
	stops     int
	blackouts int
	master    float64
	status    api.StatusResponse
	err       error
}

func (f *fakePlaybackService) PlayScene(_ context.Context, id model.SceneID) error {
	f.played = append(f.played, id)

	return f.err
}

func (f *fakePlaybackService) StopPlayback(context.Context) error {
	f.stops++

	return f.err
}

func (f *fakePlaybackService) Blackout(context.Context) error {
	f.blackouts++

	return f.err
}

func (f *fakePlaybackService) SetMaster(_ context.Context, level float64) error {
	f.master = level

	return f.err
}

func (f *fakePlaybackService) Status(context.Context) (*api.StatusResponse, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &f.status, nil
}

// execute runs a fresh command tree against fakes, returning the combined
// output. Package-level services are restored afterwards.
func execute(t *testing.T, sceneFake *fakeSceneService, playbackFake *fakePlaybackService, args ...string) (string, error) {
	t.Helper()

	origCfg, origScenes, origLive, origPlans, origPlayback, origUI := cfg, scenes, live, plans, playback, ui
	t.Cleanup(func() {
		cfg, scenes, live, plans, playback, ui = origCfg, origScenes, origLive, origPlans, origPlayback, origUI
	})

	var buf bytes.Buffer

	cfg = config.Default()
	scenes = sceneFake
	live = adapter.NewClient("http://127.0.0.1:0", 0)
	plans = adapter.NewClient("http://127.0.0.1:0", 0)
	playback = playbackFake
	ui = controller.NewSimpleUI(&buf)

	root := newRootCmd()
	root.AddCommand(newListCmd(), newShowCmd(), newCreateCmd(), newRenameCmd(), newDeleteCmd(),
		newPlayCmd(), newStopCmd(), newBlackoutCmd(), newMasterCmd(), newStatusCmd())
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()

	return buf.String(), err
}
