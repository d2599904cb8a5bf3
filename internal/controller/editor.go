package controller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"luxdeck/internal/adapter"
	"luxdeck/internal/domain"
	"luxdeck/internal/model"
)

// EditorOptions configures a content editing session for one scene.
type EditorOptions struct {
	Scene *model.Scene

	Sessions adapter.LiveSession
	Scenes   adapter.SceneService
	Plans    adapter.FixturePlanService

	// Quiescence is the live push debounce; zero keeps the default.
	Quiescence time.Duration

	// Control reports who owns the rig's console surface. Live mode is
	// refused while an external controller holds it.
	Control func() model.ControlMode
}

// EditorResult reports the editor outcome after the program exits.
type EditorResult struct {
	// Saved is the scene whose content was persisted, empty when the
	// session was discarded.
	Saved model.SceneID
}

// RunEditor opens the full-screen editor for a scene and blocks until the
// user closes it. Edits live in a local draft; live mode streams the draft
// to the rig, and closing either saves the draft or restores the stored
// content.
func RunEditor(opts EditorOptions) (EditorResult, error) {
	store := domain.NewDraftStore(opts.Scene.Universes)
	sessions := domain.NewSessionController(opts.Sessions, opts.Control)

	// Dispatcher callbacks run on its timer goroutine. They adjust the
	// session state directly, then hand a message to the tea loop so the
	// screen catches up.
	events := make(chan tea.Msg, 8)

	onConflict := func() {
		sessions.ForceSilent()
		events <- pushConflictMsg{}
	}
	onError := func(err error) {
		events <- pushErrorMsg{err: err}
	}

	var dispatcherOpts []domain.DispatcherOption
	if opts.Quiescence > 0 {
		dispatcherOpts = append(dispatcherOpts, domain.WithQuiescence(opts.Quiescence))
	}

	dispatcher := domain.NewDispatcher(opts.Sessions, onConflict, onError, dispatcherOpts...)
	closer := domain.NewCloseReconciler(store, sessions, dispatcher, opts.Scenes, nil)

	m := newEditorModel(opts.Scene, store, sessions, dispatcher, closer, opts.Plans, events)

	program := tea.NewProgram(m, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return EditorResult{}, err
	}

	result := EditorResult{}
	if fm, ok := final.(editorModel); ok {
		result.Saved = fm.savedScene
	}

	return result, nil
}
