package controller

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"luxdeck/internal/adapter"
	"luxdeck/internal/domain"
	"luxdeck/internal/model"
)

type stubSession struct {
	starts int
	pushes int
	stops  int

	startErr error
	stopErr  error
}

func (s *stubSession) StartLiveSession(_ context.Context, _ model.SceneID, _ model.Universes) error {
	s.starts++

	return s.startErr
}

func (s *stubSession) PushLiveUpdate(context.Context, model.Universes) error {
	s.pushes++

	return nil
}

func (s *stubSession) StopLiveSession(context.Context, bool) error {
	s.stops++

	return s.stopErr
}

type stubScenes struct {
	saved   map[model.SceneID]model.Universes
	saveErr error
}

func (s *stubScenes) ListScenes(context.Context) ([]model.SceneSummary, error) { return nil, nil }

func (s *stubScenes) GetScene(context.Context, model.SceneID) (*model.Scene, error) {
	return nil, nil
}

func (s *stubScenes) CreateScene(context.Context, string, model.Universes) (*model.Scene, error) {
	return nil, nil
}

func (s *stubScenes) SaveSceneContent(_ context.Context, id model.SceneID, universes model.Universes) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	if s.saved == nil {
		s.saved = map[model.SceneID]model.Universes{}
	}

	s.saved[id] = universes

	return nil
}

func (s *stubScenes) RenameScene(context.Context, model.SceneID, string) error { return nil }
func (s *stubScenes) DeleteScene(context.Context, model.SceneID) error         { return nil }

type stubPlans struct {
	plan *model.FixturePlan
	err  error
}

func (s *stubPlans) GetFixturePlan(context.Context) (*model.FixturePlan, error) {
	return s.plan, s.err
}

func testScene() *model.Scene {
	return &model.Scene{
		ID:   "scene-1",
		Name: "Warm Wash",
		Universes: model.Universes{
			"1": make([]byte, 32),
			"2": make([]byte, 8),
		},
	}
}

func testEditor(t *testing.T, session adapter.LiveSession, scenes adapter.SceneService) editorModel {
	t.Helper()

	scene := testScene()
	store := domain.NewDraftStore(scene.Universes)
	sessions := domain.NewSessionController(session, nil)
	dispatcher := domain.NewDispatcher(session, func() {}, func(error) {})
	closer := domain.NewCloseReconciler(store, sessions, dispatcher, scenes, nil)

	return newEditorModel(scene, store, sessions, dispatcher, closer, &stubPlans{}, make(chan tea.Msg, 4))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditorModel_UniversesSortedNumerically(t *testing.T) {
	scene := &model.Scene{
		ID: "s",
		Universes: model.Universes{
			"10": make([]byte, 4),
			"2":  make([]byte, 4),
			"1":  make([]byte, 4),
		},
	}
	store := domain.NewDraftStore(scene.Universes)
	session := &stubSession{}
	sessions := domain.NewSessionController(session, nil)
	dispatcher := domain.NewDispatcher(session, func() {}, func(error) {})
	closer := domain.NewCloseReconciler(store, sessions, dispatcher, &stubScenes{}, nil)

	m := newEditorModel(scene, store, sessions, dispatcher, closer, &stubPlans{}, make(chan tea.Msg, 1))

	want := []model.UniverseID{"1", "2", "10"}
	for i, id := range want {
		if m.universeIDs[i] != id {
			t.Fatalf("universeIDs[%d] = %q, want %q", i, m.universeIDs[i], id)
		}
	}
}

func TestEditorModel_NudgeClampsAndMarksDirty(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	updated, _ := m.Update(keyRunes("h"))
	m = updated.(editorModel)

	if value, _ := m.store.Value("1", 0); value != 0 {
		t.Fatalf("value after decrement at floor = %d, want 0", value)
	}
	if m.store.Dirty() {
		t.Fatalf("clamped no-op write should not mark the draft dirty")
	}

	for i := 0; i < 3; i++ {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
		m = updated.(editorModel)
	}

	if value, _ := m.store.Value("1", 0); value != 30 {
		t.Fatalf("value after three +10 nudges = %d, want 30", value)
	}
	if !m.store.Dirty() {
		t.Fatalf("draft should be dirty after edits")
	}
}

func TestEditorModel_ZeroAndFullShortcuts(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	updated, _ := m.Update(keyRunes("f"))
	m = updated.(editorModel)

	if value, _ := m.store.Value("1", 0); value != 255 {
		t.Fatalf("value after full = %d, want 255", value)
	}

	updated, _ = m.Update(keyRunes("0"))
	m = updated.(editorModel)

	if value, _ := m.store.Value("1", 0); value != 0 {
		t.Fatalf("value after zero = %d, want 0", value)
	}
}

func TestEditorModel_CursorTracksSelectedChannel(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(editorModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(editorModel)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(editorModel)

	if value, _ := m.store.Value("1", 2); value != 1 {
		t.Fatalf("channel 3 = %d, want 1", value)
	}
	if value, _ := m.store.Value("1", 0); value != 0 {
		t.Fatalf("channel 1 = %d, want untouched 0", value)
	}
}

func TestEditorModel_PagingAndUniverseCycle(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m = updated.(editorModel)

	if m.page != 1 {
		t.Fatalf("page after pgdown = %d, want 1", m.page)
	}

	// universe 1 has 32 channels, exactly two pages
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m = updated.(editorModel)

	if m.page != 1 {
		t.Fatalf("page clamped = %d, want 1", m.page)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(editorModel)

	if m.currentUniverse() != "2" {
		t.Fatalf("universe after tab = %q, want 2", m.currentUniverse())
	}
	if m.cursor != 0 {
		t.Fatalf("cursor should reset on universe change, got %d", m.cursor)
	}
}

func TestEditorModel_ActivePlanDefaultsToFixtureView(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	plan := &model.FixturePlan{
		Active: true,
		Fixtures: []model.Fixture{
			{
				Fixture: "Par L",
				Parameters: []model.FixtureParameter{
					{Universe: "1", Channel: 1, Name: "dimmer", Role: "intensity"},
					{Universe: "1", Channel: 2, Name: "red", Role: "color"},
				},
			},
		},
	}

	updated, _ := m.Update(planMsg{plan: plan})
	m = updated.(editorModel)

	if m.viewMode != model.ViewFixture {
		t.Fatalf("viewMode = %q, want fixture", m.viewMode)
	}

	// cursor 1 is the second parameter, channel 2
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(editorModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(editorModel)

	if value, _ := m.store.Value("1", 1); value != 1 {
		t.Fatalf("fixture edit wrote %d to channel 2, want 1", value)
	}

	updated, _ = m.Update(keyRunes("v"))
	m = updated.(editorModel)

	if m.viewMode != model.ViewRaw {
		t.Fatalf("v should toggle back to raw view, got %q", m.viewMode)
	}
}

func TestEditorModel_InactivePlanStaysRaw(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	updated, _ := m.Update(planMsg{plan: &model.FixturePlan{Active: false}})
	m = updated.(editorModel)

	if m.viewMode != model.ViewRaw {
		t.Fatalf("inactive plan should keep raw view, got %q", m.viewMode)
	}

	updated, _ = m.Update(keyRunes("v"))
	m = updated.(editorModel)

	if m.viewMode != model.ViewRaw {
		t.Fatalf("v must be inert without an active plan")
	}
}

func TestEditorModel_LiveToggleRoundTrip(t *testing.T) {
	session := &stubSession{}
	m := testEditor(t, session, &stubScenes{})

	updated, cmd := m.Update(keyRunes("m"))
	m = updated.(editorModel)

	if !m.busy {
		t.Fatalf("model should be busy while the start is in flight")
	}
	if cmd == nil {
		t.Fatalf("expected a go-live command")
	}

	msg := cmd()
	toggled, ok := msg.(liveToggledMsg)
	if !ok || !toggled.wantLive || toggled.err != nil {
		t.Fatalf("go-live result = %#v", msg)
	}
	if session.starts != 1 {
		t.Fatalf("starts = %d, want 1", session.starts)
	}

	updated, _ = m.Update(msg)
	m = updated.(editorModel)

	if m.busy {
		t.Fatalf("busy should clear once the toggle lands")
	}
	if !m.sessions.Live() {
		t.Fatalf("session should be live")
	}

	updated, cmd = m.Update(keyRunes("m"))
	m = updated.(editorModel)
	msg = cmd()

	updated, _ = m.Update(msg)
	m = updated.(editorModel)

	if m.sessions.Live() {
		t.Fatalf("session should be silent after the second toggle")
	}
	if session.stops != 1 {
		t.Fatalf("stops = %d, want 1", session.stops)
	}
}

func TestEditorModel_LiveToggleFailureStaysSilent(t *testing.T) {
	session := &stubSession{startErr: adapter.Wrap(adapter.ErrTransient, "start", "rig unreachable", nil)}
	m := testEditor(t, session, &stubScenes{})

	updated, cmd := m.Update(keyRunes("m"))
	m = updated.(editorModel)

	updated, _ = m.Update(cmd())
	m = updated.(editorModel)

	if m.sessions.Live() {
		t.Fatalf("failed start must leave the session silent")
	}
	if m.status == "" {
		t.Fatalf("failure should surface in the status line")
	}
}

func TestEditorModel_KeysIgnoredWhileBusy(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})
	m.busy = true

	updated, cmd := m.Update(keyRunes("m"))
	m = updated.(editorModel)

	if cmd != nil {
		t.Fatalf("busy model must not issue commands")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(editorModel)

	if m.store.Dirty() {
		t.Fatalf("busy model must not accept edits")
	}
}

func TestEditorModel_CleanCloseSkipsConfirm(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	updated, cmd := m.Update(keyRunes("q"))
	m = updated.(editorModel)

	if m.confirming {
		t.Fatalf("clean close must not ask for confirmation")
	}
	if cmd == nil {
		t.Fatalf("expected a discard command")
	}

	updated, quit := m.Update(cmd())
	m = updated.(editorModel)

	if !m.closed || quit == nil {
		t.Fatalf("discard should close the editor")
	}
}

func TestEditorModel_DirtyCloseConfirms(t *testing.T) {
	session := &stubSession{}
	m := testEditor(t, session, &stubScenes{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(editorModel)

	updated, cmd := m.Update(keyRunes("q"))
	m = updated.(editorModel)

	if !m.confirming || cmd != nil {
		t.Fatalf("dirty close must pause on the confirm overlay")
	}

	updated, _ = m.Update(keyRunes("n"))
	m = updated.(editorModel)

	if m.confirming || m.closed {
		t.Fatalf("n should cancel the close and keep editing")
	}

	updated, _ = m.Update(keyRunes("q"))
	m = updated.(editorModel)
	updated, cmd = m.Update(keyRunes("y"))
	m = updated.(editorModel)

	if cmd == nil {
		t.Fatalf("y should issue the discard command")
	}

	updated, _ = m.Update(cmd())
	m = updated.(editorModel)

	if !m.closed {
		t.Fatalf("confirmed discard should close the editor")
	}
}

func TestEditorModel_SavePersistsAndQuits(t *testing.T) {
	scenes := &stubScenes{}
	m := testEditor(t, &stubSession{}, scenes)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(editorModel)

	updated, cmd := m.Update(keyRunes("s"))
	m = updated.(editorModel)

	if !m.busy || cmd == nil {
		t.Fatalf("save should mark busy and issue a command")
	}

	msg := cmd()
	updated, quit := m.Update(msg)
	m = updated.(editorModel)

	if m.savedScene != "scene-1" || quit == nil {
		t.Fatalf("save should record the scene and quit, got %q", m.savedScene)
	}

	saved := scenes.saved["scene-1"]
	if saved == nil || saved["1"][0] != 1 {
		t.Fatalf("persisted content missing the edit: %#v", saved)
	}
}

func TestEditorModel_FailedSaveKeepsEditing(t *testing.T) {
	scenes := &stubScenes{saveErr: errors.New("disk full")}
	m := testEditor(t, &stubSession{}, scenes)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(editorModel)

	updated, cmd := m.Update(keyRunes("s"))
	m = updated.(editorModel)

	updated, quit := m.Update(cmd())
	m = updated.(editorModel)

	if m.closed || quit != nil {
		t.Fatalf("failed save must not close the editor")
	}
	if !strings.Contains(m.status, "disk full") {
		t.Fatalf("status = %q, want the save error", m.status)
	}
	if !m.store.Dirty() {
		t.Fatalf("draft must survive a failed save")
	}
}

func TestEditorModel_PushConflictSurfacesStatus(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})

	updated, cmd := m.Update(pushConflictMsg{})
	m = updated.(editorModel)

	if !strings.Contains(m.status, "another editor") {
		t.Fatalf("status = %q", m.status)
	}
	if cmd == nil {
		t.Fatalf("conflict handler must re-arm the event listener")
	}
}

func TestEditorModel_ViewRendersChannelsAndBadge(t *testing.T) {
	m := testEditor(t, &stubSession{}, &stubScenes{})
	m.width = 80
	m.height = 24

	view := m.View()

	if !strings.Contains(view, "Warm Wash") {
		t.Fatalf("view missing scene name:\n%s", view)
	}
	if !strings.Contains(view, "SILENT") {
		t.Fatalf("view missing mode badge:\n%s", view)
	}
	if !strings.Contains(view, "page 1/2") {
		t.Fatalf("view missing page indicator:\n%s", view)
	}

	m.confirming = true
	if !strings.Contains(m.View(), "Discard and close?") {
		t.Fatalf("confirm overlay not rendered")
	}
}
