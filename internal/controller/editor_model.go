package controller

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"luxdeck/internal/adapter"
	"luxdeck/internal/domain"
	"luxdeck/internal/model"
)

type editorKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Decrement  key.Binding
	Increment  key.Binding
	BigDec     key.Binding
	BigInc     key.Binding
	Zero       key.Binding
	Full       key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	Universe   key.Binding
	ToggleView key.Binding
	ToggleLive key.Binding
	Save       key.Binding
	Quit       key.Binding
}

// ShortHelp implements help.KeyMap for the footer line.
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Decrement, k.Increment, k.BigInc, k.Zero, k.Full,
		k.ToggleLive, k.ToggleView, k.Universe, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap; the editor only shows the short line.
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
		Down:       key.NewBinding(key.WithKeys("down", "j")),
		Decrement:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "±1")),
		Increment:  key.NewBinding(key.WithKeys("right", "l")),
		BigDec:     key.NewBinding(key.WithKeys("shift+left", "H")),
		BigInc:     key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift", "±10")),
		Zero:       key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "zero")),
		Full:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "full")),
		PrevPage:   key.NewBinding(key.WithKeys("pgup", "[")),
		NextPage:   key.NewBinding(key.WithKeys("pgdown", "]")),
		Universe:   key.NewBinding(key.WithKeys("tab", "u"), key.WithHelp("tab", "universe")),
		ToggleView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view"), key.WithDisabled()),
		ToggleLive: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "live")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s", "s"), key.WithHelp("s", "save")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "close")),
	}
}

// editorModel is the scene content editor. One logical thread of control:
// all state changes happen inside Update, network calls and the push timer
// suspend into commands and report back as messages.
type editorModel struct {
	scene    *model.Scene
	store    *domain.DraftStore
	sessions *domain.SessionController
	dispatch *domain.Dispatcher
	closer   *domain.CloseReconciler
	plans    adapter.FixturePlanService

	// events carries dispatcher callbacks (which run off the tea loop)
	// back into Update.
	events chan tea.Msg

	keys editorKeyMap
	help help.Model

	universeIDs []model.UniverseID
	universe    int
	viewMode    model.ViewMode
	plan        *model.FixturePlan
	page        int
	cursor      int

	confirming bool
	busy       bool
	status     string
	savedScene model.SceneID
	closed     bool

	width  int
	height int
}

func newEditorModel(scene *model.Scene, store *domain.DraftStore, sessions *domain.SessionController,
	dispatch *domain.Dispatcher, closer *domain.CloseReconciler, plans adapter.FixturePlanService,
	events chan tea.Msg) editorModel {
	ids := make([]model.UniverseID, 0, len(scene.Universes))
	for id := range scene.Universes {
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

	return editorModel{
		scene:       scene,
		store:       store,
		sessions:    sessions,
		dispatch:    dispatch,
		closer:      closer,
		plans:       plans,
		events:      events,
		keys:        defaultEditorKeyMap(),
		help:        help.New(),
		universeIDs: ids,
		viewMode:    model.ViewRaw,
	}
}

func (m editorModel) Init() tea.Cmd {
	return tea.Batch(m.fetchPlanCmd(), m.waitEventCmd())
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case planMsg:
		if msg.err != nil {
			m.status = "fixture plan unavailable: raw view only"

			return m, nil
		}

		m.plan = msg.plan
		m.keys.ToggleView.SetEnabled(m.plan != nil && m.plan.Active)

		if m.plan != nil && m.plan.Active {
			// With an active plan the fixture view is the default; the raw
			// view stays one keypress away.
			m.viewMode = model.ViewFixture
		}

		return m, nil

	case liveToggledMsg:
		m.busy = false

		if msg.err != nil {
			m.status = msg.err.Error()

			return m, nil
		}

		m.dispatch.SetLive(msg.wantLive)

		if msg.wantLive {
			m.status = "live: edits stream to the rig"
			// The rig was seeded with the draft at start; from here on only
			// deltas matter, carried by the next scheduled push.
		} else {
			m.status = "silent: edits stay local"
		}

		return m, nil

	case pushConflictMsg:
		// The session controller was already demoted by the dispatcher
		// wiring; reflect it and keep the draft untouched.
		m.status = "live session lost: another editor took control (edits kept locally)"

		return m, m.waitEventCmd()

	case pushErrorMsg:
		m.status = "live update failed, will retry with next edit: " + msg.err.Error()

		return m, m.waitEventCmd()

	case savedMsg:
		m.busy = false

		if msg.err != nil {
			m.status = "save failed, edits kept: " + msg.err.Error()

			return m, nil
		}

		m.savedScene = msg.scene
		m.closed = true

		return m, tea.Quit

	case discardedMsg:
		m.closed = true

		return m, tea.Quit
	}

	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y", "enter":
			m.confirming = false

			return m, m.discardCmd()
		case "n", "esc", "q":
			m.confirming = false
			m.status = "close cancelled"
		}

		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.requestClose()

	case key.Matches(msg, m.keys.Save):
		m.busy = true
		m.status = "saving…"

		return m, m.saveCmd()

	case key.Matches(msg, m.keys.ToggleLive):
		return m.toggleMode()

	case key.Matches(msg, m.keys.ToggleView):
		if m.plan != nil && m.plan.Active {
			if m.viewMode == model.ViewRaw {
				m.viewMode = model.ViewFixture
			} else {
				m.viewMode = model.ViewRaw
			}

			m.cursor = 0
		}

	case key.Matches(msg, m.keys.Universe):
		if len(m.universeIDs) > 1 {
			m.universe = (m.universe + 1) % len(m.universeIDs)
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.PrevPage):
		m.page = domain.ClampPage(m.page-1, m.universeLen())
		m.cursor = 0

	case key.Matches(msg, m.keys.NextPage):
		m.page = domain.ClampPage(m.page+1, m.universeLen())
		m.cursor = 0

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.itemCount()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Increment):
		m.nudge(1)
	case key.Matches(msg, m.keys.Decrement):
		m.nudge(-1)
	case key.Matches(msg, m.keys.BigInc):
		m.nudge(10)
	case key.Matches(msg, m.keys.BigDec):
		m.nudge(-10)
	case key.Matches(msg, m.keys.Zero):
		m.set(0)
	case key.Matches(msg, m.keys.Full):
		m.set(255)
	}

	return m, nil
}

func (m *editorModel) toggleMode() (tea.Model, tea.Cmd) {
	if m.sessions.Live() {
		m.busy = true
		m.status = "stopping live session…"

		return *m, m.goSilentCmd()
	}

	m.busy = true
	m.status = "starting live session…"

	return *m, m.goLiveCmd()
}

func (m *editorModel) requestClose() (tea.Model, tea.Cmd) {
	if m.closer.NeedsConfirm() {
		m.confirming = true

		return *m, nil
	}

	return *m, m.discardCmd()
}

// nudge adjusts the selected channel relative to its current value.
func (m *editorModel) nudge(delta int) {
	universe, channel, ok := m.selected()
	if !ok {
		return
	}

	current, _ := m.store.Value(universe, channel)
	m.apply(universe, channel, float64(int(current)+delta))
}

// set writes an absolute value to the selected channel.
func (m *editorModel) set(value float64) {
	universe, channel, ok := m.selected()
	if !ok {
		return
	}

	m.apply(universe, channel, value)
}

func (m *editorModel) apply(universe model.UniverseID, channel int, value float64) {
	snapshot := m.store.SetChannel(universe, channel, value)
	m.dispatch.Offer(snapshot)
}

// selected resolves the cursor to a (universe, 0-based channel) pair.
func (m *editorModel) selected() (model.UniverseID, int, bool) {
	if m.viewMode == model.ViewFixture {
		params := m.visibleParameters()
		if m.cursor >= len(params) {
			return "", 0, false
		}

		p := params[m.cursor]

		return p.Universe, p.Channel - 1, true
	}

	page := m.rawPage()
	if m.cursor >= len(page.Values) {
		return "", 0, false
	}

	return m.currentUniverse(), page.Start + m.cursor, true
}

func (m *editorModel) currentUniverse() model.UniverseID {
	if len(m.universeIDs) == 0 {
		return ""
	}

	return m.universeIDs[m.universe]
}

func (m *editorModel) universeLen() int {
	return len(m.store.Snapshot()[m.currentUniverse()])
}

func (m *editorModel) rawPage() domain.RawPage {
	return domain.RawPageFor(m.store.Snapshot(), m.currentUniverse(), m.page)
}

func (m *editorModel) fixtureGroups() []domain.FixtureGroup {
	return domain.FixtureGroups(m.store.Snapshot(), m.plan, m.currentUniverse())
}

func (m *editorModel) visibleParameters() []domain.ParameterValue {
	var params []domain.ParameterValue
	for _, group := range m.fixtureGroups() {
		params = append(params, group.Parameters...)
	}

	return params
}

func (m *editorModel) itemCount() int {
	if m.viewMode == model.ViewFixture {
		return len(m.visibleParameters())
	}

	return len(m.rawPage().Values)
}

func (m editorModel) fetchPlanCmd() tea.Cmd {
	return func() tea.Msg {
		plan, err := m.plans.GetFixturePlan(context.Background())
		if err != nil {
			if adapter.IsNotApplicable(err) {
				return planMsg{}
			}

			return planMsg{err: err}
		}

		return planMsg{plan: plan}
	}
}

func (m editorModel) waitEventCmd() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m editorModel) goLiveCmd() tea.Cmd {
	snapshot := m.store.Snapshot()
	sceneID := m.scene.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		return liveToggledMsg{wantLive: true, err: m.sessions.GoLive(ctx, sceneID, snapshot)}
	}
}

func (m editorModel) goSilentCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		return liveToggledMsg{wantLive: false, err: m.sessions.GoSilent(ctx, true)}
	}
}

func (m editorModel) saveCmd() tea.Cmd {
	sceneID := m.scene.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		return savedMsg{scene: sceneID, err: m.closer.Save(ctx, sceneID)}
	}
}

func (m editorModel) discardCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		m.closer.Discard(ctx)

		return discardedMsg{}
	}
}
