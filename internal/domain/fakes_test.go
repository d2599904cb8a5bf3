package domain

import (
	"context"
	"sync"
	"time"

	"luxdeck/internal/adapter"
	"luxdeck/internal/model"
)

type startCall struct {
	scene    model.SceneID
	snapshot model.Universes
}

type stopCall struct {
	restore bool
}

// fakeRig scripts the live-session collaborator. Errors in startErrs are
// consumed one per StartLiveSession call; a nil entry means success.
// When pushStarted/pushRelease are set, each push signals entry and then
// blocks until released, so tests can hold a push on the wire.
type fakeRig struct {
	mu sync.Mutex

	startErrs []error
	pushErr   error
	stopErr   error

	pushStarted chan struct{}
	pushRelease chan struct{}

	starts []startCall
	pushes []model.Universes
	stops  []stopCall

	pushesInFlight int
	maxPushesSeen  int
}

func (f *fakeRig) StartLiveSession(_ context.Context, scene model.SceneID, snapshot model.Universes) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.starts = append(f.starts, startCall{scene: scene, snapshot: snapshot})

	if len(f.startErrs) == 0 {
		return nil
	}

	err := f.startErrs[0]
	f.startErrs = f.startErrs[1:]

	return err
}

func (f *fakeRig) PushLiveUpdate(_ context.Context, snapshot model.Universes) error {
	f.mu.Lock()
	f.pushes = append(f.pushes, snapshot)
	f.pushesInFlight++

	if f.pushesInFlight > f.maxPushesSeen {
		f.maxPushesSeen = f.pushesInFlight
	}

	started := f.pushStarted
	release := f.pushRelease
	err := f.pushErr
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}

	if release != nil {
		<-release
	}

	f.mu.Lock()
	f.pushesInFlight--
	f.mu.Unlock()

	return err
}

func (f *fakeRig) StopLiveSession(_ context.Context, restore bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stops = append(f.stops, stopCall{restore: restore})

	return f.stopErr
}

func (f *fakeRig) counts() (starts, pushes, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.starts), len(f.pushes), len(f.stops)
}

func (f *fakeRig) maxConcurrentPushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.maxPushesSeen
}

// fakeScenes records saves; the rest of SceneService is unused by the core.
type fakeScenes struct {
	saveErr error
	saves   []startCall
}

func (f *fakeScenes) ListScenes(context.Context) ([]model.SceneSummary, error) { return nil, nil }

func (f *fakeScenes) GetScene(context.Context, model.SceneID) (*model.Scene, error) {
	return nil, nil
}

func (f *fakeScenes) CreateScene(context.Context, string, model.Universes) (*model.Scene, error) {
	return nil, nil
}

func (f *fakeScenes) SaveSceneContent(_ context.Context, id model.SceneID, universes model.Universes) error {
	f.saves = append(f.saves, startCall{scene: id, snapshot: universes})

	return f.saveErr
}

func (f *fakeScenes) RenameScene(context.Context, model.SceneID, string) error { return nil }

func (f *fakeScenes) DeleteScene(context.Context, model.SceneID) error { return nil }

var (
	_ adapter.LiveSession  = (*fakeRig)(nil)
	_ adapter.SceneService = (*fakeScenes)(nil)
)

// manualScheduler captures scheduled callbacks so tests control when the
// quiescence timer fires.
type manualScheduler struct {
	mu        sync.Mutex
	pending   []func()
	cancelled int
}

func (s *manualScheduler) schedule(_ time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, fn)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.cancelled++

		return true
	}
}

// fire runs all pending callbacks, clearing the queue first so re-schedules
// from inside a callback are kept for the next round.
func (s *manualScheduler) fire() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func (s *manualScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

func testUniverses() model.Universes {
	return model.Universes{
		"1": make([]byte, 32),
		"2": make([]byte, 8),
	}
}
