package domain

import (
	"context"
	"fmt"
	"sync"

	"luxdeck/internal/adapter"
	"luxdeck/internal/model"
)

// SessionState is the edit-session state machine's position.
type SessionState string

const (
	// StateSilent means no live session is held; edits stay local.
	StateSilent SessionState = "silent"
	// StateLiveStarting means a start request is outstanding.
	StateLiveStarting SessionState = "live-starting"
	// StateLive means the rig output follows the draft.
	StateLive SessionState = "live"
	// StateLiveStopping means a stop request is outstanding.
	StateLiveStopping SessionState = "live-stopping"
)

// SessionController governs silent vs. live editing: acquiring and
// releasing the rig's singleton edit session and recovering from
// conflicting holders.
//
// The mutex is held across whole transitions, so at most one start or stop
// is ever outstanding and observers never see a half-finished transition.
type SessionController struct {
	session     adapter.LiveSession
	controlMode func() model.ControlMode

	mu    sync.Mutex
	state SessionState
}

// NewSessionController builds a controller in the Silent state. controlMode
// is the injected capability flag: live editing is only allowed while the
// local panel owns the rig output.
func NewSessionController(session adapter.LiveSession, controlMode func() model.ControlMode) *SessionController {
	if controlMode == nil {
		controlMode = func() model.ControlMode { return model.ControlPanel }
	}

	return &SessionController{
		session:     session,
		controlMode: controlMode,
		state:       StateSilent,
	}
}

// State returns the current machine state.
func (c *SessionController) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Live reports whether the controller believes it holds the session.
func (c *SessionController) Live() bool {
	return c.State() == StateLive
}

// GoLive acquires the live session for the scene, seeding the rig with the
// current draft snapshot.
//
// A conflict on start triggers exactly one recovery attempt: stop the
// foreign session with restore (result ignored, it may belong to a crashed
// client), then retry the start once. A second conflict, or any other
// failure, lands back in Silent. The single bounded retry is deliberate;
// anything more would let two consoles fight over the rig indefinitely.
func (c *SessionController) GoLive(ctx context.Context, scene model.SceneID, snapshot model.Universes) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mode := c.controlMode(); mode != model.ControlPanel {
		return adapter.Wrap(adapter.ErrRejected, "go live", fmt.Sprintf("rig is under %s control", mode), nil)
	}

	if c.state != StateSilent {
		return nil
	}

	c.state = StateLiveStarting

	err := c.session.StartLiveSession(ctx, scene, snapshot)
	if adapter.IsConflict(err) {
		_ = c.session.StopLiveSession(ctx, true)
		err = c.session.StartLiveSession(ctx, scene, snapshot)
	}

	if err != nil {
		c.state = StateSilent

		return fmt.Errorf("could not start live editing, possibly another editor is active: %w", err)
	}

	c.state = StateLive

	return nil
}

// GoSilent releases the session. restorePrevious reverts the rig to what it
// showed before the session began; save paths pass true as well since the
// distinction is immaterial once the draft is persisted.
//
// On failure the controller stays Live: it must never claim Silent while a
// session might still be held externally.
func (c *SessionController) GoSilent(ctx context.Context, restorePrevious bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLive {
		return nil
	}

	c.state = StateLiveStopping

	if err := c.session.StopLiveSession(ctx, restorePrevious); err != nil && !adapter.IsNotApplicable(err) {
		c.state = StateLive

		return fmt.Errorf("live session stop could not be confirmed, retry: %w", err)
	}

	c.state = StateSilent

	return nil
}

// ForceSilent handles a conflict reported asynchronously during Live: the
// session is already known to be gone or taken, so no stop call is issued.
func (c *SessionController) ForceSilent() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateSilent
}

// Release is the exit-path cleanup: issue one best-effort stop with restore
// regardless of believed state and land in Silent. Failures are swallowed;
// cleanup must never block teardown. A stop with no session active is a
// no-op at the rig.
func (c *SessionController) Release(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.session.StopLiveSession(ctx, true)

	c.state = StateSilent
}
