package controller

import "luxdeck/internal/model"

// Message types for the editor model.

type planMsg struct {
	plan *model.FixturePlan
	err  error
}

type liveToggledMsg struct {
	wantLive bool
	err      error
}

type savedMsg struct {
	scene model.SceneID
	err   error
}

type discardedMsg struct{}

// pushConflictMsg arrives from the dispatcher when a live push was rejected
// because the session is gone or taken.
type pushConflictMsg struct{}

// pushErrorMsg reports a transient push failure; the session stays live.
type pushErrorMsg struct {
	err error
}
