package rig

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"luxdeck/internal/model"
)

// Session errors reported to the HTTP layer.
var (
	// ErrSessionConflict means another holder has the singleton session, or
	// a push presented a token that is no longer the holder's.
	ErrSessionConflict = errors.New("another live session is active")
	// ErrNoSession means a stop found nothing to release.
	ErrNoSession = errors.New("no live session")
)

// Sessions guards the rig's singleton live edit session. At most one token
// is valid at a time; starting while one is held is a conflict, and every
// push must present the current token. The pre-session output frame is kept
// for restore-on-stop.
type Sessions struct {
	output *Output

	mu       sync.Mutex
	token    string
	scene    model.SceneID
	previous model.Universes
}

// NewSessions wires the session guard to the output frame.
func NewSessions(output *Output) *Sessions {
	return &Sessions{output: output}
}

// Start acquires the session for a scene, seeding the output with the
// caller's snapshot. Returns the holder token.
func (s *Sessions) Start(scene model.SceneID, snapshot model.Universes) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return "", ErrSessionConflict
	}

	s.token = uuid.NewString()
	s.scene = scene
	s.previous = s.output.Raw()

	s.output.Apply(snapshot)

	return s.token, nil
}

// Push applies a snapshot from the current holder.
func (s *Sessions) Push(token string, snapshot model.Universes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || token != s.token {
		return ErrSessionConflict
	}

	s.output.Apply(snapshot)

	return nil
}

// Stop releases the session. With restore the output reverts to the
// pre-session frame. A token is honored only if it matches; an empty token
// force-releases, which is how a conflicting editor evicts a stale holder
// before retrying its start.
func (s *Sessions) Stop(token string, restore bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return ErrNoSession
	}

	if token != "" && token != s.token {
		return ErrSessionConflict
	}

	if restore && s.previous != nil {
		s.output.Apply(s.previous)
	}

	s.token = ""
	s.scene = ""
	s.previous = nil

	return nil
}

// Active reports whether a session is held, and for which scene.
func (s *Sessions) Active() (bool, model.SceneID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token != "", s.scene
}
