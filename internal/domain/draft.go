// Package domain implements the scene content editing core: the draft
// store, its projections, the live-update dispatcher and the session state
// machine.
package domain

import (
	"math"

	"luxdeck/internal/model"
)

// DraftStore owns the working copy of a scene's channel data while an
// editor is open. It is exclusively owned by that single editor; nothing
// else mutates it.
//
// Snapshots returned by SetChannel and Snapshot are safe to hand to other
// goroutines: every mutation builds a fresh map and a fresh array for the
// touched universe, so a snapshot never changes after it is taken.
type DraftStore struct {
	original model.Universes
	draft    model.Universes
}

// NewDraftStore copies the scene's universes twice: one frozen original for
// dirty comparison, one draft for editing.
func NewDraftStore(universes model.Universes) *DraftStore {
	return &DraftStore{
		original: universes.Clone(),
		draft:    universes.Clone(),
	}
}

// SetChannel writes a channel value into the draft and returns the new
// snapshot. The raw value is rounded to the nearest integer and clamped to
// [0,255]. Unknown universes and out-of-range channel indexes are no-ops
// returning the unchanged snapshot; a slider must never be able to crash
// the editor.
func (s *DraftStore) SetChannel(universe model.UniverseID, channel int, raw float64) model.Universes {
	channels, ok := s.draft[universe]
	if !ok || channel < 0 || channel >= len(channels) {
		return s.draft
	}

	value := clampChannel(raw)
	if channels[channel] == value {
		return s.draft
	}

	next := make(model.Universes, len(s.draft))
	for id, arr := range s.draft {
		next[id] = arr
	}

	updated := append([]byte(nil), channels...)
	updated[channel] = value
	next[universe] = updated

	s.draft = next

	return s.draft
}

// Snapshot returns the current draft. Callers must treat it as immutable.
func (s *DraftStore) Snapshot() model.Universes {
	return s.draft
}

// Original returns the frozen open-time copy.
func (s *DraftStore) Original() model.Universes {
	return s.original
}

// Dirty reports whether the draft differs from the open-time original by
// deep value comparison. An edit undone by its exact inverse reads clean.
func (s *DraftStore) Dirty() bool {
	return !s.draft.Equal(s.original)
}

// Value reads one channel from the draft; ok is false out of range.
func (s *DraftStore) Value(universe model.UniverseID, channel int) (byte, bool) {
	channels, found := s.draft[universe]
	if !found || channel < 0 || channel >= len(channels) {
		return 0, false
	}

	return channels[channel], true
}

func clampChannel(raw float64) byte {
	v := math.Round(raw)
	if v < 0 || math.IsNaN(v) {
		return 0
	}

	if v > 255 {
		return 255
	}

	return byte(v)
}
