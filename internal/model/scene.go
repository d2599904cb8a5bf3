// Package model defines the data structures for scenes, fixture plans and
// editing sessions.
package model

import "bytes"

// SceneID identifies a stored scene.
type SceneID string

// UniverseID identifies a DMX universe. IDs are small numeric strings
// ("1", "2", ...) matching how the rig addresses its outputs.
type UniverseID string

// Universes maps universe IDs to their channel arrays. Each channel holds
// one byte value in [0,255]; array length is fixed per universe.
type Universes map[UniverseID][]byte

// Clone returns a deep copy. Mutating the copy never affects the original.
func (u Universes) Clone() Universes {
	if u == nil {
		return nil
	}

	out := make(Universes, len(u))
	for id, channels := range u {
		out[id] = append([]byte(nil), channels...)
	}

	return out
}

// Equal reports deep value equality across all universes and channels.
func (u Universes) Equal(other Universes) bool {
	if len(u) != len(other) {
		return false
	}

	for id, channels := range u {
		if !bytes.Equal(channels, other[id]) {
			return false
		}
	}

	return true
}

// Scene is a stored lighting scene. Identity is the ID; the editor never
// mutates a loaded scene except through an explicit save.
type Scene struct {
	ID        SceneID
	Name      string
	Universes Universes
}

// SceneSummary is what scene lists carry; channel data stays on the rig.
type SceneSummary struct {
	ID        SceneID
	Name      string
	Universes int
	Channels  int
}
