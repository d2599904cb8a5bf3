package rig

import (
	"sync"

	"luxdeck/internal/model"
)

// Output is the rig's current output frame: what the fixtures would show.
// Physical rendering is out of scope; the frame is the source of truth for
// playback, live preview and restore-on-stop.
type Output struct {
	mu      sync.RWMutex
	frame   model.Universes
	master  float64
	playing model.SceneID
	control model.ControlMode
}

// NewOutput builds a dark frame from the configured universe sizes.
func NewOutput(sizes map[string]int) *Output {
	frame := make(model.Universes, len(sizes))
	for id, size := range sizes {
		frame[model.UniverseID(id)] = make([]byte, size)
	}

	return &Output{frame: frame, master: 1, control: model.ControlPanel}
}

// Frame returns a copy of the current output frame with the master dimmer
// applied.
func (o *Output) Frame() model.Universes {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := o.frame.Clone()
	if o.master >= 1 {
		return out
	}

	for _, channels := range out {
		for i, v := range channels {
			channels[i] = byte(float64(v) * o.master)
		}
	}

	return out
}

// Raw returns a copy of the frame before master scaling; this is what a
// live-session restore snapshot captures.
func (o *Output) Raw() model.Universes {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.frame.Clone()
}

// Apply replaces the frame with the given universes. Universes the rig does
// not have are dropped; short arrays leave the tail untouched.
func (o *Output) Apply(universes model.Universes) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.apply(universes)
}

func (o *Output) apply(universes model.Universes) {
	for id, values := range universes {
		target, ok := o.frame[id]
		if !ok {
			continue
		}

		copy(target, values)
	}
}

// Play applies a scene and records it as the playing one.
func (o *Output) Play(id model.SceneID, universes model.Universes) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.apply(universes)
	o.playing = id
}

// StopPlayback forgets the playing scene, leaving the frame as-is.
func (o *Output) StopPlayback() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.playing = ""
}

// Playing returns the id of the scene last played, if any.
func (o *Output) Playing() model.SceneID {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.playing
}

// Blackout zeroes every channel and clears the playing scene.
func (o *Output) Blackout() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, channels := range o.frame {
		for i := range channels {
			channels[i] = 0
		}
	}

	o.playing = ""
}

// SetMaster clamps and stores the master dimmer level.
func (o *Output) SetMaster(level float64) {
	if level < 0 {
		level = 0
	}

	if level > 1 {
		level = 1
	}

	o.mu.Lock()
	o.master = level
	o.mu.Unlock()
}

// Master returns the master dimmer level.
func (o *Output) Master() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.master
}

// SetControl records who owns the console surface. An external desk claims
// it before taking over and releases it back to panel when done.
func (o *Output) SetControl(mode model.ControlMode) {
	o.mu.Lock()
	o.control = mode
	o.mu.Unlock()
}

// Control returns the current console-surface owner.
func (o *Output) Control() model.ControlMode {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.control
}
