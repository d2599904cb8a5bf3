package rig

import (
	"sync"

	"luxdeck/internal/model"
)

// sceneChange is fanned out to every connected SSE subscriber.
type sceneChange struct {
	SceneID model.SceneID
}

// Broadcaster fans scene-change notifications out to SSE subscribers.
// Slow subscribers drop events rather than block the publisher; a dropped
// refresh hint is harmless, clients re-list on the next one.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan sceneChange]struct{}
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan sceneChange]struct{})}
}

// Subscribe registers a subscriber. The returned cancel must be called when
// the connection goes away.
func (b *Broadcaster) Subscribe() (<-chan sceneChange, func()) {
	ch := make(chan sceneChange, 8)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}

	return ch, cancel
}

// Publish notifies all subscribers that a scene (or the whole list) changed.
func (b *Broadcaster) Publish(id model.SceneID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- sceneChange{SceneID: id}:
		default:
		}
	}
}
