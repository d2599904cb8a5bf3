package domain

import (
	"context"
	"fmt"

	"luxdeck/internal/adapter"
	"luxdeck/internal/model"
)

// CloseReconciler decides, on every attempted exit, whether unsaved work
// needs confirmation, and guarantees the live session is released on every
// exit path.
type CloseReconciler struct {
	store      *DraftStore
	sessions   *SessionController
	dispatcher *Dispatcher
	scenes     adapter.SceneService

	// onSaved tells the host which scene changed so its list can refresh.
	onSaved func(model.SceneID)
}

// NewCloseReconciler wires the exit paths together. onSaved may be nil.
func NewCloseReconciler(store *DraftStore, sessions *SessionController, dispatcher *Dispatcher, scenes adapter.SceneService, onSaved func(model.SceneID)) *CloseReconciler {
	return &CloseReconciler{
		store:      store,
		sessions:   sessions,
		dispatcher: dispatcher,
		scenes:     scenes,
		onSaved:    onSaved,
	}
}

// NeedsConfirm reports whether a close attempt must show a discard
// confirmation instead of closing.
func (r *CloseReconciler) NeedsConfirm() bool {
	return r.store.Dirty()
}

// Discard is the confirmed-discard and already-clean close path: cancel any
// pending push, then release the session with restore so the rig reverts to
// whatever it showed before the session began. Always issues exactly one
// stop, even if no session was ever started.
func (r *CloseReconciler) Discard(ctx context.Context) {
	r.dispatcher.Close()
	r.sessions.Release(ctx)
}

// Save persists the full draft to the scene's permanent storage, then
// releases the session. If persistence fails no stop is issued and the
// draft and mode are unchanged, so the operator can retry without losing
// edits.
func (r *CloseReconciler) Save(ctx context.Context, id model.SceneID) error {
	if err := r.scenes.SaveSceneContent(ctx, id, r.store.Snapshot()); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}

	r.dispatcher.Close()

	// The saved draft is already on the rig output; restore is passed for
	// symmetry and is immaterial post-save.
	r.sessions.Release(ctx)

	if r.onSaved != nil {
		r.onSaved(id)
	}

	return nil
}
