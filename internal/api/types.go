// Package api defines the wire types shared by the rig daemon and its
// clients.
package api

// SceneSummary is the list DTO; channel data is omitted.
type SceneSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Universes int    `json:"universes"`
	Channels  int    `json:"channels"`
}

// Scene carries full channel data. Universe arrays travel as plain number
// arrays so payloads stay readable in logs and curl output.
type Scene struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Universes map[string][]int `json:"universes"`
}

// CreateSceneRequest creates a new stored scene.
type CreateSceneRequest struct {
	Name      string           `json:"name"`
	Universes map[string][]int `json:"universes"`
}

// SaveSceneRequest replaces a scene's channel data.
type SaveSceneRequest struct {
	Universes map[string][]int `json:"universes"`
}

// RenameSceneRequest renames a stored scene.
type RenameSceneRequest struct {
	Name string `json:"name"`
}

// StartSessionRequest opens the live edit session against a scene. The
// snapshot seeds the rig output and is what a restore-on-stop reverts from.
type StartSessionRequest struct {
	SceneID   string           `json:"scene_id"`
	Universes map[string][]int `json:"universes"`
}

// StartSessionResponse returns the token the holder presents on every
// subsequent push and stop.
type StartSessionResponse struct {
	Token string `json:"token"`
}

// PushUpdateRequest streams a full draft snapshot to the live session.
type PushUpdateRequest struct {
	Token     string           `json:"token"`
	Universes map[string][]int `json:"universes"`
}

// MasterRequest sets the master dimmer level in [0,1].
type MasterRequest struct {
	Level float64 `json:"level"`
}

// StatusResponse reports the rig's playback and session state.
type StatusResponse struct {
	Playing     string  `json:"playing,omitempty"`
	LiveSession bool    `json:"live_session"`
	LiveScene   string  `json:"live_scene,omitempty"`
	Master      float64 `json:"master"`
	Control     string  `json:"control"`
}

// ControlRequest claims or releases the console surface ("panel" or
// "external").
type ControlRequest struct {
	Mode string `json:"mode"`
}

// ErrorResponse is the body of any non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Event is one server-sent event payload.
type Event struct {
	SceneID string `json:"scene_id,omitempty"`
}

// EventScenes is the SSE event name announcing that the stored scene list
// (or a scene's content) changed and clients should refresh.
const EventScenes = "scenes"
