package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"luxdeck/internal/api"
	"luxdeck/internal/model"
)

// SceneService is the slice of the rig API covering stored scenes.
type SceneService interface {
	ListScenes(ctx context.Context) ([]model.SceneSummary, error)
	GetScene(ctx context.Context, id model.SceneID) (*model.Scene, error)
	CreateScene(ctx context.Context, name string, universes model.Universes) (*model.Scene, error)
	SaveSceneContent(ctx context.Context, id model.SceneID, universes model.Universes) error
	RenameScene(ctx context.Context, id model.SceneID, name string) error
	DeleteScene(ctx context.Context, id model.SceneID) error
}

// LiveSession is the exclusive, revocable grant for streaming edits to the
// rig's output. Start reports conflicts via ErrConflict; callers decide the
// recovery policy.
type LiveSession interface {
	StartLiveSession(ctx context.Context, scene model.SceneID, snapshot model.Universes) error
	PushLiveUpdate(ctx context.Context, snapshot model.Universes) error
	StopLiveSession(ctx context.Context, restorePrevious bool) error
}

// FixturePlanService fetches the externally authored fixture plan.
// ErrNotApplicable marks a rig with no plan configured.
type FixturePlanService interface {
	GetFixturePlan(ctx context.Context) (*model.FixturePlan, error)
}

// PlaybackService covers the host-chrome playback controls.
type PlaybackService interface {
	PlayScene(ctx context.Context, id model.SceneID) error
	StopPlayback(ctx context.Context) error
	Blackout(ctx context.Context) error
	SetMaster(ctx context.Context, level float64) error
	Status(ctx context.Context) (*api.StatusResponse, error)
}

// Client is the HTTP client for the rig daemon. It implements SceneService,
// LiveSession, FixturePlanService and PlaybackService.
//
// The live-session token handed out by the rig is held inside the client so
// the editor core never sees it; a push after the session was taken by
// someone else fails with ErrConflict just like a push with no token.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.Mutex
	token string
}

// NewClient builds a rig client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// ListScenes returns all stored scenes without channel data.
func (c *Client) ListScenes(ctx context.Context) ([]model.SceneSummary, error) {
	var wire []api.SceneSummary
	if err := c.do(ctx, http.MethodGet, "/api/scenes", nil, &wire); err != nil {
		return nil, err
	}

	scenes := make([]model.SceneSummary, 0, len(wire))
	for _, s := range wire {
		scenes = append(scenes, model.SceneSummary{
			ID:        model.SceneID(s.ID),
			Name:      s.Name,
			Universes: s.Universes,
			Channels:  s.Channels,
		})
	}

	return scenes, nil
}

// GetScene fetches one scene with full channel data.
func (c *Client) GetScene(ctx context.Context, id model.SceneID) (*model.Scene, error) {
	var wire api.Scene
	if err := c.do(ctx, http.MethodGet, "/api/scenes/"+url.PathEscape(string(id)), nil, &wire); err != nil {
		return nil, err
	}

	return sceneFromWire(wire), nil
}

// CreateScene stores a new scene and returns it with its assigned ID.
func (c *Client) CreateScene(ctx context.Context, name string, universes model.Universes) (*model.Scene, error) {
	req := api.CreateSceneRequest{Name: name, Universes: api.FromUniverses(universes)}

	var wire api.Scene
	if err := c.do(ctx, http.MethodPost, "/api/scenes", req, &wire); err != nil {
		return nil, err
	}

	return sceneFromWire(wire), nil
}

// SaveSceneContent replaces a scene's channel data in permanent storage.
func (c *Client) SaveSceneContent(ctx context.Context, id model.SceneID, universes model.Universes) error {
	req := api.SaveSceneRequest{Universes: api.FromUniverses(universes)}

	return c.do(ctx, http.MethodPut, "/api/scenes/"+url.PathEscape(string(id)), req, nil)
}

// RenameScene changes a scene's display name.
func (c *Client) RenameScene(ctx context.Context, id model.SceneID, name string) error {
	req := api.RenameSceneRequest{Name: name}

	return c.do(ctx, http.MethodPut, "/api/scenes/"+url.PathEscape(string(id))+"/name", req, nil)
}

// DeleteScene removes a stored scene.
func (c *Client) DeleteScene(ctx context.Context, id model.SceneID) error {
	return c.do(ctx, http.MethodDelete, "/api/scenes/"+url.PathEscape(string(id)), nil, nil)
}

// StartLiveSession acquires the rig's singleton edit session. On success the
// returned token is kept for the pushes and the stop that follow.
func (c *Client) StartLiveSession(ctx context.Context, scene model.SceneID, snapshot model.Universes) error {
	req := api.StartSessionRequest{SceneID: string(scene), Universes: api.FromUniverses(snapshot)}

	var resp api.StartSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/session", req, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()

	return nil
}

// PushLiveUpdate streams a full draft snapshot into the live session.
func (c *Client) PushLiveUpdate(ctx context.Context, snapshot model.Universes) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	req := api.PushUpdateRequest{Token: token, Universes: api.FromUniverses(snapshot)}

	err := c.do(ctx, http.MethodPut, "/api/session", req, nil)
	if IsConflict(err) {
		// The session is gone or taken; the token is useless now.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
	}

	return err
}

// StopLiveSession releases the session. A stop with no session on either
// side is a no-op, not an error: discard paths issue it unconditionally.
func (c *Client) StopLiveSession(ctx context.Context, restorePrevious bool) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	path := "/api/session?restore=" + strconv.FormatBool(restorePrevious)
	if token != "" {
		path += "&token=" + url.QueryEscape(token)
	}

	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil && !IsNotApplicable(err) {
		return err
	}

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	return nil
}

// GetFixturePlan fetches the rig's fixture plan.
func (c *Client) GetFixturePlan(ctx context.Context) (*model.FixturePlan, error) {
	var plan model.FixturePlan
	if err := c.do(ctx, http.MethodGet, "/api/fixtures/plan", nil, &plan); err != nil {
		return nil, err
	}

	return &plan, nil
}

// PlayScene asks the rig to output a stored scene.
func (c *Client) PlayScene(ctx context.Context, id model.SceneID) error {
	return c.do(ctx, http.MethodPost, "/api/scenes/"+url.PathEscape(string(id))+"/play", nil, nil)
}

// StopPlayback clears the currently playing scene.
func (c *Client) StopPlayback(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/playback/stop", nil, nil)
}

// Blackout zeroes all rig output until the next play.
func (c *Client) Blackout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/playback/blackout", nil, nil)
}

// SetMaster sets the master dimmer level in [0,1].
func (c *Client) SetMaster(ctx context.Context, level float64) error {
	return c.do(ctx, http.MethodPut, "/api/playback/master", api.MasterRequest{Level: level}, nil)
}

// Status reports the rig's playback and session state.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var status api.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Wrap(ErrRejected, op, "encode request", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Wrap(ErrRejected, op, "build request", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Wrap(ErrTransient, op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Wrap(ErrTransient, op, "decode response", err)
		}

		return nil
	}

	return classifyStatus(op, resp)
}

func classifyStatus(op string, resp *http.Response) error {
	var body api.ErrorResponse

	detail := resp.Status
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Error != "" {
		detail = fmt.Sprintf("%s: %s", resp.Status, body.Error)
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return Wrap(ErrConflict, op, detail, nil)
	case http.StatusNotFound, http.StatusGone:
		return Wrap(ErrNotApplicable, op, detail, nil)
	case http.StatusBadRequest, http.StatusForbidden, http.StatusUnprocessableEntity:
		return Wrap(ErrRejected, op, detail, nil)
	default:
		return Wrap(ErrTransient, op, detail, nil)
	}
}

func sceneFromWire(wire api.Scene) *model.Scene {
	return &model.Scene{
		ID:        model.SceneID(wire.ID),
		Name:      wire.Name,
		Universes: api.ToUniverses(wire.Universes),
	}
}
