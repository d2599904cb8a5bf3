package rig

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"luxdeck/internal/api"
	"luxdeck/internal/model"
)

// Server exposes the rig over HTTP.
type Server struct {
	logger   *slog.Logger
	store    *Store
	output   *Output
	sessions *Sessions
	plans    *PlanSource
	events   *Broadcaster
	router   chi.Router
}

// NewServer assembles the router over the rig's parts.
func NewServer(logger *slog.Logger, store *Store, output *Output, sessions *Sessions, plans *PlanSource) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger:   logger,
		store:    store,
		output:   output,
		sessions: sessions,
		plans:    plans,
		events:   NewBroadcaster(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/scenes", s.handleListScenes)
		r.Post("/scenes", s.handleCreateScene)
		r.Get("/scenes/{id}", s.handleGetScene)
		r.Put("/scenes/{id}", s.handleSaveScene)
		r.Put("/scenes/{id}/name", s.handleRenameScene)
		r.Delete("/scenes/{id}", s.handleDeleteScene)
		r.Post("/scenes/{id}/play", s.handlePlayScene)

		r.Post("/playback/stop", s.handleStopPlayback)
		r.Post("/playback/blackout", s.handleBlackout)
		r.Put("/playback/master", s.handleSetMaster)

		r.Post("/session", s.handleStartSession)
		r.Put("/session", s.handlePushSession)
		r.Delete("/session", s.handleStopSession)

		r.Get("/fixtures/plan", s.handleGetPlan)
		r.Post("/fixtures/plan/reload", s.handleReloadPlan)

		r.Put("/control", s.handleSetControl)

		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
	})

	s.router = r

	return s
}

// Handler returns the HTTP handler for serving or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "list scenes", err)

		return
	}

	out := make([]api.SceneSummary, 0, len(scenes))
	for _, sc := range scenes {
		out = append(out, api.SceneSummary{
			ID:        string(sc.ID),
			Name:      sc.Name,
			Universes: sc.Universes,
			Channels:  sc.Channels,
		})
	}

	s.respond(w, http.StatusOK, out)
}

func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSceneRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Name == "" {
		s.fail(w, http.StatusBadRequest, "create scene", errors.New("name must not be empty"))

		return
	}

	scene, err := s.store.Create(r.Context(), req.Name, api.ToUniverses(req.Universes))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "create scene", err)

		return
	}

	s.events.Publish(scene.ID)
	s.respond(w, http.StatusCreated, sceneToWire(scene))
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.store.Get(r.Context(), sceneID(r))
	if err != nil {
		s.failScene(w, "get scene", err)

		return
	}

	s.respond(w, http.StatusOK, sceneToWire(scene))
}

func (s *Server) handleSaveScene(w http.ResponseWriter, r *http.Request) {
	var req api.SaveSceneRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := sceneID(r)
	if err := s.store.SaveContent(r.Context(), id, api.ToUniverses(req.Universes)); err != nil {
		s.failScene(w, "save scene", err)

		return
	}

	s.events.Publish(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenameScene(w http.ResponseWriter, r *http.Request) {
	var req api.RenameSceneRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Name == "" {
		s.fail(w, http.StatusBadRequest, "rename scene", errors.New("name must not be empty"))

		return
	}

	id := sceneID(r)
	if err := s.store.Rename(r.Context(), id, req.Name); err != nil {
		s.failScene(w, "rename scene", err)

		return
	}

	s.events.Publish(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	id := sceneID(r)
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.failScene(w, "delete scene", err)

		return
	}

	s.events.Publish(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlayScene(w http.ResponseWriter, r *http.Request) {
	id := sceneID(r)

	scene, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.failScene(w, "play scene", err)

		return
	}

	s.output.Play(id, scene.Universes)
	s.logger.Info("playing scene", "scene", id, "name", scene.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStopPlayback(w http.ResponseWriter, _ *http.Request) {
	s.output.StopPlayback()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBlackout(w http.ResponseWriter, _ *http.Request) {
	s.output.Blackout()
	s.logger.Info("blackout")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMaster(w http.ResponseWriter, r *http.Request) {
	var req api.MasterRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Level < 0 || req.Level > 1 {
		s.fail(w, http.StatusUnprocessableEntity, "set master", fmt.Errorf("level %v out of range [0,1]", req.Level))

		return
	}

	s.output.SetMaster(req.Level)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req api.StartSessionRequest
	if !s.decode(w, r, &req) {
		return
	}

	token, err := s.sessions.Start(model.SceneID(req.SceneID), api.ToUniverses(req.Universes))
	if errors.Is(err, ErrSessionConflict) {
		s.fail(w, http.StatusConflict, "start session", err)

		return
	}

	if err != nil {
		s.fail(w, http.StatusInternalServerError, "start session", err)

		return
	}

	s.logger.Info("live session started", "scene", req.SceneID)
	s.respond(w, http.StatusOK, api.StartSessionResponse{Token: token})
}

func (s *Server) handlePushSession(w http.ResponseWriter, r *http.Request) {
	var req api.PushUpdateRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.sessions.Push(req.Token, api.ToUniverses(req.Universes)); err != nil {
		s.fail(w, http.StatusConflict, "push update", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	restore, _ := strconv.ParseBool(r.URL.Query().Get("restore"))
	token := r.URL.Query().Get("token")

	err := s.sessions.Stop(token, restore)

	switch {
	case errors.Is(err, ErrNoSession):
		s.fail(w, http.StatusNotFound, "stop session", err)
	case errors.Is(err, ErrSessionConflict):
		s.fail(w, http.StatusConflict, "stop session", err)
	case err != nil:
		s.fail(w, http.StatusInternalServerError, "stop session", err)
	default:
		s.logger.Info("live session stopped", "restore", restore)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleGetPlan(w http.ResponseWriter, _ *http.Request) {
	plan := s.plans.Plan()
	if plan == nil {
		s.fail(w, http.StatusNotFound, "fixture plan", errors.New("no fixture plan configured"))

		return
	}

	s.respond(w, http.StatusOK, plan)
}

func (s *Server) handleReloadPlan(w http.ResponseWriter, _ *http.Request) {
	if err := s.plans.Reload(); err != nil {
		s.fail(w, http.StatusUnprocessableEntity, "reload fixture plan", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetControl(w http.ResponseWriter, r *http.Request) {
	var req api.ControlRequest
	if !s.decode(w, r, &req) {
		return
	}

	mode := model.ControlMode(req.Mode)
	if mode != model.ControlPanel && mode != model.ControlExternal {
		s.fail(w, http.StatusUnprocessableEntity, "set control",
			fmt.Errorf("unknown control mode %q", req.Mode))

		return
	}

	s.output.SetControl(mode)
	s.logger.Info("control mode changed", "mode", req.Mode)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	active, scene := s.sessions.Active()

	s.respond(w, http.StatusOK, api.StatusResponse{
		Playing:     string(s.output.Playing()),
		LiveSession: active,
		LiveScene:   string(scene),
		Master:      s.output.Master(),
		Control:     string(s.output.Control()),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.fail(w, http.StatusInternalServerError, "events", errors.New("streaming unsupported"))

		return
	}

	events, cancel := s.events.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case change, open := <-events:
			if !open {
				return
			}

			payload, err := json.Marshal(api.Event{SceneID: string(change.SceneID)})
			if err != nil {
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", api.EventScenes, payload)
			flusher.Flush()
		}
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.fail(w, http.StatusBadRequest, "decode request", err)

		return false
	}

	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, operation string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(operation, "error", err)
	} else {
		s.logger.Debug(operation, "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: fmt.Sprintf("%s: %v", operation, err)})
}

func (s *Server) failScene(w http.ResponseWriter, operation string, err error) {
	if errors.Is(err, ErrSceneNotFound) {
		s.fail(w, http.StatusNotFound, operation, err)

		return
	}

	s.fail(w, http.StatusInternalServerError, operation, err)
}

func sceneID(r *http.Request) model.SceneID {
	return model.SceneID(chi.URLParam(r, "id"))
}

func sceneToWire(scene *model.Scene) api.Scene {
	return api.Scene{
		ID:        string(scene.ID),
		Name:      scene.Name,
		Universes: api.FromUniverses(scene.Universes),
	}
}
