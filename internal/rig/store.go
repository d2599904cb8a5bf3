// Package rig implements the rig daemon: stored scenes, the playback
// output frame and the singleton live edit session, served over HTTP.
package rig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"luxdeck/internal/api"
	"luxdeck/internal/model"
)

// ErrSceneNotFound marks lookups of unknown scene ids.
var ErrSceneNotFound = errors.New("scene not found")

// Store persists scenes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes or connects to the scene database under dataDir.
func OpenStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "scenes.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()

			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()

		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS scenes (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    universes  TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

// List returns summaries of all stored scenes, ordered by name.
func (s *Store) List(ctx context.Context) ([]model.SceneSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, universes FROM scenes ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	var out []model.SceneSummary

	for rows.Next() {
		var id, name, blob string
		if err := rows.Scan(&id, &name, &blob); err != nil {
			return nil, fmt.Errorf("scan scene row: %w", err)
		}

		universes, err := decodeUniverses(blob)
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", id, err)
		}

		channels := 0
		for _, arr := range universes {
			channels += len(arr)
		}

		out = append(out, model.SceneSummary{
			ID:        model.SceneID(id),
			Name:      name,
			Universes: len(universes),
			Channels:  channels,
		})
	}

	return out, rows.Err()
}

// Get fetches one scene with full channel data.
func (s *Store) Get(ctx context.Context, id model.SceneID) (*model.Scene, error) {
	var name, blob string

	err := s.db.QueryRowContext(ctx, `SELECT name, universes FROM scenes WHERE id = ?`, string(id)).Scan(&name, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scene %s: %w", id, ErrSceneNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get scene %s: %w", id, err)
	}

	universes, err := decodeUniverses(blob)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", id, err)
	}

	return &model.Scene{ID: id, Name: name, Universes: universes}, nil
}

// Create stores a new scene under a fresh id.
func (s *Store) Create(ctx context.Context, name string, universes model.Universes) (*model.Scene, error) {
	id := model.SceneID(uuid.NewString())

	blob, err := encodeUniverses(universes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scenes (id, name, universes, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		string(id), name, blob, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scene: %w", err)
	}

	return &model.Scene{ID: id, Name: name, Universes: universes.Clone()}, nil
}

// SaveContent replaces a scene's channel data.
func (s *Store) SaveContent(ctx context.Context, id model.SceneID, universes model.Universes) error {
	blob, err := encodeUniverses(universes)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`UPDATE scenes SET universes = ?, updated_at = ? WHERE id = ?`,
		blob, now, string(id),
	)
	if err != nil {
		return fmt.Errorf("save scene %s: %w", id, err)
	}

	return requireRow(res, id)
}

// Rename changes a scene's display name.
func (s *Store) Rename(ctx context.Context, id model.SceneID, name string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`UPDATE scenes SET name = ?, updated_at = ? WHERE id = ?`,
		name, now, string(id),
	)
	if err != nil {
		return fmt.Errorf("rename scene %s: %w", id, err)
	}

	return requireRow(res, id)
}

// Delete removes a stored scene.
func (s *Store) Delete(ctx context.Context, id model.SceneID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenes WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete scene %s: %w", id, err)
	}

	return requireRow(res, id)
}

func requireRow(res sql.Result, id model.SceneID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("scene %s: %w", id, ErrSceneNotFound)
	}

	return nil
}

func encodeUniverses(u model.Universes) (string, error) {
	blob, err := json.Marshal(api.FromUniverses(u))
	if err != nil {
		return "", fmt.Errorf("encode universes: %w", err)
	}

	return string(blob), nil
}

func decodeUniverses(blob string) (model.Universes, error) {
	var wire map[string][]int
	if err := json.Unmarshal([]byte(blob), &wire); err != nil {
		return nil, fmt.Errorf("decode universes: %w", err)
	}

	return api.ToUniverses(wire), nil
}
