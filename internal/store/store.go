// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/project"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrProjectNotFound = errors.New("project not found in store")
	ErrDatabaseError   = errors.New("database error")
)

// =============================================================================
// STORE
// =============================================================================

// Store wraps the SQLite database holding projects and archived frames.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path.
func Open(path string) (*Store, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the database schema.
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// PROJECTS
// =============================================================================

// SaveProject inserts or updates a project.
func (s *Store) SaveProject(ctx context.Context, p *project.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, structure_id, status, last_modified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			structure_id = excluded.structure_id,
			status = excluded.status,
			last_modified = excluded.last_modified`,
		p.ID, p.Name, p.StructureID, string(p.Status), p.LastModified.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// DeleteProject removes a project and, via cascade, its archived frames.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// ListProjects returns all projects, most recently modified first.
func (s *Store) ListProjects(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, structure_id, status, last_modified
		FROM projects ORDER BY last_modified DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		var p project.Project
		var status string
		var modified int64
		var structureID sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &structureID, &status, &modified); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		p.StructureID = structureID.String
		p.Status = project.Status(status)
		p.LastModified = time.Unix(modified, 0)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// =============================================================================
// ACTIVE PROJECT
// =============================================================================

// SaveActiveID persists the active project selection. Empty clears it.
func (s *Store) SaveActiveID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE metadata SET value = ? WHERE key = 'active_project'", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// LoadActiveID returns the persisted active project ID, or "".
func (s *Store) LoadActiveID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = 'active_project'").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return id, nil
}

// =============================================================================
// FRAMES
// =============================================================================

// ReplaceFrames archives a finished run's data series for a project,
// replacing any previous archive. All rows are written in one transaction.
func (s *Store) ReplaceFrames(ctx context.Context, projectID string, points []sim.DataPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM frames WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("failed to clear frames: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO frames (project_id, time_ps, rmsd, energy, temperature)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, projectID, p.Time, p.RMSD, p.Energy, p.Temperature); err != nil {
			return fmt.Errorf("failed to insert frame: %w", err)
		}
	}
	return tx.Commit()
}

// LoadFrames returns a project's archived data series in time order.
func (s *Store) LoadFrames(ctx context.Context, projectID string) ([]sim.DataPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time_ps, rmsd, energy, temperature
		FROM frames WHERE project_id = ? ORDER BY time_ps`, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var points []sim.DataPoint
	for rows.Next() {
		var p sim.DataPoint
		if err := rows.Scan(&p.Time, &p.RMSD, &p.Energy, &p.Temperature); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// FrameCount returns the number of archived frames for a project.
func (s *Store) FrameCount(ctx context.Context, projectID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM frames WHERE project_id = ?", projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}
