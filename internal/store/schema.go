// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists the project catalog and archived simulation
// frames in a local SQLite database.
package store

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// Schema creates the workbench tables.
const Schema = `
-- Metadata table for schema version and the active project selection
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Projects table: the workbench project catalog
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE COLLATE NOCASE,
    structure_id TEXT,
    status TEXT NOT NULL,
    last_modified INTEGER NOT NULL  -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_projects_modified ON projects(last_modified);

-- Frames table: archived synthetic trajectory samples per project
CREATE TABLE IF NOT EXISTS frames (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    time_ps REAL NOT NULL,
    rmsd REAL NOT NULL,
    energy REAL NOT NULL,
    temperature REAL NOT NULL,
    FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_frames_project ON frames(project_id);
`

// InitMetadata seeds the metadata table with default values.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('active_project', '');
`
