// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package project defines workbench projects and the in-memory catalog
// that owns the active-project invariant.
package project

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PROJECT TYPE
// =============================================================================

// Status tracks where a project is in its lifecycle.
type Status string

const (
	StatusNew        Status = "new"
	StatusFetching   Status = "fetching"
	StatusReady      Status = "ready"
	StatusSimulating Status = "simulating"
	StatusEvaluated  Status = "evaluated"
)

// DisplayName returns the status for UI display.
func (s Status) DisplayName() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusFetching:
		return "Fetching"
	case StatusReady:
		return "Ready"
	case StatusSimulating:
		return "Simulating"
	case StatusEvaluated:
		return "Evaluated"
	default:
		return string(s)
	}
}

// Project is one workbench project.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StructureID  string    `json:"structure_id,omitempty"`
	LastModified time.Time `json:"last_modified"`
	Status       Status    `json:"status"`
}

// New creates a project with a fresh ID.
func New(name string) *Project {
	return &Project{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		LastModified: time.Now(),
		Status:       StatusNew,
	}
}

// Touch updates the last-modified timestamp.
func (p *Project) Touch() {
	p.LastModified = time.Now()
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog errors.
var (
	ErrNotFound      = errors.New("project not found")
	ErrDuplicateName = errors.New("project name already in use")
	ErrEmptyName     = errors.New("project name is empty")
)

// Catalog holds the project list and the active selection. The invariant
// it maintains: the active ID always references a project in the list, or
// is empty.
type Catalog struct {
	projects []*Project
	activeID string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add inserts a project and makes it active. Names must be unique
// case-insensitively so chat references stay unambiguous.
func (c *Catalog) Add(p *Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if c.FindByName(p.Name) != nil {
		return ErrDuplicateName
	}
	c.projects = append(c.projects, p)
	c.activeID = p.ID
	return nil
}

// Remove deletes a project by ID. When the active project is removed the
// active selection is cleared; the caller clears dependent viewer state.
// Returns true when the removed project was the active one.
func (c *Catalog) Remove(id string) (wasActive bool, err error) {
	for i, p := range c.projects {
		if p.ID == id {
			c.projects = append(c.projects[:i], c.projects[i+1:]...)
			if c.activeID == id {
				c.activeID = ""
				return true, nil
			}
			return false, nil
		}
	}
	return false, ErrNotFound
}

// SetActive activates the project with the given ID.
func (c *Catalog) SetActive(id string) error {
	if c.Get(id) == nil {
		return ErrNotFound
	}
	c.activeID = id
	return nil
}

// ClearActive drops the active selection.
func (c *Catalog) ClearActive() {
	c.activeID = ""
}

// Active returns the active project, or nil when none is selected.
func (c *Catalog) Active() *Project {
	if c.activeID == "" {
		return nil
	}
	return c.Get(c.activeID)
}

// ActiveID returns the active project ID, or "".
func (c *Catalog) ActiveID() string { return c.activeID }

// Get returns the project with the given ID, or nil.
func (c *Catalog) Get(id string) *Project {
	for _, p := range c.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindByName returns the project with the given name (case-insensitive),
// or nil.
func (c *Catalog) FindByName(name string) *Project {
	name = strings.TrimSpace(name)
	for _, p := range c.projects {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Resolve locates a project by ID first, then by name.
func (c *Catalog) Resolve(ref string) *Project {
	if p := c.Get(ref); p != nil {
		return p
	}
	return c.FindByName(ref)
}

// All returns the project list in insertion order. The slice is shared;
// callers must not mutate it.
func (c *Catalog) All() []*Project { return c.projects }

// Len returns the number of projects.
func (c *Catalog) Len() int { return len(c.projects) }

// Names returns all project names in insertion order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.projects))
	for i, p := range c.projects {
		names[i] = p.Name
	}
	return names
}

// Replace swaps the catalog contents, used when loading persisted projects
// at startup. An active ID not present in the list is cleared to preserve
// the invariant.
func (c *Catalog) Replace(projects []*Project, activeID string) {
	c.projects = projects
	c.activeID = ""
	if activeID != "" && c.Get(activeID) != nil {
		c.activeID = activeID
	}
}
