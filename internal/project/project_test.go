// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"errors"
	"testing"
)

func TestCatalog_AddActivates(t *testing.T) {
	c := NewCatalog()
	p := New("lysozyme study")

	if err := c.Add(p); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if c.ActiveID() != p.ID {
		t.Error("Add should activate the new project")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCatalog_AddRejectsDuplicateName(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(New("Alpha")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := c.Add(New("alpha"))
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestCatalog_AddRejectsEmptyName(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(New("   ")); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestCatalog_ActiveInvariant(t *testing.T) {
	c := NewCatalog()
	a := New("a")
	b := New("b")
	c.Add(a)
	c.Add(b)

	// Active always references an existing project or is empty.
	if c.Active() == nil {
		t.Fatal("active is nil with projects present and one selected")
	}
	if err := c.SetActive("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetActive unknown id: got %v", err)
	}
	if c.ActiveID() != b.ID {
		t.Error("failed SetActive must not change the selection")
	}

	if err := c.SetActive(a.ID); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if c.Active().ID != a.ID {
		t.Error("SetActive did not switch")
	}
}

func TestCatalog_RemoveActiveClears(t *testing.T) {
	c := NewCatalog()
	a := New("a")
	c.Add(a)

	wasActive, err := c.Remove(a.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !wasActive {
		t.Error("Remove should report the active project was removed")
	}
	if c.Active() != nil || c.ActiveID() != "" {
		t.Error("active selection not cleared after removing active project")
	}
}

func TestCatalog_RemoveInactive(t *testing.T) {
	c := NewCatalog()
	a := New("a")
	b := New("b")
	c.Add(a)
	c.Add(b) // b active

	wasActive, err := c.Remove(a.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if wasActive {
		t.Error("removing inactive project reported wasActive")
	}
	if c.ActiveID() != b.ID {
		t.Error("active selection should survive removal of another project")
	}
}

func TestCatalog_RemoveNotFound(t *testing.T) {
	c := NewCatalog()
	if _, err := c.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := NewCatalog()
	p := New("Kinase Screen")
	c.Add(p)

	if got := c.Resolve(p.ID); got != p {
		t.Error("Resolve by ID failed")
	}
	if got := c.Resolve("kinase screen"); got != p {
		t.Error("Resolve by case-insensitive name failed")
	}
	if got := c.Resolve("nothing"); got != nil {
		t.Error("Resolve of unknown ref should be nil")
	}
}

func TestCatalog_ReplacePreservesInvariant(t *testing.T) {
	c := NewCatalog()
	a := New("a")
	b := New("b")

	c.Replace([]*Project{a, b}, a.ID)
	if c.ActiveID() != a.ID {
		t.Error("Replace did not restore active ID")
	}

	// A stale active ID must be dropped, not kept dangling.
	c.Replace([]*Project{b}, a.ID)
	if c.ActiveID() != "" {
		t.Error("Replace kept an active ID that references no project")
	}
}

func TestStatusDisplayName(t *testing.T) {
	if StatusSimulating.DisplayName() != "Simulating" {
		t.Errorf("DisplayName = %q", StatusSimulating.DisplayName())
	}
	if Status("odd").DisplayName() != "odd" {
		t.Error("unknown status should pass through")
	}
}
