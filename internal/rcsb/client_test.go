// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rcsb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1crn", "1CRN", false},
		{" 4hhb ", "4HHB", false},
		{"2PTC", "2PTC", false},
		{"CRN", "", true},
		{"12345", "", true},
		{"ABCD", "", true}, // must start with a digit
		{"1cr!", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateID(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("ValidateID(%q): expected ErrInvalidID, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ValidateID(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFetchEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/1CRN") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"struct": {"title": "WATER STRUCTURE OF A HYDROPHOBIC PROTEIN"},
			"struct_keywords": {"pdbx_keywords": "PLANT PROTEIN"},
			"exptl": [{"method": "X-RAY DIFFRACTION"}],
			"rcsb_entry_info": {
				"resolution_combined": [0.945],
				"deposited_atom_count": 425,
				"molecular_weight": 4.74
			},
			"rcsb_accession_info": {"initial_release_date": "1981-04-30T00:00:00+0000"}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{DataBaseURL: srv.URL})
	entry, err := c.FetchEntry(context.Background(), "1crn")
	if err != nil {
		t.Fatalf("FetchEntry failed: %v", err)
	}

	if entry.ID != "1CRN" {
		t.Errorf("ID = %q", entry.ID)
	}
	if entry.Title != "WATER STRUCTURE OF A HYDROPHOBIC PROTEIN" {
		t.Errorf("Title = %q", entry.Title)
	}
	if entry.Method != "X-RAY DIFFRACTION" {
		t.Errorf("Method = %q", entry.Method)
	}
	if entry.Resolution != 0.945 {
		t.Errorf("Resolution = %f", entry.Resolution)
	}
	if entry.Released != "1981-04-30" {
		t.Errorf("Released = %q", entry.Released)
	}
	if entry.AtomCount != 425 {
		t.Errorf("AtomCount = %d", entry.AtomCount)
	}
}

func TestFetchEntry_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{DataBaseURL: srv.URL})
	_, err := c.FetchEntry(context.Background(), "9zzz")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestFetchEntry_InvalidIDSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewClient(Config{DataBaseURL: srv.URL})
	if _, err := c.FetchEntry(context.Background(), "not-an-id"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if hits.Load() != 0 {
		t.Error("invalid ID must be rejected before any request")
	}
}

func TestFetchStructure(t *testing.T) {
	const pdb = "ATOM      1  N   THR A   1      17.047  14.099   3.625  1.00 13.79           N\nEND\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/1CRN.pdb") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(pdb))
	}))
	defer srv.Close()

	c := NewClient(Config{FilesBaseURL: srv.URL})
	data, err := c.FetchStructure(context.Background(), "1CRN")
	if err != nil {
		t.Fatalf("FetchStructure failed: %v", err)
	}
	if string(data) != pdb {
		t.Errorf("data = %q", data)
	}
}

func TestFetchStructure_CacheHit(t *testing.T) {
	const pdb = "ATOM      1  N   THR A   1      17.047  14.099   3.625  1.00 13.79           N\nEND\n"
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(pdb))
	}))
	defer srv.Close()

	c := NewClient(Config{FilesBaseURL: srv.URL, CacheDir: t.TempDir()})

	if _, err := c.FetchStructure(context.Background(), "1CRN"); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	data, err := c.FetchStructure(context.Background(), "1CRN")
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if string(data) != pdb {
		t.Errorf("cached data = %q", data)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch from cache)", hits.Load())
	}
}

func TestFetchStructure_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, MaxStructureSize+10))
	}))
	defer srv.Close()

	c := NewClient(Config{FilesBaseURL: srv.URL})
	_, err := c.FetchStructure(context.Background(), "1BIG")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}
