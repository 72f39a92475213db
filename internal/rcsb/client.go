// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rcsb fetches structure metadata and structure files from the
// public RCSB Protein Data Bank APIs.
package rcsb

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// Configuration constants for the RCSB APIs.
const (
	// DefaultDataBaseURL serves entry metadata as JSON.
	DefaultDataBaseURL = "https://data.rcsb.org/rest/v1/core/entry"

	// DefaultFilesBaseURL serves raw structure files.
	DefaultFilesBaseURL = "https://files.rcsb.org/download"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxStructureSize caps structure file downloads. Large ribosome and
	// capsid entries exceed what the terminal viewer can use.
	MaxStructureSize = 25 * 1024 * 1024 // 25MB

	// requestsPerSecond keeps the client polite toward the public API.
	requestsPerSecond = 4
)

// sharedHTTPClient pools connections across all RCSB requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common fetch failures.
var (
	// ErrInvalidID indicates a malformed accession code.
	ErrInvalidID = errors.New("invalid structure identifier")

	// ErrEntryNotFound indicates the database has no such entry.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrTooLarge indicates the structure file exceeded the download cap.
	ErrTooLarge = errors.New("structure file too large")
)

// idPattern matches PDB accession codes: one digit then three
// alphanumerics, e.g. 1CRN, 4HHB.
var idPattern = regexp.MustCompile(`^[0-9][A-Za-z0-9]{3}$`)

// ValidateID normalizes and validates an accession code.
func ValidateID(id string) (string, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return id, nil
}

// =============================================================================
// ENTRY METADATA
// =============================================================================

// Entry is the subset of entry metadata the workbench displays.
type Entry struct {
	ID              string
	Title           string
	Keywords        string
	Method          string
	Resolution      float64 // angstroms, 0 when not applicable (NMR)
	Released        string  // YYYY-MM-DD
	AtomCount       int
	MolecularWeight float64 // kDa
}

// entryResponse mirrors the fields used from the data API JSON.
type entryResponse struct {
	Struct struct {
		Title string `json:"title"`
	} `json:"struct"`
	StructKeywords struct {
		PdbxKeywords string `json:"pdbx_keywords"`
	} `json:"struct_keywords"`
	Exptl []struct {
		Method string `json:"method"`
	} `json:"exptl"`
	EntryInfo struct {
		ResolutionCombined []float64 `json:"resolution_combined"`
		DepositedAtomCount int       `json:"deposited_atom_count"`
		MolecularWeight    float64   `json:"molecular_weight"`
	} `json:"rcsb_entry_info"`
	AccessionInfo struct {
		InitialReleaseDate string `json:"initial_release_date"`
	} `json:"rcsb_accession_info"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Config holds client configuration. Zero values are filled with defaults.
type Config struct {
	DataBaseURL  string
	FilesBaseURL string
	Timeout      time.Duration

	// CacheDir, when set, caches downloaded structure files so repeat
	// loads skip the network.
	CacheDir string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		DataBaseURL:  DefaultDataBaseURL,
		FilesBaseURL: DefaultFilesBaseURL,
		Timeout:      DefaultTimeout,
	}
}

// Client fetches entries and structure files.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client, filling zero config values with defaults.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.DataBaseURL == "" {
		cfg.DataBaseURL = def.DataBaseURL
	}
	if cfg.FilesBaseURL == "" {
		cfg.FilesBaseURL = def.FilesBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// =============================================================================
// FETCH OPERATIONS
// =============================================================================

// FetchEntry retrieves entry metadata for an accession code.
func (c *Client) FetchEntry(ctx context.Context, id string) (*Entry, error) {
	id, err := ValidateID(id)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.cfg.DataBaseURL, "/"), id)
	body, err := c.get(ctx, endpoint, 2*1024*1024)
	if err != nil {
		return nil, err
	}

	var raw entryResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}

	entry := &Entry{
		ID:              id,
		Title:           raw.Struct.Title,
		Keywords:        raw.StructKeywords.PdbxKeywords,
		AtomCount:       raw.EntryInfo.DepositedAtomCount,
		MolecularWeight: raw.EntryInfo.MolecularWeight,
	}
	if len(raw.Exptl) > 0 {
		entry.Method = raw.Exptl[0].Method
	}
	if len(raw.EntryInfo.ResolutionCombined) > 0 {
		entry.Resolution = raw.EntryInfo.ResolutionCombined[0]
	}
	if len(raw.AccessionInfo.InitialReleaseDate) >= 10 {
		entry.Released = raw.AccessionInfo.InitialReleaseDate[:10]
	}
	return entry, nil
}

// FetchStructure retrieves the raw PDB-format file for an accession code.
// Downloads are cached under CacheDir when configured.
func (c *Client) FetchStructure(ctx context.Context, id string) ([]byte, error) {
	id, err := ValidateID(id)
	if err != nil {
		return nil, err
	}

	if data, ok := c.readCache(id); ok {
		return data, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s.pdb", strings.TrimRight(c.cfg.FilesBaseURL, "/"), id)
	data, err := c.get(ctx, endpoint, MaxStructureSize)
	if err != nil {
		return nil, err
	}

	c.writeCache(id, data)
	return data, nil
}

// get performs one GET request with the standard error mapping.
// No retries: a failure surfaces immediately and the chat layer shows the
// generic fallback.
func (c *Client) get(ctx context.Context, endpoint string, maxSize int64) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrEntryNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	// Read one byte past the cap to distinguish at-limit from over-limit.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// =============================================================================
// STRUCTURE FILE CACHE
// =============================================================================

// CachePath returns where a structure file is cached, or "" when caching
// is disabled.
func (c *Client) CachePath(id string) string {
	if c.cfg.CacheDir == "" {
		return ""
	}
	return filepath.Join(c.cfg.CacheDir, id+".pdb")
}

func (c *Client) readCache(id string) ([]byte, bool) {
	path := c.CachePath(id)
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (c *Client) writeCache(id string, data []byte) {
	path := c.CachePath(id)
	if path == "" {
		return
	}
	// Cache failures are invisible; the next load just refetches.
	_ = util.AtomicWriteFile(path, data, 0644)
}
