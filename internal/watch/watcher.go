// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch monitors the workspace directory for structure files.
//
// When a PDB or mmCIF file is dropped into the workspace, the watcher
// surfaces an event so the workbench can offer to load it. Events are
// debounced because editors and downloads produce bursts of writes for a
// single logical change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// EVENTS
// =============================================================================

// Op describes what happened to a file.
type Op int

const (
	// OpCreate indicates a new file appeared.
	OpCreate Op = iota
	// OpModify indicates an existing file changed.
	OpModify
	// OpRemove indicates a file disappeared.
	OpRemove
)

// String returns a human-readable operation name.
func (o Op) String() string {
	switch o {
	case OpCreate:
		return "created"
	case OpModify:
		return "modified"
	case OpRemove:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a single file change in the workspace.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// structureExts lists the file extensions the workbench can load.
var structureExts = map[string]bool{
	".pdb": true,
	".ent": true,
	".cif": true,
}

// IsStructureFile reports whether the path looks like a loadable structure.
func IsStructureFile(path string) bool {
	return structureExts[strings.ToLower(filepath.Ext(path))]
}

// shouldIgnore reports whether a directory should be skipped while walking.
func shouldIgnore(name string) bool {
	return strings.HasPrefix(name, ".") || name == "cache" || name == "transcripts"
}

// =============================================================================
// WATCHER INTERFACE
// =============================================================================

// Watcher is the interface for workspace watching implementations.
type Watcher interface {
	// Start begins watching for changes.
	Start() error

	// Events returns the event stream. The channel is never closed;
	// consumers should stop reading after Close.
	Events() <-chan Event

	// Close stops watching and releases resources.
	Close() error
}

// Start opens a watcher on root, preferring fsnotify and falling back to
// polling when the platform watch limit is exhausted.
func Start(root string, debounce time.Duration) (Watcher, error) {
	fw, err := NewFsWatcher(root, debounce)
	if err == nil {
		if err := fw.Start(); err == nil {
			return fw, nil
		}
		fw.Close()
	}

	pw := NewPollWatcher(root, 5*time.Second)
	if err := pw.Start(); err != nil {
		return nil, err
	}
	return pw, nil
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// pendingChange tracks a debounced file change. The first op wins so a
// create followed by writes still reports as a create.
type pendingChange struct {
	op Op
	at time.Time
}

// FsWatcher implements Watcher using fsnotify.
type FsWatcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	events   chan Event
	mu       sync.Mutex
	pending  map[string]pendingChange
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewFsWatcher creates an fsnotify-based workspace watcher.
func NewFsWatcher(root string, debounce time.Duration) (*FsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FsWatcher{
		root:     root,
		watcher:  watcher,
		debounce: debounce,
		events:   make(chan Event, 64),
		pending:  make(map[string]pendingChange),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching the workspace tree.
func (fw *FsWatcher) Start() error {
	if err := fw.addRecursive(fw.root); err != nil {
		return err
	}

	go fw.processEvents()
	go fw.flushPending()

	return nil
}

// Events returns the event stream.
func (fw *FsWatcher) Events() <-chan Event {
	return fw.events
}

// addRecursive adds a directory and its subdirectories to the watch list.
func (fw *FsWatcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && shouldIgnore(filepath.Base(path)) {
			return filepath.SkipDir
		}
		// Non-fatal, keep walking
		_ = fw.watcher.Add(path)
		return nil
	})
}

// processEvents translates fsnotify events into workspace events.
func (fw *FsWatcher) processEvents() {
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if IsStructureFile(event.Name) {
					op := OpModify
					if event.Op&fsnotify.Create != 0 {
						op = OpCreate
					}
					fw.mu.Lock()
					if prev, ok := fw.pending[event.Name]; ok {
						op = prev.op
					}
					fw.pending[event.Name] = pendingChange{op: op, at: time.Now()}
					fw.mu.Unlock()
				}
				// New directories join the watch list
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = fw.addRecursive(event.Name)
					}
				}
			}

			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && IsStructureFile(event.Name) {
				// Removals bypass the debounce, the file is already gone.
				fw.mu.Lock()
				delete(fw.pending, event.Name)
				fw.mu.Unlock()
				fw.emit(Event{Path: event.Name, Op: OpRemove, Time: time.Now()})
			}

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// flushPending emits debounced create/modify events once a file has been
// quiet for the debounce window.
func (fw *FsWatcher) flushPending() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			fw.mu.Lock()
			ready := make(map[string]Op)
			for path, change := range fw.pending {
				if now.Sub(change.at) >= fw.debounce {
					ready[path] = change.op
					delete(fw.pending, path)
				}
			}
			fw.mu.Unlock()

			for path, op := range ready {
				// Files deleted during the debounce window already produced
				// a remove event.
				if _, err := os.Stat(path); err != nil {
					continue
				}
				fw.emit(Event{Path: path, Op: op, Time: now})
			}
		}
	}
}

// emit delivers an event without blocking. A full buffer drops the event,
// the UI only needs a recent view of the workspace.
func (fw *FsWatcher) emit(ev Event) {
	select {
	case fw.events <- ev:
	default:
	}
}

// Close stops watching and releases resources.
func (fw *FsWatcher) Close() error {
	fw.cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollWatcher implements Watcher by scanning the tree on an interval.
type PollWatcher struct {
	root     string
	interval time.Duration
	events   chan Event
	mu       sync.Mutex
	files    map[string]time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPollWatcher creates a polling-based workspace watcher.
func NewPollWatcher(root string, interval time.Duration) *PollWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &PollWatcher{
		root:     root,
		interval: interval,
		events:   make(chan Event, 64),
		files:    make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start performs the initial scan and begins polling.
func (pw *PollWatcher) Start() error {
	initial, err := pw.scan()
	if err != nil {
		return err
	}
	pw.mu.Lock()
	pw.files = initial
	pw.mu.Unlock()

	go pw.poll()
	return nil
}

// Events returns the event stream.
func (pw *PollWatcher) Events() <-chan Event {
	return pw.events
}

// scan walks the tree and records modification times of structure files.
func (pw *PollWatcher) scan() (map[string]time.Time, error) {
	found := make(map[string]time.Time)

	err := filepath.Walk(pw.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != pw.root && shouldIgnore(filepath.Base(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsStructureFile(path) {
			found[path] = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// poll diffs consecutive scans and emits events for the changes.
func (pw *PollWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			current, err := pw.scan()
			if err != nil {
				continue
			}

			pw.mu.Lock()
			previous := pw.files
			pw.files = current
			pw.mu.Unlock()

			now := time.Now()
			for path, modTime := range current {
				old, existed := previous[path]
				switch {
				case !existed:
					pw.emit(Event{Path: path, Op: OpCreate, Time: now})
				case !old.Equal(modTime):
					pw.emit(Event{Path: path, Op: OpModify, Time: now})
				}
			}
			for path := range previous {
				if _, exists := current[path]; !exists {
					pw.emit(Event{Path: path, Op: OpRemove, Time: now})
				}
			}
		}
	}
}

// emit delivers an event without blocking.
func (pw *PollWatcher) emit(ev Event) {
	select {
	case pw.events <- ev:
	default:
	}
}

// Close stops polling.
func (pw *PollWatcher) Close() error {
	pw.cancel()
	return nil
}
