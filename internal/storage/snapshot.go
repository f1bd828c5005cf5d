// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the conversation snapshot as a single JSON
// document on disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/chatdeck/internal/store"
	"github.com/jeranaias/chatdeck/internal/util"
)

// SnapshotError wraps a failure to load or save the snapshot file.
type SnapshotError struct {
	Op   string
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// SnapshotStore reads and writes the snapshot document. It implements
// store.Persistence.
type SnapshotStore struct {
	Path string
}

// NewSnapshotStore creates a store writing to the given file path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{Path: path}
}

// DefaultPath returns ~/.chatdeck/conversations.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chatdeck", "conversations.json"), nil
}

// Load reads the snapshot. A missing file returns (nil, nil); a file
// that cannot be read or decoded returns a SnapshotError, which the
// caller treats as a corrupt snapshot and starts fresh.
func (s *SnapshotStore) Load() (*store.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &SnapshotError{Op: "load", Path: s.Path, Err: err}
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &SnapshotError{Op: "decode", Path: s.Path, Err: err}
	}
	return &snap, nil
}

// Save writes the snapshot atomically, so a crash mid-write never
// leaves a truncated document behind.
func (s *SnapshotStore) Save(snap *store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &SnapshotError{Op: "encode", Path: s.Path, Err: err}
	}
	if err := util.AtomicWriteFile(s.Path, data, 0600); err != nil {
		return &SnapshotError{Op: "save", Path: s.Path, Err: err}
	}
	return nil
}
