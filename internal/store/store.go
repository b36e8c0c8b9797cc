// Package store persists table snapshots and finished hand histories on disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/game"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidName = errors.New("invalid name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

const (
	snapshotExt = ".json"
	historyDir  = "history"
	historyExt  = ".txt"
	seatingDir  = "seating"
)

// Seating maps player names to the kind of agent that plays them, so a
// restored table can re-attach the same providers.
type Seating map[string]string

// FileStore keeps one JSON snapshot and seating per table name and one text
// file per hand under a directory. It implements game.HandHistoryWriter.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore opens or creates a store rooted at dir.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	for _, sub := range []string{historyDir, seatingDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create store %s: %w", dir, err)
		}
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) snapshotPath(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+snapshotExt), nil
}

// Save writes the snapshot for table name, replacing any previous one.
func (s *FileStore) Save(name string, snap *game.Snapshot) error {
	path, err := s.snapshotPath(name)
	if err != nil {
		return err
	}
	if err := saveJSON(path, snap); err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	s.logger.Debug().Str("table", name).Bool("hand_in_progress", snap.HandInProgress).Msg("Saved snapshot")
	return nil
}

// Load reads the snapshot for table name.
func (s *FileStore) Load(name string) (*game.Snapshot, error) {
	path, err := s.snapshotPath(name)
	if err != nil {
		return nil, err
	}
	var snap game.Snapshot
	if err := loadJSON(path, &snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// SaveSeating records who plays each player at table name.
func (s *FileStore) SaveSeating(name string, seating Seating) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := saveJSON(s.seatingPath(name), seating); err != nil {
		return fmt.Errorf("save seating %s: %w", name, err)
	}
	return nil
}

// LoadSeating reads the seating saved for table name.
func (s *FileStore) LoadSeating(name string) (Seating, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	var seating Seating
	if err := loadJSON(s.seatingPath(name), &seating); err != nil {
		return nil, fmt.Errorf("seating %s: %w", name, err)
	}
	return seating, nil
}

func (s *FileStore) seatingPath(name string) string {
	return filepath.Join(s.dir, seatingDir, name+snapshotExt)
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o644)
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Delete removes the snapshot and seating for table name. Missing files are not an error.
func (s *FileStore) Delete(name string) error {
	path, err := s.snapshotPath(name)
	if err != nil {
		return err
	}
	for _, p := range []string{path, s.seatingPath(name)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}
	return nil
}

// List returns the names of all saved tables, sorted.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), snapshotExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) historyPath(handID string) (string, error) {
	if !validName.MatchString(handID) {
		return "", fmt.Errorf("%w: hand id %q", ErrInvalidName, handID)
	}
	return filepath.Join(s.dir, historyDir, handID+historyExt), nil
}

// WriteHandHistory stores the text of a finished hand.
func (s *FileStore) WriteHandHistory(handID, content string) error {
	path, err := s.historyPath(handID)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write hand %s: %w", handID, err)
	}
	return nil
}

// HandHistory reads back a stored hand.
func (s *FileStore) HandHistory(handID string) (string, error) {
	path, err := s.historyPath(handID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("hand %s: %w", handID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read hand %s: %w", handID, err)
	}
	return string(data), nil
}

var _ game.HandHistoryWriter = (*FileStore)(nil)
