package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/claude/crank/internal/models"
)

// ErrNotFound is returned when a workout or exercise does not exist.
var ErrNotFound = errors.New("not found")

// document is the on-disk shape of the store.
type document struct {
	Filename  string            `json:"filename"`
	WrittenAt time.Time         `json:"written_at,omitzero"`
	Workouts  []models.Workout  `json:"workouts"`
	Sources   map[string]string `json:"sources,omitempty"`
}

// Store keeps the workout collection in one JSON file. It is safe for
// concurrent use; changes reach disk only on Save.
type Store struct {
	path string
	log  *slog.Logger

	mu  sync.Mutex
	doc document
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Store{path: path, log: log, doc: document{Filename: filepath.Base(path)}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("store file missing, starting empty", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("decoding store %s: %w", path, err)
	}
	s.doc.Filename = filepath.Base(path)
	sortWorkouts(s.doc.Workouts)
	log.Debug("store opened", "path", path, "workouts", len(s.doc.Workouts))
	return s, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Save writes the store atomically: to a temp file in the same directory,
// then renamed over the target.
func (s *Store) Save() error {
	s.mu.Lock()
	s.doc.WrittenAt = time.Now().UTC()
	data, err := json.MarshalIndent(&s.doc, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	s.log.Debug("store saved", "path", s.path)
	return nil
}
