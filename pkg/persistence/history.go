// Package persistence stores completed cycles as JSON files in a history
// directory, one file per cycle, so past analyses survive restarts and can
// be replayed or audited.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-sentinel/pkg/cycle"
	"github.com/dd0wney/cluso-sentinel/pkg/logging"
)

const (
	filePermissions = 0644
	dirPermissions  = 0755

	plainExt      = ".json"
	compressedExt = ".json.sz"

	// timestampLayout orders history files chronologically by name.
	timestampLayout = "20060102_150405"
)

// ErrNotFound means no history file exists for the requested ID.
var ErrNotFound = errors.New("cycle not found in history")

// Store is the persistence contract the orchestrator depends on.
type Store interface {
	// Save persists a cycle and returns its history ID.
	Save(c *cycle.Cycle) (string, error)
	// Load retrieves a previously saved cycle by history ID.
	Load(id string) (*cycle.Cycle, error)
	// List returns all history IDs in chronological order.
	List() ([]string, error)
}

// HistoryStore persists cycles under a directory, optionally snappy
// compressed. Files are named <UTC timestamp>_<cycle id prefix> so a plain
// directory listing reads as a timeline.
type HistoryStore struct {
	dir      string
	compress bool
	keep     int
	log      logging.Logger
	now      func() time.Time
}

// NewHistoryStore creates the history directory if needed.
func NewHistoryStore(dir string, compress bool, keep int, log logging.Logger) (*HistoryStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("history directory is required")
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HistoryStore{
		dir:      dir,
		compress: compress,
		keep:     keep,
		log:      log,
		now:      time.Now,
	}, nil
}

// Save writes the cycle to a new history file. The write goes to a temp file
// first and is renamed into place, so a crash mid-write never leaves a
// truncated history entry. When a retention bound is set, the oldest entries
// beyond it are pruned after the write.
func (h *HistoryStore) Save(c *cycle.Cycle) (string, error) {
	if c == nil {
		return "", fmt.Errorf("cannot persist nil cycle")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal cycle %s: %w", c.ID, err)
	}

	ext := plainExt
	if h.compress {
		data = snappy.Encode(nil, data)
		ext = compressedExt
	}

	id := h.historyID(c.ID)
	path := filepath.Join(h.dir, id+ext)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, filePermissions); err != nil {
		return "", fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to rename history file: %w", err)
	}

	if h.keep > 0 {
		if err := h.prune(); err != nil {
			h.log.Warn("history prune failed", logging.Error(err))
		}
	}

	h.log.Debug("cycle persisted",
		logging.CycleID(c.ID),
		logging.Path(path),
		logging.Bool("compressed", h.compress))
	return id, nil
}

// Load reads a cycle back by history ID. Compression is detected from the
// file extension, so a store configured without compression still reads
// compressed files written earlier.
func (h *HistoryStore) Load(id string) (*cycle.Cycle, error) {
	path, compressed, err := h.resolve(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	if compressed {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress history file %s: %w", path, err)
		}
	}

	var c cycle.Cycle
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode history file %s: %w", path, err)
	}
	return &c, nil
}

// List returns every history ID, oldest first. The timestamp prefix makes
// lexical order chronological order.
func (h *HistoryStore) List() ([]string, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, compressedExt):
			ids = append(ids, strings.TrimSuffix(name, compressedExt))
		case strings.HasSuffix(name, plainExt):
			ids = append(ids, strings.TrimSuffix(name, plainExt))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Latest returns the most recent cycle, or ErrNotFound on an empty history.
func (h *HistoryStore) Latest() (*cycle.Cycle, error) {
	ids, err := h.List()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	return h.Load(ids[len(ids)-1])
}

// Count returns the number of history entries.
func (h *HistoryStore) Count() (int, error) {
	ids, err := h.List()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// prune removes the oldest entries beyond the retention bound.
func (h *HistoryStore) prune() error {
	ids, err := h.List()
	if err != nil {
		return err
	}
	if len(ids) <= h.keep {
		return nil
	}
	for _, id := range ids[:len(ids)-h.keep] {
		path, _, err := h.resolve(id)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove history file: %w", err)
		}
		h.log.Debug("history entry pruned", logging.Path(path))
	}
	return nil
}

// historyID builds the filename stem for a cycle: UTC timestamp plus a short
// cycle ID suffix so two cycles in the same second cannot collide.
func (h *HistoryStore) historyID(cycleID string) string {
	suffix := cycleID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return h.now().UTC().Format(timestampLayout) + "_" + suffix
}

// resolve finds the file backing a history ID and whether it is compressed.
func (h *HistoryStore) resolve(id string) (string, bool, error) {
	plain := filepath.Join(h.dir, id+plainExt)
	if _, err := os.Stat(plain); err == nil {
		return plain, false, nil
	}
	compressed := filepath.Join(h.dir, id+compressedExt)
	if _, err := os.Stat(compressed); err == nil {
		return compressed, true, nil
	}
	return "", false, fmt.Errorf("history ID %q: %w", id, ErrNotFound)
}
