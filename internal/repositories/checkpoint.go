package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/shared"
)

// IDSet is a set of identity keys that serializes as a sorted JSON array
// so checkpoint files diff cleanly between runs.
type IDSet map[string]struct{}

func (s IDSet) Add(id string)      { s[id] = struct{}{} }
func (s IDSet) Has(id string) bool { _, ok := s[id]; return ok }

func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return json.Marshal(ids)
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = make(IDSet, len(ids))
	for _, id := range ids {
		(*s)[id] = struct{}{}
	}
	return nil
}

// CheckpointState records a stage's durable progress: which identity keys
// completed, which failed, and when the checkpoint was last written.
type CheckpointState struct {
	Stage     string    `json:"stage"`
	Processed IDSet     `json:"processed"`
	Failed    IDSet     `json:"failed"`
	StartedAt time.Time `json:"started_at"`
	SavedAt   time.Time `json:"saved_at"`
}

// NewCheckpointState creates an empty state for a stage.
func NewCheckpointState(stage string) *CheckpointState {
	return &CheckpointState{
		Stage:     stage,
		Processed: make(IDSet),
		Failed:    make(IDSet),
		StartedAt: time.Now().UTC(),
	}
}

// MarkProcessed records an identity key as completed, clearing any earlier
// failure for it.
func (c *CheckpointState) MarkProcessed(id string) {
	c.Processed.Add(id)
	delete(c.Failed, id)
}

// MarkFailed records an identity key as failed this run.
func (c *CheckpointState) MarkFailed(id string) {
	c.Failed.Add(id)
}

// IsProcessed reports whether an identity key completed in an earlier run.
func (c *CheckpointState) IsProcessed(id string) bool {
	return c.Processed.Has(id)
}

// CheckpointStore persists one checkpoint file per stage under a run
// directory.
type CheckpointStore struct {
	dir    string
	logger *log.Logger
}

// NewCheckpointStore creates a store rooted at dir.
func NewCheckpointStore(dir string, logger *log.Logger) *CheckpointStore {
	return &CheckpointStore{dir: dir, logger: logger}
}

func (s *CheckpointStore) pathFor(stage string) string {
	return filepath.Join(s.dir, fmt.Sprintf("checkpoint_%s.json", stage))
}

// Load reads a stage's checkpoint. A missing file returns (nil, nil) so
// the stage starts fresh; a corrupt file also starts fresh with a warning
// because a half-written checkpoint must never block a run.
func (s *CheckpointStore) Load(stage string) (*CheckpointState, error) {
	path := s.pathFor(stage)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}

	var state CheckpointState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("corrupt checkpoint, starting fresh", "stage", stage, "path", path, "error", err)
		return nil, nil
	}

	if state.Processed == nil {
		state.Processed = make(IDSet)
	}
	if state.Failed == nil {
		state.Failed = make(IDSet)
	}

	s.logger.Debug("loaded checkpoint", "stage", stage, "processed", len(state.Processed), "failed", len(state.Failed))
	return &state, nil
}

// Save writes a stage's checkpoint atomically. A failed save is a hard
// error for the caller.
func (s *CheckpointStore) Save(state *CheckpointState) error {
	state.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCheckpointWrite, err)
	}

	if err := shared.WriteFileAtomic(s.pathFor(state.Stage), data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCheckpointWrite, err)
	}

	return nil
}

// Clear removes a stage's checkpoint file. Absent files are a no-op.
func (s *CheckpointStore) Clear(stage string) error {
	err := os.Remove(s.pathFor(stage))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear checkpoint for %s: %w", stage, err)
	}
	return nil
}

// ClearAll removes every checkpoint file in the store's directory.
func (s *CheckpointStore) ClearAll() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "checkpoint_*.json"))
	if err != nil {
		return fmt.Errorf("failed to list checkpoints: %w", err)
	}

	for _, path := range matches {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove checkpoint %s: %w", path, err)
		}
	}

	return nil
}
