package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/shared"
)

// ReviewEntry is one track waiting for operator triage after the pipeline
// could not handle it automatically.
type ReviewEntry struct {
	TrackID string    `json:"track_id"`
	Title   string    `json:"title"`
	Artist  string    `json:"artist"`
	Reason  string    `json:"reason"`
	AddedAt time.Time `json:"added_at"`
}

// ReviewQueue is a file-backed queue of tracks needing manual attention.
// Entries are never removed automatically.
type ReviewQueue struct {
	path    string
	logger  *log.Logger
	entries []ReviewEntry
	seen    map[string]bool
}

// NewReviewQueue opens (or lazily creates) the queue at path.
func NewReviewQueue(path string, logger *log.Logger) (*ReviewQueue, error) {
	q := &ReviewQueue{path: path, logger: logger, seen: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return q, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read review queue %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &q.entries); err != nil {
		return nil, fmt.Errorf("failed to parse review queue %s: %w", path, err)
	}
	for _, e := range q.entries {
		q.seen[e.TrackID] = true
	}

	return q, nil
}

// Add appends an entry for a track. Adding an identity key that is already
// queued is a no-op, so retried batches do not pile up duplicates.
func (q *ReviewQueue) Add(trackID, title, artist, reason string) error {
	if q.seen[trackID] {
		return nil
	}

	q.entries = append(q.entries, ReviewEntry{
		TrackID: trackID,
		Title:   title,
		Artist:  artist,
		Reason:  reason,
		AddedAt: time.Now().UTC(),
	})
	q.seen[trackID] = true

	q.logger.Debug("queued track for review", "track", trackID, "reason", reason)
	return q.persist()
}

// GetAll returns every queued entry in insertion order.
func (q *ReviewQueue) GetAll() []ReviewEntry {
	out := make([]ReviewEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Remove deletes one entry by identity key after an operator resolves it.
func (q *ReviewQueue) Remove(trackID string) error {
	if !q.seen[trackID] {
		return nil
	}

	filtered := q.entries[:0]
	for _, e := range q.entries {
		if e.TrackID != trackID {
			filtered = append(filtered, e)
		}
	}
	q.entries = filtered
	delete(q.seen, trackID)

	return q.persist()
}

// Clear empties the queue.
func (q *ReviewQueue) Clear() error {
	q.entries = nil
	q.seen = make(map[string]bool)
	return q.persist()
}

// Count returns the number of queued entries.
func (q *ReviewQueue) Count() int { return len(q.entries) }

func (q *ReviewQueue) persist() error {
	entries := q.entries
	if entries == nil {
		entries = []ReviewEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}
	return shared.WriteFileAtomic(q.path, data, 0644)
}
