// package repositories provides JSON file backed persistence for pipeline
// items. Each repository implements models.Repository[T] for one item
// type; all writes go through an atomic temp-then-rename so a crash never
// leaves a torn file behind.
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/shared"
)

// JSONRepository stores items of one type in a single JSON file,
// preserving insertion order. Not safe for concurrent writers; the
// pipeline assumes a single run at a time.
type JSONRepository[T models.Identifiable] struct {
	path   string
	logger *log.Logger
	items  []T
	index  map[string]int
}

// NewJSONRepository opens (or lazily creates) a repository at path and
// loads any existing items. A missing file is an empty repository; a
// corrupt file is an error because silently dropping persisted data would
// make resumed runs lie about their progress.
func NewJSONRepository[T models.Identifiable](path string, logger *log.Logger) (*JSONRepository[T], error) {
	repo := &JSONRepository[T]{
		path:   path,
		logger: logger,
		index:  make(map[string]int),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read repository %s: %w", path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse repository %s: %w", path, err)
	}

	repo.items = items
	for i, item := range items {
		repo.index[item.Identifier()] = i
	}

	logger.Debug("loaded repository", "path", path, "items", len(items))
	return repo, nil
}

// Path returns the backing file location.
func (r *JSONRepository[T]) Path() string { return r.path }

// Add inserts or replaces one item and persists immediately.
func (r *JSONRepository[T]) Add(item T) error {
	r.upsert(item)
	return r.persist()
}

// Get retrieves an item by its identity key.
func (r *JSONRepository[T]) Get(id string) (T, bool) {
	if i, ok := r.index[id]; ok {
		return r.items[i], true
	}
	var zero T
	return zero, false
}

// GetAll returns a copy of every item in insertion order.
func (r *JSONRepository[T]) GetAll() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Exists reports whether an identity key has a stored item.
func (r *JSONRepository[T]) Exists(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Remove deletes an item by identity key and persists. Removing an absent
// key is a no-op.
func (r *JSONRepository[T]) Remove(id string) error {
	i, ok := r.index[id]
	if !ok {
		return nil
	}

	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.items); j++ {
		r.index[r.items[j].Identifier()] = j
	}

	return r.persist()
}

// Clear deletes every item and persists the empty state.
func (r *JSONRepository[T]) Clear() error {
	r.items = nil
	r.index = make(map[string]int)
	return r.persist()
}

// Count returns the number of stored items.
func (r *JSONRepository[T]) Count() int { return len(r.items) }

// SaveBatch upserts many items with a single persist at the end, which is
// what the pipeline stages use for their once-per-batch durability point.
func (r *JSONRepository[T]) SaveBatch(items []T) error {
	for _, item := range items {
		r.upsert(item)
	}
	return r.persist()
}

func (r *JSONRepository[T]) upsert(item T) {
	id := item.Identifier()
	if i, ok := r.index[id]; ok {
		r.items[i] = item
		return
	}
	r.index[id] = len(r.items)
	r.items = append(r.items, item)
}

func (r *JSONRepository[T]) persist() error {
	data, err := json.MarshalIndent(r.items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}

	if err := shared.WriteFileAtomic(r.path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepositoryWrite, err)
	}

	return nil
}
