package models

// Identifiable is the base constraint for persisted items. Identity keys
// are stable across runs so checkpoints and repositories can agree on
// which items were already handled.
type Identifiable interface {
	Identifier() string
}

// Repository defines data access for one item type. Implementations
// persist batches durably; a Save* error means the run's output can no
// longer be trusted and must abort.
type Repository[T Identifiable] interface {
	Add(item T) error              // Add inserts or replaces one item and persists
	Get(id string) (T, bool)       // Get retrieves an item by identity key
	GetAll() []T                   // GetAll returns every item in insertion order
	Exists(id string) bool         // Exists reports whether an identity key is present
	Remove(id string) error        // Remove deletes an item and persists
	Clear() error                  // Clear deletes every item and persists
	Count() int                    // Count returns the number of stored items
	SaveBatch(items []T) error     // SaveBatch upserts many items with a single persist
}
