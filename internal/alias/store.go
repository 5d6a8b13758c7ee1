package alias

import "strings"

// UpsertStatus classifies what an Upsert did to the mapping.
type UpsertStatus int

const (
	// Added means a new alias entry was written.
	Added UpsertStatus = iota
	// Unchanged means the exact alias→target pair already existed.
	Unchanged
	// Conflict means the alias already maps to a different target; the
	// stored mapping is left untouched.
	Conflict
)

// Store owns the user alias table. It is loaded once at startup, mutated
// only through Upsert, and persisted by the backend after every successful
// in-memory mutation. Keys and values are lowercase and trimmed.
type Store interface {
	// Get returns the canonical target for an alias, if one exists.
	Get(aliasName string) (string, bool)

	// Resolve returns the canonical command name for any user-supplied
	// name: alias target when mapped, the normalized name itself otherwise.
	Resolve(name string) string

	// Upsert records alias→target. A non-nil error with status Added means
	// the in-memory mutation succeeded but persisting it did not; the
	// alias works for this session only.
	Upsert(aliasName, target string) (UpsertStatus, error)

	// Snapshot returns a copy of the full mapping for persistence or
	// inspection.
	Snapshot() map[string]string

	Len() int
}

// Normalize is the canonical form used for every alias key and target.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
