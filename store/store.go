package store

import (
	"context"
	"errors"

	"github.com/twardoch/fontgrep/data"
	"github.com/twardoch/fontgrep/query"
)

// Standard errors store implementations should use.
var (
	ErrNotInitialized = errors.New("fontgrep: store not initialized")
	ErrClosed         = errors.New("fontgrep: store already closed")
)

// Store is the persistent metadata cache for extracted font records, keyed
// by file path. Implementations must guarantee that Upsert replaces a
// record and all of its child rows atomically: a concurrent reader sees
// either the complete old record or the complete new one, never a mix.
type Store interface {
	// Returns the identifier name defined for this store
	GetName() string

	// Init creates the schema if it does not exist. Idempotent; failure
	// here is fatal for the caller.
	Init(ctx context.Context) error

	// Close releases all connections.
	Close(ctx context.Context) error

	// NeedsUpdate reports whether path has no record or a record whose
	// stored (mtime, size) differs from the given values.
	NeedsUpdate(ctx context.Context, path string, mtime, size int64) (bool, error)

	// Upsert replaces the record for path and every child row in one
	// transaction. On failure the prior record, if any, is left intact.
	Upsert(ctx context.Context, path string, mtime, size int64, meta *data.FontMetadata) error

	// Prune deletes every stored path not present in existing, as one
	// transaction, and returns the number of records removed.
	Prune(ctx context.Context, existing map[string]struct{}) (int, error)

	// Query executes a planned lookup and returns matching candidates.
	// Name patterns are never evaluated by the store; when the plan wants
	// names, candidates carry their name strings for in-process
	// filtering by the caller.
	Query(ctx context.Context, plan *query.Plan) ([]data.Candidate, error)

	// Matches runs the planned lookup restricted to a single path.
	Matches(ctx context.Context, path string, plan *query.Plan) (data.Candidate, bool, error)

	// Paths lists every cached font path in lexical order.
	Paths(ctx context.Context) ([]string, error)

	// GetCapabilities returns a list of capabilities supported by this store.
	GetCapabilities() *Capabilities
}
