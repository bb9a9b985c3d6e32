package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/twardoch/fontgrep/log"
	"github.com/twardoch/fontgrep/store"
)

// Store persists font metadata in SQLite with a three-layer layout:
//
// Layer 1: In-memory B-tree mapping path → (id, mtime, size) so staleness
// checks during a walk never touch the database.
// Layer 2: fonts table holding one row per path.
// Layer 3: child tables (tags, codepoints, names) cascade-deleted with
// their fonts row and replaced wholesale on every upsert.
//
// All mutations run on a single connection; reads use a separate pooled
// handle so queries are not blocked by writer progress.
type Store struct {
	mu     sync.RWMutex
	writer *sql.DB
	reader *sql.DB

	// In-memory B-tree for fast staleness lookups
	paths *btree.Map[string, fingerprint]

	log *log.Logger
}

type fingerprint struct {
	id    string
	mtime int64
	size  int64
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory store; memory databases share one connection because each new
// connection would otherwise see its own empty database.
func New(dbPath string, logger *log.Logger) (*Store, error) {
	writer, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection owns all mutations.
	writer.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := writer.Exec(pragma); err != nil {
			writer.Close()
			return nil, err
		}
	}

	reader := writer
	if dbPath != ":memory:" {
		reader, err = sql.Open("sqlite", dbPath)
		if err != nil {
			writer.Close()
			return nil, err
		}
		reader.SetMaxOpenConns(4)
		if _, err := reader.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			reader.Close()
			writer.Close()
			return nil, err
		}
	}

	return &Store{
		writer: writer,
		reader: reader,
		paths:  btree.NewMap[string, fingerprint](0),
		log:    logger.Named("sqlite"),
	}, nil
}

// Returns the identifier name defined for this store
func (*Store) GetName() string {
	return "sqlite"
}

// Init creates the schema if missing and loads the path index. Safe to
// call more than once.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema := `
	CREATE TABLE IF NOT EXISTS fonts (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		mtime INTEGER NOT NULL,
		size INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tags (
		font_id TEXT NOT NULL,
		category TEXT NOT NULL,
		tag TEXT NOT NULL,
		PRIMARY KEY (font_id, category, tag),
		FOREIGN KEY (font_id) REFERENCES fonts(id) ON DELETE CASCADE
	);
	CREATE TABLE IF NOT EXISTS codepoints (
		font_id TEXT NOT NULL,
		cp INTEGER NOT NULL,
		PRIMARY KEY (font_id, cp),
		FOREIGN KEY (font_id) REFERENCES fonts(id) ON DELETE CASCADE
	);
	CREATE TABLE IF NOT EXISTS names (
		font_id TEXT NOT NULL,
		value TEXT NOT NULL,
		FOREIGN KEY (font_id) REFERENCES fonts(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_fonts_path ON fonts(path);
	CREATE INDEX IF NOT EXISTS idx_tags_category_tag ON tags(category, tag);
	CREATE INDEX IF NOT EXISTS idx_codepoints_cp ON codepoints(cp);
	CREATE INDEX IF NOT EXISTS idx_names_font ON names(font_id);
	`

	if _, err := s.writer.ExecContext(ctx, schema); err != nil {
		return err
	}

	// Load all paths into the in-memory B-tree
	rows, err := s.writer.QueryContext(ctx, "SELECT id, path, mtime, size FROM fonts")
	if err != nil {
		return err
	}
	defer rows.Close()

	s.paths.Clear()
	for rows.Next() {
		var fp fingerprint
		var path string
		if err := rows.Scan(&fp.id, &path, &fp.mtime, &fp.size); err != nil {
			return err
		}
		s.paths.Set(path, fp)
	}

	return rows.Err()
}

// Close releases both database handles.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paths.Clear()
	if s.reader != s.writer {
		if err := s.reader.Close(); err != nil {
			s.writer.Close()
			return err
		}
	}
	return s.writer.Close()
}

// GetCapabilities returns a list of capabilities supported by this store.
func (s *Store) GetCapabilities() *store.Capabilities {
	caps := []store.Capability{store.CapabilityQuery}
	if s.reader != s.writer {
		caps = append(caps, store.CapabilityConcurrentReads)
	}
	return &store.Capabilities{Capabilities: caps}
}
