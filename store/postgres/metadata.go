package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/twardoch/fontgrep/data"
	"github.com/twardoch/fontgrep/query"
)

// NeedsUpdate answers from the in-memory path index alone.
func (s *Store) NeedsUpdate(ctx context.Context, path string, mtime, size int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fp, exists := s.paths.Get(path)
	if !exists {
		return true, nil
	}
	return fp.mtime != mtime || fp.size != size, nil
}

// Upsert replaces the record for path and all child rows in one
// transaction.
func (s *Store) Upsert(ctx context.Context, path string, mtime, size int64, meta *data.FontMetadata) error {
	id := uuid.NewString()
	coverage := meta.Coverage()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("fontgrep: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM fonts WHERE path = $1", path); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO fonts (id, path, mtime, size) VALUES ($1, $2, $3, $4)",
		id, path, mtime, size); err != nil {
		return err
	}

	for _, group := range []struct {
		category string
		tags     []string
	}{
		{query.CategoryAxis, meta.Axes},
		{query.CategoryFeature, meta.Features},
		{query.CategoryScript, meta.Scripts},
		{query.CategoryTable, meta.Tables},
	} {
		for _, tag := range group.tags {
			if _, err := tx.Exec(ctx,
				"INSERT INTO tags (font_id, category, tag) VALUES ($1, $2, $3)",
				id, group.category, tag); err != nil {
				return err
			}
		}
	}

	for _, cp := range coverage {
		if _, err := tx.Exec(ctx,
			"INSERT INTO codepoints (font_id, cp) VALUES ($1, $2)",
			id, int32(cp)); err != nil {
			return err
		}
	}

	for _, name := range meta.Names {
		if _, err := tx.Exec(ctx,
			"INSERT INTO names (font_id, value) VALUES ($1, $2)",
			id, name); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.paths.Set(path, fingerprint{id: id, mtime: mtime, size: size})
	s.mu.Unlock()

	return nil
}

// Prune deletes every stored path absent from existing.
func (s *Store) Prune(ctx context.Context, existing map[string]struct{}) (int, error) {
	s.mu.RLock()
	var stale []string
	s.paths.Scan(func(path string, _ fingerprint) bool {
		if _, ok := existing[path]; !ok {
			stale = append(stale, path)
		}
		return true
	})
	s.mu.RUnlock()

	if len(stale) == 0 {
		return 0, nil
	}

	if _, err := s.pool.Exec(ctx,
		"DELETE FROM fonts WHERE path = ANY($1)", stale); err != nil {
		return 0, err
	}

	s.mu.Lock()
	for _, path := range stale {
		s.paths.Delete(path)
	}
	s.mu.Unlock()

	return len(stale), nil
}

// Paths lists every cached font path in lexical order.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT path FROM fonts ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
