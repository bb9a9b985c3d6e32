package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twardoch/fontgrep/data"
	"github.com/twardoch/fontgrep/query"
)

// NeedsUpdate answers from the in-memory path index alone; the database is
// never touched on the walk's hot path.
func (s *Store) NeedsUpdate(ctx context.Context, path string, mtime, size int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fp, exists := s.paths.Get(path)
	if !exists {
		return true, nil
	}
	return fp.mtime != mtime || fp.size != size, nil
}

// Upsert replaces the record for path in one transaction: the old fonts
// row is deleted (cascading away every child row), the new row inserted,
// then every tag, codepoint and name row. A failure rolls the whole
// transaction back, so concurrent readers never observe a partial record.
func (s *Store) Upsert(ctx context.Context, path string, mtime, size int64, meta *data.FontMetadata) error {
	id := uuid.NewString()

	// Materialize coverage outside the transaction; charmap enumeration
	// can be slow and no lock should span it.
	coverage := meta.Coverage()

	err := s.withRetry(ctx, func() error {
		tx, err := s.writer.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, "DELETE FROM fonts WHERE path = ?", path); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO fonts (id, path, mtime, size) VALUES (?, ?, ?, ?)",
			id, path, mtime, size); err != nil {
			return err
		}

		tagStmt, err := tx.PrepareContext(ctx,
			"INSERT INTO tags (font_id, category, tag) VALUES (?, ?, ?)")
		if err != nil {
			return err
		}
		defer tagStmt.Close()

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
				if _, err := tagStmt.ExecContext(ctx, id, group.category, tag); err != nil {
					return err
				}
			}
		}

		cpStmt, err := tx.PrepareContext(ctx,
			"INSERT INTO codepoints (font_id, cp) VALUES (?, ?)")
		if err != nil {
			return err
		}
		defer cpStmt.Close()

		for _, cp := range coverage {
			if _, err := cpStmt.ExecContext(ctx, id, int64(cp)); err != nil {
				return err
			}
		}

		nameStmt, err := tx.PrepareContext(ctx,
			"INSERT INTO names (font_id, value) VALUES (?, ?)")
		if err != nil {
			return err
		}
		defer nameStmt.Close()

		for _, name := range meta.Names {
			if _, err := nameStmt.ExecContext(ctx, id, name); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.paths.Set(path, fingerprint{id: id, mtime: mtime, size: size})
	s.mu.Unlock()

	return nil
}

// Prune deletes every stored path absent from existing, in one
// transaction, and returns the number of removed records.
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

	err := s.withRetry(ctx, func() error {
		tx, err := s.writer.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, "DELETE FROM fonts WHERE path = ?")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, path := range stale {
			if _, err := stmt.ExecContext(ctx, path); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
	if err != nil {
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
	rows, err := s.reader.QueryContext(ctx, "SELECT path FROM fonts ORDER BY path")
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

// withRetry runs fn, retrying once with a short backoff when SQLite
// reports transient lock contention.
func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !isBusy(err) {
		return err
	}

	s.log.Debug("retrying after lock contention: %v", err)
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	return fn()
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
