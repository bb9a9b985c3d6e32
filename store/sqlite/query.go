package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/twardoch/fontgrep/data"
	"github.com/twardoch/fontgrep/query"
)

// Query executes one planned lookup. Every constraint becomes an
// independent EXISTS condition with a fresh alias, so repeated values in
// one category narrow the result (all-of semantics) and no criterion value
// ever appears in the query text.
func (s *Store) Query(ctx context.Context, plan *query.Plan) ([]data.Candidate, error) {
	sqlText, args := buildQuery(plan, "")

	hits, err := s.selectHits(ctx, sqlText, args)
	if err != nil {
		return nil, fmt.Errorf("fontgrep: cache query failed: %w", err)
	}

	candidates := make([]data.Candidate, 0, len(hits))
	for _, hit := range hits {
		cand := data.Candidate{Path: hit.path}
		if plan.WantsNames() {
			names, err := s.loadNames(ctx, hit.id)
			if err != nil {
				return nil, fmt.Errorf("fontgrep: cache query failed: %w", err)
			}
			cand.Names = names
		}
		candidates = append(candidates, cand)
	}

	return candidates, nil
}

// Matches runs the planned lookup restricted to a single path.
func (s *Store) Matches(ctx context.Context, path string, plan *query.Plan) (data.Candidate, bool, error) {
	sqlText, args := buildQuery(plan, path)

	hits, err := s.selectHits(ctx, sqlText, args)
	if err != nil {
		return data.Candidate{}, false, fmt.Errorf("fontgrep: cache lookup failed: %w", err)
	}
	if len(hits) == 0 {
		return data.Candidate{}, false, nil
	}

	cand := data.Candidate{Path: hits[0].path}
	if plan.WantsNames() {
		names, err := s.loadNames(ctx, hits[0].id)
		if err != nil {
			return data.Candidate{}, false, fmt.Errorf("fontgrep: cache lookup failed: %w", err)
		}
		cand.Names = names
	}

	return cand, true, nil
}

type hit struct {
	id   string
	path string
}

// selectHits fully drains the result set before returning so that
// follow-up name lookups never nest inside an open cursor; memory stores
// run on a single connection where nesting would deadlock.
func (s *Store) selectHits(ctx context.Context, sqlText string, args []any) ([]hit, error) {
	var hits []hit
	err := s.withRetry(ctx, func() error {
		rows, err := s.reader.QueryContext(ctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		hits = hits[:0]
		for rows.Next() {
			var h hit
			if err := rows.Scan(&h.id, &h.path); err != nil {
				return err
			}
			hits = append(hits, h)
		}
		return rows.Err()
	})
	return hits, err
}

// buildQuery renders a plan into parameterized SQL. A non-empty pathFilter
// pins the lookup to one record.
func buildQuery(plan *query.Plan, pathFilter string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT f.id, f.path FROM fonts f")

	var where []string
	var args []any

	if pathFilter != "" {
		where = append(where, "f.path = ?")
		args = append(args, pathFilter)
	}

	for i, c := range plan.Constraints {
		alias := fmt.Sprintf("c%d", i)
		switch {
		case c.Exists:
			where = append(where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM tags %[1]s WHERE %[1]s.font_id = f.id AND %[1]s.category = ?)",
				alias))
			args = append(args, c.Category)
		case c.Category != "":
			where = append(where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM tags %[1]s WHERE %[1]s.font_id = f.id AND %[1]s.category = ? AND %[1]s.tag = ?)",
				alias))
			args = append(args, c.Category, c.Tag)
		default:
			where = append(where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM codepoints %[1]s WHERE %[1]s.font_id = f.id AND %[1]s.cp = ?)",
				alias))
			args = append(args, int64(c.Codepoint))
		}
	}

	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY f.path")
	if pathFilter != "" {
		sb.WriteString(" LIMIT 1")
	}

	return sb.String(), args
}

func (s *Store) loadNames(ctx context.Context, fontID string) ([]string, error) {
	rows, err := s.reader.QueryContext(ctx,
		"SELECT value FROM names WHERE font_id = ?", fontID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
