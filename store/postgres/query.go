package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/twardoch/fontgrep/data"
	"github.com/twardoch/fontgrep/query"
)

// Query executes one planned lookup using positional $N parameters and a
// fresh alias per constraint, mirroring the SQLite store.
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

func (s *Store) selectHits(ctx context.Context, sqlText string, args []any) ([]hit, error) {
	rows, err := s.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.id, &h.path); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func buildQuery(plan *query.Plan, pathFilter string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT f.id, f.path FROM fonts f")

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if pathFilter != "" {
		where = append(where, fmt.Sprintf("f.path = %s", arg(pathFilter)))
	}

	for i, c := range plan.Constraints {
		alias := fmt.Sprintf("c%d", i)
		switch {
		case c.Exists:
			where = append(where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM tags %[1]s WHERE %[1]s.font_id = f.id AND %[1]s.category = %[2]s)",
				alias, arg(c.Category)))
		case c.Category != "":
			where = append(where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM tags %[1]s WHERE %[1]s.font_id = f.id AND %[1]s.category = %[2]s AND %[1]s.tag = %[3]s)",
				alias, arg(c.Category), arg(c.Tag)))
		default:
			where = append(where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM codepoints %[1]s WHERE %[1]s.font_id = f.id AND %[1]s.cp = %[2]s)",
				alias, arg(int32(c.Codepoint))))
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
	rows, err := s.pool.Query(ctx,
		"SELECT value FROM names WHERE font_id = $1", fontID)
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
