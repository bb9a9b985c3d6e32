package fontgrep

import (
	"context"
	"fmt"
	"os"

	"github.com/twardoch/fontgrep/font"
	"github.com/twardoch/fontgrep/log"
	"github.com/twardoch/fontgrep/query"
	"github.com/twardoch/fontgrep/store"
)

// Scanner coordinates searches over directory trees and, when a store is
// attached, keeps the metadata cache in sync as a side effect of scanning.
//
// The mode of a search follows from the configuration and arguments:
//
//   - no store: every visited file is parsed directly, nothing persisted
//   - store and roots: cached records answer fresh files, stale or unknown
//     files are re-parsed and written back, vanished paths pruned
//   - store and no roots: the cache alone is queried, no filesystem walk
type Scanner struct {
	workers   int
	log       *log.Logger
	extractor font.Extractor
	store     store.Store
}

// NewScanner builds a scanner with the given options applied over the
// defaults (NumCPU workers, OpenType extractor, discard logger, no store).
func NewScanner(opts ...Option) *Scanner {
	s := defaultScanner()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search emits every font under roots (or in the cache, when roots is
// empty) matching crit, one Emit per path. Per-file failures are logged
// and skipped; only setup and sink failures abort the search.
func (s *Scanner) Search(ctx context.Context, roots []string, crit *query.Criteria, sink ResultSink) error {
	if crit == nil {
		return ErrNoCriteria
	}
	if sink == nil {
		return ErrNoSink
	}

	if len(roots) == 0 {
		if err := s.queryOnly(ctx, crit, sink); err != nil {
			return err
		}
		return sink.Flush()
	}

	if err := s.scan(ctx, roots, crit, sink); err != nil {
		return err
	}
	return sink.Flush()
}

// Update refreshes the cache for roots without matching anything: stale and
// unknown files are parsed and written back, vanished paths pruned.
func (s *Scanner) Update(ctx context.Context, roots []string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.scan(ctx, roots, nil, nil)
}

// Info parses a single file and returns its structural metadata, always
// from the file itself, never from the cache.
func (s *Scanner) Info(ctx context.Context, path string) (*FontInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontgrep: %w", err)
	}
	meta, err := s.extractor.Extract(raw)
	if err != nil {
		return nil, err
	}

	return &FontInfo{
		Path:     path,
		Size:     int64(len(raw)),
		Axes:     meta.Axes,
		Features: meta.Features,
		Scripts:  meta.Scripts,
		Tables:   meta.Tables,
		Names:    meta.Names,
		Coverage: len(meta.Coverage()),
	}, nil
}

// FontInfo is the human-facing summary of one parsed font file.
type FontInfo struct {
	Path     string
	Size     int64
	Axes     []string
	Features []string
	Scripts  []string
	Tables   []string
	Names    []string
	Coverage int
}

// queryOnly answers a search purely from the cache. Name patterns are
// applied here, in process, over the candidate name strings.
func (s *Scanner) queryOnly(ctx context.Context, crit *query.Criteria, sink ResultSink) error {
	if s.store == nil {
		return ErrNoStore
	}
	if !s.store.GetCapabilities().Has(store.CapabilityQuery) {
		return ErrQueryUnsupported
	}

	plan := query.BuildPlan(crit)
	candidates, err := s.store.Query(ctx, plan)
	if err != nil {
		return err
	}

	for _, cand := range candidates {
		if !plan.MatchNames(cand.Names) {
			continue
		}
		if err := sink.Emit(cand.Path); err != nil {
			return err
		}
	}
	return nil
}
