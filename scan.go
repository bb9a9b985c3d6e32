package fontgrep

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/twardoch/fontgrep/data"
	"github.com/twardoch/fontgrep/font"
	"github.com/twardoch/fontgrep/query"
)

// job is one candidate file discovered by the walker, with the stat values
// the staleness check needs.
type job struct {
	path  string
	mtime int64
	size  int64
}

// pending is one freshly parsed record queued for the cache writer.
type pending struct {
	job
	meta *data.FontMetadata
}

// scan walks roots with a fixed worker pool. A nil crit turns the scan into
// a pure cache refresh: nothing is matched or emitted. All store mutations
// go through a single writer goroutine; workers only read.
func (s *Scanner) scan(ctx context.Context, roots []string, crit *query.Criteria, sink ResultSink) error {
	var plan *query.Plan
	if s.store != nil && crit != nil {
		plan = query.BuildPlan(crit)
	}

	jobs := make(chan job, 256)
	updates := make(chan pending, 64)

	var observed sync.Map

	var writerWG sync.WaitGroup
	if s.store != nil {
		writerWG.Add(1)
		go func() {
			defer writerWG.Done()
			for p := range updates {
				if err := s.store.Upsert(ctx, p.path, p.mtime, p.size, p.meta); err != nil {
					s.log.Error("cache update failed for %s, entry left unchanged: %v", p.path, err)
				}
			}
		}()
	}

	var workerWG sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if s.store != nil {
					observed.Store(j.path, struct{}{})
				}
				s.process(ctx, j, crit, plan, sink, updates)
			}
		}()
	}

	walkErr := s.walk(ctx, roots, jobs)
	close(jobs)
	workerWG.Wait()
	close(updates)
	writerWG.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}

	if s.store != nil {
		existing := make(map[string]struct{})
		observed.Range(func(key, _ any) bool {
			existing[key.(string)] = struct{}{}
			return true
		})
		removed, err := s.store.Prune(ctx, existing)
		if err != nil {
			s.log.Error("cache prune failed: %v", err)
		} else if removed > 0 {
			s.log.Debug("pruned %d vanished fonts from cache", removed)
		}
	}

	return nil
}

// walk feeds candidate files into jobs. Traversal errors are logged and
// skipped per entry; symlinks and non-regular files are ignored.
func (s *Scanner) walk(ctx context.Context, roots []string, jobs chan<- job) error {
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.log.Warn("skipping %s: %v", path, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if !font.IsFontPath(path) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				s.log.Warn("skipping %s: %v", path, err)
				return nil
			}

			select {
			case jobs <- job{path: path, mtime: info.ModTime().Unix(), size: info.Size()}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
	return nil
}

// process handles one discovered file. With a fresh cached record the store
// answers directly; otherwise the file is parsed, matched against the live
// metadata, and queued for the writer. A failed cache write never suppresses
// a live match, because emission happens before the record reaches the
// writer.
func (s *Scanner) process(ctx context.Context, j job, crit *query.Criteria, plan *query.Plan, sink ResultSink, updates chan<- pending) {
	if s.store != nil {
		stale, err := s.store.NeedsUpdate(ctx, j.path, j.mtime, j.size)
		if err != nil {
			s.log.Warn("cache check failed for %s: %v", j.path, err)
			stale = true
		}
		if !stale {
			if plan == nil {
				return
			}
			cand, ok, err := s.store.Matches(ctx, j.path, plan)
			if err == nil {
				if ok && plan.MatchNames(cand.Names) {
					s.emit(cand.Path, sink)
				}
				return
			}
			s.log.Warn("cache lookup failed for %s, parsing instead: %v", j.path, err)
		}
	}

	meta, err := s.parse(j.path)
	if err != nil {
		s.log.Warn("skipping %s: %v", j.path, err)
		return
	}

	if crit != nil && query.Match(crit, meta) {
		s.emit(j.path, sink)
	}

	if s.store != nil {
		select {
		case updates <- pending{job: j, meta: meta}:
		case <-ctx.Done():
		}
	}
}

func (s *Scanner) parse(path string) (*data.FontMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(raw)
}

func (s *Scanner) emit(path string, sink ResultSink) {
	if sink == nil {
		return
	}
	if err := sink.Emit(path); err != nil {
		s.log.Error("emit failed for %s: %v", path, err)
	}
}
