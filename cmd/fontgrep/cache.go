package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twardoch/fontgrep/log"
	"github.com/twardoch/fontgrep/store"
	"github.com/twardoch/fontgrep/store/postgres"
	"github.com/twardoch/fontgrep/store/sqlite"
)

// openStore resolves the cache target and returns an initialized store, or
// nil when --no-cache is set. A postgres:// value selects the PostgreSQL
// store; everything else is a SQLite path, defaulting to the user cache
// directory.
func openStore(ctx context.Context, flags *globalFlags, logger *log.Logger) (store.Store, error) {
	if flags.noCache {
		return nil, nil
	}

	target := flags.cachePath
	if target == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving cache directory: %w", err)
		}
		target = filepath.Join(dir, "fontgrep", "cache.db")
	}

	var (
		st  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://"):
		st, err = postgres.New(ctx, target, logger)
	case target == ":memory:":
		st, err = sqlite.New(target, logger)
	default:
		if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
			return nil, fmt.Errorf("creating cache directory: %w", mkErr)
		}
		st, err = sqlite.New(target, logger)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Init(ctx); err != nil {
		st.Close(ctx)
		return nil, err
	}
	return st, nil
}
