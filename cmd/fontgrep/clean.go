package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func newCleanCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove cache entries for fonts that no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.noCache {
				return errors.New("clean requires a cache; drop --no-cache")
			}

			ctx := context.Background()
			logger := flags.logger()

			st, err := openStore(ctx, flags, logger)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			paths, err := st.Paths(ctx)
			if err != nil {
				return err
			}

			existing := make(map[string]struct{}, len(paths))
			for _, path := range paths {
				if _, err := os.Stat(path); err == nil {
					existing[path] = struct{}{}
				}
			}

			removed, err := st.Prune(ctx, existing)
			if err != nil {
				return err
			}
			logger.Info("removed %d stale entries", removed)
			return nil
		},
	}
}
