package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/twardoch/fontgrep"
)

func newUpdateCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "update <paths...>",
		Short: "Refresh the cache for the given directories",
		Long: `Update re-parses every new or changed font under the given paths,
writes the results to the cache and removes entries for fonts that
no longer exist there. Nothing is matched or printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.noCache {
				return errors.New("update requires a cache; drop --no-cache")
			}

			ctx := context.Background()
			logger := flags.logger()

			st, err := openStore(ctx, flags, logger)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			scanner := fontgrep.NewScanner(
				fontgrep.WithWorkers(flags.jobs),
				fontgrep.WithLogger(logger),
				fontgrep.WithStore(st),
			)
			return scanner.Update(ctx, args)
		},
	}
}
