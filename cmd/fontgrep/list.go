package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every font path in the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.noCache {
				return errors.New("list requires a cache; drop --no-cache")
			}

			ctx := context.Background()
			st, err := openStore(ctx, flags, flags.logger())
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			paths, err := st.Paths(ctx)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}
