package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twardoch/fontgrep"
)

func newInfoCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info <font>",
		Short: "Show the structural metadata of a single font file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			scanner := fontgrep.NewScanner(
				fontgrep.WithLogger(flags.logger()),
			)
			info, err := scanner.Info(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:       %s\n", info.Path)
			fmt.Fprintf(out, "Size:       %d bytes\n", info.Size)
			fmt.Fprintf(out, "Axes:       %s\n", joinOrDash(info.Axes))
			fmt.Fprintf(out, "Features:   %s\n", joinOrDash(info.Features))
			fmt.Fprintf(out, "Scripts:    %s\n", joinOrDash(info.Scripts))
			fmt.Fprintf(out, "Tables:     %s\n", joinOrDash(info.Tables))
			fmt.Fprintf(out, "Codepoints: %d\n", info.Coverage)
			for i, name := range info.Names {
				if i == 0 {
					fmt.Fprintf(out, "Names:      %s\n", name)
				} else {
					fmt.Fprintf(out, "            %s\n", name)
				}
			}
			return nil
		},
	}
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
