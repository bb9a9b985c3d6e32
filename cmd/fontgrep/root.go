package main

import (
	"github.com/spf13/cobra"

	"github.com/twardoch/fontgrep/log"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	cachePath string
	noCache   bool
	jobs      int
	verbose   bool
	logFile   string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "fontgrep",
		Short: "Find font files matching structural criteria",
		Long: `fontgrep locates font files by the structure inside them: variation
axes, OpenType features and scripts, tables, Unicode coverage and name
table entries. A SQLite cache keeps repeated searches fast.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.cachePath, "cache", "", "cache database path (default: user cache dir, \":memory:\" for in-memory, postgres:// for PostgreSQL)")
	pf.BoolVar(&flags.noCache, "no-cache", false, "parse files directly without touching any cache")
	pf.IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (default: number of CPUs)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&flags.logFile, "log-file", "", "also write logs to a rotated file")

	root.AddCommand(
		newSearchCommand(flags),
		newUpdateCommand(flags),
		newListCommand(flags),
		newCleanCommand(flags),
		newInfoCommand(flags),
	)

	return root
}

func (f *globalFlags) logger() *log.Logger {
	level := log.Info
	if f.verbose {
		level = log.Debug
	}
	return log.NewLogger("fontgrep", level, f.logFile)
}
