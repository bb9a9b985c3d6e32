package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twardoch/fontgrep"
	"github.com/twardoch/fontgrep/query"
)

// criteriaFlags holds the raw filter values; validation happens once, up
// front, via query.NewCriteria.
type criteriaFlags struct {
	axes     []string
	features []string
	scripts  []string
	tables   []string
	unicode  []string
	texts    []string
	names    []string
	variable bool
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cf := cmd.Flags()
	cf.StringSliceVarP(&f.axes, "axis", "a", nil, "require a variation axis (e.g. wght)")
	cf.StringSliceVarP(&f.features, "feature", "f", nil, "require an OpenType feature (e.g. smcp)")
	cf.StringSliceVarP(&f.scripts, "script", "s", nil, "require an OpenType script (e.g. latn)")
	cf.StringSliceVarP(&f.tables, "table", "T", nil, "require a table (e.g. GPOS)")
	cf.StringSliceVarP(&f.unicode, "unicode", "u", nil, "require codepoints (e.g. U+0041-U+005A,U+00C0)")
	cf.StringSliceVarP(&f.texts, "text", "t", nil, "require every codepoint of a text string")
	cf.StringSliceVarP(&f.names, "name", "n", nil, "require a name table match (regular expression)")
	cf.BoolVar(&f.variable, "variable", false, "require a variable font")
}

func (f *criteriaFlags) criteria() (*query.Criteria, error) {
	return query.NewCriteria(query.Input{
		Axes:       f.axes,
		Features:   f.features,
		Scripts:    f.scripts,
		Tables:     f.tables,
		Codepoints: f.unicode,
		Texts:      f.texts,
		Names:      f.names,
		Variable:   f.variable,
	})
}

func newSearchCommand(flags *globalFlags) *cobra.Command {
	crit := &criteriaFlags{}

	cmd := &cobra.Command{
		Use:   "search [paths...]",
		Short: "Find fonts matching the given criteria",
		Long: `Search walks the given directories and prints every matching font,
one path per line. With no paths, the cache alone is queried.
Criteria are conjunctive: a font must satisfy all of them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := crit.criteria()
			if err != nil {
				return err
			}

			ctx := context.Background()
			logger := flags.logger()

			st, err := openStore(ctx, flags, logger)
			if err != nil {
				return err
			}
			opts := []fontgrep.Option{
				fontgrep.WithWorkers(flags.jobs),
				fontgrep.WithLogger(logger),
			}
			if st != nil {
				defer st.Close(ctx)
				opts = append(opts, fontgrep.WithStore(st))
			}

			scanner := fontgrep.NewScanner(opts...)
			sink := fontgrep.NewWriterSink(os.Stdout)
			return scanner.Search(ctx, args, c, sink)
		},
	}

	crit.register(cmd)
	return cmd
}
