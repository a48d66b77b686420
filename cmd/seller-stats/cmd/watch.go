package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/wondersell/seller-stats/internal/engine"
)

func categoriesWatchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the configured category watches once",
		Long: "Compare the two most recent finished crawls of every project listed under\n" +
			"watch.projects in the config file, exporting and posting the diff as\n" +
			"configured. `seller-stats serve` runs the same watches on watch.interval\n" +
			"when watch.enabled is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			eng, err := newEngine(cmd.Context(), cfg, log, nil)
			if err != nil {
				return err
			}

			results, err := eng.RunWatches(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return outputJSON(w, results)
			}
			return printWatchResults(w, results)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")

	return cmd
}

func printWatchResults(w io.Writer, results []engine.Result) error {
	tw := newTabWriter(w)
	tw.writef("PROJECT\tTAG\tSTATUS\tOLDER\tNEWER\tADDED\tREMOVED\tEXPORT\n")
	for i := range results {
		r := &results[i]
		location := "-"
		if r.Export != nil {
			location = r.Export.Location
		}
		status := string(r.Status)
		if r.Err != nil {
			status += ": " + r.Err.Error()
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.Watch.Project,
			r.Watch.Tag,
			status,
			dash(r.Older),
			dash(r.Newer),
			r.Added,
			r.Removed,
			location,
		)
	}
	return tw.finish()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
