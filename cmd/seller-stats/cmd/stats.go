package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wondersell/seller-stats/internal/api/client"
	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/logger"
	"github.com/wondersell/seller-stats/pkg/transform"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

func statsCmd() *cobra.Command {
	var (
		file        string
		format      string
		job         string
		transformer string
		top         int
		hhiBy       string
		noHHI       bool
		asJSON      bool
		doExport    bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute statistics for a category crawl",
		Long: "Load a category crawl from a file or a Scrapinghub job, clean it and\n" +
			"print turnover, run-rate, top goods, price distribution and market\n" +
			"concentration.",
		Example: `  # Wildsearch export of a Wildberries category
  seller-stats stats --file items.csv --transformer wildsearch_wb

  # Finished Scrapinghub job, concentration by brand, as JSON
  seller-stats stats --job 414324/1/735 --transformer wildsearch_wb --hhi-by brand --json

  # Store the report as a spreadsheet
  seller-stats stats --file items.jl --export`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (file == "") == (job == "") {
				return errors.New("exactly one of --file or --job is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			t, err := transform.ByName(transformer)
			if err != nil {
				return err
			}
			loaderOpts := []loader.Option{
				loader.WithTransformer(t),
				loader.WithLogger(logger.Component(log, "loader")),
			}

			var l loader.Loader
			if job != "" {
				sh, err := newScrapinghub(cfg, log)
				if err != nil {
					return err
				}
				l = sh.Job(job, loaderOpts...)
			} else {
				if l, err = loader.Open(file, format, loaderOpts...); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if api, ok := remoteClient(); ok {
				raw, err := l.Load(ctx)
				if err != nil {
					return fmt.Errorf("loading records: %w", err)
				}
				resp, err := api.CategoryStats(ctx, &client.StatsRequest{
					Records: raw,
					Top:     top,
					HHIBy:   hhiBy,
					NoHHI:   noHHI,
					Export:  doExport,
				})
				if err != nil {
					return err
				}
				return writeStats(w, asJSON, resp.Report, resp.Export)
			}

			rep, err := newReportService(cfg, log).CategoryReport(ctx, l, report.Params{
				TopCount: top,
				HHIField: hhiBy,
				NoHHI:    noHHI,
			})
			if err != nil {
				return err
			}

			var stored *export.Result
			if doExport {
				exporter, err := newExporter(ctx, cfg, log)
				if err != nil {
					return err
				}
				if stored, err = exporter.Export(ctx, "stats_", export.ReportTables(rep)...); err != nil {
					return err
				}
			}

			return writeStats(w, asJSON, rep, stored)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or JSON lines file with crawler items")
	cmd.Flags().StringVar(&format, "format", "", "file format (csv, jsonl); inferred from the extension when empty")
	cmd.Flags().StringVar(&job, "job", "", "Scrapinghub job key, e.g. 414324/1/735")
	cmd.Flags().StringVar(&transformer, "transformer", "", "key transformer (wildsearch_wb, wildsearch_ozon, mpstats_wb)")
	cmd.Flags().IntVar(&top, "top", 0, "size of the top goods ranking (config default when 0)")
	cmd.Flags().StringVar(&hhiBy, "hhi-by", "", "field to compute the concentration index over (brand, bin, ...)")
	cmd.Flags().BoolVar(&noHHI, "no-hhi", false, "skip the concentration index")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&doExport, "export", false, "store the report as an XLSX workbook")

	return cmd
}

func writeStats(w io.Writer, asJSON bool, rep *domain.CategoryReport, stored *export.Result) error {
	if asJSON {
		return outputJSON(w, struct {
			Report *domain.CategoryReport `json:"report"`
			Export *export.Result         `json:"export,omitempty"`
		}{Report: rep, Export: stored})
	}

	if err := printReport(w, rep); err != nil {
		return err
	}
	if stored != nil {
		fmt.Fprintf(w, "\nExported to %s\n", stored.Location)
	}
	return nil
}
