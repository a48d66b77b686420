package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wondersell/seller-stats/internal/api/client"
	"github.com/wondersell/seller-stats/internal/config"
	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/internal/notify"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	"github.com/wondersell/seller-stats/pkg/logger"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

func categoriesCmd() *cobra.Command {
	categoriesRoot := &cobra.Command{
		Use:   "categories",
		Short: "Work with marketplace category lists",
	}

	categoriesRoot.AddCommand(categoriesDiffCmd())
	categoriesRoot.AddCommand(categoriesWatchCmd())

	return categoriesRoot
}

func categoriesDiffCmd() *cobra.Command {
	var (
		oldFile  string
		newFile  string
		format   string
		project  string
		tag      string
		kind     string
		asJSON   bool
		doExport bool
		doNotify bool
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two category list snapshots",
		Long: "Compare two category list crawls and report the categories that were\n" +
			"added, removed or changed. Snapshots come from two files or from the two\n" +
			"most recent finished Scrapinghub jobs of a project.",
		Example: `  # Two local snapshots, list the new categories
  seller-stats categories diff --old monday.jl --new tuesday.jl --kind added

  # Latest two crawls on Scrapinghub, export the full diff and post it to Discord
  seller-stats categories diff --scrapinghub-project 431698 --kind full --export --notify`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromFiles := oldFile != "" || newFile != ""
			if fromFiles == (project != "") {
				return errors.New("use either --old and --new or --scrapinghub-project")
			}
			if fromFiles && (oldFile == "" || newFile == "") {
				return errors.New("both --old and --new are required")
			}

			var k catdiff.Kind
			if kind != "" || doExport {
				parsed, err := catdiff.ParseKind(kind)
				if err != nil {
					return err
				}
				k = parsed
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			if !fromFiles && tag == "" {
				tag = cfg.Scrapinghub.CategoriesTag
			}

			if api, ok := remoteClient(); ok {
				if doNotify {
					return errors.New("--notify is not supported with --server")
				}
				older, newer, err := loadSnapshots(ctx, cfg, log, oldFile, newFile, format, project, tag)
				if err != nil {
					return err
				}
				resp, err := api.CategoryDiff(ctx, &client.DiffRequest{
					Old:    catdiff.CategoriesFromItems(older),
					New:    catdiff.CategoriesFromItems(newer),
					Kind:   string(k),
					Export: doExport,
				})
				if err != nil {
					return err
				}
				return writeDiff(w, asJSON, k, resp.Summary, resp.Entries, resp.Export)
			}

			svc := newReportService(cfg, log)
			var (
				u      *catdiff.Updates
				source string
			)
			if fromFiles {
				source = oldFile + " -> " + newFile
				u, err = diffFiles(ctx, svc, log, oldFile, newFile, format)
			} else {
				source = "scrapinghub project " + project + " tag " + tag
				u, err = diffScrapinghub(ctx, svc, cfg, log, project, tag)
			}
			if err != nil {
				return err
			}

			summary, err := report.Summarize(u)
			if err != nil {
				return err
			}

			var entries []domain.CategoryEntry
			if k != "" {
				if entries, err = u.Entries(k); err != nil {
					return err
				}
			}

			var stored *export.Result
			if doExport {
				exporter, err := newExporter(ctx, cfg, log)
				if err != nil {
					return err
				}
				table, err := u.Table(k)
				if err != nil {
					return err
				}
				if stored, err = exporter.Export(ctx, string(k)+"_", table); err != nil {
					return err
				}
			}

			if doNotify {
				if err := sendDiffNotice(ctx, newNotifier(cfg, log), u, source, stored); err != nil {
					return err
				}
			}

			return writeDiff(w, asJSON, k, summary, entries, stored)
		},
	}

	cmd.Flags().StringVar(&oldFile, "old", "", "previous snapshot file")
	cmd.Flags().StringVar(&newFile, "new", "", "current snapshot file")
	cmd.Flags().StringVar(&format, "format", "", "snapshot file format (csv, jsonl); inferred when empty")
	cmd.Flags().StringVar(&project, "scrapinghub-project", "", "compare the last two finished jobs of this project")
	cmd.Flags().StringVar(&tag, "tag", "", "job tag to filter by (config default when empty)")
	cmd.Flags().StringVar(&kind, "kind", "", "diff to list and export (added, removed, full)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&doExport, "export", false, "store the selected diff as an XLSX workbook")
	cmd.Flags().BoolVar(&doNotify, "notify", false, "post added and removed categories to the configured webhook")

	return cmd
}

func writeDiff(
	w io.Writer,
	asJSON bool,
	k catdiff.Kind,
	summary []report.DiffSummary,
	entries []domain.CategoryEntry,
	stored *export.Result,
) error {
	if asJSON {
		return outputJSON(w, struct {
			Summary []report.DiffSummary   `json:"summary"`
			Entries []domain.CategoryEntry `json:"entries,omitempty"`
			Export  *export.Result         `json:"export,omitempty"`
		}{Summary: summary, Entries: entries, Export: stored})
	}

	if err := printDiffSummary(w, summary); err != nil {
		return err
	}
	if k != "" {
		fmt.Fprintf(w, "\n%s:\n", k)
		if err := printCategoryEntries(w, entries); err != nil {
			return err
		}
	}
	if stored != nil {
		fmt.Fprintf(w, "\nExported to %s\n", stored.Location)
	}
	return nil
}

// loadSnapshots reads the raw crawler items of both snapshots without
// comparing them. Files are used when oldFile is set.
func loadSnapshots(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	oldFile, newFile, format, project, tag string,
) (older, newer []domain.RawRecord, err error) {
	if oldFile == "" {
		sh, err := newScrapinghub(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return sh.LastTwo(ctx, project, tag)
	}

	opts := []loader.Option{loader.WithLogger(logger.Component(log, "loader"))}
	for _, snap := range []struct {
		path string
		dst  *[]domain.RawRecord
	}{{oldFile, &older}, {newFile, &newer}} {
		l, err := loader.Open(snap.path, format, opts...)
		if err != nil {
			return nil, nil, err
		}
		if *snap.dst, err = l.Load(ctx); err != nil {
			return nil, nil, fmt.Errorf("loading %s: %w", snap.path, err)
		}
	}
	return older, newer, nil
}

func diffFiles(
	ctx context.Context,
	svc *report.Service,
	log *slog.Logger,
	oldFile, newFile, format string,
) (*catdiff.Updates, error) {
	opts := []loader.Option{loader.WithLogger(logger.Component(log, "loader"))}

	older, err := loader.Open(oldFile, format, opts...)
	if err != nil {
		return nil, err
	}
	newer, err := loader.Open(newFile, format, opts...)
	if err != nil {
		return nil, err
	}
	return svc.CategoryDiff(ctx, older, newer)
}

func diffScrapinghub(
	ctx context.Context,
	svc *report.Service,
	cfg *config.Config,
	log *slog.Logger,
	project, tag string,
) (*catdiff.Updates, error) {
	sh, err := newScrapinghub(cfg, log)
	if err != nil {
		return nil, err
	}

	older, newer, err := sh.LastTwo(ctx, project, tag)
	if err != nil {
		return nil, err
	}
	return svc.Diff(older, newer)
}

func sendDiffNotice(
	ctx context.Context,
	n notify.Notifier,
	u *catdiff.Updates,
	source string,
	stored *export.Result,
) error {
	added, err := u.Entries(catdiff.KindAdded)
	if err != nil {
		return err
	}
	removed, err := u.Entries(catdiff.KindRemoved)
	if err != nil {
		return err
	}

	notice := &notify.DiffNotice{Source: source, Added: added, Removed: removed}
	if stored != nil {
		notice.ExportURL = stored.Location
	}
	if err := n.SendDiff(ctx, notice); err != nil {
		return fmt.Errorf("sending diff notification: %w", err)
	}
	return nil
}
