package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/format"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printReport(w io.Writer, r *domain.CategoryReport) error {
	tw := newTabWriter(w)
	tw.writef("Category:\t%s\n", r.CategoryName)
	tw.writef("URL:\t%s\n", r.CategoryURL)
	tw.writef("Items:\t%d loaded, %d removed, %d used\n",
		r.Meta.CountRaw, r.Meta.CountRemoved, r.Meta.CountClean)
	tw.writef("SKU:\t%s\n", units(float64(r.Totals.SKU)))
	tw.writef("Turnover:\t%s\n", money(r.Totals.Turnover))
	tw.writef("Turnover, 30 days:\t%s\n", money(r.Totals.TurnoverMonth))
	tw.writef("Purchases, 30 days:\t%s\n", units(r.Totals.PurchasesMonth))
	if c := r.Concentration; c != nil {
		hhi := "-"
		if c.HHI != nil {
			hhi = format.Number(*c.HHI)
		}
		tw.writef("HHI by %s:\t%s\n", c.Field, hhi)
	}
	tw.writef("\n")

	tw.writef("PRICE\tSKU\tTURNOVER 30D\tPURCHASES 30D\n")
	for i := range r.Distribution {
		d := &r.Distribution[i]
		tw.writef("%s\t%d\t%s\t%s\n",
			d.Label,
			d.SKU,
			money(d.TurnoverMonth),
			units(d.PurchasesMonth),
		)
	}
	tw.writef("\n")

	tw.writef("TOP\tID\tTURNOVER\n")
	for i, g := range r.TopGoods {
		tw.writef("%d\t%s\t%s\n", i+1, g.ID, money(g.Turnover))
	}

	if c := r.Concentration; c != nil && len(c.Groups) > 0 {
		tw.writef("\n")
		tw.writef("%s\tTURNOVER 30D\tSHARE\n", c.Field)
		for _, g := range c.Groups {
			tw.writef("%s\t%s\t%s\n", g.Key, money(g.TurnoverMonth), format.Percent(g.Share/100))
		}
	}
	return tw.finish()
}

// Terminal output skips the highlight markers used in chat messages.
func money(n float64) string {
	return format.AddPostfix(n, format.DefaultCurrency, "")
}

func units(n float64) string {
	return format.AddPostfix(n, format.DefaultQuantity, "")
}

func printDiffSummary(w io.Writer, summary []report.DiffSummary) error {
	tw := newTabWriter(w)
	tw.writef("KIND\tCOUNT\tUNIQUE NAMES\n")
	for _, s := range summary {
		tw.writef("%s\t%d\t%d\n", s.Kind, s.Count, s.UniqueCount)
	}
	return tw.finish()
}

func printCategoryEntries(w io.Writer, entries []domain.CategoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No categories.")
		return err
	}

	tw := newTabWriter(w)
	tw.writef("TYPE\tNAME\tURL\n")
	for _, e := range entries {
		tw.writef("%s\t%s\t%s\n", e.Type, truncate(e.Name, 40), e.URL)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
