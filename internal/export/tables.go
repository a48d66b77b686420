package export

import (
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// ReportTables lays a category report out as workbook sheets: a summary,
// the price distribution, the top goods and, when computed, the
// concentration breakdown.
func ReportTables(r *domain.CategoryReport) []domain.Table {
	summary := domain.Table{
		Sheet:   "summary",
		Headers: []string{"metric", "value"},
		Rows: [][]any{
			{"category_name", r.CategoryName},
			{"category_url", r.CategoryURL},
			{"count_raw", r.Meta.CountRaw},
			{"count_removed", r.Meta.CountRemoved},
			{"count_clean", r.Meta.CountClean},
			{"sku", r.Totals.SKU},
			{"turnover", r.Totals.Turnover},
			{"turnover_month", r.Totals.TurnoverMonth},
			{"purchases_month", r.Totals.PurchasesMonth},
			{"generated_at", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		},
	}

	distribution := domain.Table{
		Sheet:   "distribution",
		Headers: []string{"bin", "low", "high", "sku", "turnover_month", "purchases_month"},
		Rows:    make([][]any, 0, len(r.Distribution)),
	}
	for _, d := range r.Distribution {
		distribution.Rows = append(distribution.Rows,
			[]any{d.Label, d.Low, d.High, d.SKU, d.TurnoverMonth, d.PurchasesMonth})
	}

	top := domain.Table{
		Sheet:   "top_goods",
		Headers: []string{"id", "turnover"},
		Rows:    make([][]any, 0, len(r.TopGoods)),
	}
	for _, g := range r.TopGoods {
		top.Rows = append(top.Rows, []any{g.ID, g.Turnover})
	}

	tables := []domain.Table{summary, distribution, top}

	if c := r.Concentration; c != nil {
		if c.HHI != nil {
			summary.Rows = append(summary.Rows, []any{"hhi_" + c.Field, *c.HHI})
			tables[0] = summary
		}
		conc := domain.Table{
			Sheet:   "concentration",
			Headers: []string{c.Field, "turnover_month", "share"},
			Rows:    make([][]any, 0, len(c.Groups)),
		}
		for _, g := range c.Groups {
			conc.Rows = append(conc.Rows, []any{g.Key, g.TurnoverMonth, g.Share})
		}
		tables = append(tables, conc)
	}

	return tables
}
