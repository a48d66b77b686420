// Package domain defines the core business types for seller statistics.
package domain

import (
	"time"
)

// Canonical field names consumed by the statistics pipeline. Source-specific
// transformers rename crawler keys to these.
const (
	FieldID           = "id"
	FieldPosition     = "position"
	FieldPrice        = "price"
	FieldPurchases    = "purchases"
	FieldRating       = "rating"
	FieldReviews      = "reviews"
	FieldFirstReview  = "first_review"
	FieldCategoryName = "category_name"
	FieldCategoryURL  = "category_url"
	FieldBrand        = "brand"
	FieldName         = "name"
	FieldURL          = "url"
	FieldBin          = "bin"
)

// RawRecord is one listing as produced by a loader: field name to raw value.
// Values are strings (CSV), JSON scalars or native Go scalars.
type RawRecord map[string]any

// Record is one cleaned product listing. Nullable fields are pointers.
type Record struct {
	ID           string     `json:"id"`
	Position     *int       `json:"position,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	Purchases    *int       `json:"purchases,omitempty"`
	Rating       *float64   `json:"rating,omitempty"`
	Reviews      *int       `json:"reviews,omitempty"`
	FirstReview  *time.Time `json:"first_review,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	CategoryURL  string     `json:"category_url,omitempty"`
	Brand        string     `json:"brand,omitempty"`
	Name         string     `json:"name,omitempty"`
	URL          string     `json:"url,omitempty"`

	// Derived
	SKU                  int      `json:"sku"`
	Turnover             *float64 `json:"turnover,omitempty"`
	TurnoverMonth        *float64 `json:"turnover_month,omitempty"`
	PurchasesMonth       *float64 `json:"purchases_month,omitempty"`
	DaysSinceFirstReview *int     `json:"days_since_first_review,omitempty"`
	Bin                  string   `json:"bin,omitempty"`
}

// GroupKey returns the string value of a groupable field. The second result
// is false when the field is not groupable or its value is empty.
func (r *Record) GroupKey(field string) (string, bool) {
	var v string
	switch field {
	case FieldID:
		v = r.ID
	case FieldBrand:
		v = r.Brand
	case FieldCategoryName:
		v = r.CategoryName
	case FieldCategoryURL:
		v = r.CategoryURL
	case FieldName:
		v = r.Name
	case FieldURL:
		v = r.URL
	case FieldBin:
		v = r.Bin
	default:
		return "", false
	}
	return v, v != ""
}

// Meta describes what happened to the raw input while a dataset was built.
type Meta struct {
	CountRaw     int      `json:"count_raw"`
	CountRemoved int      `json:"count_removed"`
	CountClean   int      `json:"count_clean"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
}

// Binning holds price bucket boundaries and their display labels.
// len(Labels) == len(Thresholds)-1; the last bucket is open-ended.
type Binning struct {
	Thresholds []float64 `json:"thresholds"`
	Labels     []string  `json:"labels"`
}

// DistributionRow is the aggregate of one price bucket.
type DistributionRow struct {
	Label          string  `json:"label"`
	Low            float64 `json:"low"`
	High           float64 `json:"high"`
	SKU            int     `json:"sku"`
	TurnoverMonth  float64 `json:"turnover_month"`
	PurchasesMonth float64 `json:"purchases_month"`
}

// TopGood is one entry of a turnover ranking.
type TopGood struct {
	ID       string  `json:"id"`
	Turnover float64 `json:"turnover"`
}

// GroupShare is one partition's slice of monthly turnover.
type GroupShare struct {
	Key           string  `json:"key"`
	TurnoverMonth float64 `json:"turnover_month"`
	Share         float64 `json:"share"` // percent, 0-100
}

// Concentration is the Herfindahl-Hirschman index over a grouping field.
// HHI is nil when there is no monthly turnover to share.
type Concentration struct {
	Field         string       `json:"field"`
	TotalTurnover float64      `json:"total_turnover"`
	Groups        []GroupShare `json:"groups"`
	HHI           *float64     `json:"hhi,omitempty"`
}

// Totals sums the main metrics over a whole dataset.
type Totals struct {
	SKU            int     `json:"sku"`
	Turnover       float64 `json:"turnover"`
	TurnoverMonth  float64 `json:"turnover_month"`
	PurchasesMonth float64 `json:"purchases_month"`
}

// CategoryReport bundles every statistic computed for one category crawl.
type CategoryReport struct {
	CategoryName  string            `json:"category_name"`
	CategoryURL   string            `json:"category_url"`
	Meta          Meta              `json:"meta"`
	Totals        Totals            `json:"totals"`
	TopGoods      []TopGood         `json:"top_goods"`
	Binning       Binning           `json:"binning"`
	Distribution  []DistributionRow `json:"distribution"`
	Concentration *Concentration    `json:"concentration,omitempty"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// CategoryType classifies a marketplace category by its URL.
type CategoryType string

// Category type constants.
const (
	CategoryNew     CategoryType = "New"
	CategoryPromo   CategoryType = "Promo"
	CategoryRegular CategoryType = "Regular"
)

// Category is one entry of a category-list snapshot.
type Category struct {
	Name string `json:"category_name"`
	URL  string `json:"category_url"`
}

// CategoryEntry is a category that changed between two snapshots.
type CategoryEntry struct {
	Name      string       `json:"category_name"`
	URL       string       `json:"category_url"`
	Type      CategoryType `json:"category_type"`
	SearchURL string       `json:"category_search_url"`
}

// Table is a rectangular rendering of a result, ready for export.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}
