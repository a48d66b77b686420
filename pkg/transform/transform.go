// Package transform renames source-specific crawler keys to the canonical
// field names the dataset schema expects.
package transform

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	domain "github.com/wondersell/seller-stats/pkg/types"
)

// Transformer renames keys by Rules (source key to canonical key) and then
// removes DropKeys. A zero Transformer passes items through unchanged.
type Transformer struct {
	Name     string
	Rules    map[string]string
	DropKeys []string
}

// TransformItem returns a transformed copy of item. Keys absent from item
// are skipped; item itself is not modified.
func (t Transformer) TransformItem(item domain.RawRecord) domain.RawRecord {
	out := maps.Clone(item)
	if out == nil {
		out = domain.RawRecord{}
	}

	// Sorted so that two rules targeting one key resolve the same way every run.
	for _, from := range slices.Sorted(maps.Keys(t.Rules)) {
		v, ok := out[from]
		if !ok {
			continue
		}
		delete(out, from)
		out[t.Rules[from]] = v
	}

	for _, k := range t.DropKeys {
		delete(out, k)
	}
	return out
}

// TransformAll applies TransformItem to every item.
func (t Transformer) TransformAll(items []domain.RawRecord) []domain.RawRecord {
	out := make([]domain.RawRecord, len(items))
	for i, item := range items {
		out[i] = t.TransformItem(item)
	}
	return out
}

// Empty leaves items as they are.
func Empty() Transformer {
	return Transformer{Name: "empty"}
}

// WildsearchWildberries maps Wildsearch crawler items scraped from Wildberries.
func WildsearchWildberries() Transformer {
	return Transformer{
		Name: "wildsearch_wb",
		Rules: map[string]string{
			"wb_id":                  domain.FieldID,
			"product_url":            domain.FieldURL,
			"product_name":           domain.FieldName,
			"wb_price":               domain.FieldPrice,
			"wb_category_position":   domain.FieldPosition,
			"wb_purchases_count":     domain.FieldPurchases,
			"wb_rating":              domain.FieldRating,
			"wb_reviews_count":       domain.FieldReviews,
			"wb_category_url":        domain.FieldCategoryURL,
			"wb_category_name":       domain.FieldCategoryName,
			"wb_brand_name":          domain.FieldBrand,
			"wb_brand_country":       "brand_country",
			"wb_manufacture_country": "manufacture_country",
			"wb_first_review_date":   domain.FieldFirstReview,
		},
	}
}

// WildsearchOzon maps Wildsearch crawler items scraped from Ozon.
func WildsearchOzon() Transformer {
	return Transformer{
		Name: "wildsearch_ozon",
		Rules: map[string]string{
			"ozon_brand_name":        domain.FieldBrand,
			"ozon_category_name":     domain.FieldCategoryName,
			"ozon_category_position": domain.FieldPosition,
			"ozon_category_url":      domain.FieldCategoryURL,
			"ozon_first_review_date": domain.FieldFirstReview,
			"ozon_id":                domain.FieldID,
			"ozon_price":             domain.FieldPrice,
			"ozon_rating":            domain.FieldRating,
			"ozon_reviews_count":     domain.FieldReviews,
			"product_name":           domain.FieldName,
			"product_url":            domain.FieldURL,
		},
	}
}

// MpstatsWildberries maps Wildberries category exports from MPStats.
func MpstatsWildberries() Transformer {
	return Transformer{
		Name: "mpstats_wb",
		Rules: map[string]string{
			"category":          domain.FieldCategoryName,
			"category_position": domain.FieldPosition,
			"final_price":       domain.FieldPrice,
			"sales":             domain.FieldPurchases,
			"comments":          domain.FieldReviews,
		},
		DropKeys: []string{"graph", "category_graph", "price_graph", "stocks_graph"},
	}
}

// ErrUnknownTransformer is returned by ByName for unregistered names.
var ErrUnknownTransformer = errors.New("unknown transformer")

var registry = map[string]func() Transformer{
	"":                Empty,
	"empty":           Empty,
	"wildsearch_wb":   WildsearchWildberries,
	"wildsearch_ozon": WildsearchOzon,
	"mpstats_wb":      MpstatsWildberries,
}

// ByName returns the predefined transformer registered under name.
func ByName(name string) (Transformer, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Transformer{}, fmt.Errorf("%w %q (known: %s)",
			ErrUnknownTransformer, name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered transformer names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		if name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
