// Package catdiff compares two snapshots of a marketplace category list and
// reports which categories appeared, disappeared or changed.
package catdiff

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	domain "github.com/wondersell/seller-stats/pkg/types"
)

// ErrInvalidArgument is returned when a diff kind is missing or unknown.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind selects one of the computed diffs.
type Kind string

// Diff kinds.
const (
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
	KindFull    Kind = "full"
)

// Kinds lists every diff kind in report order.
func Kinds() []Kind {
	return []Kind{KindAdded, KindRemoved, KindFull}
}

const searchBaseURL = "https://www.wildberries.ru/catalog/0/search.aspx"

// Source keys of the category list crawler.
const (
	itemCategoryName = "wb_category_name"
	itemCategoryURL  = "wb_category_url"
)

// Updates holds two category snapshots and, once calculated, their diffs.
type Updates struct {
	old, current []domain.Category

	diff   map[Kind][]domain.CategoryEntry
	unique map[Kind][]domain.CategoryEntry
	done   bool
}

// New creates Updates for an old and a current snapshot.
func New(old, current []domain.Category) *Updates {
	return &Updates{old: old, current: current}
}

// CategoriesFromItems extracts the category name and URL of crawler items.
// Both the crawler's keys and canonical keys are accepted.
func CategoriesFromItems(items []domain.RawRecord) []domain.Category {
	out := make([]domain.Category, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Category{
			Name: firstString(item, itemCategoryName, domain.FieldCategoryName),
			URL:  firstString(item, itemCategoryURL, domain.FieldCategoryURL),
		})
	}
	return out
}

func firstString(item domain.RawRecord, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok {
			return s
		}
	}
	return ""
}

// Calculate computes the added, removed and full diffs.
func (u *Updates) Calculate() *Updates {
	u.diff = map[Kind][]domain.CategoryEntry{
		KindAdded:   entries(subtract(u.current, u.old)),
		KindRemoved: entries(subtract(u.old, u.current)),
		KindFull:    entries(symmetric(u.old, u.current)),
	}

	u.unique = make(map[Kind][]domain.CategoryEntry, len(u.diff))
	for kind, list := range u.diff {
		u.unique[kind] = uniqueByName(list)
	}

	u.done = true
	return u
}

// subtract returns the pairs of a that do not occur in b, in order. Repeated
// pairs are kept; uniqueByName collapses them.
func subtract(a, b []domain.Category) []domain.Category {
	inB := make(map[domain.Category]struct{}, len(b))
	for _, c := range b {
		inB[c] = struct{}{}
	}

	var out []domain.Category
	for _, c := range a {
		if _, ok := inB[c]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// symmetric returns pairs occurring exactly once across both snapshots,
// keeping the first such pair per URL, ordered by URL.
func symmetric(a, b []domain.Category) []domain.Category {
	all := slices.Concat(a, b)

	counts := make(map[domain.Category]int, len(all))
	for _, c := range all {
		counts[c]++
	}

	byURL := make(map[string]domain.Category)
	for _, c := range all {
		if counts[c] != 1 {
			continue
		}
		if _, ok := byURL[c.URL]; !ok {
			byURL[c.URL] = c
		}
	}

	out := make([]domain.Category, 0, len(byURL))
	for _, c := range byURL {
		out = append(out, c)
	}
	slices.SortFunc(out, func(x, y domain.Category) int {
		return strings.Compare(x.URL, y.URL)
	})
	return out
}

func entries(categories []domain.Category) []domain.CategoryEntry {
	out := make([]domain.CategoryEntry, 0, len(categories))
	for _, c := range categories {
		out = append(out, domain.CategoryEntry{
			Name:      c.Name,
			URL:       c.URL,
			Type:      CategoryType(c.URL),
			SearchURL: SearchURL(c.Name),
		})
	}
	slices.SortStableFunc(out, func(x, y domain.CategoryEntry) int {
		return strings.Compare(string(x.Type), string(y.Type))
	})
	return out
}

func uniqueByName(list []domain.CategoryEntry) []domain.CategoryEntry {
	seen := make(map[string]struct{}, len(list))
	out := make([]domain.CategoryEntry, 0, len(list))
	for _, e := range list {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e)
	}
	return out
}

// CategoryType classifies a category by its URL.
func CategoryType(categoryURL string) domain.CategoryType {
	switch {
	case strings.Contains(categoryURL, "/catalog/novinki/"):
		return domain.CategoryNew
	case strings.Contains(categoryURL, "/promotions/"):
		return domain.CategoryPromo
	default:
		return domain.CategoryRegular
	}
}

// SearchURL builds the marketplace search link for a category name.
func SearchURL(name string) string {
	q := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return searchBaseURL + "?search=" + q
}

// ParseKind validates a user supplied diff kind.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return "", fmt.Errorf("%w: diff kind is not defined", ErrInvalidArgument)
	}
	k := Kind(strings.ToLower(s))
	if !slices.Contains(Kinds(), k) {
		return "", fmt.Errorf("%w: unknown diff kind %q", ErrInvalidArgument, s)
	}
	return k, nil
}

func (u *Updates) list(kind Kind, unique bool) ([]domain.CategoryEntry, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if !u.done {
		u.Calculate()
	}
	if unique {
		return u.unique[kind], nil
	}
	return u.diff[kind], nil
}

// Count returns the number of entries in the diff of kind.
func (u *Updates) Count(kind Kind) (int, error) {
	list, err := u.list(kind, false)
	return len(list), err
}

// UniqueCount returns the number of distinct category names in the diff.
func (u *Updates) UniqueCount(kind Kind) (int, error) {
	list, err := u.list(kind, true)
	return len(list), err
}

// Entries returns the diff of kind.
func (u *Updates) Entries(kind Kind) ([]domain.CategoryEntry, error) {
	list, err := u.list(kind, false)
	if err != nil {
		return nil, err
	}
	return slices.Clone(list), nil
}

// Table renders the diff of kind for export. The sheet is named after kind.
func (u *Updates) Table(kind Kind) (domain.Table, error) {
	list, err := u.list(kind, false)
	if err != nil {
		return domain.Table{}, err
	}

	t := domain.Table{
		Sheet:   string(kind),
		Headers: []string{"category_name", "category_url", "category_search_url", "category_type"},
		Rows:    make([][]any, 0, len(list)),
	}
	for _, e := range list {
		t.Rows = append(t.Rows, []any{e.Name, e.URL, e.SearchURL, string(e.Type)})
	}
	return t, nil
}
