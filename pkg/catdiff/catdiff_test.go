package catdiff_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondersell/seller-stats/pkg/catdiff"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// makeCategories builds an old snapshot of oldLen categories and a new one of
// newLen, where the last diffCount entries of the new snapshot are unseen.
func makeCategories(oldLen, newLen, diffCount int) (old, current []domain.Category) {
	seq := 0
	next := func() domain.Category {
		seq++
		return domain.Category{
			Name: fmt.Sprintf("Company %d", seq),
			URL:  fmt.Sprintf("https://www.wildberries.ru/catalog/c%d", seq),
		}
	}

	for range oldLen {
		old = append(old, next())
	}
	for i := 0; i < newLen-diffCount; i++ {
		current = append(current, old[i])
	}
	for len(current) < newLen {
		current = append(current, next())
	}
	return old, current
}

func TestCalculate_Counts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		oldLen, newLen, diff int
		added, removed, full int
	}{
		{name: "one new category", oldLen: 1, newLen: 2, diff: 1, added: 1, removed: 0, full: 1},
		{name: "all categories new", oldLen: 1, newLen: 2, diff: 2, added: 2, removed: 1, full: 3},
		{name: "nothing changed", oldLen: 10, newLen: 10, diff: 0, added: 0, removed: 0, full: 0},
		{name: "fewer and all new", oldLen: 10, newLen: 5, diff: 5, added: 5, removed: 10, full: 15},
		{name: "fewer and all old", oldLen: 10, newLen: 5, diff: 0, added: 0, removed: 5, full: 5},
		{name: "more and partly new", oldLen: 10, newLen: 15, diff: 8, added: 8, removed: 3, full: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			old, current := makeCategories(tt.oldLen, tt.newLen, tt.diff)
			u := catdiff.New(old, current).Calculate()

			for kind, want := range map[catdiff.Kind]int{
				catdiff.KindAdded:   tt.added,
				catdiff.KindRemoved: tt.removed,
				catdiff.KindFull:    tt.full,
			} {
				got, err := u.Count(kind)
				require.NoError(t, err)
				assert.Equal(t, want, got, kind)
			}
		})
	}
}

func TestCalculate_FullKeepsFirstPerURL(t *testing.T) {
	t.Parallel()

	old := []domain.Category{{Name: "Shoes", URL: "https://www.wildberries.ru/catalog/shoes"}}
	current := []domain.Category{{Name: "Footwear", URL: "https://www.wildberries.ru/catalog/shoes"}}

	entries, err := catdiff.New(old, current).Entries(catdiff.KindFull)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Shoes", entries[0].Name)
}

func TestUniqueCount(t *testing.T) {
	t.Parallel()

	current := []domain.Category{
		{Name: "Toys", URL: "https://www.wildberries.ru/catalog/toys"},
		{Name: "Toys", URL: "https://www.wildberries.ru/catalog/novinki/toys"},
		{Name: "Books", URL: "https://www.wildberries.ru/catalog/books"},
	}
	u := catdiff.New(nil, current)

	count, err := u.Count(catdiff.KindAdded)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	unique, err := u.UniqueCount(catdiff.KindAdded)
	require.NoError(t, err)
	assert.Equal(t, 2, unique)
}

func TestCalculate_RepeatedPairsCounted(t *testing.T) {
	t.Parallel()

	toys := domain.Category{Name: "Toys", URL: "https://www.wildberries.ru/catalog/toys"}
	books := domain.Category{Name: "Books", URL: "https://www.wildberries.ru/catalog/books"}
	u := catdiff.New([]domain.Category{books, books}, []domain.Category{toys, toys, books})

	added, err := u.Count(catdiff.KindAdded)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	unique, err := u.UniqueCount(catdiff.KindAdded)
	require.NoError(t, err)
	assert.Equal(t, 1, unique)

	removed, err := u.Count(catdiff.KindRemoved)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestEntries_TypeAndSearchURL(t *testing.T) {
	t.Parallel()

	current := []domain.Category{
		{Name: "Регулярная", URL: "https://www.wildberries.ru/catalog/regular"},
		{Name: "Промо товары", URL: "https://www.wildberries.ru/promotions/sale"},
		{Name: "Новинки A&B", URL: "https://www.wildberries.ru/catalog/novinki/ab"},
	}

	entries, err := catdiff.New(nil, current).Entries(catdiff.KindAdded)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, domain.CategoryNew, entries[0].Type)
	assert.Equal(t, domain.CategoryPromo, entries[1].Type)
	assert.Equal(t, domain.CategoryRegular, entries[2].Type)

	assert.Equal(t,
		"https://www.wildberries.ru/catalog/0/search.aspx?search=%D0%9D%D0%BE%D0%B2%D0%B8%D0%BD%D0%BA%D0%B8%20A%26B",
		entries[0].SearchURL)
}

func TestSearchURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{name: "toys", want: "https://www.wildberries.ru/catalog/0/search.aspx?search=toys"},
		{name: "a b/c+d", want: "https://www.wildberries.ru/catalog/0/search.aspx?search=a%20b%2Fc%2Bd"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, catdiff.SearchURL(tt.name))
	}
}

func TestCategoryType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.CategoryNew, catdiff.CategoryType("https://www.wildberries.ru/catalog/novinki/x"))
	assert.Equal(t, domain.CategoryPromo, catdiff.CategoryType("https://www.wildberries.ru/promotions/x"))
	assert.Equal(t, domain.CategoryRegular, catdiff.CategoryType("https://www.wildberries.ru/catalog/x"))
}

func TestKindErrors(t *testing.T) {
	t.Parallel()

	u := catdiff.New(makeCategories(2, 2, 1))

	_, err := u.Count("")
	require.ErrorIs(t, err, catdiff.ErrInvalidArgument)

	_, err = u.UniqueCount("changed")
	require.ErrorIs(t, err, catdiff.ErrInvalidArgument)

	_, err = u.Entries("")
	require.ErrorIs(t, err, catdiff.ErrInvalidArgument)

	_, err = u.Table("nope")
	require.ErrorIs(t, err, catdiff.ErrInvalidArgument)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := catdiff.ParseKind("Removed")
	require.NoError(t, err)
	assert.Equal(t, catdiff.KindRemoved, k)
}

func TestTable(t *testing.T) {
	t.Parallel()

	u := catdiff.New(makeCategories(1, 2, 1))

	table, err := u.Table(catdiff.KindAdded)
	require.NoError(t, err)

	assert.Equal(t, "added", table.Sheet)
	assert.Equal(t, []string{"category_name", "category_url", "category_search_url", "category_type"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Company 2", table.Rows[0][0])
	assert.Equal(t, "Regular", table.Rows[0][3])
}

func TestCategoriesFromItems(t *testing.T) {
	t.Parallel()

	got := catdiff.CategoriesFromItems([]domain.RawRecord{
		{"wb_category_name": "Toys", "wb_category_url": "https://www.wildberries.ru/catalog/toys"},
		{"category_name": "Books", "category_url": "https://www.wildberries.ru/catalog/books"},
	})

	assert.Equal(t, []domain.Category{
		{Name: "Toys", URL: "https://www.wildberries.ru/catalog/toys"},
		{Name: "Books", URL: "https://www.wildberries.ru/catalog/books"},
	}, got)
}
