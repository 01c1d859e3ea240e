package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-web-girl/My-Library-App/model"
)

func intptr(i int) *int { return &i }

func sample() []*model.Book {
	return []*model.Book{
		{ID: 1, Title: "A Game of Thrones", Author: "George R. R. Martin", Series: "A Song of Ice and Fire", SeriesNumber: intptr(1), Status: model.StatusOwned},
		{ID: 2, Title: "A Clash of Kings", Author: "George R. R. Martin", Series: "A Song of Ice and Fire", SeriesNumber: intptr(2), Status: model.StatusOwned},
		{ID: 3, Title: "Dune", Author: "Frank Herbert", Status: model.StatusOwned},
		{ID: 4, Title: "1984", Author: "George Orwell", Status: model.StatusWishlist},
		{ID: 5, Title: "Dune Messiah", Author: "Frank Herbert", Series: "Dune", SeriesNumber: intptr(2), Status: model.StatusWishlist},
	}
}

func titles(books []*model.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestBuildPartition(t *testing.T) {
	v := Build(sample(), Params{})

	require.False(t, v.GroupedBySeries)
	assert.Len(t, v.Owned, 3)
	assert.Len(t, v.Wishlist, 2)
	assert.Empty(t, v.Groups)
}

func TestBuildSeriesOrdering(t *testing.T) {
	v := Build(sample(), Params{})

	// Series runs first in series-number order, standalone books last.
	assert.Equal(t, []string{"A Game of Thrones", "A Clash of Kings", "Dune"}, titles(v.Owned))
}

func TestBuildFilterScopes(t *testing.T) {
	books := sample()

	v := Build(books, Params{Query: "dune", Scope: ScopeTitle})
	assert.Equal(t, []string{"Dune"}, titles(v.Owned))
	assert.Equal(t, []string{"Dune Messiah"}, titles(v.Wishlist))

	v = Build(books, Params{Query: "orwell", Scope: ScopeAuthor})
	assert.Empty(t, v.Owned)
	assert.Equal(t, []string{"1984"}, titles(v.Wishlist))

	v = Build(books, Params{Query: "ice", Scope: ScopeSeries})
	assert.Len(t, v.Owned, 2)

	// Unknown scope matches everywhere.
	v = Build(books, Params{Query: "dune", Scope: "bogus"})
	assert.Len(t, v.Owned, 1)
	assert.Len(t, v.Wishlist, 1)
}

func TestBuildStatusFilter(t *testing.T) {
	v := Build(sample(), Params{Status: "wishlist"})
	assert.Empty(t, v.Owned)
	assert.Len(t, v.Wishlist, 2)

	// Unknown status values mean no filter, not an error.
	v = Build(sample(), Params{Status: "everything"})
	assert.Len(t, v.Owned, 3)
	assert.Len(t, v.Wishlist, 2)
}

func TestBuildGroupBySeries(t *testing.T) {
	v := Build(sample(), Params{GroupBySeries: true})

	require.True(t, v.GroupedBySeries)
	require.Len(t, v.Groups, 3)

	assert.Equal(t, "A Song of Ice and Fire", v.Groups[0].Series)
	assert.Equal(t, []string{"A Clash of Kings", "A Game of Thrones"}, titles(v.Groups[0].Books))

	assert.Equal(t, "Dune", v.Groups[1].Series)

	require.Equal(t, NoSeries, v.Groups[2].Series)
	assert.Equal(t, []string{"1984", "Dune"}, titles(v.Groups[2].Books))
}

func TestBuildAccentInsensitiveSort(t *testing.T) {
	books := []*model.Book{
		{ID: 1, Title: "Zoo", Status: model.StatusOwned},
		{ID: 2, Title: "Été brûlant", Status: model.StatusOwned},
		{ID: 3, Title: "Espoir", Status: model.StatusOwned},
	}
	v := Build(books, Params{})
	assert.Equal(t, []string{"Espoir", "Été brûlant", "Zoo"}, titles(v.Owned))
}

func TestBuildIgnoresLeadingArticles(t *testing.T) {
	books := []*model.Book{
		{ID: 1, Title: "The Hobbit", Status: model.StatusOwned},
		{ID: 2, Title: "Dune", Status: model.StatusOwned},
		{ID: 3, Title: "Les Misérables", Status: model.StatusOwned},
	}
	v := Build(books, Params{})
	assert.Equal(t, []string{"Dune", "The Hobbit", "Les Misérables"}, titles(v.Owned))
}

func TestBuildEmptyInput(t *testing.T) {
	v := Build(nil, Params{})
	assert.NotNil(t, v.Owned)
	assert.NotNil(t, v.Wishlist)
	assert.Empty(t, v.Owned)
	assert.Empty(t, v.Wishlist)
}
