// Package view derives the filtered, sorted, grouped projection of the
// collection that the client renders. It never mutates the store.
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/the-web-girl/My-Library-App/model"
	"github.com/the-web-girl/My-Library-App/util"
)

// NoSeries is the bucket books without a series fall into.
const NoSeries = "No series"

// Scope selects which fields the query filter matches against.
const (
	ScopeAll    = "all"
	ScopeTitle  = "title"
	ScopeAuthor = "author"
	ScopeSeries = "series"
)

// Params are decoded straight from the request query string.
type Params struct {
	Query         string `schema:"query"`
	Scope         string `schema:"scope"`
	Status        string `schema:"status"`
	GroupBySeries bool   `schema:"group"`
}

type SeriesGroup struct {
	Series string        `json:"series"`
	Books  []*model.Book `json:"books"`
}

// View is a read-only description of what to render. Either the
// owned/wishlist partition or the series buckets is populated,
// depending on Params.GroupBySeries.
type View struct {
	GroupedBySeries bool          `json:"grouped_by_series"`
	Owned           []*model.Book `json:"owned"`
	Wishlist        []*model.Book `json:"wishlist"`
	Groups          []SeriesGroup `json:"groups,omitempty"`
}

// Build filters, sorts and groups the given records. Unknown scope or
// status values behave as "all", never as errors.
func Build(books []*model.Book, params Params) *View {
	// Titles collate accent- and case-insensitively so "Été" sorts
	// next to "Ete" instead of after "Z".
	col := collate.New(language.French, collate.Loose)

	matched := filter(books, params)

	if params.GroupBySeries {
		return &View{
			GroupedBySeries: true,
			Owned:           []*model.Book{},
			Wishlist:        []*model.Book{},
			Groups:          groupBySeries(matched, col),
		}
	}

	owned := make([]*model.Book, 0)
	wishlist := make([]*model.Book, 0)
	for _, b := range matched {
		if b.Status == model.StatusOwned {
			owned = append(owned, b)
		} else {
			wishlist = append(wishlist, b)
		}
	}
	sortPartition(owned, col)
	sortPartition(wishlist, col)

	return &View{Owned: owned, Wishlist: wishlist}
}

func filter(books []*model.Book, params Params) []*model.Book {
	query := strings.ToLower(strings.TrimSpace(params.Query))
	statusFilter := model.StatusFilterFrom(params.Status)

	matched := make([]*model.Book, 0, len(books))
	for _, b := range books {
		if !matchesQuery(b, query, params.Scope) {
			continue
		}
		if statusFilter != nil && b.Status != *statusFilter {
			continue
		}
		matched = append(matched, b)
	}
	return matched
}

func matchesQuery(b *model.Book, query, scope string) bool {
	if query == "" {
		return true
	}
	inTitle := strings.Contains(strings.ToLower(b.Title), query)
	inAuthor := strings.Contains(strings.ToLower(b.Author), query)
	inSeries := strings.Contains(strings.ToLower(b.Series), query)

	switch scope {
	case ScopeTitle:
		return inTitle
	case ScopeAuthor:
		return inAuthor
	case ScopeSeries:
		return inSeries
	default:
		return inTitle || inAuthor || inSeries
	}
}

// sortPartition orders a partition by series (books without a series
// come last), then by series number when both records carry one, then
// by title.
func sortPartition(books []*model.Book, col *collate.Collator) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		sa, sb := strings.TrimSpace(a.Series), strings.TrimSpace(b.Series)

		if (sa == "") != (sb == "") {
			return sb == ""
		}
		if sa != sb {
			return col.CompareString(sa, sb) < 0
		}
		if sa != "" && a.SeriesNumber != nil && b.SeriesNumber != nil &&
			*a.SeriesNumber != *b.SeriesNumber {
			return *a.SeriesNumber < *b.SeriesNumber
		}
		return col.CompareString(util.TitleSort(a.Title), util.TitleSort(b.Title)) < 0
	})
}

// groupBySeries buckets all matching records by trimmed series name,
// ignoring the owned/wishlist split. Bucket keys sort
// lexicographically, books within a bucket by title.
func groupBySeries(books []*model.Book, col *collate.Collator) []SeriesGroup {
	buckets := make(map[string][]*model.Book)
	for _, b := range books {
		key := strings.TrimSpace(b.Series)
		if key == "" {
			key = NoSeries
		}
		buckets[key] = append(buckets[key], b)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	col.SortStrings(keys)

	groups := make([]SeriesGroup, 0, len(keys))
	for _, k := range keys {
		bucket := buckets[k]
		sort.SliceStable(bucket, func(i, j int) bool {
			return col.CompareString(util.TitleSort(bucket[i].Title), util.TitleSort(bucket[j].Title)) < 0
		})
		groups = append(groups, SeriesGroup{Series: k, Books: bucket})
	}
	return groups
}
