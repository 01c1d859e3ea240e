package util

import "regexp"

// Leading articles are ignored when ordering titles, so "The Hobbit" sorts
// under H and "Les Misérables" under M. English and French articles cover
// the catalogues the search providers return.
var titleSortMatcher = regexp.MustCompile(`^(A|An|The|Le|La|Les|L'|Un|Une|Des)\s+`)

var apostropheMatcher = regexp.MustCompile(`^(L'|D')`)

// TitleSort returns the sort key for a book title with any leading
// article removed. The title itself is never modified for display.
func TitleSort(title string) string {
	if loc := apostropheMatcher.FindStringIndex(title); loc != nil {
		return title[loc[1]:]
	}
	if loc := titleSortMatcher.FindStringIndex(title); loc != nil {
		return title[loc[1]:]
	}
	return title
}
