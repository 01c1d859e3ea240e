package search

import (
	"strings"

	"github.com/the-web-girl/My-Library-App/model"
)

// The normalization rules shared by every provider mapping: missing
// fields get displayable defaults instead of errors.

func titleOrDefault(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.UnknownTitle
	}
	return title
}

func joinAuthors(names []string) string {
	filtered := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			filtered = append(filtered, n)
		}
	}
	if len(filtered) == 0 {
		return model.UnknownAuthor
	}
	return strings.Join(filtered, ", ")
}

// yearFromDate extracts the 4-character year prefix from an ISO-ish
// date string, "2003-04-01" and "2003" both yield "2003".
func yearFromDate(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}

// pickCover prefers the medium thumbnail and falls back to whatever
// cover is available, always rewritten to https.
func pickCover(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return model.SecureURL(c)
		}
	}
	return ""
}
