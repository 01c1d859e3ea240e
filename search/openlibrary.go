package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/the-web-girl/My-Library-App/model"
)

const (
	openLibraryBaseURL  = "https://openlibrary.org/search.json"
	openLibraryCoverFmt = "https://covers.openlibrary.org/b/id/%d-M.jpg"
)

type OpenLibrary struct {
	client
	baseURL string
	limit   int
}

func NewOpenLibrary(c client, limit int) *OpenLibrary {
	return &OpenLibrary{client: c, baseURL: openLibraryBaseURL, limit: limit}
}

func (o *OpenLibrary) Name() string {
	return "OpenLibrary"
}

type openLibraryResult struct {
	Docs []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		CoverID          int      `json:"cover_i"`
		PagesMedian      int      `json:"number_of_pages_median"`
		ISBN             []string `json:"isbn"`
	} `json:"docs"`
}

func (o *OpenLibrary) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	u := fmt.Sprintf("%s?q=%s&limit=%d", o.baseURL, url.QueryEscape(query), o.limit)

	var result openLibraryResult
	if err := o.getJSON(ctx, u, nil, &result); err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(result.Docs))
	for _, doc := range result.Docs {
		year := ""
		if doc.FirstPublishYear > 0 {
			year = fmt.Sprintf("%d", doc.FirstPublishYear)
		}
		cover := ""
		if doc.CoverID > 0 {
			cover = fmt.Sprintf(openLibraryCoverFmt, doc.CoverID)
		}
		c := model.Candidate{
			Title:      titleOrDefault(doc.Title),
			Author:     joinAuthors(doc.AuthorName),
			Year:       year,
			CoverURL:   cover,
			ExternalID: doc.Key,
			Source:     o.Name(),
		}
		if doc.PagesMedian > 0 {
			pages := doc.PagesMedian
			c.Pages = &pages
		}
		if len(doc.ISBN) > 0 {
			c.ISBN = doc.ISBN[0]
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
