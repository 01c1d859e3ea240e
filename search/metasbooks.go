package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/the-web-girl/My-Library-App/model"
)

const metasBooksBaseURL = "https://api.metasbooks.fr/v1/books"

// MetasBooks is the only keyed provider, the key comes from the
// secrets file. A missing key disables the provider entirely.
type MetasBooks struct {
	client
	baseURL string
	apiKey  string
	limit   int
}

func NewMetasBooks(c client, apiKey string, limit int) *MetasBooks {
	return &MetasBooks{client: c, baseURL: metasBooksBaseURL, apiKey: apiKey, limit: limit}
}

func (m *MetasBooks) Name() string {
	return "MetasBooks"
}

type metasBooksResult struct {
	Results []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		PublishedDate string `json:"published_date"`
		CoverURL      string `json:"cover_url"`
		Pages         int    `json:"pages"`
		ISBN          string `json:"isbn"`
	} `json:"results"`
}

func (m *MetasBooks) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	u := fmt.Sprintf("%s?title=%s&limit=%d", m.baseURL, url.QueryEscape(query), m.limit)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+m.apiKey)

	var result metasBooksResult
	if err := m.getJSON(ctx, u, header, &result); err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(result.Results))
	for _, book := range result.Results {
		names := make([]string, 0, len(book.Authors))
		for _, a := range book.Authors {
			names = append(names, a.Name)
		}
		c := model.Candidate{
			Title:      titleOrDefault(book.Title),
			Author:     joinAuthors(names),
			Year:       yearFromDate(book.PublishedDate),
			CoverURL:   pickCover(book.CoverURL),
			ExternalID: book.ID,
			ISBN:       book.ISBN,
			Source:     m.Name(),
		}
		if book.Pages > 0 {
			pages := book.Pages
			c.Pages = &pages
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
