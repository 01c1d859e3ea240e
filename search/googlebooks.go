package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/the-web-girl/My-Library-App/model"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1/volumes"

type GoogleBooks struct {
	client
	baseURL string
	limit   int
}

func NewGoogleBooks(c client, limit int) *GoogleBooks {
	return &GoogleBooks{client: c, baseURL: googleBooksBaseURL, limit: limit}
}

func (g *GoogleBooks) Name() string {
	return "Google Books"
}

type googleVolumeList struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title               string   `json:"title"`
			Authors             []string `json:"authors"`
			PublishedDate       string   `json:"publishedDate"`
			PageCount           int      `json:"pageCount"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
			ImageLinks struct {
				Thumbnail      string `json:"thumbnail"`
				SmallThumbnail string `json:"smallThumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (g *GoogleBooks) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	u := fmt.Sprintf("%s?q=%s&maxResults=%d&printType=books",
		g.baseURL, url.QueryEscape(query), g.limit)

	var list googleVolumeList
	if err := g.getJSON(ctx, u, nil, &list); err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(list.Items))
	for _, item := range list.Items {
		info := item.VolumeInfo
		c := model.Candidate{
			Title:      titleOrDefault(info.Title),
			Author:     joinAuthors(info.Authors),
			Year:       yearFromDate(info.PublishedDate),
			CoverURL:   pickCover(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail),
			ExternalID: item.ID,
			Source:     g.Name(),
		}
		if info.PageCount > 0 {
			pages := info.PageCount
			c.Pages = &pages
		}
		for _, id := range info.IndustryIdentifiers {
			if id.Type == "ISBN_13" {
				c.ISBN = id.Identifier
				break
			}
			if id.Type == "ISBN_10" && c.ISBN == "" {
				c.ISBN = id.Identifier
			}
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
