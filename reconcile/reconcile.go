// Package reconcile merges a normalized search candidate plus the
// user-supplied overrides into the stored collection.
package reconcile

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
	"github.com/the-web-girl/My-Library-App/store"
)

// Overrides are the fields the user fills in before committing a
// candidate. Raw string values, synonym mapping happens here and
// nowhere else downstream.
type Overrides struct {
	Series       string `json:"series"`
	SeriesNumber string `json:"series_number"`
	Format       string `json:"format"`
	Status       string `json:"status"`
	ReadingState string `json:"reading_state"`
}

type Reconciler struct {
	store store.Store
}

func NewReconciler(s store.Store) *Reconciler {
	return &Reconciler{store: s}
}

// Reconcile turns a candidate plus overrides into a stored record. The
// upsert is keyed on the candidate's external id, a candidate without
// one is always inserted as new. Applying the same candidate twice
// yields a single record.
func (r *Reconciler) Reconcile(c model.Candidate, o Overrides) (*model.Book, error) {
	status := model.ParseStatus(o.Status)
	reading := model.ParseReadingState(o.ReadingState)
	// A wishlist book cannot be read, even when the override says so.
	if status != model.StatusOwned {
		reading = model.ReadingUnread
	}

	seriesNumber, err := coerceSeriesNumber(o.SeriesNumber)
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		Title:        strings.TrimSpace(c.Title),
		Author:       strings.TrimSpace(c.Author),
		CoverURL:     c.CoverURL,
		Pages:        c.Pages,
		Format:       model.ParseFormat(o.Format),
		Series:       strings.TrimSpace(o.Series),
		SeriesNumber: seriesNumber,
		Status:       status,
		ReadingState: reading,
	}
	if c.ExternalID != "" {
		externalID := c.ExternalID
		book.ExternalID = &externalID
	}
	if c.ISBN != "" {
		isbn := c.ISBN
		book.ISBN = &isbn
	}

	// The normalizer already defaults empty titles, re-check anyway so
	// a hand-built candidate cannot slip through.
	if book.Title == "" {
		return nil, errors.Wrap(model.ErrInvalid, "candidate title is empty")
	}

	stored, err := r.store.UpsertBook(book)
	if err != nil {
		return nil, err
	}

	log.Debug("Candidate reconciled",
		zap.Int("id", stored.ID),
		zap.String("title", stored.Title),
		zap.String("status", string(stored.Status)))
	return stored, nil
}

// coerceSeriesNumber normalizes the historically mixed string/integer
// series number to a single optional integer. Non-numeric input is
// rejected instead of propagated.
func coerceSeriesNumber(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Wrapf(model.ErrInvalid, "series number %q is not numeric", raw)
	}
	if n < 0 {
		return nil, errors.Wrapf(model.ErrInvalid, "series number %d is negative", n)
	}
	return &n, nil
}
