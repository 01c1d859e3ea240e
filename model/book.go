package model //import "github.com/the-web-girl/My-Library-App/model"

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Status says whether a book sits in the library or on the wishlist.
type Status string

const (
	StatusWishlist Status = "wishlist"
	StatusOwned    Status = "owned"
)

// ReadingState tracks whether an owned book has been read.
type ReadingState string

const (
	ReadingUnread ReadingState = "unread"
	ReadingRead   ReadingState = "read"
)

// Format is the edition type of a book.
type Format string

const (
	FormatPaperback Format = "paperback"
	FormatPocket    Format = "pocket"
	FormatEbook     Format = "ebook"
	FormatAudio     Format = "audio"
)

const (
	UnknownTitle  = "Unknown title"
	UnknownAuthor = "Unknown author"
)

// ParseStatus maps client-supplied status values, including the legacy
// "library" synonym, onto the canonical enum. Unrecognized values fall
// back to wishlist.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owned", "library":
		return StatusOwned
	default:
		return StatusWishlist
	}
}

// ParseReadingState maps client-supplied reading states, including the
// legacy French values, onto the canonical enum.
func ParseReadingState(s string) ReadingState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "done", "lu", "read":
		return ReadingRead
	default:
		return ReadingUnread
	}
}

// ParseFormat maps client-supplied formats, including the legacy French
// values, onto the canonical enum. Unrecognized values fall back to
// paperback.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pocket", "poche":
		return FormatPocket
	case "ebook", "e-book":
		return FormatEbook
	case "audio":
		return FormatAudio
	default:
		return FormatPaperback
	}
}

type Book struct {
	ID           int          `json:"id"`
	UUID         string       `json:"uuid"`
	ExternalID   *string      `json:"external_id"`
	Title        string       `json:"title"`
	Author       string       `json:"author"`
	ISBN         *string      `json:"isbn"`
	Pages        *int         `json:"pages"`
	CoverURL     string       `json:"cover_url"`
	Format       Format       `json:"format"`
	Series       string       `json:"series"`
	SeriesNumber *int         `json:"series_number"`
	Status       Status       `json:"status"`
	ReadingState ReadingState `json:"reading_state"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Normalize applies the invariants every stored record must satisfy: a
// non-empty title, a secure cover URL, and the rule that a wishlist
// book is never marked read.
func (b *Book) Normalize() error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return errors.Wrap(ErrInvalid, "title is required")
	}
	b.Author = strings.TrimSpace(b.Author)
	if b.Author == "" {
		b.Author = UnknownAuthor
	}
	b.CoverURL = SecureURL(b.CoverURL)
	if b.Pages != nil && *b.Pages < 0 {
		return errors.Wrap(ErrInvalid, "pages must be non-negative")
	}
	if b.Format == "" {
		b.Format = FormatPaperback
	}
	if b.Status == "" {
		b.Status = StatusWishlist
	}
	if b.ReadingState == "" {
		b.ReadingState = ReadingUnread
	}
	if b.Status != StatusOwned {
		b.ReadingState = ReadingUnread
	}
	return nil
}

// SecureURL rewrites a plain http scheme to https and leaves every
// other URL alone.
func SecureURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Candidate is a provider-agnostic search hit, normalized before the
// user commits it to the collection.
type Candidate struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       string `json:"year"`
	CoverURL   string `json:"cover"`
	ExternalID string `json:"external_id,omitempty"`
	Pages      *int   `json:"pages,omitempty"`
	ISBN       string `json:"isbn,omitempty"`
	Source     string `json:"source"`
}

// MergeKey is the composite identity used to deduplicate candidates
// coming from different providers.
func (c Candidate) MergeKey() string {
	return strings.ToLower(c.Title) + "|" + strings.ToLower(c.Author) + "|" + c.Year
}

// FindBook narrows GetBook/ListBooks results. Nil fields are ignored.
type FindBook struct {
	BookID     *int
	UUID       *string
	ExternalID *string
	Status     *Status
}

// StatusFilterFrom interprets a raw status query value. Unknown values
// mean "no filter", never an error.
func StatusFilterFrom(raw string) *Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "owned", "library":
		s := StatusOwned
		return &s
	case "wishlist":
		s := StatusWishlist
		return &s
	default:
		return nil
	}
}

// ReadingStateFrom interprets a raw reading-state value strictly.
// Unknown values yield nil so a patch can ignore them.
func ReadingStateFrom(raw string) *ReadingState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "done", "lu", "read":
		s := ReadingRead
		return &s
	case "todo", "à lire", "unread":
		s := ReadingUnread
		return &s
	default:
		return nil
	}
}

// FormatFrom interprets a raw format value strictly. Unknown values
// yield nil so a patch can ignore them.
func FormatFrom(raw string) *Format {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paperback", "broché", "broche":
		f := FormatPaperback
		return &f
	case "pocket", "poche":
		f := FormatPocket
		return &f
	case "ebook", "e-book":
		f := FormatEbook
		return &f
	case "audio":
		f := FormatAudio
		return &f
	default:
		return nil
	}
}

// BookPatch carries a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title        *string `json:"title"`
	Author       *string `json:"author"`
	Pages        *int    `json:"pages"`
	CoverURL     *string `json:"cover_url"`
	Format       *Format `json:"format"`
	Series       *string `json:"series"`
	SeriesNumber *int    `json:"series_number"`
	Status       *Status `json:"status"`

	ReadingState *ReadingState `json:"reading_state"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Pages == nil &&
		p.CoverURL == nil && p.Format == nil && p.Series == nil &&
		p.SeriesNumber == nil && p.Status == nil && p.ReadingState == nil
}
