package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/config"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
	"github.com/the-web-girl/My-Library-App/search"
	"github.com/the-web-girl/My-Library-App/store"
	"github.com/the-web-girl/My-Library-App/store/db"
)

func TestMain(m *testing.M) {
	config.GetDefaultOptions()
	config.Opts.SearchDebounceMs = 0
	log.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type stubProvider struct {
	candidates []model.Candidate
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(context.Context, string) ([]model.Candidate, error) {
	return p.candidates, nil
}

func newTestRouter(t *testing.T, providers ...search.Provider) (*mux.Router, store.Store) {
	t.Helper()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	s := store.NewDBStore(d.DB)

	router := mux.NewRouter()
	Server(router, NewHandler(s, search.NewSearcher(providers...), nil))
	return router, s
}

func doJSON(t *testing.T, router *mux.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
}

func TestListBooksEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/books", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}

	var books []*model.Book
	decodeBody(t, w, &books)
	if len(books) != 0 {
		t.Errorf("expected no books, got %d", len(books))
	}
}

func TestAddBook(t *testing.T) {
	router, s := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/books?action=add", `{
		"google_id": "gb-dune",
		"title": "Dune",
		"author": "Frank Herbert",
		"year": "1965",
		"cover_url": "http://books.example.com/dune.jpg",
		"format": "poche",
		"series": "Dune",
		"series_number": 1,
		"status": "library",
		"reading_state": "lu"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		ID      int  `json:"id"`
	}
	decodeBody(t, w, &resp)
	if !resp.Success || resp.ID == 0 {
		t.Fatalf("unexpected response %+v", resp)
	}

	book, err := s.GetBook(&model.FindBook{BookID: &resp.ID})
	if err != nil {
		t.Fatal(err)
	}
	if book == nil {
		t.Fatal("book not stored")
	}
	if book.ExternalID == nil || *book.ExternalID != "gb-dune" {
		t.Errorf("legacy google_id not mapped, external id = %v", book.ExternalID)
	}
	if book.Status != model.StatusOwned || book.ReadingState != model.ReadingRead {
		t.Errorf("synonyms not mapped: %+v", book)
	}
	if book.CoverURL != "https://books.example.com/dune.jpg" {
		t.Errorf("cover = %q, expected https rewrite", book.CoverURL)
	}
}

func TestAddBookTwiceKeepsOneRecord(t *testing.T) {
	router, s := newTestRouter(t)

	body := `{"external_id": "gb-1984", "title": "1984", "author": "George Orwell", "status": "wishlist"}`
	if w := doJSON(t, router, http.MethodPost, "/api/books?action=add", body); w.Code != http.StatusOK {
		t.Fatalf("first add failed: %d %s", w.Code, w.Body.String())
	}
	body = `{"external_id": "gb-1984", "title": "1984", "author": "George Orwell", "status": "owned", "reading_state": "read"}`
	if w := doJSON(t, router, http.MethodPost, "/api/books?action=add", body); w.Code != http.StatusOK {
		t.Fatalf("second add failed: %d %s", w.Code, w.Body.String())
	}

	list, err := s.ListBooks(&model.FindBook{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single record, got %d", len(list))
	}
	if list[0].Status != model.StatusOwned || list[0].ReadingState != model.ReadingRead {
		t.Errorf("second add did not overwrite: %+v", list[0])
	}
}

func TestAddBookErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/books?action=add", "not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: status = %d", w.Code)
	}
	var errBody struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &errBody)
	if errBody.Error == "" {
		t.Errorf("expected an error message, body %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/books?action=add", `{"title": "  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty title: status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/books?action=add", `{"title": "Dune", "series_number": "one"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad series number: status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/books?action=add", `{"title": "Dune", "series_number": 1.5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("fractional series number: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestUnsupportedAction(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/books?action=frobnicate", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	// add requires POST
	w = doJSON(t, router, http.MethodGet, "/api/books?action=add", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET add: status = %d", w.Code)
	}
}

func TestUpdateBook(t *testing.T) {
	router, s := newTestRouter(t)

	book, err := s.UpsertBook(&model.Book{Title: "Dune", Status: model.StatusOwned})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/books?action=update", `{
		"id": `+itoa(book.ID)+`,
		"reading_state": "lu",
		"series_number": "2"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got, err := s.GetBook(&model.FindBook{BookID: &book.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got.ReadingState != model.ReadingRead {
		t.Errorf("reading state = %q", got.ReadingState)
	}
	if got.SeriesNumber == nil || *got.SeriesNumber != 2 {
		t.Errorf("series number = %v", got.SeriesNumber)
	}
}

func TestUpdateBookErrors(t *testing.T) {
	router, s := newTestRouter(t)

	book, err := s.UpsertBook(&model.Book{Title: "Dune"})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/books?action=update", `{"reading_state": "lu"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing id: status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/books?action=update", `{"id": 9999, "reading_state": "lu"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, body %s", w.Code, w.Body.String())
	}

	// Unknown enum values are dropped, an update carrying nothing else
	// is rejected.
	w = doJSON(t, router, http.MethodPost, "/api/books?action=update", `{"id": `+itoa(book.ID)+`, "format": "vinyl"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty patch: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestDeleteBookRoutes(t *testing.T) {
	router, s := newTestRouter(t)

	first, err := s.UpsertBook(&model.Book{Title: "Dune"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.UpsertBook(&model.Book{Title: "1984"})
	if err != nil {
		t.Fatal(err)
	}

	// Legacy query form.
	w := doJSON(t, router, http.MethodDelete, "/api/books?action=delete&id="+itoa(first.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("query delete: status = %d, body %s", w.Code, w.Body.String())
	}

	// REST form.
	w = doJSON(t, router, http.MethodDelete, "/api/books/"+itoa(second.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("route delete: status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/api/books/"+itoa(second.ID), "")
	if w.Code != http.StatusNotFound {
		t.Errorf("deleting twice: status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/books?action=delete", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing id: status = %d", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{candidates: []model.Candidate{
		{Title: "Dune", Author: "Frank Herbert", Year: "1965", Source: "stub"},
	}})

	w := doJSON(t, router, http.MethodGet, "/api/search?q=dune", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var candidates []model.Candidate
	decodeBody(t, w, &candidates)
	if len(candidates) != 1 || candidates[0].Title != "Dune" {
		t.Errorf("unexpected candidates %+v", candidates)
	}
}

func TestSearchEndpointShortQuery(t *testing.T) {
	router, _ := newTestRouter(t, &stubProvider{candidates: []model.Candidate{
		{Title: "Dune"},
	}})

	w := doJSON(t, router, http.MethodGet, "/api/search?q=d", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var candidates []model.Candidate
	decodeBody(t, w, &candidates)
	if len(candidates) != 0 {
		t.Errorf("short query should yield no candidates, got %d", len(candidates))
	}
}

func TestViewEndpoint(t *testing.T) {
	router, s := newTestRouter(t)

	for _, b := range []*model.Book{
		{Title: "Dune", Series: "Dune", Status: model.StatusOwned},
		{Title: "1984", Status: model.StatusWishlist},
	} {
		if _, err := s.UpsertBook(b); err != nil {
			t.Fatal(err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/view", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var v struct {
		GroupedBySeries bool          `json:"grouped_by_series"`
		Owned           []*model.Book `json:"owned"`
		Wishlist        []*model.Book `json:"wishlist"`
	}
	decodeBody(t, w, &v)
	if len(v.Owned) != 1 || len(v.Wishlist) != 1 {
		t.Errorf("unexpected view %+v", v)
	}

	w = doJSON(t, router, http.MethodGet, "/api/view?group=true&query=dune", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var grouped struct {
		GroupedBySeries bool `json:"grouped_by_series"`
		Groups          []struct {
			Series string        `json:"series"`
			Books  []*model.Book `json:"books"`
		} `json:"groups"`
	}
	decodeBody(t, w, &grouped)
	if !grouped.GroupedBySeries || len(grouped.Groups) != 1 {
		t.Errorf("unexpected grouped view %+v", grouped)
	}
	if grouped.Groups[0].Series != "Dune" {
		t.Errorf("group = %q", grouped.Groups[0].Series)
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
