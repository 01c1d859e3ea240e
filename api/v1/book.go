package v1

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/http/request"
	"github.com/the-web-girl/My-Library-App/http/response"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
	"github.com/the-web-girl/My-Library-App/reconcile"
)

// dispatchBooks keeps the legacy single-endpoint contract: the action
// query parameter selects the operation.
func (h *Handler) dispatchBooks(w http.ResponseWriter, r *http.Request) {
	action := request.QueryStringParam(r, "action", "list")

	switch {
	case r.Method == http.MethodGet && action == "list":
		h.listBooks(w, r)
	case action == "delete":
		h.deleteBookByQuery(w, r)
	case r.Method == http.MethodPost && action == "add":
		h.addBook(w, r)
	case r.Method == http.MethodPost && action == "update":
		h.updateBook(w, r)
	default:
		response.BadRequest(w, r, errors.Wrapf(model.ErrInvalid, "unsupported action %q", action))
	}
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{
		// Unknown status values mean "no filter", never an error.
		Status: model.StatusFilterFrom(request.QueryStringParam(r, "status", "")),
	}

	books, err := h.store.ListBooks(find)
	if err != nil {
		log.Error("Error listing books", zap.Error(err))
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, books)
}

type addBookRequest struct {
	ExternalID   string `json:"external_id"`
	GoogleID     string `json:"google_id"` // legacy client field
	Title        string `json:"title"`
	Author       string `json:"author"`
	Year         string `json:"year"`
	ISBN         string `json:"isbn"`
	Pages        *int   `json:"pages"`
	CoverURL     string `json:"cover_url"`
	Format       string `json:"format"`
	Series       string `json:"series"`
	SeriesNumber any    `json:"series_number"`
	Status       string `json:"status"`
	ReadingState string `json:"reading_state"`
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to decode add request", zap.Error(err))
		response.BadRequest(w, r, errors.Wrap(model.ErrInvalid, "invalid JSON body"))
		return
	}

	externalID := req.ExternalID
	if externalID == "" {
		externalID = req.GoogleID
	}

	seriesNumber, err := seriesNumberString(req.SeriesNumber)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	candidate := model.Candidate{
		Title:      req.Title,
		Author:     req.Author,
		Year:       req.Year,
		CoverURL:   req.CoverURL,
		ExternalID: externalID,
		Pages:      req.Pages,
		ISBN:       req.ISBN,
	}
	overrides := reconcile.Overrides{
		Series:       req.Series,
		SeriesNumber: seriesNumber,
		Format:       req.Format,
		Status:       req.Status,
		ReadingState: req.ReadingState,
	}

	book, err := h.reconciler.Reconcile(candidate, overrides)
	if err != nil {
		log.Warn("Failed to add book", zap.String("title", req.Title), zap.Error(err))
		response.Err(w, r, err)
		return
	}

	h.pushMirrorJob("add")
	response.OK(w, r, map[string]any{"success": true, "id": book.ID})
}

type updateBookRequest struct {
	ID           int     `json:"id"`
	Title        *string `json:"title"`
	Author       *string `json:"author"`
	Pages        *int    `json:"pages"`
	CoverURL     *string `json:"cover_url"`
	Format       *string `json:"format"`
	Series       *string `json:"series"`
	SeriesNumber any     `json:"series_number"`
	Status       *string `json:"status"`
	ReadingState *string `json:"reading_state"`
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to decode update request", zap.Error(err))
		response.BadRequest(w, r, errors.Wrap(model.ErrInvalid, "invalid JSON body"))
		return
	}
	if req.ID <= 0 {
		response.BadRequest(w, r, errors.Wrap(model.ErrInvalid, "a positive id is required"))
		return
	}

	patch := &model.BookPatch{
		Title:    req.Title,
		Author:   req.Author,
		Pages:    req.Pages,
		CoverURL: req.CoverURL,
		Series:   req.Series,
	}
	// Unrecognized enum values are dropped from the patch, matching
	// the historical backend.
	if req.Status != nil {
		patch.Status = model.StatusFilterFrom(*req.Status)
	}
	if req.ReadingState != nil {
		patch.ReadingState = model.ReadingStateFrom(*req.ReadingState)
	}
	if req.Format != nil {
		patch.Format = model.FormatFrom(*req.Format)
	}
	if req.SeriesNumber != nil {
		raw, err := seriesNumberString(req.SeriesNumber)
		if err != nil {
			response.Err(w, r, err)
			return
		}
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				response.BadRequest(w, r, errors.Wrapf(model.ErrInvalid, "series number %q is not numeric", raw))
				return
			}
			patch.SeriesNumber = &n
		}
	}

	if patch.IsEmpty() {
		response.BadRequest(w, r, errors.Wrap(model.ErrInvalid, "no fields to update"))
		return
	}

	if _, err := h.store.PatchBook(req.ID, patch); err != nil {
		log.Warn("Failed to update book", zap.Int("id", req.ID), zap.Error(err))
		response.Err(w, r, err)
		return
	}

	h.pushMirrorJob("update")
	response.OK(w, r, map[string]any{"success": true})
}

// deleteBookByQuery serves the legacy GET/DELETE ?action=delete&id=N form.
func (h *Handler) deleteBookByQuery(w http.ResponseWriter, r *http.Request) {
	id := request.QueryIntParam(r, "id", 0)
	h.removeBook(w, r, id)
}

// deleteBook serves DELETE /books/{id}.
func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteIntParam(r, "id")
	h.removeBook(w, r, id)
}

func (h *Handler) removeBook(w http.ResponseWriter, r *http.Request, id int) {
	if id <= 0 {
		response.BadRequest(w, r, errors.Wrap(model.ErrInvalid, "a positive id is required"))
		return
	}

	if err := h.store.DeleteBook(id); err != nil {
		log.Warn("Failed to delete book", zap.Int("id", id), zap.Error(err))
		response.Err(w, r, err)
		return
	}

	h.pushMirrorJob("delete")
	response.OK(w, r, map[string]any{"success": true})
}

func (h *Handler) pushMirrorJob(reason string) {
	if h.mirrorPool == nil {
		return
	}
	h.mirrorPool.Push(model.Job{
		Type:   model.JobTypeMirror,
		Status: model.JobStatusPending,
		Reason: reason,
	})
}

// seriesNumberString folds the historically mixed string/number JSON
// typing into a plain string for the reconciler to coerce.
func seriesNumberString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return "", errors.Wrapf(model.ErrInvalid, "series number %v is not an integer", t)
		}
		return strconv.Itoa(int(t)), nil
	default:
		return "", errors.Wrapf(model.ErrInvalid, "series number has unsupported type %T", v)
	}
}
