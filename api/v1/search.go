package v1

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/http/request"
	"github.com/the-web-girl/My-Library-App/http/response"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
)

// searchBooks queries the external catalogs and returns merged,
// ranked suggestions. A search outrun by a newer one returns an empty
// list, its results must not be rendered.
func (h *Handler) searchBooks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(request.QueryStringParam(r, "q", ""))
	if len(query) < 2 {
		response.OK(w, r, []model.Candidate{})
		return
	}

	candidates, err := h.searcher.SearchDebounced(r.Context(), query)
	if err != nil {
		if errors.Is(err, model.ErrSuperseded) {
			log.Debug("Discarding superseded search", zap.String("query", query))
			response.OK(w, r, []model.Candidate{})
			return
		}
		log.Error("Search failed", zap.String("query", query), zap.Error(err))
		response.Err(w, r, err)
		return
	}

	response.OK(w, r, candidates)
}
