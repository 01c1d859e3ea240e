package v1

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/http/response"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
	"github.com/the-web-girl/My-Library-App/view"
)

// buildView re-reads the collection and projects it through the view
// builder. The view layer never keeps its own copy across calls.
func (h *Handler) buildView(w http.ResponseWriter, r *http.Request) {
	var params view.Params
	if err := h.decoder.Decode(&params, r.URL.Query()); err != nil {
		log.Warn("Failed to decode view params", zap.Error(err))
		response.BadRequest(w, r, errors.Wrap(model.ErrInvalid, "invalid view parameters"))
		return
	}

	books, err := h.store.ListBooks(&model.FindBook{})
	if err != nil {
		log.Error("Error listing books for view", zap.Error(err))
		response.Err(w, r, err)
		return
	}

	response.OK(w, r, view.Build(books, params))
}
