package v1

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"

	"github.com/the-web-girl/My-Library-App/middleware"
	"github.com/the-web-girl/My-Library-App/reconcile"
	"github.com/the-web-girl/My-Library-App/search"
	"github.com/the-web-girl/My-Library-App/store"
	"github.com/the-web-girl/My-Library-App/worker"
)

type Handler struct {
	store      store.Store
	reconciler *reconcile.Reconciler
	searcher   *search.Searcher
	mirrorPool *worker.Pool
	decoder    *schema.Decoder
}

func NewHandler(s store.Store, searcher *search.Searcher, mirrorPool *worker.Pool) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Handler{
		store:      s,
		reconciler: reconcile.NewReconciler(s),
		searcher:   searcher,
		mirrorPool: mirrorPool,
		decoder:    decoder,
	}
}

// Server registers the API routes. The books endpoint keeps the
// historical action-dispatch contract the browser client speaks.
func Server(router *mux.Router, handler *Handler) {
	sr := router.PathPrefix("/api").Subrouter()
	m := middleware.NewMiddleware()
	sr.Use(m.HandleCORS)
	sr.Use(m.LoggingRequest)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/books", handler.dispatchBooks).Methods(http.MethodGet, http.MethodPost, http.MethodDelete)
	sr.HandleFunc("/books/{id}", handler.deleteBook).Methods(http.MethodDelete)
	sr.HandleFunc("/search", handler.searchBooks).Methods(http.MethodGet)
	sr.HandleFunc("/view", handler.buildView).Methods(http.MethodGet)
}
