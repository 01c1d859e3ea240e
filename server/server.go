package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	v1 "github.com/the-web-girl/My-Library-App/api/v1"
	"github.com/the-web-girl/My-Library-App/config"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/search"
	"github.com/the-web-girl/My-Library-App/store"
	"github.com/the-web-girl/My-Library-App/version"
	"github.com/the-web-girl/My-Library-App/worker"
)

// StartServer starts the HTTP server and shuts it down when the
// context is canceled.
func StartServer(ctx context.Context, s store.Store, searcher *search.Searcher, mirrorPool *worker.Pool) (*http.Server, error) {
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler: setupHandler(s, searcher, mirrorPool),
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}
	}()

	return server, nil
}

func setupHandler(s store.Store, searcher *search.Searcher, mirrorPool *worker.Pool) http.Handler {
	router := mux.NewRouter()

	apiHandler := v1.NewHandler(s, searcher, mirrorPool)
	v1.Server(router, apiHandler)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(); err != nil {
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
