package router

import (
	"net/http"

	"eurotours-service/internal/interface/rest"
	"eurotours-service/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the HTTP router for the search service
func New(handler *rest.SearchHandler, log logger.Logger) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/search", handler.CreateSearch).Methods(http.MethodPost)
	r.HandleFunc("/search/{searchId}", handler.GetSearch).Methods(http.MethodGet)
	r.HandleFunc("/search/{searchId}/external", handler.GetExternalResults).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	log.Info("HTTP routes registered")
	return r
}
