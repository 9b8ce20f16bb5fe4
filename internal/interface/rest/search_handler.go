package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/internal/usecase"
	"eurotours-service/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eurotours_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})
)

const dateLayout = "2006-01-02"

// SearchService is the orchestration contract the handlers depend on
type SearchService interface {
	Execute(ctx context.Context, query usecase.SearchQuery) (*usecase.SearchResult, error)
	GetSearch(ctx context.Context, searchID string) (*usecase.SearchResult, error)
	PollNew(ctx context.Context, searchID string) (*usecase.PollResult, error)
}

// SearchHandler serves the search endpoints
type SearchHandler struct {
	service SearchService
	logger  logger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchService, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  log,
	}
}

type searchRequest struct {
	FromCityID    int    `json:"fromCityId"`
	ToCityID      int    `json:"toCityId"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	TripType      string `json:"tripType"`
}

type searchView struct {
	FromCityID    int     `json:"fromCityId"`
	ToCityID      int     `json:"toCityId"`
	DepartureDate string  `json:"departureDate"`
	ReturnDate    *string `json:"returnDate"`
	Type          string  `json:"type"`
}

type routesView struct {
	Outbound []entity.Route `json:"outbound"`
	Return   []entity.Route `json:"return"`
}

func buildSearchView(search *entity.Search) searchView {
	view := searchView{
		FromCityID:    search.FromCityID,
		ToCityID:      search.ToCityID,
		DepartureDate: search.DepartureDate.Format(dateLayout),
		Type:          search.Type,
	}
	if search.ReturnDate != nil {
		formatted := search.ReturnDate.Format(dateLayout)
		view.ReturnDate = &formatted
	}
	return view
}

// CreateSearch handles POST /search
func (h *SearchHandler) CreateSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/search", "400").Inc()
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	query, err := h.buildQuery(req)
	if err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/search", "400").Inc()
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Execute(r.Context(), query)
	if err != nil {
		if usecase.IsValidationError(err) {
			httpRequestsTotal.WithLabelValues("POST", "/search", "400").Inc()
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		httpRequestsTotal.WithLabelValues("POST", "/search", "500").Inc()
		h.logger.Error("Search execution failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to perform search")
		return
	}

	httpRequestsTotal.WithLabelValues("POST", "/search", "200").Inc()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searchId": result.SearchID,
		"routes": routesView{
			Outbound: result.Outbound,
			Return:   result.Return,
		},
		"search": buildSearchView(result.Search),
	})
}

func (h *SearchHandler) buildQuery(req searchRequest) (usecase.SearchQuery, error) {
	query := usecase.SearchQuery{
		FromCityID: req.FromCityID,
		ToCityID:   req.ToCityID,
		TripType:   req.TripType,
	}

	if req.DepartureDate != "" {
		departure, err := time.Parse(dateLayout, req.DepartureDate)
		if err != nil {
			return usecase.SearchQuery{}, errors.New("departureDate must be formatted YYYY-MM-DD")
		}
		query.DepartureDate = departure
	}
	if req.ReturnDate != "" {
		ret, err := time.Parse(dateLayout, req.ReturnDate)
		if err != nil {
			return usecase.SearchQuery{}, errors.New("returnDate must be formatted YYYY-MM-DD")
		}
		query.ReturnDate = &ret
	}
	return query, nil
}

// GetSearch handles GET /search/{searchId}
func (h *SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	searchID := mux.Vars(r)["searchId"]

	result, err := h.service.GetSearch(r.Context(), searchID)
	if err != nil {
		if errors.Is(err, usecase.ErrSearchNotFound) {
			httpRequestsTotal.WithLabelValues("GET", "/search/{searchId}", "404").Inc()
			respondWithError(w, http.StatusNotFound, "Search not found")
			return
		}
		httpRequestsTotal.WithLabelValues("GET", "/search/{searchId}", "500").Inc()
		h.logger.Error("Failed to fetch search results", "searchId", searchID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch search results")
		return
	}

	httpRequestsTotal.WithLabelValues("GET", "/search/{searchId}", "200").Inc()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searchId":      result.SearchID,
		"outboundCount": len(result.Outbound),
		"returnCount":   len(result.Return),
		"search":        buildSearchView(result.Search),
		"routes": routesView{
			Outbound: result.Outbound,
			Return:   result.Return,
		},
	})
}

// GetExternalResults handles GET /search/{searchId}/external, the polling
// endpoint of the progressive disclosure protocol
func (h *SearchHandler) GetExternalResults(w http.ResponseWriter, r *http.Request) {
	searchID := mux.Vars(r)["searchId"]

	result, err := h.service.PollNew(r.Context(), searchID)
	if err != nil {
		if errors.Is(err, usecase.ErrSearchNotFound) {
			httpRequestsTotal.WithLabelValues("GET", "/search/{searchId}/external", "404").Inc()
			respondWithError(w, http.StatusNotFound, "Search not found")
			return
		}
		httpRequestsTotal.WithLabelValues("GET", "/search/{searchId}/external", "500").Inc()
		h.logger.Error("Failed to fetch external results", "searchId", searchID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch external results")
		return
	}

	httpRequestsTotal.WithLabelValues("GET", "/search/{searchId}/external", "200").Inc()
	respondWithJSON(w, http.StatusOK, result)
}
