package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/internal/usecase"
	"eurotours-service/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	executeResult *usecase.SearchResult
	executeErr    error
	getResult     *usecase.SearchResult
	getErr        error
	pollResult    *usecase.PollResult
	pollErr       error

	lastQuery usecase.SearchQuery
}

func (s *fakeService) Execute(_ context.Context, query usecase.SearchQuery) (*usecase.SearchResult, error) {
	s.lastQuery = query
	return s.executeResult, s.executeErr
}

func (s *fakeService) GetSearch(_ context.Context, _ string) (*usecase.SearchResult, error) {
	return s.getResult, s.getErr
}

func (s *fakeService) PollNew(_ context.Context, _ string) (*usecase.PollResult, error) {
	return s.pollResult, s.pollErr
}

func newTestRouter(service *fakeService) *mux.Router {
	handler := NewSearchHandler(service, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/search", handler.CreateSearch).Methods(http.MethodPost)
	r.HandleFunc("/search/{searchId}", handler.GetSearch).Methods(http.MethodGet)
	r.HandleFunc("/search/{searchId}/external", handler.GetExternalResults).Methods(http.MethodGet)
	return r
}

func sampleResult() *usecase.SearchResult {
	departure := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	return &usecase.SearchResult{
		SearchID: "search-1",
		Search: &entity.Search{
			ID:            "search-1",
			FromCityID:    4,
			ToCityID:      308,
			DepartureDate: departure,
			Type:          entity.TripOneWay,
			CreatedAt:     time.Now(),
		},
		Outbound: []entity.Route{
			{ID: "flixbus_abc", SearchID: "search-1", Direction: entity.DirectionThere, Price: 29.99},
		},
		Return: []entity.Route{},
	}
}

func TestCreateSearch(t *testing.T) {
	service := &fakeService{executeResult: sampleResult()}
	router := newTestRouter(service)

	body := `{"fromCityId": 4, "toCityId": 308, "departureDate": "2026-09-15", "tripType": "one-way"}`
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		SearchID string `json:"searchId"`
		Routes   struct {
			Outbound []json.RawMessage `json:"outbound"`
			Return   []json.RawMessage `json:"return"`
		} `json:"routes"`
		Search struct {
			FromCityID    int     `json:"fromCityId"`
			ToCityID      int     `json:"toCityId"`
			DepartureDate string  `json:"departureDate"`
			ReturnDate    *string `json:"returnDate"`
			Type          string  `json:"type"`
		} `json:"search"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "search-1", payload.SearchID)
	assert.Len(t, payload.Routes.Outbound, 1)
	assert.NotNil(t, payload.Routes.Return)
	assert.Empty(t, payload.Routes.Return)
	assert.Equal(t, 4, payload.Search.FromCityID)
	assert.Equal(t, "2026-09-15", payload.Search.DepartureDate)
	assert.Nil(t, payload.Search.ReturnDate)
	assert.Equal(t, "one-way", payload.Search.Type)

	assert.Equal(t, 4, service.lastQuery.FromCityID)
	assert.Equal(t, 308, service.lastQuery.ToCityID)
	assert.Equal(t, "one-way", service.lastQuery.TripType)
	assert.Nil(t, service.lastQuery.ReturnDate)
}

func TestCreateSearchParsesReturnDate(t *testing.T) {
	service := &fakeService{executeResult: sampleResult()}
	router := newTestRouter(service)

	body := `{"fromCityId": 4, "toCityId": 308, "departureDate": "2026-09-15", "returnDate": "2026-09-22", "tripType": "return"}`
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.lastQuery.ReturnDate)
	assert.Equal(t, "2026-09-22", service.lastQuery.ReturnDate.Format("2006-01-02"))
}

func TestCreateSearchBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"fromCityId": `},
		{"bad departure date", `{"fromCityId": 4, "toCityId": 308, "departureDate": "15.09.2026", "tripType": "one-way"}`},
		{"bad return date", `{"fromCityId": 4, "toCityId": 308, "departureDate": "2026-09-15", "returnDate": "soon", "tripType": "return"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&fakeService{})
			req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateSearchValidationError(t *testing.T) {
	service := &fakeService{executeErr: usecase.ErrMissingCities}
	router := newTestRouter(service)

	body := `{"departureDate": "2026-09-15", "tripType": "one-way"}`
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestCreateSearchInternalError(t *testing.T) {
	service := &fakeService{executeErr: errors.New("mongo down")}
	router := newTestRouter(service)

	body := `{"fromCityId": 4, "toCityId": 308, "departureDate": "2026-09-15", "tripType": "one-way"}`
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetSearch(t *testing.T) {
	service := &fakeService{getResult: sampleResult()}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/search/search-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		SearchID      string `json:"searchId"`
		OutboundCount int    `json:"outboundCount"`
		ReturnCount   int    `json:"returnCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "search-1", payload.SearchID)
	assert.Equal(t, 1, payload.OutboundCount)
	assert.Equal(t, 0, payload.ReturnCount)
}

func TestGetSearchNotFound(t *testing.T) {
	service := &fakeService{getErr: usecase.ErrSearchNotFound}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/search/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetExternalResults(t *testing.T) {
	service := &fakeService{pollResult: &usecase.PollResult{
		Processing: 0,
		Routes: []entity.Route{
			{ID: "flixbus_abc", SearchID: "search-1", Direction: entity.DirectionThere},
		},
		ExternalSearches: []usecase.ProviderStatus{
			{Provider: "flixbus", Status: "completed"},
		},
	}}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/search/search-1/external", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Processing       int               `json:"processing"`
		Routes           []json.RawMessage `json:"routes"`
		ExternalSearches []struct {
			Provider string `json:"provider"`
			Status   string `json:"status"`
		} `json:"externalSearches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 0, payload.Processing)
	assert.Len(t, payload.Routes, 1)
	require.Len(t, payload.ExternalSearches, 1)
	assert.Equal(t, "flixbus", payload.ExternalSearches[0].Provider)
	assert.Equal(t, "completed", payload.ExternalSearches[0].Status)
}

func TestGetExternalResultsNotFound(t *testing.T) {
	service := &fakeService{pollErr: usecase.ErrSearchNotFound}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/search/unknown/external", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
