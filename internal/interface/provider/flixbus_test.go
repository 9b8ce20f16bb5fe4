package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eurotours-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlixBusSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		query := r.URL.Query()
		assert.Equal(t, "dcf4c5c4-acb4-11e6-9066-549f35045cb0", query.Get("from_city_id"))
		assert.Equal(t, "f6d127be-acb4-11e6-9066-549f35045cb0", query.Get("to_city_id"))
		assert.Equal(t, "2026-09-15", query.Get("departure_date"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"trips": [
				{
					"uid": "trip-1",
					"departure": {"date": "2026-09-15T08:00:00+02:00"},
					"arrival": {"date": "2026-09-15T22:30:00+01:00"},
					"price": {"total": 29.99, "regular": 49.99, "currency": "EUR"},
					"transfers": [],
					"available_seats": 14
				},
				{
					"uid": "trip-2",
					"departure": {"date": "2026-09-15T11:00:00+02:00"},
					"arrival": {"date": "2026-09-16T02:00:00+01:00"},
					"price": {"total": 35.50, "regular": 35.50, "currency": "EUR"},
					"transfers": [{}]
				},
				{
					"uid": "trip-broken",
					"departure": {"date": "not a timestamp"},
					"arrival": {"date": "2026-09-16T02:00:00+01:00"},
					"price": {"total": 1}
				}
			]
		}`))
	}))
	defer server.Close()

	adapter := NewFlixBusAdapter(server.URL, "EUR", server.Client(), logger.NewNop())
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	candidates, err := adapter.Search(context.Background(), 4, 308, date)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "flixbus", first.Provider)
	assert.Equal(t, "FB", first.CarrierID)
	assert.Equal(t, 4, first.FromCityID)
	assert.Equal(t, 308, first.ToCityID)
	assert.Equal(t, 29.99, first.Price)
	require.NotNil(t, first.MaxPrice)
	assert.Equal(t, 49.99, *first.MaxPrice)
	assert.Equal(t, "trip-1", first.ExternalID)
	assert.True(t, first.IsDirect)
	require.NotNil(t, first.AvailableSeats)
	assert.Equal(t, 14, *first.AvailableSeats)

	second := candidates[1]
	assert.Nil(t, second.MaxPrice)
	assert.False(t, second.IsDirect)
	assert.Nil(t, second.AvailableSeats)
}

func TestFlixBusSearchUnmappedCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("adapter must not call the API for unmapped cities")
	}))
	defer server.Close()

	adapter := NewFlixBusAdapter(server.URL, "EUR", server.Client(), logger.NewNop())

	candidates, err := adapter.Search(context.Background(), 99999, 308, time.Now())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFlixBusSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewFlixBusAdapter(server.URL, "EUR", server.Client(), logger.NewNop())

	_, err := adapter.Search(context.Background(), 4, 308, time.Now())
	require.Error(t, err)
}
