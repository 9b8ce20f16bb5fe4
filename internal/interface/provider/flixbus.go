package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/pkg/logger"
)

const (
	flixbusDefaultSearchURL = "https://shop.flixbus.com/service/v2/search"
	flixbusUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	flixbusCarrierCode      = "FB"
)

// FlixBusAdapter searches the FlixBus public search API
type FlixBusAdapter struct {
	searchURL string
	currency  string
	client    *http.Client
	logger    logger.Logger
}

// NewFlixBusAdapter creates a new FlixBus adapter. searchURL may be empty
// to use the public endpoint.
func NewFlixBusAdapter(searchURL, currency string, client *http.Client, log logger.Logger) *FlixBusAdapter {
	if searchURL == "" {
		searchURL = flixbusDefaultSearchURL
	}
	if currency == "" {
		currency = "EUR"
	}
	if client == nil {
		client = &http.Client{}
	}
	return &FlixBusAdapter{
		searchURL: searchURL,
		currency:  currency,
		client:    client,
		logger:    log,
	}
}

// Name returns the provider name
func (a *FlixBusAdapter) Name() string {
	return "flixbus"
}

type flixbusTrip struct {
	UID       string `json:"uid"`
	Departure struct {
		Date string `json:"date"`
	} `json:"departure"`
	Arrival struct {
		Date string `json:"date"`
	} `json:"arrival"`
	Price struct {
		Total    float64 `json:"total"`
		Regular  float64 `json:"regular"`
		Currency string  `json:"currency"`
	} `json:"price"`
	Transfers      []json.RawMessage `json:"transfers"`
	AvailableSeats *int              `json:"available_seats"`
}

type flixbusResponse struct {
	Trips []flixbusTrip `json:"trips"`
}

// Search queries FlixBus for routes between two cities on a date
func (a *FlixBusAdapter) Search(ctx context.Context, fromCityID, toCityID int, date time.Time) ([]entity.RouteCandidate, error) {
	fromID, ok := flixbusCityID(fromCityID)
	if !ok {
		a.logger.Debug("No FlixBus mapping for city", "cityId", fromCityID)
		return []entity.RouteCandidate{}, nil
	}
	toID, ok := flixbusCityID(toCityID)
	if !ok {
		a.logger.Debug("No FlixBus mapping for city", "cityId", toCityID)
		return []entity.RouteCandidate{}, nil
	}

	params := url.Values{}
	params.Set("from_city_id", fromID)
	params.Set("to_city_id", toID)
	params.Set("departure_date", date.Format("2006-01-02"))
	params.Set("currency", a.currency)
	params.Set("locale", "en")
	params.Set("adult", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", flixbusUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", "https://shop.flixbus.com/")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query FlixBus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FlixBus returned status %d", resp.StatusCode)
	}

	var payload flixbusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode FlixBus response: %w", err)
	}

	return a.transform(payload.Trips, fromCityID, toCityID), nil
}

func (a *FlixBusAdapter) transform(trips []flixbusTrip, fromCityID, toCityID int) []entity.RouteCandidate {
	candidates := make([]entity.RouteCandidate, 0, len(trips))
	for _, trip := range trips {
		departure, err := time.Parse(time.RFC3339, trip.Departure.Date)
		if err != nil {
			a.logger.Warn("Skipping FlixBus trip with bad departure time", "uid", trip.UID, "error", err)
			continue
		}
		arrival, err := time.Parse(time.RFC3339, trip.Arrival.Date)
		if err != nil {
			a.logger.Warn("Skipping FlixBus trip with bad arrival time", "uid", trip.UID, "error", err)
			continue
		}

		currency := trip.Price.Currency
		if currency == "" {
			currency = a.currency
		}

		candidate := entity.RouteCandidate{
			Provider:       a.Name(),
			CarrierID:      flixbusCarrierCode,
			FromCityID:     fromCityID,
			ToCityID:       toCityID,
			DepartureTime:  departure,
			ArrivalTime:    arrival,
			Price:          trip.Price.Total,
			Currency:       currency,
			ExternalID:     trip.UID,
			IsDirect:       len(trip.Transfers) == 0,
			AvailableSeats: trip.AvailableSeats,
		}
		if trip.Price.Regular > trip.Price.Total {
			regular := trip.Price.Regular
			candidate.MaxPrice = &regular
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}
