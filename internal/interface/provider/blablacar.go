package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/pkg/logger"
)

const blablacarCarrierCode = "BLA"

// BlaBlaCarAdapter searches the BlaBlaCar bus partner API. Every search
// logs in first to obtain a session token, then queries trips with it.
type BlaBlaCarAdapter struct {
	baseURL  string
	login    string
	password string
	currency string
	client   *http.Client
	logger   logger.Logger
}

// NewBlaBlaCarAdapter creates a new BlaBlaCar adapter
func NewBlaBlaCarAdapter(baseURL, login, password, currency string, client *http.Client, log logger.Logger) *BlaBlaCarAdapter {
	if currency == "" {
		currency = "EUR"
	}
	if client == nil {
		client = &http.Client{}
	}
	return &BlaBlaCarAdapter{
		baseURL:  baseURL,
		login:    login,
		password: password,
		currency: currency,
		client:   client,
		logger:   log,
	}
}

// Name returns the provider name
func (a *BlaBlaCarAdapter) Name() string {
	return "blablacar"
}

type blablacarTrip struct {
	ID                string `json:"id"`
	DepartureDatetime string `json:"departure_datetime"`
	ArrivalDatetime   string `json:"arrival_datetime"`
	Price             struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"price"`
	AvailableSeats *int `json:"available_seats"`
}

// Search queries BlaBlaCar for routes between two cities on a date
func (a *BlaBlaCarAdapter) Search(ctx context.Context, fromCityID, toCityID int, date time.Time) ([]entity.RouteCandidate, error) {
	fromID, ok := blablacarCityID(fromCityID)
	if !ok {
		a.logger.Debug("No BlaBlaCar mapping for city", "cityId", fromCityID)
		return []entity.RouteCandidate{}, nil
	}
	toID, ok := blablacarCityID(toCityID)
	if !ok {
		a.logger.Debug("No BlaBlaCar mapping for city", "cityId", toCityID)
		return []entity.RouteCandidate{}, nil
	}

	token, err := a.authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with BlaBlaCar: %w", err)
	}

	trips, err := a.searchTrips(ctx, token, fromID, toID, date)
	if err != nil {
		return nil, err
	}

	return a.transform(trips, fromCityID, toCityID), nil
}

func (a *BlaBlaCarAdapter) authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"login":    a.login,
		"password": a.password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"login", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("login response carried no session token")
	}
	return payload.Token, nil
}

func (a *BlaBlaCarAdapter) searchTrips(ctx context.Context, token, fromID, toID string, date time.Time) ([]blablacarTrip, error) {
	body, err := json.Marshal(map[string]string{
		"from":     fromID,
		"to":       toID,
		"when":     date.Format("2006-01-02"),
		"currency": a.currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trips request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"trips", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create trips request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("session", token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trips request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trips search returned status %d", resp.StatusCode)
	}

	var payload struct {
		Trips []blablacarTrip `json:"trips"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode trips response: %w", err)
	}
	return payload.Trips, nil
}

func (a *BlaBlaCarAdapter) transform(trips []blablacarTrip, fromCityID, toCityID int) []entity.RouteCandidate {
	candidates := make([]entity.RouteCandidate, 0, len(trips))
	for _, trip := range trips {
		departure, err := time.Parse(time.RFC3339, trip.DepartureDatetime)
		if err != nil {
			a.logger.Warn("Skipping BlaBlaCar trip with bad departure time", "id", trip.ID, "error", err)
			continue
		}
		arrival, err := time.Parse(time.RFC3339, trip.ArrivalDatetime)
		if err != nil {
			a.logger.Warn("Skipping BlaBlaCar trip with bad arrival time", "id", trip.ID, "error", err)
			continue
		}

		currency := trip.Price.Currency
		if currency == "" {
			currency = a.currency
		}

		candidates = append(candidates, entity.RouteCandidate{
			Provider:       a.Name(),
			CarrierID:      blablacarCarrierCode,
			FromCityID:     fromCityID,
			ToCityID:       toCityID,
			DepartureTime:  departure,
			ArrivalTime:    arrival,
			Price:          trip.Price.Amount,
			Currency:       currency,
			ExternalID:     trip.ID,
			IsDirect:       true,
			AvailableSeats: trip.AvailableSeats,
		})
	}
	return candidates
}
