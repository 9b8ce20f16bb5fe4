package provider

import (
	"context"
	"math/rand"
	"time"

	"eurotours-service/internal/domain/entity"
)

const eurobusCarrierCode = "EUR"

// EuroBusAdapter is a synthetic provider used in development and demos
// when the real providers are unreachable. It fabricates plausible
// offers for any city pair it is asked about.
type EuroBusAdapter struct {
	currency string
}

// NewEuroBusAdapter creates the synthetic provider
func NewEuroBusAdapter(currency string) *EuroBusAdapter {
	if currency == "" {
		currency = "EUR"
	}
	return &EuroBusAdapter{currency: currency}
}

// Name returns the provider name
func (a *EuroBusAdapter) Name() string {
	return "eurobus"
}

// Search fabricates 2-4 offers spread across the day
func (a *EuroBusAdapter) Search(ctx context.Context, fromCityID, toCityID int, date time.Time) ([]entity.RouteCandidate, error) {
	count := 2 + rand.Intn(3)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	candidates := make([]entity.RouteCandidate, 0, count)
	for i := 0; i < count; i++ {
		departure := day.Add(time.Duration(8+i*4) * time.Hour).Add(time.Duration(rand.Intn(60)) * time.Minute)
		journey := time.Duration(12+rand.Intn(4)) * time.Hour
		seats := 5 + rand.Intn(20)
		maxPrice := float64(80 + rand.Intn(30))

		candidates = append(candidates, entity.RouteCandidate{
			Provider:       a.Name(),
			CarrierID:      eurobusCarrierCode,
			FromCityID:     fromCityID,
			ToCityID:       toCityID,
			DepartureTime:  departure,
			ArrivalTime:    departure.Add(journey),
			Price:          float64(25 + rand.Intn(50)),
			MaxPrice:       &maxPrice,
			Currency:       a.currency,
			ExternalID:     "",
			IsDirect:       rand.Float64() > 0.3,
			AvailableSeats: &seats,
		})
	}
	return candidates, nil
}
