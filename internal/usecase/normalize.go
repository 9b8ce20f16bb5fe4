package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"eurotours-service/internal/domain/entity"
)

// buildRouteID derives the route id from the provider call that produced
// the candidate. The same call for the same search always yields the same
// id, across restarts, which is what makes duplicate persistence attempts
// collide on the unique index instead of creating second copies.
func buildRouteID(providerName, searchID string, fromCityID, toCityID int, date time.Time, seq int) string {
	input := fmt.Sprintf("%s|%s|%d|%d|%s|%d",
		providerName, searchID, fromCityID, toCityID, date.Format("2006-01-02"), seq)
	sum := sha256.Sum256([]byte(input))
	return providerName + "_" + hex.EncodeToString(sum[:])[:16]
}

// normalizeCandidate binds a provider candidate to a search and a leg,
// producing the canonical Route record. seq is the candidate's position
// within its provider batch. A maxPrice below the price is dropped rather
// than stored inconsistent.
func normalizeCandidate(c entity.RouteCandidate, searchID, direction string, legDate time.Time, seq int, now time.Time) entity.Route {
	route := entity.Route{
		ID:             buildRouteID(c.Provider, searchID, c.FromCityID, c.ToCityID, legDate, seq),
		SearchID:       searchID,
		CarrierID:      c.CarrierID,
		FromCityID:     c.FromCityID,
		ToCityID:       c.ToCityID,
		DepartureTime:  c.DepartureTime,
		ArrivalTime:    c.ArrivalTime,
		Direction:      direction,
		Price:          c.Price,
		Currency:       c.Currency,
		IsExternal:     true,
		ExternalID:     c.ExternalID,
		IsDirect:       c.IsDirect,
		AvailableSeats: c.AvailableSeats,
		CreatedAt:      now,
	}
	if c.MaxPrice != nil && *c.MaxPrice >= c.Price {
		route.MaxPrice = c.MaxPrice
	}
	return route
}
