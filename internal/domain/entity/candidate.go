// internal/domain/entity/candidate.go
package entity

import (
	"time"
)

// RouteCandidate is a provider result before it is bound to a Search.
// Provider adapters emit candidates in this shape; the orchestrator turns
// them into Routes by assigning a search id, a direction and a
// deterministic route id.
type RouteCandidate struct {
	Provider       string
	CarrierID      string
	FromCityID     int
	ToCityID       int
	DepartureTime  time.Time
	ArrivalTime    time.Time
	Price          float64
	MaxPrice       *float64
	Currency       string
	ExternalID     string
	IsDirect       bool
	AvailableSeats *int
}
