// internal/domain/entity/search.go
package entity

import (
	"time"
)

// Trip types accepted by the search endpoint.
const (
	TripOneWay     = "one-way"
	TripReturn     = "return"
	TripReturnOpen = "return-open"
)

// Search is one user-submitted origin/destination/date query.
// Records expire 24 hours after creation via a TTL index on createdAt.
type Search struct {
	ID            string     `bson:"id" json:"id"`
	FromCityID    int        `bson:"fromCityId" json:"fromCityId"`
	ToCityID      int        `bson:"toCityId" json:"toCityId"`
	DepartureDate time.Time  `bson:"departureDate" json:"departureDate"`
	ReturnDate    *time.Time `bson:"returnDate,omitempty" json:"returnDate,omitempty"`
	Type          string     `bson:"type" json:"type"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
}

// IsValidTripType reports whether t is one of the accepted trip types.
func IsValidTripType(t string) bool {
	return t == TripOneWay || t == TripReturn || t == TripReturnOpen
}
