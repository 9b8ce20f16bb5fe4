// internal/domain/entity/route.go
package entity

import (
	"time"
)

// Route directions. Outbound legs are stored as "there" and return legs
// as "back", matching the values clients already consume.
const (
	DirectionThere = "there"
	DirectionBack  = "back"
)

// Route is one concrete travel offer discovered for a Search.
// The id is derived deterministically from the provider call that produced
// it, so re-running the same call never yields a second "new" route; a
// unique index on id makes duplicate inserts safe no-ops. Routes expire
// 1 hour after creation via a TTL index on createdAt.
type Route struct {
	ID             string     `bson:"id" json:"id"`
	SearchID       string     `bson:"searchId" json:"searchId"`
	CarrierID      string     `bson:"carrierId" json:"carrierId"`
	FromCityID     int        `bson:"fromCityId" json:"fromCityId"`
	ToCityID       int        `bson:"toCityId" json:"toCityId"`
	DepartureTime  time.Time  `bson:"departureTime" json:"departureTime"`
	ArrivalTime    time.Time  `bson:"arrivalTime" json:"arrivalTime"`
	Direction      string     `bson:"direction" json:"direction"`
	Price          float64    `bson:"price" json:"price"`
	MaxPrice       *float64   `bson:"maxPrice,omitempty" json:"maxPrice,omitempty"`
	Currency       string     `bson:"currency" json:"currency"`
	IsExternal     bool       `bson:"isExternal" json:"isExternal"`
	ExternalID     string     `bson:"externalId,omitempty" json:"externalId,omitempty"`
	IsDirect       bool       `bson:"isDirect" json:"isDirect"`
	AvailableSeats *int       `bson:"availableSeats,omitempty" json:"availableSeats,omitempty"`
	ShowedAt       *time.Time `bson:"showedAt" json:"showedAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`

	// Enrichment, populated on read paths only. Never persisted.
	FromCity *City    `bson:"-" json:"fromCity,omitempty"`
	ToCity   *City    `bson:"-" json:"toCity,omitempty"`
	Carrier  *Carrier `bson:"-" json:"carrier,omitempty"`
}
