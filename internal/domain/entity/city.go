// internal/domain/entity/city.go
package entity

// City is reference data resolved for display alongside routes.
// Seeded externally; this service only reads it.
type City struct {
	ID        int               `bson:"id" json:"id"`
	CountryID int               `bson:"countryId" json:"countryId"`
	Names     map[string]string `bson:"names" json:"names"`
	IsActive  bool              `bson:"isActive" json:"isActive"`
}
