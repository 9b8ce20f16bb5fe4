// internal/domain/entity/carrier.go
package entity

// Carrier is reference data for the operator of a route, looked up by its
// short code (e.g. "FB" for FlixBus).
type Carrier struct {
	ID         int    `bson:"id" json:"id"`
	Code       string `bson:"code" json:"code"`
	Name       string `bson:"name" json:"name"`
	IsExternal bool   `bson:"isExternal" json:"isExternal"`
	IsActive   bool   `bson:"isActive" json:"isActive"`
}
