package repository

import (
	"context"

	"eurotours-service/internal/domain/entity"
)

// CityRepository defines the read-only interface for city reference data
type CityRepository interface {
	FindByID(ctx context.Context, id int) (*entity.City, error)
}
