package repository

import (
	"context"

	"eurotours-service/internal/domain/entity"
)

// CarrierRepository defines the read-only interface for carrier reference data
type CarrierRepository interface {
	FindByCode(ctx context.Context, code string) (*entity.Carrier, error)
}
