package repository

import (
	"context"

	"eurotours-service/internal/domain/entity"
)

// SearchRepository defines the interface for search record operations
type SearchRepository interface {
	Create(ctx context.Context, search *entity.Search) error
	FindByID(ctx context.Context, id string) (*entity.Search, error)
}
