package repository

import (
	"context"

	"eurotours-service/internal/domain/entity"
)

// RouteRepository defines the interface for route persistence.
// InsertBatch must be idempotent with respect to route ids: inserting a
// batch that collides with already-stored routes skips the duplicates and
// keeps the rest.
type RouteRepository interface {
	InsertBatch(ctx context.Context, routes []entity.Route) error
	FindBySearch(ctx context.Context, searchID string) ([]entity.Route, error)
	FindUndisclosed(ctx context.Context, searchID string) ([]entity.Route, error)
	MarkDisclosed(ctx context.Context, routeIDs []string) error
}
