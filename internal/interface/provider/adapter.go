package provider

import (
	"context"
	"time"

	"eurotours-service/internal/domain/entity"
)

// Adapter wraps one external route source behind a uniform search
// contract. Implementations own the mapping from internal city ids to the
// provider's identifiers; a pair the provider does not cover yields an
// empty result, not an error. Errors returned here are swallowed by the
// Harness, never by the adapter itself.
type Adapter interface {
	Name() string
	Search(ctx context.Context, fromCityID, toCityID int, date time.Time) ([]entity.RouteCandidate, error)
}
