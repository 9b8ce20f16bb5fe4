package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/internal/domain/repository"
	"eurotours-service/pkg/logger"
	"eurotours-service/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentProviders bounds provider calls per leg so a long provider
// list cannot exhaust outbound connections.
const maxConcurrentProviders = 8

var (
	ErrMissingCities        = errors.New("origin and destination cities are required")
	ErrMissingDepartureDate = errors.New("departure date is required")
	ErrMissingReturnDate    = errors.New("return date is required for return trips")
	ErrInvalidTripType      = errors.New("unknown trip type")
	ErrSearchNotFound       = errors.New("search not found")
)

// IsValidationError reports whether err is a query-validation failure,
// rejected before any search record was created.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingCities) ||
		errors.Is(err, ErrMissingDepartureDate) ||
		errors.Is(err, ErrMissingReturnDate) ||
		errors.Is(err, ErrInvalidTripType)
}

// SearchQuery is one traveler query as received from the client
type SearchQuery struct {
	FromCityID    int
	ToCityID      int
	DepartureDate time.Time
	ReturnDate    *time.Time
	TripType      string
}

// SearchResult is the aggregate answer to one search execution
type SearchResult struct {
	SearchID string
	Search   *entity.Search
	Outbound []entity.Route
	Return   []entity.Route
}

// ProviderStatus reports one provider's progress to the polling client
type ProviderStatus struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
}

// PollResult is the answer to one poll for newly arrived routes
type PollResult struct {
	Processing       int              `json:"processing"`
	Routes           []entity.Route   `json:"routes"`
	ExternalSearches []ProviderStatus `json:"externalSearches"`
}

// RouteProvider is one isolated external route source. Implementations
// never return an error; failures surface as empty results.
type RouteProvider interface {
	Name() string
	Search(ctx context.Context, fromCityID, toCityID int, date time.Time) []entity.RouteCandidate
}

// SearchOrchestrator coordinates the whole search pipeline: dedup and
// coalescing of identical queries, parallel provider fan-out per leg,
// idempotent persistence, and progressive disclosure of results.
type SearchOrchestrator struct {
	searchRepo  repository.SearchRepository
	routeRepo   repository.RouteRepository
	cityRepo    repository.CityRepository
	carrierRepo repository.CarrierRepository
	providers   []RouteProvider
	coalescer   *SearchCoalescer
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewSearchOrchestrator creates a new search orchestrator
func NewSearchOrchestrator(
	searchRepo repository.SearchRepository,
	routeRepo repository.RouteRepository,
	cityRepo repository.CityRepository,
	carrierRepo repository.CarrierRepository,
	providers []RouteProvider,
	coalescer *SearchCoalescer,
	log logger.Logger,
	m *metrics.Metrics,
) *SearchOrchestrator {
	return &SearchOrchestrator{
		searchRepo:  searchRepo,
		routeRepo:   routeRepo,
		cityRepo:    cityRepo,
		carrierRepo: carrierRepo,
		providers:   providers,
		coalescer:   coalescer,
		logger:      log,
		metrics:     m,
	}
}

// cacheKey identifies a query for dedup purposes. The return date is
// not part of the key, so queries differing only in return date share
// a pipeline run.
func cacheKey(query SearchQuery) string {
	return fmt.Sprintf("%d|%d|%s|%s",
		query.FromCityID, query.ToCityID,
		query.DepartureDate.Format("2006-01-02"), query.TripType)
}

func validateQuery(query SearchQuery) error {
	if query.FromCityID == 0 || query.ToCityID == 0 {
		return ErrMissingCities
	}
	if query.DepartureDate.IsZero() {
		return ErrMissingDepartureDate
	}
	if !entity.IsValidTripType(query.TripType) {
		return ErrInvalidTripType
	}
	if query.TripType == entity.TripReturn && query.ReturnDate == nil {
		return ErrMissingReturnDate
	}
	return nil
}

// Execute runs one search. Identical queries inside the dedup TTL reuse
// the completed result; identical queries arriving while one is in flight
// wait for it instead of doing their own provider calls.
func (o *SearchOrchestrator) Execute(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	// The pipeline must run to completion (including persistence) even if
	// every coalesced waiter has gone away, so it is detached from the
	// request context.
	pipelineCtx := context.WithoutCancel(ctx)

	result, outcome, err := o.coalescer.Do(cacheKey(query), func() (*SearchResult, error) {
		return o.runPipeline(pipelineCtx, query)
	})
	if err != nil {
		return nil, err
	}

	switch outcome {
	case CoalesceCached:
		o.metrics.CacheHits.Inc()
		o.logger.Info("Search served from dedup cache", "searchId", result.SearchID)
	case CoalesceJoined:
		o.metrics.CoalescedRequests.Inc()
		o.logger.Info("Search joined in-flight execution", "searchId", result.SearchID)
	}
	return result, nil
}

type searchLeg struct {
	fromCityID int
	toCityID   int
	date       time.Time
	direction  string
}

func (o *SearchOrchestrator) runPipeline(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	o.metrics.SearchesTotal.Inc()
	started := time.Now()

	search := &entity.Search{
		ID:            uuid.NewString(),
		FromCityID:    query.FromCityID,
		ToCityID:      query.ToCityID,
		DepartureDate: query.DepartureDate,
		ReturnDate:    query.ReturnDate,
		Type:          query.TripType,
		CreatedAt:     time.Now(),
	}
	if err := o.searchRepo.Create(ctx, search); err != nil {
		return nil, fmt.Errorf("failed to create search record: %w", err)
	}

	legs := []searchLeg{{
		fromCityID: query.FromCityID,
		toCityID:   query.ToCityID,
		date:       query.DepartureDate,
		direction:  entity.DirectionThere,
	}}
	if query.TripType == entity.TripReturn && query.ReturnDate != nil {
		legs = append(legs, searchLeg{
			fromCityID: query.ToCityID,
			toCityID:   query.FromCityID,
			date:       *query.ReturnDate,
			direction:  entity.DirectionBack,
		})
	}

	// Legs are independent; run them concurrently.
	legRoutes := make([][]entity.Route, len(legs))
	legErrs := make([]error, len(legs))
	var wg sync.WaitGroup
	for i, leg := range legs {
		wg.Add(1)
		go func(i int, leg searchLeg) {
			defer wg.Done()
			legRoutes[i], legErrs[i] = o.searchLeg(ctx, search.ID, leg)
		}(i, leg)
	}
	wg.Wait()

	for _, err := range legErrs {
		if err != nil {
			return nil, err
		}
	}

	result := &SearchResult{
		SearchID: search.ID,
		Search:   search,
		Outbound: legRoutes[0],
		Return:   []entity.Route{},
	}
	if len(legs) > 1 {
		result.Return = legRoutes[1]
	}

	o.logger.Info("Search pipeline completed",
		"searchId", search.ID,
		"fromCityId", query.FromCityID,
		"toCityId", query.ToCityID,
		"tripType", query.TripType,
		"outbound", len(result.Outbound),
		"return", len(result.Return),
		"elapsedMs", time.Since(started).Milliseconds())
	return result, nil
}

// searchLeg fans out to every provider for one leg, normalizes and
// persists what came back, and returns the leg's routes ordered by
// departure time. A provider failing contributes nothing; only a
// persistence failure aborts the leg.
func (o *SearchOrchestrator) searchLeg(ctx context.Context, searchID string, leg searchLeg) ([]entity.Route, error) {
	now := time.Now()
	batches := make([][]entity.RouteCandidate, len(o.providers))

	sem := semaphore.NewWeighted(maxConcurrentProviders)
	var wg sync.WaitGroup
	for i, p := range o.providers {
		wg.Add(1)
		go func(i int, p RouteProvider) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			batches[i] = p.Search(ctx, leg.fromCityID, leg.toCityID, leg.date)
		}(i, p)
	}
	wg.Wait()

	var routes []entity.Route
	for _, batch := range batches {
		for seq, candidate := range batch {
			routes = append(routes, normalizeCandidate(candidate, searchID, leg.direction, leg.date, seq, now))
		}
	}

	if err := o.routeRepo.InsertBatch(ctx, routes); err != nil {
		return nil, fmt.Errorf("failed to persist routes: %w", err)
	}
	o.metrics.RoutesPersisted.Add(float64(len(routes)))

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].DepartureTime.Before(routes[j].DepartureTime)
	})
	o.enrichRoutes(ctx, routes)
	return routes, nil
}

// GetSearch returns a persisted search with all its routes, split by
// direction. Used for page reloads and deep links.
func (o *SearchOrchestrator) GetSearch(ctx context.Context, searchID string) (*SearchResult, error) {
	search, err := o.searchRepo.FindByID(ctx, searchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSearchNotFound
		}
		return nil, fmt.Errorf("failed to load search: %w", err)
	}

	routes, err := o.routeRepo.FindBySearch(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}
	o.enrichRoutes(ctx, routes)

	result := &SearchResult{
		SearchID: searchID,
		Search:   search,
		Outbound: []entity.Route{},
		Return:   []entity.Route{},
	}
	for _, route := range routes {
		if route.Direction == entity.DirectionBack {
			result.Return = append(result.Return, route)
		} else {
			result.Outbound = append(result.Outbound, route)
		}
	}
	return result, nil
}

// PollNew returns routes that have not yet been shown to the polling
// client and marks them disclosed in the same step, so no route is ever
// returned twice. The per-provider status list is an estimate: the
// pipeline is synchronous, so configured providers are reported completed.
func (o *SearchOrchestrator) PollNew(ctx context.Context, searchID string) (*PollResult, error) {
	if _, err := o.searchRepo.FindByID(ctx, searchID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSearchNotFound
		}
		return nil, fmt.Errorf("failed to load search: %w", err)
	}

	routes, err := o.routeRepo.FindUndisclosed(ctx, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load undisclosed routes: %w", err)
	}

	if len(routes) > 0 {
		ids := make([]string, len(routes))
		for i, route := range routes {
			ids[i] = route.ID
		}
		if err := o.routeRepo.MarkDisclosed(ctx, ids); err != nil {
			return nil, fmt.Errorf("failed to mark routes disclosed: %w", err)
		}
		o.logger.Info("Disclosed new routes", "searchId", searchID, "count", len(routes))
	}
	o.enrichRoutes(ctx, routes)

	statuses := make([]ProviderStatus, 0, len(o.providers))
	for _, p := range o.providers {
		statuses = append(statuses, ProviderStatus{Provider: p.Name(), Status: "completed"})
	}

	if routes == nil {
		routes = []entity.Route{}
	}
	return &PollResult{
		Processing:       0,
		Routes:           routes,
		ExternalSearches: statuses,
	}, nil
}

// enrichRoutes attaches city and carrier reference data for display.
// Best effort: a failed lookup leaves the route as is.
func (o *SearchOrchestrator) enrichRoutes(ctx context.Context, routes []entity.Route) {
	for i := range routes {
		if city, err := o.cityRepo.FindByID(ctx, routes[i].FromCityID); err == nil {
			routes[i].FromCity = city
		}
		if city, err := o.cityRepo.FindByID(ctx, routes[i].ToCityID); err == nil {
			routes[i].ToCity = city
		}
		if carrier, err := o.carrierRepo.FindByCode(ctx, routes[i].CarrierID); err == nil {
			routes[i].Carrier = carrier
		}
	}
}
