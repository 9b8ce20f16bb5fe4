package repository

import (
	"context"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRouteRepository implements RouteRepository
type MongoRouteRepository struct {
	collection *mongo.Collection
}

// NewMongoRouteRepository creates a new route repository. Routes expire
// expireAfter after creation; the store enforces this, not the queries.
func NewMongoRouteRepository(db *mongo.Database, expireAfter time.Duration) repository.RouteRepository {
	collection := db.Collection("routes")

	// Unique index on the deterministic route id. This constraint is the
	// sole correctness mechanism for concurrent duplicate inserts.
	ctx := context.Background()
	idIndex := mongo.IndexModel{
		Keys:    bson.M{"id": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, idIndex)

	searchIndex := mongo.IndexModel{
		Keys: bson.M{"searchId": 1},
	}
	collection.Indexes().CreateOne(ctx, searchIndex)

	departureIndex := mongo.IndexModel{
		Keys: bson.M{"departureTime": 1},
	}
	collection.Indexes().CreateOne(ctx, departureIndex)

	ttlIndex := mongo.IndexModel{
		Keys:    bson.M{"createdAt": 1},
		Options: options.Index().SetExpireAfterSeconds(int32(expireAfter.Seconds())),
	}
	collection.Indexes().CreateOne(ctx, ttlIndex)

	return &MongoRouteRepository{
		collection: collection,
	}
}

// InsertBatch inserts routes, skipping any whose id already exists.
// The batch insert is attempted first; on a duplicate-key rejection it
// falls back to inserting one at a time so a collision on some routes
// never aborts the ones that insert cleanly.
func (r *MongoRouteRepository) InsertBatch(ctx context.Context, routes []entity.Route) error {
	if len(routes) == 0 {
		return nil
	}

	docs := make([]interface{}, len(routes))
	for i, route := range routes {
		docs[i] = route
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	for _, doc := range docs {
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// FindBySearch returns all routes for a search ordered by departure time
func (r *MongoRouteRepository) FindBySearch(ctx context.Context, searchID string) ([]entity.Route, error) {
	opts := options.Find().SetSort(bson.M{"departureTime": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"searchId": searchID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routes []entity.Route
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// FindUndisclosed returns external routes not yet shown to the client,
// ordered by departure time
func (r *MongoRouteRepository) FindUndisclosed(ctx context.Context, searchID string) ([]entity.Route, error) {
	filter := bson.M{
		"searchId":   searchID,
		"isExternal": true,
		"showedAt":   nil,
	}
	opts := options.Find().SetSort(bson.M{"departureTime": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routes []entity.Route
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// MarkDisclosed stamps showedAt on the given routes. Routes already
// disclosed are left untouched.
func (r *MongoRouteRepository) MarkDisclosed(ctx context.Context, routeIDs []string) error {
	if len(routeIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"id": bson.M{"$in": routeIDs}, "showedAt": nil},
		bson.M{"$set": bson.M{"showedAt": time.Now()}},
	)
	return err
}
