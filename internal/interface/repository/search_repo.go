package repository

import (
	"context"
	"errors"
	"time"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSearchRepository implements SearchRepository
type MongoSearchRepository struct {
	collection *mongo.Collection
}

// NewMongoSearchRepository creates a new search repository. Searches
// expire expireAfter after creation.
func NewMongoSearchRepository(db *mongo.Database, expireAfter time.Duration) repository.SearchRepository {
	collection := db.Collection("searches")

	ctx := context.Background()
	idIndex := mongo.IndexModel{
		Keys:    bson.M{"id": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, idIndex)

	cityPairIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "fromCityId", Value: 1}, {Key: "toCityId", Value: 1}},
	}
	collection.Indexes().CreateOne(ctx, cityPairIndex)

	ttlIndex := mongo.IndexModel{
		Keys:    bson.M{"createdAt": 1},
		Options: options.Index().SetExpireAfterSeconds(int32(expireAfter.Seconds())),
	}
	collection.Indexes().CreateOne(ctx, ttlIndex)

	return &MongoSearchRepository{
		collection: collection,
	}
}

// Create persists a search record
func (r *MongoSearchRepository) Create(ctx context.Context, search *entity.Search) error {
	_, err := r.collection.InsertOne(ctx, search)
	return err
}

// FindByID finds a search by its id. Returns repository.ErrNotFound when
// the search is unknown or has expired.
func (r *MongoSearchRepository) FindByID(ctx context.Context, id string) (*entity.Search, error) {
	var search entity.Search
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&search)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &search, nil
}
