package repository

import (
	"context"
	"errors"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCarrierRepository implements CarrierRepository
type MongoCarrierRepository struct {
	collection *mongo.Collection
}

// NewMongoCarrierRepository creates a new carrier repository
func NewMongoCarrierRepository(db *mongo.Database) repository.CarrierRepository {
	return &MongoCarrierRepository{
		collection: db.Collection("carriers"),
	}
}

// FindByCode finds a carrier by its short code
func (r *MongoCarrierRepository) FindByCode(ctx context.Context, code string) (*entity.Carrier, error) {
	var carrier entity.Carrier
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&carrier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &carrier, nil
}
