package repository

import (
	"context"
	"errors"

	"eurotours-service/internal/domain/entity"
	"eurotours-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCityRepository implements CityRepository
type MongoCityRepository struct {
	collection *mongo.Collection
}

// NewMongoCityRepository creates a new city repository
func NewMongoCityRepository(db *mongo.Database) repository.CityRepository {
	return &MongoCityRepository{
		collection: db.Collection("cities"),
	}
}

// FindByID finds a city by its numeric id
func (r *MongoCityRepository) FindByID(ctx context.Context, id int) (*entity.City, error) {
	var city entity.City
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&city)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &city, nil
}
