package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// flightRecordCollection is the part of *mongo.Collection the cache uses
type flightRecordCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// MongoFlightCacheRepository implements FlightCacheRepository
type MongoFlightCacheRepository struct {
	collection flightRecordCollection
}

// NewMongoFlightCacheRepository creates a new flight cache repository
func NewMongoFlightCacheRepository(ctx context.Context, db *mongo.Database) (repository.FlightCacheRepository, error) {
	collection := db.Collection("flight_records")

	// Create unique index on the lookup key
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "flightNumber", Value: 1}, {Key: "flightDate", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("create flight_records index: %w", err)
	}

	return &MongoFlightCacheRepository{
		collection: collection,
	}, nil
}

// Get finds the cached record of a flight on a date
func (r *MongoFlightCacheRepository) Get(ctx context.Context, flightNumber, flightDate string) (*entity.FlightRecord, error) {
	var record entity.FlightRecord
	filter := bson.M{"flightNumber": cacheKey(flightNumber), "flightDate": flightDate}
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Put creates or replaces the cached record
func (r *MongoFlightCacheRepository) Put(ctx context.Context, record *entity.FlightRecord) error {
	key := cacheKey(record.FlightNumber)
	updateDoc := bson.M{
		"flightNumber": key,
		"flightDate":   record.FlightDate,
		"payload":      record.Payload,
		"fetchedAt":    record.FetchedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"flightNumber": key, "flightDate": record.FlightDate}

	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updateDoc}, opts)
	return err
}

// cacheKey makes "lh 2206" and "LH2206" share one entry
func cacheKey(flightNumber string) string {
	return strings.ToUpper(strings.Join(strings.Fields(flightNumber), ""))
}
