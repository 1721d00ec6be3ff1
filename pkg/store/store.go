// Package store persists named datasets in MongoDB.
//
// The serve command uses it to keep expanded datasets addressable by name,
// so clients can re-render a chart without re-uploading the raw series.
// Records are keyed by dataset name; saving an existing name replaces the
// stored dataset.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Way/highcharts-utils/pkg/errors"
	pkgio "github.com/Way/highcharts-utils/pkg/io"
)

const defaultCollection = "datasets"

// Record is the stored form of a named dataset.
type Record struct {
	Name      string        `bson:"_id" json:"name"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
	Dataset   pkgio.Dataset `bson:"dataset" json:"dataset"`
}

// Info summarizes a stored dataset for listings.
type Info struct {
	Name        string    `bson:"_id" json:"name"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	SeriesCount int       `json:"series_count"`
}

// Store is a MongoDB-backed dataset store.
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "MongoDB ping failed")
	}
	return &Store{
		client: client,
		col:    client.Database(database).Collection(defaultCollection),
	}, nil
}

// Save stores a dataset under the given name, replacing any existing one.
func (s *Store) Save(ctx context.Context, name string, ds pkgio.Dataset) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "dataset name is required")
	}
	rec := Record{Name: name, UpdatedAt: time.Now().UTC(), Dataset: ds}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to save dataset")
	}
	return nil
}

// Load retrieves a dataset by name.
func (s *Store) Load(ctx context.Context, name string) (pkgio.Dataset, error) {
	var rec Record
	err := s.col.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return pkgio.Dataset{}, errors.New(errors.ErrCodeDatasetNotFound, "dataset not found: %s", name)
	}
	if err != nil {
		return pkgio.Dataset{}, errors.Wrap(errors.ErrCodeInternal, err, "failed to load dataset")
	}
	return rec.Dataset, nil
}

// List returns summaries of all stored datasets, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	cur, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to list datasets")
	}
	defer cur.Close(ctx)

	var infos []Info
	for cur.Next(ctx) {
		var rec Record
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to decode dataset record")
		}
		infos = append(infos, Info{
			Name:        rec.Name,
			UpdatedAt:   rec.UpdatedAt,
			SeriesCount: len(rec.Dataset.Series),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "dataset cursor failed")
	}
	return infos, nil
}

// Delete removes a dataset by name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to delete dataset")
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDatasetNotFound, "dataset not found: %s", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
