package recorder

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opendali/placer/pkg/errors"
)

// MongoConfig configures a MongoRecorder.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoRecorder persists RunReports to a MongoDB collection.
type MongoRecorder struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoRecorder connects to MongoDB and returns a Recorder backed by cfg's
// collection.
func NewMongoRecorder(ctx context.Context, cfg MongoConfig) (Recorder, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ConfigError, err, "connecting to mongo at %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(errors.ConfigError, err, "pinging mongo at %s", cfg.URI)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return &MongoRecorder{client: client, coll: coll}, nil
}

// Record implements Recorder.
func (r *MongoRecorder) Record(ctx context.Context, report RunReport) error {
	_, err := r.coll.InsertOne(ctx, report)
	if err != nil {
		return errors.Wrap(errors.ConfigError, err, "inserting run report %s", report.RunID)
	}
	return nil
}

// Close implements Recorder.
func (r *MongoRecorder) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

var _ Recorder = (*MongoRecorder)(nil)
