package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bailus/pinpoint/pkg/errors"
)

// collectionName is the MongoDB collection holding overlay records.
const collectionName = "overlays"

// MongoStore persists overlays in a MongoDB collection, keyed by overlay id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "pinging mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}, nil
}

// Put inserts or replaces an overlay.
func (s *MongoStore) Put(ctx context.Context, o Overlay) error {
	if err := o.Validate(); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": o.ID}, o, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "storing overlay %s", o.ID)
	}
	return nil
}

// Get returns the overlay with the given id.
func (s *MongoStore) Get(ctx context.Context, id string) (Overlay, error) {
	var o Overlay
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return Overlay{}, errors.New(errors.ErrCodeOverlayNotFound, "overlay %s not found", id)
	}
	if err != nil {
		return Overlay{}, errors.Wrap(errors.ErrCodeStore, err, "loading overlay %s", id)
	}
	return o, nil
}

// Delete removes an overlay.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting overlay %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeOverlayNotFound, "overlay %s not found", id)
	}
	return nil
}

// List returns all overlays sorted by id.
func (s *MongoStore) List(ctx context.Context) ([]Overlay, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing overlays")
	}
	defer cur.Close(ctx)

	var out []Overlay
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding overlays")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
