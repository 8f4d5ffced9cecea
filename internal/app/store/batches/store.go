// internal/app/store/batches/store.go
package batches

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for the batch ledger.
const CollectionName = "ingested_batches"

// Batch is the ledger record of one accepted ingestion request. The entries
// themselves live only in the daily log file.
type Batch struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	BatchID    string             `bson:"batch_id"      json:"batch_id"`
	Count      int                `bson:"count"         json:"count"`
	File       string             `bson:"file"          json:"file"`
	Day        string             `bson:"day"           json:"day"`
	RemoteAddr string             `bson:"remote_addr"   json:"remote_addr,omitempty"`
	ReceivedAt time.Time          `bson:"received_at"   json:"received_at"`
}

// Store manages the batch ledger.
type Store struct {
	c *mongo.Collection
}

// New creates a new batches Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// EnsureIndexes creates the ledger indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "received_at", Value: -1}},
			Options: options.Index().SetName("idx_batches_received"),
		},
		{
			Keys:    bson.D{{Key: "day", Value: 1}, {Key: "received_at", Value: -1}},
			Options: options.Index().SetName("idx_batches_day"),
		},
		{
			Keys:    bson.D{{Key: "batch_id", Value: 1}},
			Options: options.Index().SetName("idx_batches_batch_id").SetUnique(true),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Record stores a ledger entry. ID and ReceivedAt are filled in when zero.
func (s *Store) Record(ctx context.Context, b Batch) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.ReceivedAt.IsZero() {
		b.ReceivedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, b)
	return err
}

// Recent returns the most recently received batches, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Batch, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Batch
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByDay returns how many batches were recorded for a UTC day (YYYY-MM-DD).
func (s *Store) CountByDay(ctx context.Context, day string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"day": day})
}

// DeleteOlderThan removes ledger entries received before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"received_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
