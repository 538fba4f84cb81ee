package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seqDoc wraps a record with its position in the collection so Load can
// return records in the order they were saved.
type seqDoc[T any] struct {
	Seq    int `bson:"_seq"`
	Record T   `bson:"record"`
}

// CollectionStore keeps a record collection as one Mongo collection, one
// document per record. Save replaces every document; it is not transactional.
type CollectionStore[T any] struct {
	col *mongo.Collection
}

func NewCollectionStore[T any](db *mongo.Database, name string) *CollectionStore[T] {
	return &CollectionStore[T]{col: db.Collection(name)}
}

// Load returns every record in saved order.
func (s *CollectionStore[T]) Load(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_seq", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", s.col.Name(), err)
	}

	var docs []seqDoc[T]
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", s.col.Name(), err)
	}

	records := make([]T, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.Record)
	}
	return records, nil
}

// Save replaces the collection contents with records.
func (s *CollectionStore[T]) Save(ctx context.Context, records []T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("mongo clear %s: %w", s.col.Name(), err)
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = seqDoc[T]{Seq: i, Record: r}
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo insert %s: %w", s.col.Name(), err)
	}
	return nil
}

// EnsureIndexes creates the ordering index used by Load.
func (s *CollectionStore[T]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*defaultTimeout)
	defer cancel()

	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "_seq", Value: 1}}})
	return err
}
