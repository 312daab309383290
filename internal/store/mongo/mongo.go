// Package mongo implements store.RecordStore on MongoDB. Each account is
// one document in a collection, keyed by normalized email via _id, which
// gives the at-most-one-record-per-email invariant for free.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aihealth/authcore/internal/store"
)

// Store is a MongoDB-backed store.RecordStore.
type Store struct {
	collection *driver.Collection
}

// Connect establishes a client connection and returns a Store over the
// given database/collection plus a shutdown function.
func Connect(ctx context.Context, uri, database, collection string) (*Store, func(context.Context) error, error) {
	client, err := driver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	s := New(client.Database(database).Collection(collection))
	return s, client.Disconnect, nil
}

// New wraps an existing collection handle.
func New(c *driver.Collection) *Store {
	return &Store{collection: c}
}

func (s *Store) GetRecord(ctx context.Context, email string) (*store.Record, error) {
	var doc bson.M
	err := s.collection.FindOne(ctx, bson.M{"_id": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return store.RecordFromFields(email, fieldsFromDoc(doc)), nil
}

func (s *Store) PutRecord(ctx context.Context, email string, fields map[string]any, merge bool) error {
	filter := bson.M{"_id": email}

	if merge {
		update := bson.M{"$set": bson.M(fields)}
		_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		return nil
	}

	doc := bson.M{"_id": email}
	for k, v := range fields {
		doc[k] = v
	}
	_, err := s.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) QueryByField(ctx context.Context, field string, value any, limit int) ([]*store.Record, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	var out []*store.Record
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		email, _ := doc["_id"].(string)
		out = append(out, store.RecordFromFields(email, fieldsFromDoc(doc)))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return out, nil
}

// fieldsFromDoc strips the mongo document key before handing the field
// map to the shared record mapper.
func fieldsFromDoc(doc bson.M) map[string]any {
	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		fields[k] = v
	}
	return fields
}
