// Package mongo implements history.Store on MongoDB.
package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/history"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements history.Store using a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type entryDoc struct {
	ID              string    `bson:"_id"`
	User            string    `bson:"user"`
	Preferences     string    `bson:"preferences"`               // JSON string
	Recommendations string    `bson:"recommendations,omitempty"` // JSON string
	Embedding       []float32 `bson:"embedding,omitempty"`
	CreatedAt       time.Time `bson:"created_at"`
}

// New creates a new MongoStore.
func New(client *mongo.Client, dbName, collectionName string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}
}

func (s *MongoStore) Append(ctx context.Context, entry history.Entry) error {
	prefs, err := json.Marshal(entry.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	recs, err := json.Marshal(entry.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	doc := entryDoc{
		ID:              id,
		User:            entry.User,
		Preferences:     string(prefs),
		Recommendations: string(recs),
		Embedding:       entry.Embedding,
		CreatedAt:       createdAt,
	}

	_, err = s.collection.InsertOne(ctx, doc)
	return err
}

func (s *MongoStore) Recent(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	filter := bson.M{"user": user}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []history.Entry
	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		entry := history.Entry{
			ID:        doc.ID,
			User:      doc.User,
			Embedding: doc.Embedding,
			CreatedAt: doc.CreatedAt,
		}
		if err := json.Unmarshal([]byte(doc.Preferences), &entry.Preferences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferences for entry %s: %w", doc.ID, err)
		}
		if doc.Recommendations != "" {
			var recs []books.Book
			if err := json.Unmarshal([]byte(doc.Recommendations), &recs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations for entry %s: %w", doc.ID, err)
			}
			entry.Recommendations = recs
		}

		entries = append(entries, entry)
	}

	return entries, cursor.Err()
}
