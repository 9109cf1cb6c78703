// Package mongo implements feedback.Store on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/barekit/biblio/pkg/feedback"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements feedback.Store using a MongoDB collection with a
// unique (user, title) index.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type entryDoc struct {
	User      string    `bson:"user"`
	Title     string    `bson:"title"`
	Feedback  string    `bson:"feedback"`
	CreatedAt time.Time `bson:"created_at"`
}

// New creates a new MongoStore.
func New(ctx context.Context, client *mongo.Client, dbName, collectionName string) (*MongoStore, error) {
	coll := client.Database(dbName).Collection(collectionName)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback index: %w", err)
	}

	return &MongoStore{client: client, collection: coll}, nil
}

// Submit applies one state-machine transition inside a session transaction,
// so the toggle check and the upsert commit as a unit and concurrent
// submissions for the same (user, title) serialize. The unique index
// guarantees at most one document per (user, title).
func (s *MongoStore) Submit(ctx context.Context, user, title string, fb feedback.Feedback) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, s.submit(sc, user, title, fb)
	})
	return err
}

func (s *MongoStore) submit(ctx context.Context, user, title string, fb feedback.Feedback) error {
	ident := bson.M{"user": user, "title": title}

	if !fb.Valid() {
		_, err := s.collection.DeleteOne(ctx, ident)
		return err
	}

	// Toggle: deleting a matching judgment completes the transition.
	res, err := s.collection.DeleteOne(ctx, bson.M{"user": user, "title": title, "feedback": string(fb)})
	if err != nil {
		return err
	}
	if res.DeletedCount > 0 {
		return nil
	}

	_, err = s.collection.UpdateOne(ctx, ident, bson.M{
		"$set":         bson.M{"feedback": string(fb)},
		"$setOnInsert": bson.M{"created_at": time.Now()},
	}, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Liked(ctx context.Context, user string) ([]string, error) {
	return s.titles(ctx, user, feedback.Like)
}

func (s *MongoStore) Disliked(ctx context.Context, user string) ([]string, error) {
	return s.titles(ctx, user, feedback.Dislike)
}

func (s *MongoStore) titles(ctx context.Context, user string, fb feedback.Feedback) ([]string, error) {
	filter := bson.M{"user": user, "feedback": string(fb)}
	opts := options.Find().SetSort(bson.M{"title": 1})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var titles []string
	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		titles = append(titles, doc.Title)
	}
	return titles, cursor.Err()
}
