// Package neo4j implements feedback.Store on Neo4j, modeling judgments as
// FEEDBACK relationships between User and Book nodes.
package neo4j

import (
	"context"

	"github.com/barekit/biblio/pkg/feedback"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore implements feedback.Store using a Neo4j graph.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	dbName string
}

// New creates a new Neo4jStore.
func New(uri, username, password, dbName string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	return &Neo4jStore{
		driver: driver,
		dbName: dbName,
	}, nil
}

// Submit runs the whole transition inside one write transaction. The
// transaction first takes the write lock on both endpoint nodes (the
// SET/REMOVE pair holds the lock until commit), so concurrent submissions
// for the same (user, title) serialize instead of both reading a stale
// relationship value.
func (s *Neo4jStore) Submit(ctx context.Context, user, title string, fb feedback.Feedback) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		params := map[string]any{"user": user, "title": title}

		if !fb.Valid() {
			query := `
			MATCH (:User {name: $user})-[r:FEEDBACK]->(:Book {title: $title})
			DELETE r
			`
			_, err := tx.Run(ctx, query, params)
			return nil, err
		}

		lock, err := tx.Run(ctx, `
		MERGE (u:User {name: $user})
		MERGE (b:Book {title: $title})
		SET u._lock = true, b._lock = true
		REMOVE u._lock, b._lock
		`, params)
		if err != nil {
			return nil, err
		}
		if _, err := lock.Consume(ctx); err != nil {
			return nil, err
		}

		result, err := tx.Run(ctx, `
		MATCH (:User {name: $user})-[r:FEEDBACK]->(:Book {title: $title})
		RETURN r.value
		`, params)
		if err != nil {
			return nil, err
		}

		current := ""
		if result.Next(ctx) {
			if v, ok := result.Record().Get("r.value"); ok && v != nil {
				current, _ = v.(string)
			}
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		if current == string(fb) {
			_, err := tx.Run(ctx, `
			MATCH (:User {name: $user})-[r:FEEDBACK]->(:Book {title: $title})
			DELETE r
			`, params)
			return nil, err
		}

		params["value"] = string(fb)
		_, err = tx.Run(ctx, `
		MERGE (u:User {name: $user})
		MERGE (b:Book {title: $title})
		MERGE (u)-[r:FEEDBACK]->(b)
		SET r.value = $value
		`, params)
		return nil, err
	})

	return err
}

func (s *Neo4jStore) Liked(ctx context.Context, user string) ([]string, error) {
	return s.titles(ctx, user, feedback.Like)
}

func (s *Neo4jStore) Disliked(ctx context.Context, user string) ([]string, error) {
	return s.titles(ctx, user, feedback.Dislike)
}

func (s *Neo4jStore) titles(ctx context.Context, user string, fb feedback.Feedback) ([]string, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.dbName})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
		MATCH (:User {name: $user})-[r:FEEDBACK {value: $value}]->(b:Book)
		RETURN b.title
		ORDER BY b.title ASC
		`, map[string]any{"user": user, "value": string(fb)})
		if err != nil {
			return nil, err
		}

		var titles []string
		for result.Next(ctx) {
			if v, ok := result.Record().Get("b.title"); ok {
				if title, ok := v.(string); ok {
					titles = append(titles, title)
				}
			}
		}
		return titles, result.Err()
	})
	if err != nil {
		return nil, err
	}

	return result.([]string), nil
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
