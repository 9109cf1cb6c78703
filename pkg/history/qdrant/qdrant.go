// Package qdrant provides a history.Store decorator that mirrors entry
// embeddings into a Qdrant collection. Appends and Recent reads go to the
// wrapped store; similarity search is served by Qdrant, so stores without
// vector support still get server-side ranking.
package qdrant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/barekit/biblio/pkg/books"
	"github.com/barekit/biblio/pkg/history"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Index wraps a history.Store and implements history.SimilaritySearcher on
// a Qdrant collection.
type Index struct {
	inner          history.Store
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

// New creates a new Index around inner.
func New(inner history.Store, host string, port int, collectionName string, vectorSize uint64) (*Index, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	idx := &Index{
		inner:          inner,
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}

	if err := idx.initCollection(context.Background()); err != nil {
		return nil, err
	}

	return idx, nil
}

func (x *Index) initCollection(ctx context.Context) error {
	exists, err := x.client.CollectionExists(ctx, x.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		err := x.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: x.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     x.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}
	return nil
}

// Append stores the entry in the wrapped store, then indexes its embedding.
// Entries without an embedding are stored but not indexed.
func (x *Index) Append(ctx context.Context, entry history.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if err := x.inner.Append(ctx, entry); err != nil {
		return err
	}

	if len(entry.Embedding) == 0 {
		return nil
	}

	prefs, err := json.Marshal(entry.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	recs, err := json.Marshal(entry.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	payload := map[string]*qdrant.Value{
		"user":            qdrant.NewValueString(entry.User),
		"preferences":     qdrant.NewValueString(string(prefs)),
		"recommendations": qdrant.NewValueString(string(recs)),
	}

	wait := true
	_, err = x.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: x.collectionName,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDUUID(entry.ID),
			Vectors: qdrant.NewVectors(entry.Embedding...),
			Payload: payload,
		}},
		Wait: &wait,
	})
	return err
}

// Recent delegates to the wrapped store.
func (x *Index) Recent(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	return x.inner.Recent(ctx, user, limit)
}

// SearchSimilar queries the Qdrant collection, filtered to the user's
// points, most similar first.
func (x *Index) SearchSimilar(ctx context.Context, user string, query []float32, k int) ([]history.Entry, error) {
	limit := uint64(k)
	res, err := x.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: x.collectionName,
		Query:          qdrant.NewQuery(query...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("user", user),
			},
		},
		Limit:       &limit,
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]history.Entry, len(res))
	for i, hit := range res {
		entry := history.Entry{ID: hit.Id.GetUuid(), User: user}

		if p, ok := hit.Payload["preferences"]; ok {
			if err := json.Unmarshal([]byte(p.GetStringValue()), &entry.Preferences); err != nil {
				return nil, fmt.Errorf("failed to unmarshal preferences for point %s: %w", entry.ID, err)
			}
		}
		if r, ok := hit.Payload["recommendations"]; ok && r.GetStringValue() != "" {
			var recs []books.Book
			if err := json.Unmarshal([]byte(r.GetStringValue()), &recs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations for point %s: %w", entry.ID, err)
			}
			entry.Recommendations = recs
		}

		entries[i] = entry
	}

	return entries, nil
}
