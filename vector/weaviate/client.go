// Copyright 2025 The recall Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package weaviate implements vector.Store against a Weaviate instance, for
// deployments whose corpus outgrows the embedded brute-force index.
package weaviate

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/perigee/recall/vector"
)

const className = "ChatMessage"

// Store implements vector.Store for Weaviate.
type Store struct {
	client *weaviate.Client
}

var _ vector.Store = (*Store)(nil)

// NewStore creates a Weaviate-backed vector store.
func NewStore(scheme, host, apiKey string) (*Store, error) {
	if host == "" {
		return nil, fmt.Errorf("weaviate host cannot be empty")
	}

	cfg := weaviate.Config{
		Scheme: scheme,
		Host:   host,
	}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: apiKey}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}
	return &Store{client: client}, nil
}

// Initialize creates the ChatMessage class if it doesn't exist.
func (s *Store) Initialize(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().
		WithClassName(className).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check class existence: %w", err)
	}
	if exists {
		return nil
	}

	classObj := &models.Class{
		Class:       className,
		Description: "A chat message with its embedding",
		Properties: []*models.Property{
			{
				Name:        "docId",
				DataType:    []string{"string"},
				Description: "Stable message key",
			},
			{
				Name:        "content",
				DataType:    []string{"text"},
				Description: "The message text",
			},
			{
				Name:        "conversationId",
				DataType:    []string{"string"},
				Description: "Owning conversation",
			},
			{
				Name:        "username",
				DataType:    []string{"string"},
				Description: "Message author",
			},
			{
				Name:        "timestamp",
				DataType:    []string{"string"},
				Description: "Message time, RFC 3339",
			},
		},
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}

	if err := s.client.Schema().ClassCreator().WithClass(classObj).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class schema: %w", err)
	}
	return nil
}

// HealthCheck verifies the Weaviate connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	ready, err := s.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate health check failed: %w", err)
	}
	if !ready {
		return fmt.Errorf("weaviate is not ready")
	}
	return nil
}

// Add upserts documents in one batch. Object IDs are derived from the
// caller's ids, so re-adding an id replaces its previous entry.
func (s *Store) Add(ctx context.Context, ids []string, vectors [][]float32, documents []string, metadata []map[string]string) error {
	if len(ids) != len(vectors) || len(ids) != len(documents) || len(ids) != len(metadata) {
		return fmt.Errorf("mismatched slice lengths: %d ids, %d vectors, %d documents, %d metadata",
			len(ids), len(vectors), len(documents), len(metadata))
	}
	if len(ids) == 0 {
		return nil
	}

	objects := make([]*models.Object, len(ids))
	for i, id := range ids {
		objects[i] = &models.Object{
			Class: className,
			ID:    objectID(id),
			Properties: map[string]interface{}{
				"docId":          id,
				"content":        documents[i],
				"conversationId": metadata[i]["conversation_id"],
				"username":       metadata[i]["username"],
				"timestamp":      metadata[i]["timestamp"],
			},
			Vector: models.C11yVector(vectors[i]),
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("failed to store object %s: %s", obj.ID, obj.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Query returns the k nearest neighbors of the given vector.
func (s *Store) Query(ctx context.Context, queryVector []float32, k int) ([]vector.Match, error) {
	result, err := s.client.GraphQL().Get().
		WithClassName(className).
		WithFields(
			graphql.Field{Name: "docId"},
			graphql.Field{Name: "content"},
			graphql.Field{Name: "conversationId"},
			graphql.Field{Name: "username"},
			graphql.Field{Name: "timestamp"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{
				{Name: "distance"},
			}},
		).
		WithNearVector(s.client.GraphQL().NearVectorArgBuilder().
			WithVector(queryVector)).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("graphql query failed: %s", result.Errors[0].Message)
	}

	return parseMatches(result)
}

// objectID derives a deterministic Weaviate UUID from a document id.
func objectID(id string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String())
}

// parseMatches extracts matches from a GraphQL Get response.
func parseMatches(result *models.GraphQLResponse) ([]vector.Match, error) {
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	rows, ok := get[className].([]interface{})
	if !ok {
		return nil, nil
	}

	matches := make([]vector.Match, 0, len(rows))
	for _, row := range rows {
		props, ok := row.(map[string]interface{})
		if !ok {
			continue
		}

		match := vector.Match{
			ID:       stringProp(props, "docId"),
			Document: stringProp(props, "content"),
			Metadata: map[string]string{
				"conversation_id": stringProp(props, "conversationId"),
				"username":        stringProp(props, "username"),
				"timestamp":       stringProp(props, "timestamp"),
			},
		}
		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				match.Distance = float32(distance)
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func stringProp(props map[string]interface{}, name string) string {
	value, _ := props[name].(string)
	return value
}
