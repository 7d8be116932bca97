package weaviate

import (
	"context"
	"fmt"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"booktutor/src/storage/vectorstore"
)

// Metadata properties stored alongside each chunk embedding. Vectors are
// supplied by us, so the class vectorizer is always "none".
var classProperties = []*models.Property{
	{
		Name:     "chunkKey",
		DataType: []string{"string"},
	},
	{
		Name:     "content",
		DataType: []string{"text"},
	},
	{
		Name:     "bookTitle",
		DataType: []string{"string"},
	},
	{
		Name:     "chapter",
		DataType: []string{"string"},
	},
	{
		Name:     "section",
		DataType: []string{"string"},
	},
	{
		Name:     "page",
		DataType: []string{"string"},
	},
}

// Store implements vectorstore.Store against a remote Weaviate instance,
// one class per book collection.
type Store struct {
	client *weaviate.Client
}

// NewStore creates a new Store on an existing Weaviate client
func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

// EnsureCollection creates the class schema if it does not exist yet
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	exists, err := s.classExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check if class exists: %w", err)
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:      name,
		Properties: classProperties,
		Vectorizer: "none",
	}

	if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return fmt.Errorf("failed to create class %s: %w", name, err)
	}

	return nil
}

func (s *Store) classExists(ctx context.Context, name string) (bool, error) {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %w", err)
	}

	for _, class := range schema.Classes {
		if class.Class == name {
			return true, nil
		}
	}

	return false, nil
}

func (s *Store) DropCollection(ctx context.Context, name string) error {
	if err := s.client.Schema().ClassDeleter().WithClassName(name).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete class %s: %w", name, err)
	}
	return nil
}

// AddBatch adds records to a class in a single batch operation
func (s *Store) AddBatch(ctx context.Context, name string, records []vectorstore.Record) error {
	objs := make([]*models.Object, 0, len(records))
	for _, record := range records {
		properties := map[string]interface{}{
			"chunkKey": record.Key,
			"content":  record.Content,
		}
		for k, v := range record.Properties {
			properties[k] = v
		}

		objs = append(objs, &models.Object{
			Class:      name,
			Properties: properties,
			Vector:     record.Vector,
		})
	}

	batcher := s.client.Batch().ObjectsBatcher()
	resp, err := batcher.WithObjects(objs...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to batch add vectors: %w", err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("batch operation returned no results")
	}

	return nil
}

// Query performs vector similarity search in a class
func (s *Store) Query(ctx context.Context, name string, vector []float32, limit int) ([]vectorstore.Result, error) {
	fields := []graphql.Field{
		{Name: "chunkKey"},
		{Name: "chapter"},
		{Name: "section"},
		{Name: "page"},
		{Name: "_additional { id certainty }"},
	}

	if limit <= 0 {
		limit = vectorstore.DefaultQueryLimit
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(name).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	var results []vectorstore.Result
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return results, nil
	}
	objects, ok := data[name].([]interface{})
	if !ok {
		return results, nil
	}

	for _, obj := range objects {
		objMap, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		additional, _ := objMap["_additional"].(map[string]interface{})

		properties := make(map[string]string)
		var key string
		for k, v := range objMap {
			if k == "_additional" {
				continue
			}
			str, ok := v.(string)
			if !ok {
				continue
			}
			if k == "chunkKey" {
				key = str
				continue
			}
			properties[k] = str
		}

		score := 0.0
		if certainty, ok := additional["certainty"].(float64); ok {
			score = certainty
		}

		results = append(results, vectorstore.Result{
			Key:        key,
			Score:      score,
			Properties: properties,
		})
	}

	return results, nil
}

// Ping checks that the Weaviate schema endpoint is reachable
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.Schema().Getter().Do(ctx); err != nil {
		return fmt.Errorf("weaviate is unreachable: %w", err)
	}
	return nil
}
