package chromem

import (
	"context"
	"fmt"
	"runtime"

	cg "github.com/philippgille/chromem-go"

	"booktutor/src/storage/vectorstore"
)

// Store implements vectorstore.Store on an embedded chromem database.
// Collections are persisted under the data root, one per book, so the
// index survives restarts without any external service.
type Store struct {
	db *cg.DB
}

// NewStore opens (or creates) a persistent database under dataRoot
func NewStore(dataRoot string) (*Store, error) {
	db, err := cg.NewPersistentDB(dataRoot, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	if _, err := s.db.GetOrCreateCollection(name, nil, nil); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

func (s *Store) DropCollection(ctx context.Context, name string) error {
	if err := s.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}

// AddBatch inserts embedded records into the named collection
func (s *Store) AddBatch(ctx context.Context, name string, records []vectorstore.Record) error {
	collection, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to get collection %s: %w", name, err)
	}

	docs := make([]cg.Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, cg.Document{
			ID:        record.Key,
			Content:   record.Content,
			Metadata:  record.Properties,
			Embedding: record.Vector,
		})
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	return nil
}

// Query performs vector similarity search in the named collection
func (s *Store) Query(ctx context.Context, name string, vector []float32, limit int) ([]vectorstore.Result, error) {
	collection, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", name, err)
	}

	count := collection.Count()
	if count == 0 {
		return nil, nil
	}

	if limit <= 0 {
		limit = vectorstore.DefaultQueryLimit
	}
	// chromem rejects result counts larger than the collection
	if limit > count {
		limit = count
	}

	results, err := collection.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", name, err)
	}

	out := make([]vectorstore.Result, 0, len(results))
	for _, result := range results {
		out = append(out, vectorstore.Result{
			Key:        result.ID,
			Score:      float64(result.Similarity),
			Properties: result.Metadata,
		})
	}

	return out, nil
}

// Ping reports readiness; the embedded database has no connection to check
func (s *Store) Ping(ctx context.Context) error {
	return nil
}
