package vectorstore

import "context"

const DefaultQueryLimit = 20

// Record is a single embedded chunk to persist in a collection
type Record struct {
	Key        string
	Vector     []float32
	Content    string
	Properties map[string]string
}

// Result is a single hit from vector similarity search
type Result struct {
	Key        string
	Score      float64
	Properties map[string]string
}

// Store encapsulates vector index operations. A collection holds the
// embeddings of one book and is dropped as a whole when the book goes.
type Store interface {
	EnsureCollection(ctx context.Context, name string) error
	DropCollection(ctx context.Context, name string) error
	AddBatch(ctx context.Context, name string, records []Record) error
	Query(ctx context.Context, name string, vector []float32, limit int) ([]Result, error)
	Ping(ctx context.Context) error
}
