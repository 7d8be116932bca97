package keyword

import "context"

const DefaultSearchLimit = 20

// Document is a chunk's text registered under its chunk key
type Document struct {
	Key  string
	Text string
}

// Hit is a single keyword-ranked result
type Hit struct {
	Key   string
	Score float64
}

// Index ranks chunk documents by classic term-frequency scoring. A
// collection holds one book's chunks and is rebuilt wholesale whenever
// the book is (re-)ingested.
type Index interface {
	Rebuild(ctx context.Context, collection string, docs []Document) error
	Search(ctx context.Context, collection string, query string, limit int) ([]Hit, error)
	Drop(ctx context.Context, collection string) error
}
