package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
	ErrMalformedDocument = errors.New("document could not be parsed")
	ErrUnsupportedFile   = errors.New("only PDF files are supported")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrFileUnavailable   = errors.New("original file is not archived")
)

// Book represents an ingested document
type Book struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	Pages      int       `json:"pages"`
	ChunkCount int       `json:"chunkCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Chunk is a contiguous span of book text with its citation metadata
type Chunk struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"bookId"`
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	BookTitle string    `json:"bookTitle"`
	Chapter   string    `json:"chapter"`
	Section   string    `json:"section"`
	Page      int       `json:"page"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchResult is a chunk ranked by fused relevance for a question
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Citation points at the place in the book a statement came from
type Citation struct {
	Chapter string `json:"chapter"`
	Section string `json:"section"`
	Page    int    `json:"page"`
}

// Answer is generated text together with the chunks supplied as context
type Answer struct {
	Text      string         `json:"text"`
	Citations []Citation     `json:"citations"`
	Sources   []SearchResult `json:"sources"`
}

// BookStore defines the interface for book metadata persistence.
// Create assigns the book ID.
type BookStore interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id int64) (*Book, error)
	GetByTitle(ctx context.Context, title string) (*Book, error)
	List(ctx context.Context, offset, limit int) ([]Book, error)
	Delete(ctx context.Context, id int64) error
}

// ChunkStore defines the interface for chunk persistence
type ChunkStore interface {
	CreateBatch(ctx context.Context, chunks []Chunk) error
	GetByBookID(ctx context.Context, bookID int64) ([]Chunk, error)
	GetByKeys(ctx context.Context, bookID int64, keys []string) ([]Chunk, error)
	DeleteByBookID(ctx context.Context, bookID int64) error
}

// EmbeddingProvider computes a vector representation of a text
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLMProvider performs model generation with the given prompt
type LLMProvider interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// LibraryService defines the interface for book lifecycle operations.
// DownloadOriginal returns the archived PDF bytes and filename, and fails
// with ErrFileUnavailable when no archive backend is configured.
type LibraryService interface {
	Ingest(ctx context.Context, filename string, data []byte, title string) (*Book, error)
	List(ctx context.Context, offset, limit int) ([]Book, error)
	Get(ctx context.Context, id int64) (*Book, error)
	DownloadOriginal(ctx context.Context, id int64) ([]byte, string, error)
	Delete(ctx context.Context, id int64) error
}

// SearchService defines the interface for hybrid retrieval
type SearchService interface {
	Search(ctx context.Context, bookID int64, query string, limit int) ([]SearchResult, error)
}

// AnswerService defines the interface for question answering
type AnswerService interface {
	Ask(ctx context.Context, bookID int64, question string) (*Answer, error)
}

// SystemService defines the interface for system operations
type SystemService interface {
	CheckHealth(ctx context.Context) (*HealthStatus, error)
}

// ComponentStatus represents the status of system components
type ComponentStatus string

const (
	StatusUp   ComponentStatus = "up"
	StatusDown ComponentStatus = "down"
)

// HealthStatus represents system health status
type HealthStatus struct {
	Status     string `json:"status"`
	Components struct {
		Database    ComponentStatus `json:"database"`
		VectorStore ComponentStatus `json:"vectorStore"`
		Embeddings  ComponentStatus `json:"embeddings"`
		LLM         ComponentStatus `json:"llm"`
	} `json:"components"`
}

// Pinger reports reachability of an external dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5
	DefaultCandidates   = 20
)

// CollectionName returns the vector store collection name for a book
func CollectionName(bookID int64) string {
	return fmt.Sprintf("Book_%d", bookID)
}
