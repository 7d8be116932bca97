package chunkctrl

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"booktutor/src/core/tutor"
)

// Chunk is the database model for a span of book text
type Chunk struct {
	ID        int64  `gorm:"primaryKey"`
	BookID    int64  `gorm:"not null;index"`
	ChunkKey  string `gorm:"not null"`
	BookTitle string
	Content   string `gorm:"type:text"`
	Chapter   string
	Section   string
	Page      int
	Seq       int `gorm:"column:chunk_seq"`
	CreatedAt time.Time
}

func (Chunk) TableName() string {
	return "chunks"
}

// ChunkService implements tutor.ChunkStore backed by PostgreSQL
type ChunkService struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewChunkService(db *gorm.DB) (*ChunkService, error) {
	node, err := snowflake.NewNode(2)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &ChunkService{db: db, node: node}, nil
}

// Migrate creates or updates the chunks table
func (s *ChunkService) Migrate() error {
	return s.db.AutoMigrate(&Chunk{})
}

// CreateBatch inserts chunks in one statement, assigning their IDs
func (s *ChunkService) CreateBatch(ctx context.Context, chunks []tutor.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]Chunk, 0, len(chunks))
	for i := range chunks {
		model := toModel(&chunks[i])
		model.ID = s.node.Generate().Int64()
		models = append(models, *model)
	}

	if err := s.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("failed to create chunks: %w", err)
	}

	for i := range models {
		chunks[i].ID = models[i].ID
	}

	return nil
}

// GetByBookID returns a book's chunks in document order
func (s *ChunkService) GetByBookID(ctx context.Context, bookID int64) ([]tutor.Chunk, error) {
	var models []Chunk
	err := s.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("chunk_seq ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks: %w", err)
	}

	return toDomainSlice(models), nil
}

// GetByKeys returns the chunks matching the given chunk keys
func (s *ChunkService) GetByKeys(ctx context.Context, bookID int64, keys []string) ([]tutor.Chunk, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	var models []Chunk
	err := s.db.WithContext(ctx).
		Where("book_id = ? AND chunk_key IN ?", bookID, keys).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks by keys: %w", err)
	}

	return toDomainSlice(models), nil
}

// DeleteByBookID removes all chunks of a book
func (s *ChunkService) DeleteByBookID(ctx context.Context, bookID int64) error {
	if err := s.db.WithContext(ctx).Delete(&Chunk{}, "book_id = ?", bookID).Error; err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

func toModel(chunk *tutor.Chunk) *Chunk {
	return &Chunk{
		ID:        chunk.ID,
		BookID:    chunk.BookID,
		ChunkKey:  chunk.Key,
		BookTitle: chunk.BookTitle,
		Content:   chunk.Content,
		Chapter:   chunk.Chapter,
		Section:   chunk.Section,
		Page:      chunk.Page,
		Seq:       chunk.Seq,
		CreatedAt: chunk.CreatedAt,
	}
}

func toDomainSlice(models []Chunk) []tutor.Chunk {
	chunks := make([]tutor.Chunk, 0, len(models))
	for i := range models {
		model := &models[i]
		chunks = append(chunks, tutor.Chunk{
			ID:        model.ID,
			BookID:    model.BookID,
			Key:       model.ChunkKey,
			Content:   model.Content,
			BookTitle: model.BookTitle,
			Chapter:   model.Chapter,
			Section:   model.Section,
			Page:      model.Page,
			Seq:       model.Seq,
			CreatedAt: model.CreatedAt,
		})
	}
	return chunks
}
