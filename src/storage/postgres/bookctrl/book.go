package bookctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"booktutor/src/core/tutor"
)

// Book is the database model for book metadata
type Book struct {
	ID         int64  `gorm:"primaryKey"`
	Title      string `gorm:"not null;uniqueIndex"`
	Source     string
	Pages      int
	ChunkCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Book) TableName() string {
	return "books"
}

// BookService implements tutor.BookStore backed by PostgreSQL
type BookService struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewBookService(db *gorm.DB) (*BookService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &BookService{db: db, node: node}, nil
}

// Migrate creates or updates the books table
func (s *BookService) Migrate() error {
	return s.db.AutoMigrate(&Book{})
}

// Create inserts a book record, assigning its ID
func (s *BookService) Create(ctx context.Context, book *tutor.Book) error {
	model := toModel(book)
	model.ID = s.node.Generate().Int64()

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	*book = *toDomain(model)
	return nil
}

// GetByID returns the book with the given ID, or nil when absent
func (s *BookService) GetByID(ctx context.Context, id int64) (*tutor.Book, error) {
	var model Book
	err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return toDomain(&model), nil
}

// GetByTitle returns the book with the given title, or nil when absent
func (s *BookService) GetByTitle(ctx context.Context, title string) (*tutor.Book, error) {
	var model Book
	err := s.db.WithContext(ctx).First(&model, "title = ?", title).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book by title: %w", err)
	}

	return toDomain(&model), nil
}

// List returns books ordered by creation time, newest first
func (s *BookService) List(ctx context.Context, offset, limit int) ([]tutor.Book, error) {
	var models []Book
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]tutor.Book, 0, len(models))
	for i := range models {
		books = append(books, *toDomain(&models[i]))
	}

	return books, nil
}

// Delete removes the book record
func (s *BookService) Delete(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&Book{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

func toModel(book *tutor.Book) *Book {
	return &Book{
		ID:         book.ID,
		Title:      book.Title,
		Source:     book.Source,
		Pages:      book.Pages,
		ChunkCount: book.ChunkCount,
		CreatedAt:  book.CreatedAt,
		UpdatedAt:  book.UpdatedAt,
	}
}

func toDomain(model *Book) *tutor.Book {
	return &tutor.Book{
		ID:         model.ID,
		Title:      model.Title,
		Source:     model.Source,
		Pages:      model.Pages,
		ChunkCount: model.ChunkCount,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
