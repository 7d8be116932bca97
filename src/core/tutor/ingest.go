package tutor

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"booktutor/src/log"
	"booktutor/src/pdfutil"
	"booktutor/src/storage/keyword"
	"booktutor/src/storage/minioctrl"
	"booktutor/src/storage/vectorstore"
)

type libraryService struct {
	extractor pdfutil.Extractor
	splitter  textsplitter.TextSplitter
	embedder  EmbeddingProvider
	vectors   vectorstore.Store
	keywords  keyword.Index
	books     BookStore
	chunks    ChunkStore

	archive       *minioctrl.MinioService
	archiveBucket string
	progress      func(done, total int)
}

// LibraryOption customizes optional ingestion behavior
type LibraryOption func(*libraryService)

// WithArchive stores the original file in object storage after ingestion
func WithArchive(archive *minioctrl.MinioService, bucket string) LibraryOption {
	return func(s *libraryService) {
		s.archive = archive
		s.archiveBucket = bucket
	}
}

// WithProgress reports per-chunk embedding progress during ingestion
func WithProgress(fn func(done, total int)) LibraryOption {
	return func(s *libraryService) {
		s.progress = fn
	}
}

// NewLibraryService creates the book lifecycle service
func NewLibraryService(
	extractor pdfutil.Extractor,
	splitter textsplitter.TextSplitter,
	embedder EmbeddingProvider,
	vectors vectorstore.Store,
	keywords keyword.Index,
	books BookStore,
	chunks ChunkStore,
	opts ...LibraryOption,
) LibraryService {
	s := &libraryService{
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		vectors:   vectors,
		keywords:  keywords,
		books:     books,
		chunks:    chunks,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ingest parses, chunks, embeds and indexes a PDF. Re-uploading a book
// with the same title replaces the previous version wholesale.
func (s *libraryService) Ingest(ctx context.Context, filename string, data []byte, title string) (*Book, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedFile, ext)
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	pages, err := s.extractor.ExtractPages(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}

	if existing, err := s.books.GetByTitle(ctx, title); err != nil {
		return nil, err
	} else if existing != nil {
		log.Info("replacing existing book", "title", title, "id", existing.ID)
		if err := s.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to replace existing book: %w", err)
		}
	}

	book := &Book{
		Title:  title,
		Source: filename,
		Pages:  pages[len(pages)-1].Number,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	chunks, err := s.assembleChunks(book, pages)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		if err := s.books.Delete(ctx, book.ID); err != nil {
			log.Error(err, "failed to remove empty book record", "id", book.ID)
		}
		return nil, ErrEmptyDocument
	}

	collection := CollectionName(book.ID)
	if err := s.vectors.EnsureCollection(ctx, collection); err != nil {
		return nil, err
	}

	records := make([]vectorstore.Record, 0, len(chunks))
	for i := range chunks {
		chunk := &chunks[i]
		vector, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %s: %w", chunk.Key, err)
		}

		records = append(records, vectorstore.Record{
			Key:     chunk.Key,
			Vector:  vector,
			Content: chunk.Content,
			Properties: map[string]string{
				"bookTitle": chunk.BookTitle,
				"chapter":   chunk.Chapter,
				"section":   chunk.Section,
				"page":      strconv.Itoa(chunk.Page),
			},
		})

		if s.progress != nil {
			s.progress(i+1, len(chunks))
		}
	}

	if err := s.vectors.AddBatch(ctx, collection, records); err != nil {
		return nil, err
	}

	if err := s.chunks.CreateBatch(ctx, chunks); err != nil {
		return nil, err
	}

	docs := make([]keyword.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, keyword.Document{Key: chunk.Key, Text: chunk.Content})
	}
	if err := s.keywords.Rebuild(ctx, collection, docs); err != nil {
		return nil, err
	}

	if s.archive != nil {
		objectName := archiveObjectName(book.ID, filename)
		if err := s.archive.EnsureBucketExists(ctx, s.archiveBucket); err != nil {
			log.Error(err, "failed to ensure archive bucket", "bucket", s.archiveBucket)
		} else if err := s.archive.PutObject(ctx, s.archiveBucket, objectName, data, "application/pdf"); err != nil {
			log.Error(err, "failed to archive original file", "object", objectName)
		}
	}

	book.ChunkCount = len(chunks)
	log.Info("book ingested", "title", title, "id", book.ID, "pages", book.Pages, "chunks", len(chunks))

	return book, nil
}

// assembleChunks splits page text into chunks. The running chapter
// carries forward across pages until the next chapter heading; a section
// heading labels only the page it appears on.
func (s *libraryService) assembleChunks(book *Book, pages []pdfutil.Page) ([]Chunk, error) {
	sourceKey := sanitizeKey(book.Title)
	now := time.Now()

	var chunks []Chunk
	var currentChapter string
	seq := 0

	for _, page := range pages {
		heading := ExtractHeading(page.Text)
		chapter, pageSection := classifyHeading(heading)
		if chapter != "" {
			currentChapter = chapter
		}

		pieces, err := s.splitter.SplitText(page.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to split page %d: %w", page.Number, err)
		}

		for _, piece := range pieces {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}

			chunks = append(chunks, Chunk{
				BookID:    book.ID,
				Key:       fmt.Sprintf("%s_p%d_s%d_%s", sourceKey, page.Number, seq, uuid.NewString()[:8]),
				Content:   piece,
				BookTitle: book.Title,
				Chapter:   currentChapter,
				Section:   pageSection,
				Page:      page.Number,
				Seq:       seq,
				CreatedAt: now,
			})
			seq++
		}
	}

	return chunks, nil
}

var keyCharPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitizeKey(s string) string {
	return keyCharPattern.ReplaceAllString(strings.ToLower(s), "_")
}

// List returns books ordered by creation time
func (s *libraryService) List(ctx context.Context, offset, limit int) ([]Book, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.books.List(ctx, offset, limit)
}

// Get returns a single book by ID
func (s *libraryService) Get(ctx context.Context, id int64) (*Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	return book, nil
}

// DownloadOriginal fetches the archived PDF for a book
func (s *libraryService) DownloadOriginal(ctx context.Context, id int64) ([]byte, string, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if book == nil {
		return nil, "", ErrBookNotFound
	}
	if s.archive == nil {
		return nil, "", ErrFileUnavailable
	}

	objectName := archiveObjectName(book.ID, book.Source)
	data, err := s.archive.GetObject(ctx, s.archiveBucket, objectName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch archived file %s: %w", objectName, err)
	}

	return data, filepath.Base(book.Source), nil
}

func archiveObjectName(bookID int64, source string) string {
	return fmt.Sprintf("%d/%s", bookID, filepath.Base(source))
}

// Delete removes the book and every index built from it
func (s *libraryService) Delete(ctx context.Context, id int64) error {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}

	collection := CollectionName(id)
	if err := s.vectors.DropCollection(ctx, collection); err != nil {
		log.Error(err, "failed to drop vector collection", "collection", collection)
	}
	if err := s.keywords.Drop(ctx, collection); err != nil {
		log.Error(err, "failed to drop keyword collection", "collection", collection)
	}
	if s.archive != nil {
		objectName := archiveObjectName(id, book.Source)
		if err := s.archive.DeleteObject(ctx, s.archiveBucket, objectName); err != nil {
			log.Error(err, "failed to delete archived file", "object", objectName)
		}
	}
	if err := s.chunks.DeleteByBookID(ctx, id); err != nil {
		return err
	}

	return s.books.Delete(ctx, id)
}
