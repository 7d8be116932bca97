package tutor_test

import (
	"context"
	"errors"
	"testing"

	"booktutor/src/core/tutor"
	"booktutor/src/storage/keyword"
	"booktutor/src/storage/vectorstore"
)

func newTestSearch(vectors *fakeVectorStore, keywords *fakeKeywordIndex) (tutor.SearchService, *fakeBookStore, *fakeChunkStore) {
	books := newFakeBookStore()
	chunks := newFakeChunkStore()
	search := tutor.NewSearchService(&fakeEmbedder{}, vectors, keywords, books, chunks, tutor.DefaultCandidates)
	return search, books, chunks
}

func seedBook(t *testing.T, books *fakeBookStore, chunks *fakeChunkStore, keys ...string) *tutor.Book {
	t.Helper()

	book := &tutor.Book{Title: "Seeded"}
	if err := books.Create(context.Background(), book); err != nil {
		t.Fatalf("failed to seed book: %v", err)
	}

	seeded := make([]tutor.Chunk, 0, len(keys))
	for i, key := range keys {
		seeded = append(seeded, tutor.Chunk{
			BookID:  book.ID,
			Key:     key,
			Content: "content " + key,
			Page:    i + 1,
			Seq:     i,
		})
	}
	if err := chunks.CreateBatch(context.Background(), seeded); err != nil {
		t.Fatalf("failed to seed chunks: %v", err)
	}

	return book
}

func TestSearchFusesRetrievers(t *testing.T) {
	vectors := newFakeVectorStore()
	vectors.queryHits = []vectorstore.Result{
		{Key: "a", Score: 0.9},
		{Key: "b", Score: 0.8},
		{Key: "c", Score: 0.7},
	}
	keywords := newFakeKeywordIndex()
	keywords.searchHits = []keyword.Hit{
		{Key: "b", Score: 3.0},
		{Key: "d", Score: 1.5},
	}

	search, books, chunks := newTestSearch(vectors, keywords)
	book := seedBook(t, books, chunks, "a", "b", "c", "d")

	results, err := search.Search(context.Background(), book.ID, "how do handlers work", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// "b" appears in both rankings so fusion puts it first
	wantOrder := []string{"b", "a", "c", "d"}
	if len(results) != len(wantOrder) {
		t.Fatalf("Search() returned %d results, want %d", len(results), len(wantOrder))
	}
	for i, result := range results {
		if result.Chunk.Key != wantOrder[i] {
			t.Errorf("rank %d = %q, want %q", i, result.Chunk.Key, wantOrder[i])
		}
		if result.Score <= 0 {
			t.Errorf("rank %d has non-positive score %v", i, result.Score)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not ordered by score at rank %d", i)
		}
	}
}

func TestSearchLimitsResults(t *testing.T) {
	vectors := newFakeVectorStore()
	vectors.queryHits = []vectorstore.Result{
		{Key: "a"}, {Key: "b"}, {Key: "c"},
	}
	keywords := newFakeKeywordIndex()

	search, books, chunks := newTestSearch(vectors, keywords)
	book := seedBook(t, books, chunks, "a", "b", "c")

	results, err := search.Search(context.Background(), book.ID, "query", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search() returned %d results, want 2", len(results))
	}
}

func TestSearchSurvivesKeywordFailure(t *testing.T) {
	vectors := newFakeVectorStore()
	vectors.queryHits = []vectorstore.Result{{Key: "a"}}
	keywords := newFakeKeywordIndex()
	keywords.searchErr = errors.New("index unavailable")

	search, books, chunks := newTestSearch(vectors, keywords)
	book := seedBook(t, books, chunks, "a")

	results, err := search.Search(context.Background(), book.ID, "query", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Key != "a" {
		t.Errorf("Search() = %v, want vector-only result for key a", results)
	}
}

func TestSearchErrors(t *testing.T) {
	vectors := newFakeVectorStore()
	keywords := newFakeKeywordIndex()
	search, books, chunks := newTestSearch(vectors, keywords)
	book := seedBook(t, books, chunks, "a")

	t.Run("unknown book", func(t *testing.T) {
		_, err := search.Search(context.Background(), book.ID+100, "query", 5)
		if !errors.Is(err, tutor.ErrBookNotFound) {
			t.Errorf("Search() error = %v, want %v", err, tutor.ErrBookNotFound)
		}
	})

	t.Run("blank query", func(t *testing.T) {
		_, err := search.Search(context.Background(), book.ID, "   ", 5)
		if !errors.Is(err, tutor.ErrInvalidRequest) {
			t.Errorf("Search() error = %v, want %v", err, tutor.ErrInvalidRequest)
		}
	})
}
