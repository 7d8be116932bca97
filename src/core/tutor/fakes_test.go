package tutor_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"booktutor/src/core/tutor"
	"booktutor/src/pdfutil"
	"booktutor/src/storage/keyword"
	"booktutor/src/storage/vectorstore"
)

type fakeExtractor struct {
	pages []pdfutil.Page
	err   error
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, data []byte) ([]pdfutil.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

// fakeSplitter splits on a marker string so tests control chunk boundaries
type fakeSplitter struct {
	marker string
}

func (f *fakeSplitter) SplitText(text string) ([]string, error) {
	if f.marker == "" {
		return []string{text}, nil
	}
	return strings.Split(text, f.marker), nil
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	return []float32{float32(len(text)), 1}, nil
}

type fakeBookStore struct {
	nextID  int64
	byID    map[int64]tutor.Book
	byTitle map[string]int64
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{
		byID:    make(map[int64]tutor.Book),
		byTitle: make(map[string]int64),
	}
}

func (f *fakeBookStore) Create(ctx context.Context, book *tutor.Book) error {
	book.ID = atomic.AddInt64(&f.nextID, 1)
	f.byID[book.ID] = *book
	f.byTitle[book.Title] = book.ID
	return nil
}

func (f *fakeBookStore) GetByID(ctx context.Context, id int64) (*tutor.Book, error) {
	book, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &book, nil
}

func (f *fakeBookStore) GetByTitle(ctx context.Context, title string) (*tutor.Book, error) {
	id, ok := f.byTitle[title]
	if !ok {
		return nil, nil
	}
	book := f.byID[id]
	return &book, nil
}

func (f *fakeBookStore) List(ctx context.Context, offset, limit int) ([]tutor.Book, error) {
	books := make([]tutor.Book, 0, len(f.byID))
	for _, book := range f.byID {
		books = append(books, book)
	}
	return books, nil
}

func (f *fakeBookStore) Delete(ctx context.Context, id int64) error {
	if book, ok := f.byID[id]; ok {
		delete(f.byTitle, book.Title)
		delete(f.byID, id)
	}
	return nil
}

type fakeChunkStore struct {
	chunks map[int64][]tutor.Chunk
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{chunks: make(map[int64][]tutor.Chunk)}
}

func (f *fakeChunkStore) CreateBatch(ctx context.Context, chunks []tutor.Chunk) error {
	for i := range chunks {
		chunks[i].ID = int64(i + 1)
		f.chunks[chunks[i].BookID] = append(f.chunks[chunks[i].BookID], chunks[i])
	}
	return nil
}

func (f *fakeChunkStore) GetByBookID(ctx context.Context, bookID int64) ([]tutor.Chunk, error) {
	return f.chunks[bookID], nil
}

func (f *fakeChunkStore) GetByKeys(ctx context.Context, bookID int64, keys []string) ([]tutor.Chunk, error) {
	wanted := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		wanted[key] = struct{}{}
	}

	var out []tutor.Chunk
	for _, chunk := range f.chunks[bookID] {
		if _, ok := wanted[chunk.Key]; ok {
			out = append(out, chunk)
		}
	}
	return out, nil
}

func (f *fakeChunkStore) DeleteByBookID(ctx context.Context, bookID int64) error {
	delete(f.chunks, bookID)
	return nil
}

type fakeVectorStore struct {
	collections map[string][]vectorstore.Record
	queryHits   []vectorstore.Result
	dropped     []string
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{collections: make(map[string][]vectorstore.Record)}
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context, name string) error {
	if _, ok := f.collections[name]; !ok {
		f.collections[name] = nil
	}
	return nil
}

func (f *fakeVectorStore) DropCollection(ctx context.Context, name string) error {
	delete(f.collections, name)
	f.dropped = append(f.dropped, name)
	return nil
}

func (f *fakeVectorStore) AddBatch(ctx context.Context, name string, records []vectorstore.Record) error {
	f.collections[name] = append(f.collections[name], records...)
	return nil
}

func (f *fakeVectorStore) Query(ctx context.Context, name string, vector []float32, limit int) ([]vectorstore.Result, error) {
	if limit < len(f.queryHits) {
		return f.queryHits[:limit], nil
	}
	return f.queryHits, nil
}

func (f *fakeVectorStore) Ping(ctx context.Context) error {
	return nil
}

type fakeKeywordIndex struct {
	rebuilt    map[string][]keyword.Document
	searchHits []keyword.Hit
	searchErr  error
	dropped    []string
}

func newFakeKeywordIndex() *fakeKeywordIndex {
	return &fakeKeywordIndex{rebuilt: make(map[string][]keyword.Document)}
}

func (f *fakeKeywordIndex) Rebuild(ctx context.Context, collection string, docs []keyword.Document) error {
	f.rebuilt[collection] = docs
	return nil
}

func (f *fakeKeywordIndex) Search(ctx context.Context, collection string, query string, limit int) ([]keyword.Hit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if limit < len(f.searchHits) {
		return f.searchHits[:limit], nil
	}
	return f.searchHits, nil
}

func (f *fakeKeywordIndex) Drop(ctx context.Context, collection string) error {
	f.dropped = append(f.dropped, collection)
	return nil
}

type fakeLLM struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (f *fakeLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeSearch struct {
	results []tutor.SearchResult
	err     error
}

func (f *fakeSearch) Search(ctx context.Context, bookID int64, query string, limit int) ([]tutor.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func pageText(heading string, body string) string {
	if heading == "" {
		return body
	}
	return fmt.Sprintf("%s\n%s", heading, body)
}
