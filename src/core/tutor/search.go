package tutor

import (
	"context"
	"strings"

	"booktutor/src/log"
	"booktutor/src/storage/keyword"
	"booktutor/src/storage/vectorstore"
)

const (
	// Retriever weights for reciprocal rank fusion. Vector similarity
	// leads; keyword matching compensates for exact terms the embedding
	// space blurs.
	VectorWeight  = 0.6
	KeywordWeight = 0.4
)

type searchService struct {
	embedder   EmbeddingProvider
	vectors    vectorstore.Store
	keywords   keyword.Index
	books      BookStore
	chunks     ChunkStore
	candidates int
}

// NewSearchService creates the hybrid retrieval service. candidates is
// how many hits each retriever contributes before fusion.
func NewSearchService(
	embedder EmbeddingProvider,
	vectors vectorstore.Store,
	keywords keyword.Index,
	books BookStore,
	chunks ChunkStore,
	candidates int,
) SearchService {
	if candidates <= 0 {
		candidates = DefaultCandidates
	}

	return &searchService{
		embedder:   embedder,
		vectors:    vectors,
		keywords:   keywords,
		books:      books,
		chunks:     chunks,
		candidates: candidates,
	}
}

// Search runs vector and keyword retrieval for the query and merges the
// two rankings with weighted reciprocal rank fusion.
func (s *searchService) Search(ctx context.Context, bookID int64, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 {
		limit = DefaultTopK
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	collection := CollectionName(bookID)

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	vectorHits, err := s.vectors.Query(ctx, collection, queryVector, s.candidates)
	if err != nil {
		return nil, err
	}

	keywordHits, err := s.keywords.Search(ctx, collection, query, s.candidates)
	if err != nil {
		// Keyword retrieval is a re-ranking aid; vector results alone
		// still produce a usable answer.
		log.Error(err, "keyword search failed, using vector results only", "collection", collection)
		keywordHits = nil
	}

	vectorKeys := make([]string, 0, len(vectorHits))
	for _, hit := range vectorHits {
		vectorKeys = append(vectorKeys, hit.Key)
	}
	keywordKeys := make([]string, 0, len(keywordHits))
	for _, hit := range keywordHits {
		keywordKeys = append(keywordKeys, hit.Key)
	}

	fused := FuseRanked([]RankedList{
		{Keys: vectorKeys, Weight: VectorWeight},
		{Keys: keywordKeys, Weight: KeywordWeight},
	}, DefaultRRFConstant)

	if len(fused) > limit {
		fused = fused[:limit]
	}
	if len(fused) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(fused))
	for _, hit := range fused {
		keys = append(keys, hit.Key)
	}

	chunks, err := s.chunks.GetByKeys(ctx, bookID, keys)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]Chunk, len(chunks))
	for _, chunk := range chunks {
		byKey[chunk.Key] = chunk
	}

	results := make([]SearchResult, 0, len(fused))
	for _, hit := range fused {
		chunk, ok := byKey[hit.Key]
		if !ok {
			log.Info("fused hit has no stored chunk, skipping", "key", hit.Key)
			continue
		}
		results = append(results, SearchResult{Chunk: chunk, Score: hit.Score})
	}

	return results, nil
}
