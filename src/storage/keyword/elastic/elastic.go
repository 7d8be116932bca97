package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"booktutor/src/storage/keyword"
)

// Index implements keyword.Index on an Elasticsearch cluster, letting its
// BM25 scoring replace the in-process TF-IDF ranking. One ES index per
// collection, prefixed so unrelated indices are never touched.
type Index struct {
	client *elasticsearch.Client
}

func NewIndex(client *elasticsearch.Client) *Index {
	return &Index{client: client}
}

func indexName(collection string) string {
	return "booktutor-" + strings.ToLower(collection)
}

// Rebuild drops and re-creates the collection's index from docs
func (x *Index) Rebuild(ctx context.Context, collection string, docs []keyword.Document) error {
	name := indexName(collection)

	res, err := x.client.Indices.Delete(
		[]string{name},
		x.client.Indices.Delete.WithContext(ctx),
		x.client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("failed to delete index %s: %w", name, err)
	}
	res.Body.Close()

	for _, doc := range docs {
		body, err := json.Marshal(map[string]string{"text": doc.Text})
		if err != nil {
			return fmt.Errorf("failed to encode document %s: %w", doc.Key, err)
		}

		res, err := x.client.Index(
			name,
			bytes.NewReader(body),
			x.client.Index.WithDocumentID(doc.Key),
			x.client.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.Key, err)
		}
		if res.IsError() {
			msg, _ := io.ReadAll(res.Body)
			res.Body.Close()
			return fmt.Errorf("failed to index document %s: %s", doc.Key, string(msg))
		}
		res.Body.Close()
	}

	refresh, err := x.client.Indices.Refresh(
		x.client.Indices.Refresh.WithIndex(name),
		x.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to refresh index %s: %w", name, err)
	}
	refresh.Body.Close()

	return nil
}

// Search runs a match query against the collection's text field
func (x *Index) Search(ctx context.Context, collection string, query string, limit int) ([]keyword.Hit, error) {
	if limit <= 0 {
		limit = keyword.DefaultSearchLimit
	}

	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"text": query,
			},
		},
		"size": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(indexName(collection)),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search failed: %s", string(msg))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]keyword.Hit, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		hits = append(hits, keyword.Hit{Key: hit.ID, Score: hit.Score})
	}

	return hits, nil
}

// Drop deletes the collection's index
func (x *Index) Drop(ctx context.Context, collection string) error {
	name := indexName(collection)

	res, err := x.client.Indices.Delete(
		[]string{name},
		x.client.Indices.Delete.WithContext(ctx),
		x.client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("failed to delete index %s: %w", name, err)
	}
	res.Body.Close()

	return nil
}
