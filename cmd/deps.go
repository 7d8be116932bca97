/*
Copyright © 2025 Book Tutor Authors
*/
package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/spf13/viper"
	"github.com/tmc/langchaingo/textsplitter"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"booktutor/src/core/tutor"
	"booktutor/src/infrastructure/integrations/groq"
	"booktutor/src/infrastructure/integrations/ollama"
	"booktutor/src/storage/keyword"
	keywordElastic "booktutor/src/storage/keyword/elastic"
	keywordMemory "booktutor/src/storage/keyword/memory"
	"booktutor/src/storage/minioctrl"
	"booktutor/src/storage/postgres/bookctrl"
	"booktutor/src/storage/postgres/chunkctrl"
	"booktutor/src/storage/vectorstore"
	vectorChromem "booktutor/src/storage/vectorstore/chromem"
	vectorWeaviate "booktutor/src/storage/vectorstore/weaviate"
)

func openDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func openStores(db *gorm.DB) (*bookctrl.BookService, *chunkctrl.ChunkService, error) {
	books, err := bookctrl.NewBookService(db)
	if err != nil {
		return nil, nil, err
	}
	if err := books.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate books table: %w", err)
	}

	chunks, err := chunkctrl.NewChunkService(db)
	if err != nil {
		return nil, nil, err
	}
	if err := chunks.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate chunks table: %w", err)
	}

	return books, chunks, nil
}

func newVectorStore() (vectorstore.Store, error) {
	switch backend := viper.GetString("vector.backend"); backend {
	case "weaviate":
		wc := weaviateClient.New(weaviateClient.Config{
			Host:   viper.GetString("weaviate.url"),
			Scheme: "http",
		})
		return vectorWeaviate.NewStore(wc), nil
	case "chromem":
		return vectorChromem.NewStore(viper.GetString("vector.data_root"))
	default:
		return nil, fmt.Errorf("unknown vector backend %q", backend)
	}
}

func newKeywordIndex() (keyword.Index, error) {
	switch backend := viper.GetString("keyword.backend"); backend {
	case "elastic":
		es, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{viper.GetString("elasticsearch.url")},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		return keywordElastic.NewIndex(es), nil
	case "memory":
		return keywordMemory.NewIndex(), nil
	default:
		return nil, fmt.Errorf("unknown keyword backend %q", backend)
	}
}

func newEmbeddingProvider() *ollama.Provider {
	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 30 * time.Second,
	})
	return ollama.NewProvider(oc, viper.GetString("ollama.embedding_model"))
}

func newLLMProvider() *groq.Provider {
	gc := groq.NewClient(viper.GetString("groq.url"), viper.GetString("groq.api_key"), &http.Client{
		Timeout: 120 * time.Second,
	})
	return groq.NewProvider(gc, viper.GetString("groq.model"), viper.GetFloat64("groq.temperature"))
}

func newSplitter() textsplitter.TextSplitter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(viper.GetInt("rag.chunk_size")),
		textsplitter.WithChunkOverlap(viper.GetInt("rag.chunk_overlap")),
	)
}

func newArchiveOptions() ([]tutor.LibraryOption, error) {
	if !viper.GetBool("minio.enabled") {
		return nil, nil
	}

	archive, err := minioctrl.NewMinioService(
		viper.GetString("minio.endpoint"),
		viper.GetString("minio.access_key"),
		viper.GetString("minio.secret_key"),
		false,
	)
	if err != nil {
		return nil, err
	}

	return []tutor.LibraryOption{
		tutor.WithArchive(archive, viper.GetString("minio.bucket")),
	}, nil
}
