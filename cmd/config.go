/*
Copyright © 2025 Book Tutor Authors
*/
package cmd

import (
	"github.com/spf13/viper"

	"booktutor/src/core/tutor"
)

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for PostgreSQL
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")

	// Map environment variables to Viper keys for the Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Vector store: embedded chromem by default, weaviate when configured
	viper.BindEnv("vector.backend", "VECTOR_BACKEND")
	viper.BindEnv("vector.data_root", "VECTOR_DATA_ROOT")
	viper.BindEnv("weaviate.url", "WEAVIATE_URL")

	// Keyword index: in-process by default, elasticsearch when configured
	viper.BindEnv("keyword.backend", "KEYWORD_BACKEND")
	viper.BindEnv("elasticsearch.url", "ELASTICSEARCH_URL")

	// Embeddings and generation
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.embedding_model", "OLLAMA_EMBEDDING_MODEL")
	viper.BindEnv("groq.url", "GROQ_URL")
	viper.BindEnv("groq.api_key", "GROQ_API_KEY")
	viper.BindEnv("groq.model", "GROQ_MODEL")
	viper.BindEnv("groq.temperature", "GROQ_TEMPERATURE")

	// Optional MinIO archive for original files
	viper.BindEnv("minio.enabled", "MINIO_ENABLED")
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.bucket", "MINIO_BUCKET")

	// Retrieval tuning
	viper.BindEnv("rag.chunk_size", "RAG_CHUNK_SIZE")
	viper.BindEnv("rag.chunk_overlap", "RAG_CHUNK_OVERLAP")
	viper.BindEnv("rag.top_k", "RAG_TOP_K")
	viper.BindEnv("rag.candidates", "RAG_CANDIDATES")

	// Set default values for PostgreSQL
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.db", "booktutor")

	// Set default values for the Server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	viper.SetDefault("vector.backend", "chromem")
	viper.SetDefault("vector.data_root", "./data/vectors")
	viper.SetDefault("weaviate.url", "weaviate:8080")

	viper.SetDefault("keyword.backend", "memory")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")

	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("ollama.embedding_model", "nomic-embed-text")
	viper.SetDefault("groq.url", "https://api.groq.com/openai/v1")
	viper.SetDefault("groq.model", "llama-3.1-8b-instant")
	viper.SetDefault("groq.temperature", 0.3)

	viper.SetDefault("minio.enabled", false)
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.bucket", "books")

	viper.SetDefault("rag.chunk_size", tutor.DefaultChunkSize)
	viper.SetDefault("rag.chunk_overlap", tutor.DefaultChunkOverlap)
	viper.SetDefault("rag.top_k", tutor.DefaultTopK)
	viper.SetDefault("rag.candidates", tutor.DefaultCandidates)
}
