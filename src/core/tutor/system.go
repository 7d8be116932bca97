package tutor

import (
	"context"

	"booktutor/src/log"
)

type systemService struct {
	books      BookStore
	vectors    Pinger
	embeddings Pinger
	llm        Pinger
}

// NewSystemService creates the health reporting service. The embedding
// and llm pingers may be nil when those backends expose no probe.
func NewSystemService(books BookStore, vectors, embeddings, llm Pinger) SystemService {
	return &systemService{
		books:      books,
		vectors:    vectors,
		embeddings: embeddings,
		llm:        llm,
	}
}

// CheckHealth probes the database, vector store and model backends
func (s *systemService) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{Status: "healthy"}
	status.Components.Database = StatusUp
	status.Components.VectorStore = StatusUp
	status.Components.Embeddings = StatusUp
	status.Components.LLM = StatusUp

	if _, err := s.books.List(ctx, 0, 1); err != nil {
		log.Error(err, "database health check failed")
		status.Components.Database = StatusDown
		status.Status = "unhealthy"
	}

	if err := s.vectors.Ping(ctx); err != nil {
		log.Error(err, "vector store health check failed")
		status.Components.VectorStore = StatusDown
		status.Status = "unhealthy"
	}

	if s.embeddings != nil {
		if err := s.embeddings.Ping(ctx); err != nil {
			log.Error(err, "embedding backend health check failed")
			status.Components.Embeddings = StatusDown
			status.Status = "unhealthy"
		}
	}

	if s.llm != nil {
		if err := s.llm.Ping(ctx); err != nil {
			log.Error(err, "llm backend health check failed")
			status.Components.LLM = StatusDown
			status.Status = "unhealthy"
		}
	}

	return status, nil
}
