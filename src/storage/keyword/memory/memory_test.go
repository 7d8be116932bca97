package memory_test

import (
	"context"
	"testing"

	"booktutor/src/storage/keyword"
	"booktutor/src/storage/keyword/memory"
)

func rebuildFixture(t *testing.T) *memory.Index {
	t.Helper()

	index := memory.NewIndex()
	err := index.Rebuild(context.Background(), "col", []keyword.Document{
		{Key: "sched", Text: "The scheduler picks the next runnable task using priorities."},
		{Key: "locks", Text: "Locks serialize access to shared data between tasks."},
		{Key: "pages", Text: "Virtual memory divides address space into fixed size pages."},
	})
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	return index
}

func TestSearchRanksByTermRelevance(t *testing.T) {
	index := rebuildFixture(t)

	hits, err := index.Search(context.Background(), "col", "scheduler priorities", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(hits) == 0 {
		t.Fatal("Search() returned no hits")
	}
	if hits[0].Key != "sched" {
		t.Errorf("top hit = %q, want %q", hits[0].Key, "sched")
	}
	for _, hit := range hits {
		if hit.Score <= 0 {
			t.Errorf("hit %q has non-positive score %v", hit.Key, hit.Score)
		}
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not ordered by score at rank %d", i)
		}
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	index := rebuildFixture(t)

	hits, err := index.Search(context.Background(), "col", "tasks memory locks scheduler pages", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) > 1 {
		t.Errorf("Search() returned %d hits, want at most 1", len(hits))
	}
}

func TestSearchNoMatchingTerms(t *testing.T) {
	index := rebuildFixture(t)

	hits, err := index.Search(context.Background(), "col", "zebra quartz", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search() returned %d hits for out-of-vocabulary query", len(hits))
	}
}

func TestSearchUnknownCollection(t *testing.T) {
	index := memory.NewIndex()

	if _, err := index.Search(context.Background(), "missing", "query", 10); err == nil {
		t.Error("Search() on unknown collection did not fail")
	}
}

func TestRebuildReplacesCollection(t *testing.T) {
	index := rebuildFixture(t)

	err := index.Rebuild(context.Background(), "col", []keyword.Document{
		{Key: "only", Text: "entirely new corpus about networking sockets"},
	})
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	hits, err := index.Search(context.Background(), "col", "scheduler", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("old corpus still searchable after rebuild: %v", hits)
	}
}

func TestDrop(t *testing.T) {
	index := rebuildFixture(t)

	if err := index.Drop(context.Background(), "col"); err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if _, err := index.Search(context.Background(), "col", "scheduler", 10); err == nil {
		t.Error("Search() succeeded on dropped collection")
	}
}

func TestRebuildEmptyCorpus(t *testing.T) {
	index := memory.NewIndex()

	if err := index.Rebuild(context.Background(), "col", nil); err == nil {
		t.Error("Rebuild() with no documents did not fail")
	}
}
