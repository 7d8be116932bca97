package tutor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"booktutor/src/core/tutor"
)

func TestAsk(t *testing.T) {
	search := &fakeSearch{results: []tutor.SearchResult{
		{Chunk: tutor.Chunk{Key: "a", Content: "Interrupts preempt tasks.", Chapter: "Chapter 1", Section: "1.1", Page: 3}, Score: 0.9},
		{Chunk: tutor.Chunk{Key: "b", Content: "Handlers run masked.", Chapter: "Chapter 1", Section: "1.2", Page: 5}, Score: 0.8},
		{Chunk: tutor.Chunk{Key: "c", Content: "More on handlers.", Chapter: "Chapter 1", Section: "1.2", Page: 5}, Score: 0.7},
	}}
	llm := &fakeLLM{response: "Interrupts preempt the running task [Chapter: Chapter 1 | Section: 1.1 | Page: 3]."}

	answer := tutor.NewAnswerService(search, llm, 5)

	got, err := answer.Ask(context.Background(), 1, "What do interrupts do?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if got.Text != llm.response {
		t.Errorf("answer text = %q, want the generated response", got.Text)
	}
	if len(got.Sources) != 3 {
		t.Errorf("answer carries %d sources, want 3", len(got.Sources))
	}

	// Duplicate chapter/section/page locations collapse into one citation
	wantCitations := []tutor.Citation{
		{Chapter: "Chapter 1", Section: "1.1", Page: 3},
		{Chapter: "Chapter 1", Section: "1.2", Page: 5},
	}
	if len(got.Citations) != len(wantCitations) {
		t.Fatalf("answer carries %d citations, want %d", len(got.Citations), len(wantCitations))
	}
	for i, citation := range got.Citations {
		if citation != wantCitations[i] {
			t.Errorf("citation %d = %+v, want %+v", i, citation, wantCitations[i])
		}
	}

	if llm.lastSystem != tutor.TutorSystemMessage {
		t.Errorf("system message = %q, want the tutor system message", llm.lastSystem)
	}
	for _, fragment := range []string{
		"Interrupts preempt tasks.",
		"Question: What do interrupts do?",
	} {
		if !strings.Contains(llm.lastPrompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestAskWithoutEvidence(t *testing.T) {
	search := &fakeSearch{results: nil}
	llm := &fakeLLM{response: "should not be called"}

	answer := tutor.NewAnswerService(search, llm, 5)

	got, err := answer.Ask(context.Background(), 1, "Anything?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got.Text != tutor.InsufficientEvidenceReply {
		t.Errorf("answer text = %q, want the insufficient evidence reply", got.Text)
	}
	if len(got.Citations) != 0 {
		t.Errorf("answer without evidence carries %d citations", len(got.Citations))
	}
	if llm.lastPrompt != "" {
		t.Errorf("generation was invoked with no evidence")
	}
}

func TestAskErrors(t *testing.T) {
	t.Run("blank question", func(t *testing.T) {
		answer := tutor.NewAnswerService(&fakeSearch{}, &fakeLLM{}, 5)
		_, err := answer.Ask(context.Background(), 1, "  \n ")
		if !errors.Is(err, tutor.ErrInvalidRequest) {
			t.Errorf("Ask() error = %v, want %v", err, tutor.ErrInvalidRequest)
		}
	})

	t.Run("search failure propagates", func(t *testing.T) {
		answer := tutor.NewAnswerService(&fakeSearch{err: tutor.ErrBookNotFound}, &fakeLLM{}, 5)
		_, err := answer.Ask(context.Background(), 1, "question")
		if !errors.Is(err, tutor.ErrBookNotFound) {
			t.Errorf("Ask() error = %v, want %v", err, tutor.ErrBookNotFound)
		}
	})

	t.Run("generation failure propagates", func(t *testing.T) {
		genErr := errors.New("model unavailable")
		search := &fakeSearch{results: []tutor.SearchResult{
			{Chunk: tutor.Chunk{Key: "a", Content: "text", Page: 1}},
		}}
		answer := tutor.NewAnswerService(search, &fakeLLM{err: genErr}, 5)
		_, err := answer.Ask(context.Background(), 1, "question")
		if !errors.Is(err, genErr) {
			t.Errorf("Ask() error = %v, want %v", err, genErr)
		}
	})
}
