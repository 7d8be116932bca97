package tutor

import (
	"context"
	"strings"

	"booktutor/src/log"
)

type answerService struct {
	search SearchService
	llm    LLMProvider
	topK   int
}

// NewAnswerService creates the question answering service
func NewAnswerService(search SearchService, llm LLMProvider, topK int) AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}

	return &answerService{
		search: search,
		llm:    llm,
		topK:   topK,
	}
}

// Ask retrieves supporting chunks for the question and generates a
// grounded, cited answer from them.
func (s *answerService) Ask(ctx context.Context, bookID int64, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidRequest
	}

	results, err := s.search.Search(ctx, bookID, question, s.topK)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &Answer{Text: InsufficientEvidenceReply}, nil
	}

	prompt, err := BuildPrompt(PromptData{
		Context:  FormatContext(results),
		Question: question,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.llm.Generate(ctx, TutorSystemMessage, prompt)
	if err != nil {
		log.Error(err, "generation failed", "bookId", bookID)
		return nil, err
	}

	return &Answer{
		Text:      text,
		Citations: collectCitations(results),
		Sources:   results,
	}, nil
}

// collectCitations lists the distinct source locations in rank order
func collectCitations(results []SearchResult) []Citation {
	seen := make(map[Citation]struct{}, len(results))
	citations := make([]Citation, 0, len(results))
	for _, result := range results {
		citation := Citation{
			Chapter: result.Chunk.Chapter,
			Section: result.Chunk.Section,
			Page:    result.Chunk.Page,
		}
		if _, ok := seen[citation]; ok {
			continue
		}
		seen[citation] = struct{}{}
		citations = append(citations, citation)
	}

	return citations
}
