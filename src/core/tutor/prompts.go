package tutor

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const TutorSystemMessage = `You are an expert tutor who must answer questions using ONLY the information provided in the context excerpts from the book. Do not use any external knowledge or make assumptions beyond what is explicitly stated in the context.`

const TutorPromptTmpl = `Answer the question using only the context excerpts below.

Instructions:
1. If the context does not contain sufficient information to answer the question completely and accurately, respond with: "{{.InsufficientReply}}"
2. Your answer must be comprehensive, well-structured, and directly supported by the context.
3. For every key point in your answer, include an inline citation using this exact format: [Chapter: X | Section: Y | Page: Z]
4. If multiple sources support the same point, include all relevant citations.
5. Ensure your response is educational and helpful, maintaining a professional tutoring tone.

Context excerpts from the book (with metadata tags):
{{.Context}}

Question: {{.Question}}

Answer:`

// InsufficientEvidenceReply is the exact refusal the model is instructed
// to return when the retrieved excerpts cannot support an answer.
const InsufficientEvidenceReply = "Insufficient evidence in the provided book excerpts."

// PromptData holds the data needed for prompt template execution
type PromptData struct {
	Context           string
	Question          string
	InsufficientReply string
}

// BuildPrompt executes the tutor prompt template with the given data
func BuildPrompt(data PromptData) (string, error) {
	if data.InsufficientReply == "" {
		data.InsufficientReply = InsufficientEvidenceReply
	}

	tmpl, err := template.New("tutor_prompt").Parse(TutorPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}

// CitationTag renders the metadata tag prefixed to a context excerpt
func CitationTag(chunk Chunk) string {
	return fmt.Sprintf("[Chapter: %s | Section: %s | Page: %d]",
		chunk.Chapter, chunk.Section, chunk.Page)
}

// FormatContext renders retrieved chunks as the context block of the
// prompt, one tagged excerpt per paragraph
func FormatContext(results []SearchResult) string {
	formatted := make([]string, 0, len(results))
	for _, result := range results {
		formatted = append(formatted, fmt.Sprintf("%s %s", CitationTag(result.Chunk), result.Chunk.Content))
	}
	return strings.Join(formatted, "\n\n")
}
