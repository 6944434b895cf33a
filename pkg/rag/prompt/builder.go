package prompt

import (
	"fmt"
	"strings"

	"book-companion-be/internal/repository/contract"
	"book-companion-be/pkg/citation"
)

// Config encapsulates context assembly parameters
type Config struct {
	// CharBudget caps the total excerpt text injected into the prompt.
	// Chunks never get truncated; the lowest-ranked ones are dropped
	// whole when the budget runs out.
	CharBudget int
}

// DefaultConfig returns default assembly configuration
func DefaultConfig() Config {
	return Config{
		CharBudget: 6000,
	}
}

// ContextualBuilder turns ranked excerpts and the reader's question
// into the model prompt, handing back one citation binding per excerpt
// that made it in.
type ContextualBuilder struct {
	question string
	chunks   []*contract.ScoredChunk // ranked, best first
	config   Config
}

// NewContextualBuilder creates a new contextual prompt builder
func NewContextualBuilder(question string, chunks []*contract.ScoredChunk, config Config) *ContextualBuilder {
	return &ContextualBuilder{
		question: question,
		chunks:   chunks,
		config:   config,
	}
}

// Build assembles the prompt and returns the bindings for the markers
// it handed to the model. Markers run 1..K in rank order, so the model
// can only cite excerpts it was actually shown.
func (b *ContextualBuilder) Build() (string, []citation.Binding) {
	included := b.fitBudget()

	var prompt strings.Builder
	bindings := b.writeReferenceMaterial(&prompt, included)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String(), bindings
}

// fitBudget keeps the best-ranked whole chunks that fit. The top chunk
// always goes in, even when it alone exceeds the budget.
func (b *ContextualBuilder) fitBudget() []*contract.ScoredChunk {
	budget := b.config.CharBudget
	if budget <= 0 {
		budget = DefaultConfig().CharBudget
	}

	var included []*contract.ScoredChunk
	used := 0
	for _, sc := range b.chunks {
		size := len(sc.Chunk.Text)
		if len(included) > 0 && used+size > budget {
			break
		}
		included = append(included, sc)
		used += size
	}
	return included
}

func (b *ContextualBuilder) writeReferenceMaterial(prompt *strings.Builder, included []*contract.ScoredChunk) []citation.Binding {
	if len(included) == 0 {
		return nil
	}

	bindings := make([]citation.Binding, 0, len(included))

	prompt.WriteString("<reference_material>\n")
	for i, sc := range included {
		marker := i + 1
		c := sc.Chunk

		label := fmt.Sprintf("[c:%d] (Chapter %d", marker, c.ChapterIndex+1)
		if c.ChapterTitle != "" {
			label += ": " + c.ChapterTitle
		}
		label += fmt.Sprintf(", Passage %d)", c.PositionIndex+1)

		prompt.WriteString(label)
		prompt.WriteString("\n")
		prompt.WriteString(c.Text)
		prompt.WriteString("\n\n")

		bindings = append(bindings, citation.Binding{
			Marker:        marker,
			ChunkId:       c.Id,
			ChapterIndex:  c.ChapterIndex,
			PositionIndex: c.PositionIndex,
			Location:      c.Location,
			Snippet:       snippet(c.Text, 200),
		})
	}
	prompt.WriteString("</reference_material>\n\n")

	return bindings
}

func (b *ContextualBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a reading companion answering a question about a book the user is partway through.\n")
	prompt.WriteString("The reference material contains only passages the user has already read. Nothing beyond their current position exists for you.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *ContextualBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material provided\n")
	prompt.WriteString("2. Never reveal, foreshadow, or hint at anything not present in the material\n")
	prompt.WriteString("3. Cite the passages you draw on with their markers, e.g. [c:2]\n")
	prompt.WriteString("4. If the material does not contain what is being asked, say so honestly\n")
	prompt.WriteString("5. Be concise and direct; the user is mid-read and wants a reminder, not an essay\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *ContextualBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now answer based only on the reference material:")
}

func snippet(text string, max int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max])
}
