package prompt

import (
	"strings"
	"testing"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredChunk(chapter, position int, text string) *contract.ScoredChunk {
	return &contract.ScoredChunk{
		Chunk: &entity.Chunk{
			Id:            uuid.New(),
			BookId:        uuid.New(),
			ChapterIndex:  chapter,
			PositionIndex: position,
			Text:          text,
			Location: entity.SourceLocation{
				SpineHref:  "ch.xhtml",
				AnchorText: text[:min(len(text), 10)],
			},
		},
		Distance: 0.2,
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestBuildAssignsMarkersInRankOrder(t *testing.T) {
	chunks := []*contract.ScoredChunk{
		scoredChunk(2, 6, "The captain refused the offer."),
		scoredChunk(0, 1, "A letter arrived at dawn."),
		scoredChunk(1, 3, "The harbor was empty that night."),
	}

	promptText, bindings := NewContextualBuilder("Who refused the offer?", chunks, DefaultConfig()).Build()

	require.Len(t, bindings, 3)
	for i, b := range bindings {
		assert.Equal(t, i+1, b.Marker)
		assert.Equal(t, chunks[i].Chunk.Id, b.ChunkId)
	}

	assert.Contains(t, promptText, "[c:1] (Chapter 3, Passage 7)")
	assert.Contains(t, promptText, "[c:2] (Chapter 1, Passage 2)")
	assert.Contains(t, promptText, "The captain refused the offer.")
	assert.Contains(t, promptText, "Who refused the offer?")
}

func TestBuildIncludesChapterTitleInLabel(t *testing.T) {
	sc := scoredChunk(4, 0, "Some passage text.")
	sc.Chunk.ChapterTitle = "The Storm"

	promptText, _ := NewContextualBuilder("q", []*contract.ScoredChunk{sc}, DefaultConfig()).Build()

	assert.Contains(t, promptText, "[c:1] (Chapter 5: The Storm, Passage 1)")
}

func TestBuildDropsLowestRankedWhenOverBudget(t *testing.T) {
	chunks := []*contract.ScoredChunk{
		scoredChunk(0, 0, strings.Repeat("a", 100)),
		scoredChunk(0, 1, strings.Repeat("b", 100)),
		scoredChunk(0, 2, strings.Repeat("c", 100)),
	}

	promptText, bindings := NewContextualBuilder("q", chunks, Config{CharBudget: 220}).Build()

	// Third chunk would push usage to 300, so it gets dropped whole.
	require.Len(t, bindings, 2)
	assert.Contains(t, promptText, strings.Repeat("a", 100))
	assert.Contains(t, promptText, strings.Repeat("b", 100))
	assert.NotContains(t, promptText, strings.Repeat("c", 100))
}

func TestBuildAlwaysKeepsTopChunk(t *testing.T) {
	chunks := []*contract.ScoredChunk{
		scoredChunk(0, 0, strings.Repeat("x", 500)),
	}

	_, bindings := NewContextualBuilder("q", chunks, Config{CharBudget: 100}).Build()

	require.Len(t, bindings, 1)
	assert.Equal(t, 1, bindings[0].Marker)
}

func TestBuildWithNoChunks(t *testing.T) {
	promptText, bindings := NewContextualBuilder("anything", nil, DefaultConfig()).Build()

	assert.Empty(t, bindings)
	assert.NotContains(t, promptText, "<reference_material>")
	assert.Contains(t, promptText, "anything")
}

func TestBindingSnippetIsTrimmedAndBounded(t *testing.T) {
	long := "  " + strings.Repeat("word ", 100)
	_, bindings := NewContextualBuilder("q", []*contract.ScoredChunk{scoredChunk(0, 0, long)}, DefaultConfig()).Build()

	require.Len(t, bindings, 1)
	assert.LessOrEqual(t, len([]rune(bindings[0].Snippet)), 200)
	assert.False(t, strings.HasPrefix(bindings[0].Snippet, " "))
}
