package service

import (
	"strings"
	"testing"

	"book-companion-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchChunk(text string) *entity.Chunk {
	return &entity.Chunk{
		Id:            uuid.New(),
		ChapterIndex:  2,
		ChapterTitle:  "The Road",
		PositionIndex: 14,
		Text:          text,
		Location:      entity.SourceLocation{SpineHref: "ch03.xhtml", AnchorText: "The road wound"},
	}
}

func TestChunkMatchesFindsEveryOccurrenceCaseInsensitive(t *testing.T) {
	chunk := searchChunk("The Captain spoke. Later the captain slept. CAPTAIN on deck.")

	matches := chunkMatches(chunk, "captain", 10)

	require.Len(t, matches, 3)
	for _, m := range matches {
		assert.Equal(t, chunk.Id, m.ChunkId)
		assert.Equal(t, 2, m.ChapterIndex)
		assert.Equal(t, 14, m.PositionIndex)
		assert.Equal(t, "captain", strings.ToLower(m.MatchText))
		assert.Equal(t, m.MatchText, chunk.Text[m.MatchOffsetStart:m.MatchOffsetEnd])
	}
	assert.Less(t, matches[0].MatchOffsetStart, matches[1].MatchOffsetStart)
	assert.Less(t, matches[1].MatchOffsetStart, matches[2].MatchOffsetStart)
}

func TestChunkMatchesHonorsLimit(t *testing.T) {
	chunk := searchChunk("echo echo echo echo echo")

	matches := chunkMatches(chunk, "echo", 2)

	assert.Len(t, matches, 2)
}

func TestChunkMatchesCollapsesSnippetWhitespace(t *testing.T) {
	chunk := searchChunk("Before the\n\nstorm   hit, the harbor was calm.")

	matches := chunkMatches(chunk, "storm", 5)

	require.Len(t, matches, 1)
	assert.Equal(t, "Before the storm hit, the harbor was calm.", matches[0].Snippet)
	assert.NotContains(t, matches[0].Snippet, "\n")
}

func TestChunkMatchesNoOccurrences(t *testing.T) {
	chunk := searchChunk("Nothing of interest here.")

	assert.Empty(t, chunkMatches(chunk, "dragon", 5))
}
