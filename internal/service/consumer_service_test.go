package service

import (
	"testing"

	"book-companion-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChunksGlobalPositionsAndChapterRanges(t *testing.T) {
	cs := &consumerService{chunkTokens: 800}

	payload := dto.PublishIngestBookMessage{
		BookId: uuid.New(),
		Chapters: []dto.IngestChapter{
			{Title: "One", SpineHref: "ch01.xhtml", Text: "First passage of chapter one."},
			{Title: "Two", SpineHref: "ch02.xhtml", Text: "Only passage of chapter two."},
		},
	}

	chunks, chapters := cs.buildChunks(payload)

	require.Len(t, chunks, 2)
	require.Len(t, chapters, 2)

	// Positions run globally through the book.
	assert.Equal(t, 0, chunks[0].PositionIndex)
	assert.Equal(t, 1, chunks[1].PositionIndex)

	assert.Equal(t, 0, chapters[0].StartPosition)
	assert.Equal(t, 0, chapters[0].EndPosition)
	assert.Equal(t, 1, chapters[1].StartPosition)
	assert.Equal(t, 1, chapters[1].EndPosition)
}

func TestBuildChunksEmptyChapterClaimsNoPositions(t *testing.T) {
	cs := &consumerService{chunkTokens: 800}

	payload := dto.PublishIngestBookMessage{
		BookId: uuid.New(),
		Chapters: []dto.IngestChapter{
			{Title: "One", SpineHref: "ch01.xhtml", Text: "A passage."},
			{Title: "Interlude", SpineHref: "ch02.xhtml", Text: ""},
			{Title: "Three", SpineHref: "ch03.xhtml", Text: "Another passage."},
		},
	}

	chunks, chapters := cs.buildChunks(payload)

	require.Len(t, chunks, 2)
	require.Len(t, chapters, 3)

	// The empty chapter records an inverted range instead of claiming
	// the next chapter's first chunk position.
	empty := chapters[1]
	assert.Greater(t, empty.StartPosition, empty.EndPosition)

	next := chapters[2]
	assert.Equal(t, 1, next.StartPosition)
	assert.Equal(t, 1, next.EndPosition)
	assert.Equal(t, 1, chunks[1].PositionIndex)
}
