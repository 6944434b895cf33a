package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParagraphsAccumulatesUntilTarget(t *testing.T) {
	// Each paragraph estimates to 25 tokens (100 chars).
	para := strings.Repeat("x", 100)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	// Target 60 tokens: two paragraphs (50 tokens) fit, a third would
	// push to 75.
	chunks := SplitParagraphs(text, 60)

	require.Len(t, chunks, 2)
	assert.Equal(t, para+"\n\n"+para, chunks[0])
	assert.Equal(t, para+"\n\n"+para, chunks[1])
}

func TestSplitParagraphsKeepsParagraphsWhole(t *testing.T) {
	first := "A letter arrived at dawn."
	second := "The harbor was empty that night, and the captain knew why."

	chunks := SplitParagraphs(first+"\n\n"+second, 800)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], first)
	assert.Contains(t, chunks[0], second)
}

func TestSplitParagraphsOversizedParagraphFallsBack(t *testing.T) {
	huge := strings.Repeat("y", 5000) // ~1250 tokens, no blank lines

	chunks := SplitParagraphs(huge, 800)

	require.Greater(t, len(chunks), 1)
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	// Overlap means total is at least the input length.
	assert.GreaterOrEqual(t, total, len(huge))
}

func TestSplitParagraphsSkipsBlankParagraphs(t *testing.T) {
	chunks := SplitParagraphs("one\n\n\n\n   \n\ntwo", 800)

	require.Len(t, chunks, 1)
	assert.Equal(t, "one\n\ntwo", chunks[0])
}

func TestSplitParagraphsEmptyInput(t *testing.T) {
	assert.Empty(t, SplitParagraphs("", 800))
	assert.Empty(t, SplitParagraphs("   \n\n  ", 800))
}

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0])
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30) // 300 chars
	chunks := SplitText(text, 100, 20)

	require.Greater(t, len(chunks), 2)
	// Consecutive chunks share the overlap region.
	assert.Equal(t, chunks[0][80:], chunks[1][:20])
}
