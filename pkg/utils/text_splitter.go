package utils

import "strings"

// EstimateTokens approximates the token count of a text. Four
// characters per token is close enough for budget decisions.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// SplitParagraphs chunks chapter text by accumulating whole paragraphs
// until the estimated token target is reached. Paragraph boundaries
// are blank lines. A single paragraph larger than the target falls
// back to character splitting so no text is lost.
func SplitParagraphs(text string, targetTokens int) []string {
	if targetTokens <= 0 {
		targetTokens = 800
	}

	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		tokens := EstimateTokens(p)

		if tokens > targetTokens {
			flush()
			// charSize*4 keeps the fallback pieces near the target.
			for _, piece := range SplitText(p, targetTokens*4, 200) {
				chunks = append(chunks, strings.TrimSpace(piece))
			}
			continue
		}

		if currentTokens+tokens > targetTokens {
			flush()
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
		currentTokens += tokens
	}
	flush()

	return chunks
}

// SplitText splits a long string into chunks of approximately 'chunkSize' characters.
// It includes an 'overlap' to preserve context at boundaries.
// This is a simple character-based splitter. Ideally, use a tokenizer-aware splitter.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
