package answer

import (
	"context"
	"fmt"

	"book-companion-be/pkg/llm"
	"book-companion-be/pkg/rag"
)

// Event is one frame of an answer stream. Exactly one terminal event
// (Done or Err) arrives per stream, unless the stream is cancelled, in
// which case the channel just closes.
type Event struct {
	Delta string
	Done  bool
	Full  string // accumulated answer, set with Done
	Err   error
}

// Stream is a running answer generation. Consume Events until it
// closes; Cancel aborts generation.
type Stream struct {
	Events <-chan Event
	cancel context.CancelFunc
}

func (s *Stream) Cancel() {
	s.cancel()
}

// Streamer runs the LLM and fans its token callbacks into a channel
// the transport layer can drain.
type Streamer struct {
	provider llm.LLMProvider
}

func NewStreamer(provider llm.LLMProvider) *Streamer {
	return &Streamer{provider: provider}
}

func (s *Streamer) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan Event, 16)

	go func() {
		defer close(events)

		full, err := s.provider.ChatStream(ctx, history, func(delta string) {
			select {
			case events <- Event{Delta: delta}:
			case <-ctx.Done():
			}
		}, opts...)

		if err != nil {
			// A cancelled stream ends silently; partial output is the
			// consumer's to discard.
			if ctx.Err() != nil {
				return
			}
			select {
			case events <- Event{Err: fmt.Errorf("%w: %v", rag.ErrAnswerGenerationFailed, err)}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case events <- Event{Done: true, Full: full}:
		case <-ctx.Done():
		}
	}()

	return &Stream{Events: events, cancel: cancel}
}
