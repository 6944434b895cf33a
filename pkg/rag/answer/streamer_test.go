package answer

import (
	"context"
	"errors"
	"testing"
	"time"

	"book-companion-be/pkg/llm"
	"book-companion-be/pkg/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	deltas    []string
	err       error
	blockUntilCancel bool
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.ChatStream(ctx, history, nil, opts...)
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string), opts ...llm.Option) (string, error) {
	var full string
	for _, d := range f.deltas {
		full += d
		if onDelta != nil {
			onDelta(d)
		}
	}
	if f.blockUntilCancel {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return full, nil
}

func collect(t *testing.T, s *Stream) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("stream did not close in time")
		}
	}
}

func TestStreamDeliversDeltasThenDone(t *testing.T) {
	streamer := NewStreamer(&fakeProvider{deltas: []string{"The ", "captain ", "refused."}})

	stream := streamer.Stream(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
	events := collect(t, stream)

	require.Len(t, events, 4)
	assert.Equal(t, "The ", events[0].Delta)
	assert.Equal(t, "captain ", events[1].Delta)
	assert.Equal(t, "refused.", events[2].Delta)

	final := events[3]
	assert.True(t, final.Done)
	assert.Equal(t, "The captain refused.", final.Full)
	assert.NoError(t, final.Err)
}

func TestStreamProviderFailure(t *testing.T) {
	streamer := NewStreamer(&fakeProvider{deltas: []string{"partial "}, err: errors.New("upstream 500")})

	stream := streamer.Stream(context.Background(), nil)
	events := collect(t, stream)

	require.NotEmpty(t, events)
	final := events[len(events)-1]
	assert.False(t, final.Done)
	assert.ErrorIs(t, final.Err, rag.ErrAnswerGenerationFailed)
}

func TestStreamCancelEndsWithoutTerminalEvent(t *testing.T) {
	streamer := NewStreamer(&fakeProvider{deltas: []string{"one", "two"}, blockUntilCancel: true})

	stream := streamer.Stream(context.Background(), nil)

	// Drain the deltas, then cancel mid-generation.
	<-stream.Events
	<-stream.Events
	stream.Cancel()

	events := collect(t, stream)
	for _, ev := range events {
		assert.False(t, ev.Done, "no done event after cancel")
		assert.NoError(t, ev.Err, "no error event after cancel")
	}
}

func TestStreamExactlyOneTerminalEvent(t *testing.T) {
	streamer := NewStreamer(&fakeProvider{deltas: []string{"a", "b"}})

	events := collect(t, streamer.Stream(context.Background(), nil))

	terminal := 0
	for _, ev := range events {
		if ev.Done || ev.Err != nil {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal)
}
