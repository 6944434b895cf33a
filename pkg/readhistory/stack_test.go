package readhistory

import (
	"fmt"
	"testing"

	"book-companion-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turn(question string) *entity.Conversation {
	return &entity.Conversation{Id: uuid.New(), Question: question}
}

func TestPushSetsCursorToEnd(t *testing.T) {
	s := NewStack(5)
	assert.Equal(t, -1, s.Cursor())
	assert.Nil(t, s.Current())

	s.Push(turn("a"))
	s.Push(turn("b"))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, "b", s.Current().Question)
}

func TestPushEvictsOldestPastCap(t *testing.T) {
	s := NewStack(3)
	for i := 0; i < 7; i++ {
		s.Push(turn(fmt.Sprintf("q%d", i)))
	}

	require.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Cursor())

	turns := s.Turns()
	assert.Equal(t, "q4", turns[0].Question)
	assert.Equal(t, "q5", turns[1].Question)
	assert.Equal(t, "q6", turns[2].Question)
}

func TestPushAfterBackTruncatesForwardBranch(t *testing.T) {
	s := NewStack(10)
	s.Push(turn("A"))
	s.Push(turn("B"))
	s.Push(turn("C"))

	_, err := s.Back()
	require.NoError(t, err)
	_, err = s.Back()
	require.NoError(t, err)

	s.Push(turn("D"))

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "A", turns[0].Question)
	assert.Equal(t, "D", turns[1].Question)
	assert.Equal(t, 1, s.Cursor())
}

func TestBackForwardBounds(t *testing.T) {
	s := NewStack(10)

	_, err := s.Back()
	assert.ErrorIs(t, err, ErrNavigationUnavailable)
	_, err = s.Forward()
	assert.ErrorIs(t, err, ErrNavigationUnavailable)

	s.Push(turn("a"))
	_, err = s.Back()
	assert.ErrorIs(t, err, ErrNavigationUnavailable, "single turn has nothing earlier")
	_, err = s.Forward()
	assert.ErrorIs(t, err, ErrNavigationUnavailable)

	s.Push(turn("b"))
	prev, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, "a", prev.Question)

	next, err := s.Forward()
	require.NoError(t, err)
	assert.Equal(t, "b", next.Question)
}

func TestHydrateKeepsMostRecentCap(t *testing.T) {
	s := NewStack(3)
	var turns []*entity.Conversation
	for i := 0; i < 5; i++ {
		turns = append(turns, turn(fmt.Sprintf("q%d", i)))
	}

	s.Hydrate(turns)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, "q2", s.Turns()[0].Question)
	assert.Equal(t, 2, s.Cursor())
	assert.Equal(t, "q4", s.Current().Question)
}

func TestReturnStackPushPop(t *testing.T) {
	s := NewReturnStack(3)

	_, ok := s.PopReturn()
	assert.False(t, ok)

	s.PushJump(entity.ReadingPosition{ChapterIndex: 0, PositionIndex: 1})
	s.PushJump(entity.ReadingPosition{ChapterIndex: 0, PositionIndex: 2})

	pos, ok := s.PopReturn()
	require.True(t, ok)
	assert.Equal(t, 2, pos.PositionIndex)

	pos, ok = s.PopReturn()
	require.True(t, ok)
	assert.Equal(t, 1, pos.PositionIndex)

	_, ok = s.PopReturn()
	assert.False(t, ok)
}

func TestReturnStackEvictsOldest(t *testing.T) {
	s := NewReturnStack(2)
	s.PushJump(entity.ReadingPosition{PositionIndex: 1})
	s.PushJump(entity.ReadingPosition{PositionIndex: 2})
	s.PushJump(entity.ReadingPosition{PositionIndex: 3})

	require.Equal(t, 2, s.Len())
	pos, _ := s.PopReturn()
	assert.Equal(t, 3, pos.PositionIndex)
	pos, _ = s.PopReturn()
	assert.Equal(t, 2, pos.PositionIndex)
}
