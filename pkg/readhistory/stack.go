package readhistory

import (
	"errors"

	"book-companion-be/internal/entity"
)

// DefaultCap bounds the in-memory navigable view. The durable store
// keeps the full uncapped log; this structure is only a window over it.
const DefaultCap = 40

// ErrNavigationUnavailable is returned when back/forward is requested
// outside the stack's range. Reported to the caller, never fatal.
var ErrNavigationUnavailable = errors.New("history navigation unavailable")

// Stack is a bounded, branch-truncating sequence of Q&A turns with a
// navigation cursor. Cursor is -1 when empty, otherwise a valid index.
type Stack struct {
	cap    int
	turns  []*entity.Conversation
	cursor int
}

func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Stack{cap: capacity, cursor: -1}
}

// Push appends a turn. If the cursor is not at the end, the abandoned
// forward branch is discarded first. Overflow evicts from the oldest end.
func (s *Stack) Push(turn *entity.Conversation) {
	if s.cursor < len(s.turns)-1 {
		s.turns = s.turns[:s.cursor+1]
	}
	s.turns = append(s.turns, turn)
	if len(s.turns) > s.cap {
		over := len(s.turns) - s.cap
		s.turns = append([]*entity.Conversation{}, s.turns[over:]...)
	}
	s.cursor = len(s.turns) - 1
}

// Back moves the cursor one turn earlier and returns it.
func (s *Stack) Back() (*entity.Conversation, error) {
	if s.cursor <= 0 {
		return nil, ErrNavigationUnavailable
	}
	s.cursor--
	return s.turns[s.cursor], nil
}

// Forward moves the cursor one turn later and returns it.
func (s *Stack) Forward() (*entity.Conversation, error) {
	if s.cursor >= len(s.turns)-1 {
		return nil, ErrNavigationUnavailable
	}
	s.cursor++
	return s.turns[s.cursor], nil
}

// Current returns the turn at the cursor, or nil when empty.
func (s *Stack) Current() *entity.Conversation {
	if s.cursor < 0 {
		return nil
	}
	return s.turns[s.cursor]
}

// Hydrate replaces the view with the most recent turns from durable
// storage (oldest first), keeping at most cap, cursor at the end.
func (s *Stack) Hydrate(turns []*entity.Conversation) {
	if len(turns) > s.cap {
		turns = turns[len(turns)-s.cap:]
	}
	s.turns = append([]*entity.Conversation{}, turns...)
	s.cursor = len(s.turns) - 1
}

func (s *Stack) Len() int {
	return len(s.turns)
}

func (s *Stack) Cursor() int {
	return s.cursor
}

// Turns returns the current window, oldest first.
func (s *Stack) Turns() []*entity.Conversation {
	out := make([]*entity.Conversation, len(s.turns))
	copy(out, s.turns)
	return out
}

// ReturnStack saves reading positions when the reader follows a citation
// jump, so the jump can be undone. No branch truncation; plain push/pop.
type ReturnStack struct {
	cap       int
	positions []entity.ReadingPosition
}

func NewReturnStack(capacity int) *ReturnStack {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &ReturnStack{cap: capacity}
}

// PushJump always appends, evicting the oldest entry past the cap.
func (s *ReturnStack) PushJump(pos entity.ReadingPosition) {
	s.positions = append(s.positions, pos)
	if len(s.positions) > s.cap {
		s.positions = append([]entity.ReadingPosition{}, s.positions[1:]...)
	}
}

// PopReturn removes and returns the most recent saved position.
func (s *ReturnStack) PopReturn() (entity.ReadingPosition, bool) {
	if len(s.positions) == 0 {
		return entity.ReadingPosition{}, false
	}
	pos := s.positions[len(s.positions)-1]
	s.positions = s.positions[:len(s.positions)-1]
	return pos, true
}

func (s *ReturnStack) Len() int {
	return len(s.positions)
}
