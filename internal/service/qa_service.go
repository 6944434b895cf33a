package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"book-companion-be/internal/constant"
	"book-companion-be/internal/dto"
	"book-companion-be/internal/entity"
	"book-companion-be/internal/pkg/logger"
	"book-companion-be/internal/repository/memory"
	"book-companion-be/internal/repository/specification"
	"book-companion-be/internal/repository/unitofwork"
	"book-companion-be/pkg/citation"
	"book-companion-be/pkg/events"
	"book-companion-be/pkg/llm"
	pktNats "book-companion-be/pkg/nats"
	"book-companion-be/pkg/rag"
	"book-companion-be/pkg/rag/answer"
	"book-companion-be/pkg/rag/prompt"
	"book-companion-be/pkg/rag/retrieve"
	"book-companion-be/pkg/readhistory"
	"book-companion-be/pkg/store"

	"github.com/google/uuid"
)

// historyTurnsInPrompt bounds how many past turns ride along as chat
// context. The full window stays navigable; the model only needs the
// recent thread.
const historyTurnsInPrompt = 6

// askTimeout bounds one whole answer turn, retrieval included. A stream
// that hits it ends with an error frame, deltas already sent stand.
const askTimeout = 2 * time.Minute

type IQAService interface {
	// Ask runs one answer turn and feeds frames to emit in order. Once
	// the first frame is emitted, failures travel in-band as an error
	// frame rather than through the returned error.
	Ask(ctx context.Context, req *dto.AskRequest, emit func(dto.AskEvent) error) error
	History(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.HistoryResponse, error)
	Back(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.NavigateResponse, error)
	Forward(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.NavigateResponse, error)
	Jump(ctx context.Context, req *dto.JumpRequest) (*dto.JumpResponse, error)
	Return(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.ReturnResponse, error)
	// Conversations pages through the full durable turn log.
	Conversations(ctx context.Context, bookId, sessionId uuid.UUID, limit, offset int) (*dto.ConversationsResponse, error)
}

type qaService struct {
	uowFactory      unitofwork.RepositoryFactory
	sessionRepo     *memory.SessionRepository
	positionService IPositionService
	retriever       *retrieve.Retriever
	streamer        *answer.Streamer
	eventPublisher  *pktNats.Publisher
	logger          logger.ILogger
	defaultModel    string
}

func NewQAService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	positionService IPositionService,
	retriever *retrieve.Retriever,
	streamer *answer.Streamer,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	defaultModel string,
) IQAService {
	return &qaService{
		uowFactory:      uowFactory,
		sessionRepo:     sessionRepo,
		positionService: positionService,
		retriever:       retriever,
		streamer:        streamer,
		eventPublisher:  eventPublisher,
		logger:          log,
		defaultModel:    defaultModel,
	}
}

func (s *qaService) Ask(ctx context.Context, req *dto.AskRequest, emit func(dto.AskEvent) error) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: req.BookId})
	if err != nil {
		return err
	}
	if book == nil {
		return fmt.Errorf("book %s: %w", req.BookId, ErrNotFound)
	}
	if book.EmbeddingStatus != entity.EmbeddingStatusReady {
		return fmt.Errorf("book %s is %s: %w", req.BookId, book.EmbeddingStatus, ErrBookNotReady)
	}

	session, err := s.loadSession(ctx, req.BookId, req.SessionId)
	if err != nil {
		return err
	}

	model := s.chooseModel(ctx, uow, req.Model)

	position, err := s.positionService.Current(ctx, req.BookId)
	if err != nil {
		return err
	}

	// A new question preempts any stream still running on this session.
	streamCtx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()
	streamToken := session.ReplaceStream(cancel)
	defer session.FinishStream(streamToken)

	retrieveConfig, promptConfig := s.tuning(ctx, uow)

	chunks, err := s.retriever.Retrieve(streamCtx, req.BookId, position, req.Question, retrieveConfig)
	if err != nil && !errors.Is(err, rag.ErrNoContentReadYet) {
		return err
	}

	if len(chunks) == 0 {
		// Nothing admissible. Answer with the canned reply and still
		// record the turn so the thread stays coherent.
		return s.finishTurn(ctx, session, turnRecord{
			req:      req,
			model:    model,
			position: position,
			answer:   constant.NoContentAnswer,
		}, emit, true)
	}

	builder := prompt.NewContextualBuilder(req.Question, chunks, promptConfig)
	promptText, bindings := builder.Build()

	messages := s.buildMessages(session, promptText)

	stream := s.streamer.Stream(streamCtx, messages, llm.WithModel(model))
	for event := range stream.Events {
		switch {
		case event.Err != nil:
			_ = emit(dto.AskEvent{Type: dto.AskEventError, Message: "answer generation failed"})
			return nil

		case event.Done:
			resolved := citation.Resolve(event.Full, bindings)
			return s.finishTurn(ctx, session, turnRecord{
				req:       req,
				model:     model,
				position:  position,
				answer:    resolved.Text,
				citations: resolved.Citations,
			}, emit, false)

		default:
			if err := emit(dto.AskEvent{Type: dto.AskEventDelta, Delta: event.Delta}); err != nil {
				// Client went away; stop generating.
				stream.Cancel()
				for range stream.Events {
				}
				return nil
			}
		}
	}

	// Channel closed without a terminal event: cancelled by a newer
	// question, or the turn timed out. Nothing to persist either way,
	// but a timeout deserves an explicit frame.
	if errors.Is(streamCtx.Err(), context.DeadlineExceeded) {
		_ = emit(dto.AskEvent{Type: dto.AskEventError, Message: "answer generation timed out"})
	}
	return nil
}

// tuning reads the stored retrieval knobs, falling back to defaults.
func (s *qaService) tuning(ctx context.Context, uow unitofwork.UnitOfWork) (retrieve.Config, prompt.Config) {
	retrieveConfig := retrieve.DefaultConfig()
	promptConfig := prompt.DefaultConfig()

	if value, ok, err := uow.SettingRepository().Get(ctx, constant.SettingKeyTopK); err == nil && ok {
		if n, convErr := strconv.Atoi(value); convErr == nil && n > 0 {
			retrieveConfig.TopK = n
		}
	}
	if value, ok, err := uow.SettingRepository().Get(ctx, constant.SettingKeyContextBudget); err == nil && ok {
		if n, convErr := strconv.Atoi(value); convErr == nil && n > 0 {
			promptConfig.CharBudget = n
		}
	}
	return retrieveConfig, promptConfig
}

type turnRecord struct {
	req       *dto.AskRequest
	model     string
	position  *entity.ReadingPosition
	answer    string
	citations []citation.Resolved
}

// finishTurn persists the completed turn, pushes it onto the session's
// navigable window, and emits the terminal frame. When canned is true
// the answer never streamed, so the text goes out as one delta first.
func (s *qaService) finishTurn(ctx context.Context, session *store.ReaderSession, record turnRecord, emit func(dto.AskEvent) error, canned bool) error {
	turn := &entity.Conversation{
		Id:        uuid.New(),
		BookId:    record.req.BookId,
		SessionId: record.req.SessionId,
		Question:  record.req.Question,
		Answer:    record.answer,
		Model:     record.model,
		CreatedAt: time.Now(),
	}
	if record.position != nil {
		turn.AskChapterIndex = record.position.ChapterIndex
		turn.AskPositionIndex = record.position.PositionIndex
	}

	turn.Citations = make([]entity.ConversationCitation, len(record.citations))
	for i, c := range record.citations {
		turn.Citations[i] = entity.ConversationCitation{
			Id:             uuid.New(),
			ConversationId: turn.Id,
			ChunkId:        c.ChunkId,
			DisplayIndex:   c.DisplayIndex,
			ChapterIndex:   c.ChapterIndex,
			PositionIndex:  c.PositionIndex,
			Location:       c.Location,
			Snippet:        c.Snippet,
			CreatedAt:      turn.CreatedAt,
		}
	}

	if err := s.persistTurn(ctx, turn); err != nil {
		if canned {
			return err
		}
		// The reader already has the streamed answer; losing the
		// durable copy downgrades to an in-band error.
		s.logger.Error("QAService", "Failed to persist turn", map[string]interface{}{"book_id": record.req.BookId, "error": err})
		_ = emit(dto.AskEvent{Type: dto.AskEventError, Message: "failed to save this turn"})
		return nil
	}

	session.Navigate(func(history *readhistory.Stack, _ *readhistory.ReturnStack) error {
		history.Push(turn)
		return nil
	})

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewTurnCompleted(turn.BookId, turn.Id, len(turn.Citations))); err != nil {
			s.logger.Warn("QAService", "Failed to publish TURN_COMPLETED event", map[string]interface{}{"error": err})
		}
	}

	if canned {
		if err := emit(dto.AskEvent{Type: dto.AskEventDelta, Delta: turn.Answer}); err != nil {
			return nil
		}
	}

	item := toTurnItem(turn)
	_ = emit(dto.AskEvent{
		Type:           dto.AskEventDone,
		ConversationId: &turn.Id,
		Answer:         turn.Answer,
		Citations:      item.Citations,
	})
	return nil
}

func (s *qaService) persistTurn(ctx context.Context, turn *entity.Conversation) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Create(ctx, turn); err != nil {
		return err
	}
	if len(turn.Citations) > 0 {
		citations := make([]*entity.ConversationCitation, len(turn.Citations))
		for i := range turn.Citations {
			citations[i] = &turn.Citations[i]
		}
		if err := uow.ConversationCitationRepository().CreateBulk(ctx, citations); err != nil {
			return err
		}
	}

	return uow.Commit()
}

// buildMessages assembles the chat transcript: system rules, the recent
// turns of this session, then the full contextual prompt.
func (s *qaService) buildMessages(session *store.ReaderSession, promptText string) []llm.Message {
	messages := []llm.Message{{Role: constant.ChatMessageRoleSystem, Content: constant.CompanionSystemPrompt}}

	session.Navigate(func(history *readhistory.Stack, _ *readhistory.ReturnStack) error {
		turns := history.Turns()
		if len(turns) > historyTurnsInPrompt {
			turns = turns[len(turns)-historyTurnsInPrompt:]
		}
		for _, turn := range turns {
			messages = append(messages,
				llm.Message{Role: constant.ChatMessageRoleUser, Content: turn.Question},
				llm.Message{Role: constant.ChatMessageRoleAssistant, Content: turn.Answer},
			)
		}
		return nil
	})

	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: promptText})
	return messages
}

// chooseModel resolves the model for this turn: the request override if
// allowed, else the stored setting, else the configured default.
func (s *qaService) chooseModel(ctx context.Context, uow unitofwork.UnitOfWork, requested string) string {
	if constant.IsAllowedModel(requested) {
		return requested
	}
	if value, ok, err := uow.SettingRepository().Get(ctx, constant.SettingKeyModel); err == nil && ok && constant.IsAllowedModel(value) {
		return value
	}
	return s.defaultModel
}

// loadSession fetches the in-memory session, seeding its navigable
// window from the durable turn log on first touch.
func (s *qaService) loadSession(ctx context.Context, bookId, sessionId uuid.UUID) (*store.ReaderSession, error) {
	session := s.sessionRepo.GetOrCreate(bookId.String(), sessionId.String())
	if session.Hydrated() {
		return session, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Most recent turns first, then reversed into reading order.
	turns, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByBookID{BookID: bookId},
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.DefaultHistoryCap, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	if len(turns) > 0 {
		ids := make([]uuid.UUID, len(turns))
		for i, turn := range turns {
			ids[i] = turn.Id
		}
		citationsById, err := uow.ConversationCitationRepository().FindByConversationIds(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, turn := range turns {
			for _, c := range citationsById[turn.Id] {
				turn.Citations = append(turn.Citations, *c)
			}
		}
	}

	session.Navigate(func(history *readhistory.Stack, _ *readhistory.ReturnStack) error {
		history.Hydrate(turns)
		return nil
	})
	session.SetHydrated()
	return session, nil
}

func (s *qaService) History(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.HistoryResponse, error) {
	session, err := s.loadSession(ctx, bookId, sessionId)
	if err != nil {
		return nil, err
	}

	res := &dto.HistoryResponse{Turns: []dto.TurnItem{}}
	session.Navigate(func(history *readhistory.Stack, _ *readhistory.ReturnStack) error {
		for _, turn := range history.Turns() {
			res.Turns = append(res.Turns, *toTurnItem(turn))
		}
		res.Cursor = history.Cursor()
		return nil
	})
	return res, nil
}

func (s *qaService) Back(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.NavigateResponse, error) {
	return s.navigate(ctx, bookId, sessionId, func(history *readhistory.Stack) (*entity.Conversation, error) {
		return history.Back()
	})
}

func (s *qaService) Forward(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.NavigateResponse, error) {
	return s.navigate(ctx, bookId, sessionId, func(history *readhistory.Stack) (*entity.Conversation, error) {
		return history.Forward()
	})
}

func (s *qaService) navigate(ctx context.Context, bookId, sessionId uuid.UUID, move func(*readhistory.Stack) (*entity.Conversation, error)) (*dto.NavigateResponse, error) {
	session, err := s.loadSession(ctx, bookId, sessionId)
	if err != nil {
		return nil, err
	}

	res := &dto.NavigateResponse{}
	err = session.Navigate(func(history *readhistory.Stack, _ *readhistory.ReturnStack) error {
		turn, err := move(history)
		if err != nil {
			return err
		}
		res.Turn = toTurnItem(turn)
		res.Cursor = history.Cursor()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Jump resolves the cited passage the reader is following and saves the
// position they are leaving, so Return can undo the jump.
func (s *qaService) Jump(ctx context.Context, req *dto.JumpRequest) (*dto.JumpResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chunk, err := uow.ChunkRepository().FindOne(ctx,
		specification.ByID{ID: req.ChunkId},
		specification.ByBookID{BookID: req.BookId},
	)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, fmt.Errorf("chunk %s in book %s: %w", req.ChunkId, req.BookId, ErrNotFound)
	}

	session, err := s.loadSession(ctx, req.BookId, req.SessionId)
	if err != nil {
		return nil, err
	}

	err = session.Navigate(func(_ *readhistory.Stack, returns *readhistory.ReturnStack) error {
		returns.PushJump(entity.ReadingPosition{
			BookId:        req.BookId,
			ChapterIndex:  req.ChapterIndex,
			PositionIndex: req.PositionIndex,
			UpdatedAt:     time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.JumpResponse{
		ChapterIndex:  chunk.ChapterIndex,
		PositionIndex: chunk.PositionIndex,
		SpineHref:     chunk.Location.SpineHref,
		AnchorText:    chunk.Location.AnchorText,
	}, nil
}

// Conversations pages through the durable turn log in chronological
// order, independent of the in-memory navigable window.
func (s *qaService) Conversations(ctx context.Context, bookId, sessionId uuid.UUID, limit, offset int) (*dto.ConversationsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ConversationRepository().Count(ctx,
		specification.ByBookID{BookID: bookId},
		specification.BySessionID{SessionID: sessionId},
	)
	if err != nil {
		return nil, err
	}

	turns, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByBookID{BookID: bookId},
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	if len(turns) > 0 {
		ids := make([]uuid.UUID, len(turns))
		for i, turn := range turns {
			ids[i] = turn.Id
		}
		citationsById, err := uow.ConversationCitationRepository().FindByConversationIds(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, turn := range turns {
			for _, c := range citationsById[turn.Id] {
				turn.Citations = append(turn.Citations, *c)
			}
		}
	}

	res := &dto.ConversationsResponse{Turns: make([]dto.TurnItem, 0, len(turns)), Total: total}
	for _, turn := range turns {
		res.Turns = append(res.Turns, *toTurnItem(turn))
	}
	return res, nil
}

func (s *qaService) Return(ctx context.Context, bookId, sessionId uuid.UUID) (*dto.ReturnResponse, error) {
	session, err := s.loadSession(ctx, bookId, sessionId)
	if err != nil {
		return nil, err
	}

	res := &dto.ReturnResponse{}
	err = session.Navigate(func(_ *readhistory.Stack, returns *readhistory.ReturnStack) error {
		position, ok := returns.PopReturn()
		if !ok {
			return readhistory.ErrNavigationUnavailable
		}
		res.ChapterIndex = position.ChapterIndex
		res.PositionIndex = position.PositionIndex
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func toTurnItem(turn *entity.Conversation) *dto.TurnItem {
	item := &dto.TurnItem{
		Id:               turn.Id,
		Question:         turn.Question,
		Answer:           turn.Answer,
		Model:            turn.Model,
		AskChapterIndex:  turn.AskChapterIndex,
		AskPositionIndex: turn.AskPositionIndex,
		Citations:        make([]dto.CitationItem, len(turn.Citations)),
		CreatedAt:        turn.CreatedAt,
	}
	for i, c := range turn.Citations {
		item.Citations[i] = dto.CitationItem{
			ChunkId:       c.ChunkId,
			DisplayIndex:  c.DisplayIndex,
			ChapterIndex:  c.ChapterIndex,
			PositionIndex: c.PositionIndex,
			SpineHref:     c.Location.SpineHref,
			AnchorText:    c.Location.AnchorText,
			Snippet:       c.Snippet,
		}
	}
	return item
}
