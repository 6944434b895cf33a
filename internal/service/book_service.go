package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"book-companion-be/internal/dto"
	"book-companion-be/internal/entity"
	"book-companion-be/internal/pkg/logger"
	"book-companion-be/internal/repository/memory"
	"book-companion-be/internal/repository/specification"
	"book-companion-be/internal/repository/unitofwork"
	"book-companion-be/pkg/events"
	"book-companion-be/pkg/rag"
	pktNats "book-companion-be/pkg/nats"

	"github.com/google/uuid"
)

type IBookService interface {
	Ingest(ctx context.Context, req *dto.IngestBookRequest) (*dto.IngestBookResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowBookResponse, error)
	List(ctx context.Context) ([]*dto.ListBookItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Search finds literal occurrences of a query in the text the
	// reader has already reached.
	Search(ctx context.Context, bookId uuid.UUID, query string, limit int) (*dto.SearchBookResponse, error)
}

type bookService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	sessionRepo      *memory.SessionRepository
	positionService  IPositionService
	logger           logger.ILogger
}

func NewBookService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sessionRepo *memory.SessionRepository,
	positionService IPositionService,
	log logger.ILogger,
) IBookService {
	return &bookService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		sessionRepo:      sessionRepo,
		positionService:  positionService,
		logger:           log,
	}
}

// Ingest records the book as processing and hands the text to the
// embedding worker. The book stays invisible to retrieval until the
// worker flips it ready.
func (s *bookService) Ingest(ctx context.Context, req *dto.IngestBookRequest) (*dto.IngestBookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book := entity.Book{
		Id:              uuid.New(),
		Title:           req.Title,
		Author:          req.Author,
		EmbeddingStatus: entity.EmbeddingStatusProcessing,
		CreatedAt:       time.Now(),
	}

	if err := uow.BookRepository().Create(ctx, &book); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishIngestBookMessage{
		BookId:   book.Id,
		Chapters: req.Chapters,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.IngestBookResponse{
		Id:              book.Id,
		EmbeddingStatus: string(book.EmbeddingStatus),
	}, nil
}

func (s *bookService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowBookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}

	chapters, err := uow.ChapterRepository().FindAll(ctx, specification.ByBookID{BookID: id})
	if err != nil {
		return nil, err
	}

	res := &dto.ShowBookResponse{
		Id:              book.Id,
		Title:           book.Title,
		Author:          book.Author,
		TotalChunks:     book.TotalChunks,
		EmbeddingStatus: string(book.EmbeddingStatus),
		Chapters:        make([]dto.ChapterItem, len(chapters)),
		CreatedAt:       book.CreatedAt,
	}
	for i, ch := range chapters {
		res.Chapters[i] = dto.ChapterItem{
			ChapterIndex:  ch.ChapterIndex,
			Title:         ch.Title,
			SpineHref:     ch.SpineHref,
			StartPosition: ch.StartPosition,
			EndPosition:   ch.EndPosition,
		}
	}
	return res, nil
}

func (s *bookService) List(ctx context.Context) ([]*dto.ListBookItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	books, err := uow.BookRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ListBookItem, len(books))
	for i, b := range books {
		items[i] = &dto.ListBookItem{
			Id:              b.Id,
			Title:           b.Title,
			Author:          b.Author,
			TotalChunks:     b.TotalChunks,
			EmbeddingStatus: string(b.EmbeddingStatus),
			CreatedAt:       b.CreatedAt,
			UpdatedAt:       b.UpdatedAt,
		}
	}
	return items, nil
}

const (
	searchDefaultLimit  = 40
	searchMaxLimit      = 200
	searchSnippetBefore = 120
	searchSnippetAfter  = 180
)

// Search scans the admissible chunk set for literal occurrences of the
// query. The position bound sits in the SQL scan, so text past the
// reader's position never reaches the matcher.
func (s *bookService) Search(ctx context.Context, bookId uuid.UUID, query string, limit int) (*dto.SearchBookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: bookId})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s: %w", bookId, ErrNotFound)
	}

	position, err := s.positionService.Current(ctx, bookId)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, rag.ErrNoContentReadYet
	}

	if limit <= 0 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	// Chunks scanned, not matches returned; a generous multiple keeps
	// short chunks from starving the match limit.
	scanLimit := limit * 6
	if scanLimit < 200 {
		scanLimit = 200
	}
	if scanLimit > 1200 {
		scanLimit = 1200
	}

	chunks, err := uow.ChunkRepository().SearchText(ctx, bookId, query, position.ChapterIndex, position.PositionIndex, scanLimit)
	if err != nil {
		return nil, err
	}

	res := &dto.SearchBookResponse{Query: query, Matches: []dto.SearchMatchItem{}}
	for _, chunk := range chunks {
		res.Matches = append(res.Matches, chunkMatches(chunk, query, limit-len(res.Matches))...)
		if len(res.Matches) >= limit {
			break
		}
	}
	return res, nil
}

// chunkMatches extracts up to limit case-insensitive occurrences of
// query inside one chunk, each with a whitespace-collapsed snippet.
func chunkMatches(chunk *entity.Chunk, query string, limit int) []dto.SearchMatchItem {
	textLower := strings.ToLower(chunk.Text)
	queryLower := strings.ToLower(query)
	if queryLower == "" {
		return nil
	}

	var items []dto.SearchMatchItem
	cursor := 0
	for len(items) < limit {
		idx := strings.Index(textLower[cursor:], queryLower)
		if idx < 0 {
			break
		}
		start := cursor + idx
		end := start + len(queryLower)
		if end > len(chunk.Text) {
			end = len(chunk.Text)
		}

		snippetStart := start - searchSnippetBefore
		if snippetStart < 0 {
			snippetStart = 0
		}
		snippetEnd := end + searchSnippetAfter
		if snippetEnd > len(chunk.Text) {
			snippetEnd = len(chunk.Text)
		}
		snippet := strings.Join(strings.Fields(chunk.Text[snippetStart:snippetEnd]), " ")

		items = append(items, dto.SearchMatchItem{
			ChunkId:          chunk.Id,
			ChapterIndex:     chunk.ChapterIndex,
			ChapterTitle:     chunk.ChapterTitle,
			PositionIndex:    chunk.PositionIndex,
			SpineHref:        chunk.Location.SpineHref,
			AnchorText:       chunk.Location.AnchorText,
			MatchOffsetStart: start,
			MatchOffsetEnd:   end,
			MatchText:        chunk.Text[start:end],
			Snippet:          snippet,
		})

		cursor = end
		if cursor >= len(textLower) {
			break
		}
	}
	return items
}

// Delete removes the book and everything hanging off it: chunks,
// chapters, position, turns, citations, bookmarks, live sessions.
func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if book == nil {
		return fmt.Errorf("book %s: %w", id, ErrNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ConversationCitationRepository().DeleteByBookId(ctx, id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().DeleteByBookId(ctx, id); err != nil {
		return err
	}
	if err := uow.BookmarkRepository().DeleteByBookId(ctx, id); err != nil {
		return err
	}
	if err := uow.PositionRepository().DeleteByBookId(ctx, id); err != nil {
		return err
	}
	if err := uow.ChunkRepository().DeleteByBookId(ctx, id); err != nil {
		return err
	}
	if err := uow.ChapterRepository().DeleteByBookId(ctx, id); err != nil {
		return err
	}
	if err := uow.BookRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.sessionRepo.DeleteByBook(id.String())

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewBookDeleted(id)); err != nil {
			s.logger.Warn("BookService", "Failed to publish BOOK_DELETED event", map[string]interface{}{"error": err})
		}
	}

	return nil
}
