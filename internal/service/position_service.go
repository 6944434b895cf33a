package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"book-companion-be/internal/constant"
	"book-companion-be/internal/dto"
	"book-companion-be/internal/entity"
	"book-companion-be/internal/pkg/logger"
	"book-companion-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type IPositionService interface {
	Update(ctx context.Context, bookId uuid.UUID, req *dto.UpdatePositionRequest) (*dto.PositionResponse, error)
	Get(ctx context.Context, bookId uuid.UUID) (*dto.PositionResponse, error)
	// Current returns the position as an entity, nil when the reader
	// has not started the book. The QA pipeline gates on this.
	Current(ctx context.Context, bookId uuid.UUID) (*entity.ReadingPosition, error)
}

type positionService struct {
	uowFactory unitofwork.RepositoryFactory
	rdb        *redis.Client
	logger     logger.ILogger
	debounce   time.Duration

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
}

func NewPositionService(uowFactory unitofwork.RepositoryFactory, rdb *redis.Client, log logger.ILogger) IPositionService {
	return &positionService{
		uowFactory: uowFactory,
		rdb:        rdb,
		logger:     log,
		debounce:   constant.PositionDebounceSeconds * time.Second,
		timers:     make(map[uuid.UUID]*time.Timer),
	}
}

func redisPositionKey(bookId uuid.UUID) string {
	return constant.PositionRedisKeyPrefix + bookId.String()
}

// Update applies the new position immediately to the Redis hot copy
// and debounces the Postgres write. Scroll storms cost one DB write
// per debounce window, and a crash loses at most that window.
func (s *positionService) Update(ctx context.Context, bookId uuid.UUID, req *dto.UpdatePositionRequest) (*dto.PositionResponse, error) {
	position := &entity.ReadingPosition{
		BookId:         bookId,
		ChapterIndex:   req.ChapterIndex,
		PositionIndex:  req.PositionIndex,
		ChapterPercent: req.ChapterPercent,
		BookPercent:    req.BookPercent,
		UpdatedAt:      time.Now(),
	}

	if s.rdb != nil {
		payload, err := json.Marshal(position)
		if err == nil {
			if err := s.rdb.Set(ctx, redisPositionKey(bookId), payload, time.Hour).Err(); err == nil {
				s.scheduleFlush(bookId)
				return toPositionResponse(position), nil
			}
			s.logger.Warn("PositionService", "Redis position write failed, writing through to DB", map[string]interface{}{"book_id": bookId})
		}
	}

	// No Redis: write straight to the database.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PositionRepository().Upsert(ctx, position); err != nil {
		return nil, err
	}
	return toPositionResponse(position), nil
}

func (s *positionService) scheduleFlush(bookId uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[bookId]; ok {
		timer.Reset(s.debounce)
		return
	}
	s.timers[bookId] = time.AfterFunc(s.debounce, func() {
		s.flush(bookId)
	})
}

func (s *positionService) flush(bookId uuid.UUID) {
	s.mu.Lock()
	delete(s.timers, bookId)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	position, err := s.readRedis(ctx, bookId)
	if err != nil || position == nil {
		if err != nil {
			s.logger.Warn("PositionService", "Position flush read failed", map[string]interface{}{"book_id": bookId, "error": err})
		}
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PositionRepository().Upsert(ctx, position); err != nil {
		s.logger.Error("PositionService", "Position flush write failed", map[string]interface{}{"book_id": bookId, "error": err})
	}
}

func (s *positionService) readRedis(ctx context.Context, bookId uuid.UUID) (*entity.ReadingPosition, error) {
	if s.rdb == nil {
		return nil, nil
	}
	payload, err := s.rdb.Get(ctx, redisPositionKey(bookId)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var position entity.ReadingPosition
	if err := json.Unmarshal(payload, &position); err != nil {
		return nil, err
	}
	return &position, nil
}

func (s *positionService) Current(ctx context.Context, bookId uuid.UUID) (*entity.ReadingPosition, error) {
	// Redis holds the freshest copy; fall back to Postgres.
	if position, err := s.readRedis(ctx, bookId); err == nil && position != nil {
		return position, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PositionRepository().FindByBookId(ctx, bookId)
}

func (s *positionService) Get(ctx context.Context, bookId uuid.UUID) (*dto.PositionResponse, error) {
	position, err := s.Current(ctx, bookId)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, nil
	}
	return toPositionResponse(position), nil
}

func toPositionResponse(p *entity.ReadingPosition) *dto.PositionResponse {
	updatedAt := p.UpdatedAt
	return &dto.PositionResponse{
		ChapterIndex:   p.ChapterIndex,
		PositionIndex:  p.PositionIndex,
		ChapterPercent: p.ChapterPercent,
		BookPercent:    p.BookPercent,
		UpdatedAt:      &updatedAt,
	}
}
