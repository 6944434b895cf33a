// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"book-companion-be/internal/dto"
	"book-companion-be/internal/entity"
	"book-companion-be/internal/pkg/logger"
	"book-companion-be/internal/repository/unitofwork"
	"book-companion-be/pkg/embedding"
	"book-companion-be/pkg/events"
	pktNats "book-companion-be/pkg/nats"
	"book-companion-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
	chunkTokens       int
	embedBatchSize    int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	chunkTokens int,
	embedBatchSize int,
) IConsumerService {
	if chunkTokens <= 0 {
		chunkTokens = 800
	}
	if embedBatchSize <= 0 {
		embedBatchSize = 32
	}
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		logger:            log,
		chunkTokens:       chunkTokens,
		embedBatchSize:    embedBatchSize,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestBookMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal ingest message", map[string]interface{}{"error": err})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", "Processing book ingest", map[string]interface{}{"book_id": payload.BookId, "chapters": len(payload.Chapters)})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chunks, chapters := cs.buildChunks(payload)
	cs.logger.Info("ConsumerService", "Book split into chunks", map[string]interface{}{"book_id": payload.BookId, "chunks": len(chunks)})

	if err := cs.embedChunks(ctx, chunks); err != nil {
		cs.logger.Error("ConsumerService", "Embedding failed", map[string]interface{}{"book_id": payload.BookId, "error": err})
		cs.markFailed(ctx, uow, payload.BookId, err)
		msg.Ack() // the book is marked failed; re-ingest retries, not redelivery
		return
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("ConsumerService", "Failed to begin transaction", map[string]interface{}{"error": err})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ChapterRepository().CreateBulk(ctx, chapters); err != nil {
		cs.logger.Error("ConsumerService", "Failed to create chapters", map[string]interface{}{"book_id": payload.BookId, "error": err})
		msg.Nack()
		return
	}

	if err := uow.ChunkRepository().CreateBulk(ctx, chunks); err != nil {
		cs.logger.Error("ConsumerService", "Failed to create chunks", map[string]interface{}{"book_id": payload.BookId, "error": err})
		msg.Nack()
		return
	}

	// The ready flip makes the book visible to retrieval. Nothing is
	// queryable until this commits.
	if err := uow.BookRepository().UpdateEmbeddingStatus(ctx, payload.BookId, entity.EmbeddingStatusReady, len(chunks)); err != nil {
		cs.logger.Error("ConsumerService", "Failed to mark book ready", map[string]interface{}{"book_id": payload.BookId, "error": err})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("ConsumerService", "Failed to commit transaction", map[string]interface{}{"error": err})
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		if err := cs.eventPublisher.Publish(ctx, events.NewBookIngested(payload.BookId, len(chunks))); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to publish BOOK_INGESTED event", map[string]interface{}{"error": err})
		}
	}

	cs.logger.Info("ConsumerService", "Book processed", map[string]interface{}{"book_id": payload.BookId, "chunks": len(chunks)})
	msg.Ack()
}

// buildChunks splits every chapter into passages. Position indices run
// globally through the book so (chapter_index, position_index) orders
// the whole text.
func (cs *consumerService) buildChunks(payload dto.PublishIngestBookMessage) ([]*entity.Chunk, []*entity.Chapter) {
	var chunks []*entity.Chunk
	var chapters []*entity.Chapter

	position := 0
	for chapterIndex, ch := range payload.Chapters {
		pieces := utils.SplitParagraphs(ch.Text, cs.chunkTokens)

		start := position
		for _, piece := range pieces {
			chunks = append(chunks, &entity.Chunk{
				Id:            uuid.New(),
				BookId:        payload.BookId,
				ChapterIndex:  chapterIndex,
				ChapterTitle:  ch.Title,
				PositionIndex: position,
				Text:          piece,
				Location: entity.SourceLocation{
					SpineHref:  ch.SpineHref,
					AnchorText: anchorText(piece),
				},
				CreatedAt: time.Now(),
			})
			position++
		}

		// An empty chapter gets the inverted range (start, start-1) so
		// it never claims the next chapter's first chunk position.
		end := position - 1
		chapters = append(chapters, &entity.Chapter{
			Id:            uuid.New(),
			BookId:        payload.BookId,
			ChapterIndex:  chapterIndex,
			Title:         ch.Title,
			SpineHref:     ch.SpineHref,
			StartPosition: start,
			EndPosition:   end,
		})
	}

	return chunks, chapters
}

func (cs *consumerService) embedChunks(ctx context.Context, chunks []*entity.Chunk) error {
	for offset := 0; offset < len(chunks); offset += cs.embedBatchSize {
		end := offset + cs.embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[offset:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		responses, err := cs.embeddingProvider.GenerateBatch(ctx, texts, embedding.TaskRetrievalDocument)
		if err != nil {
			return err
		}
		for i, res := range responses {
			batch[i].EmbeddingValue = res.Values
		}
	}
	return nil
}

func (cs *consumerService) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, bookId uuid.UUID, cause error) {
	if err := uow.BookRepository().UpdateEmbeddingStatus(ctx, bookId, entity.EmbeddingStatusFailed, 0); err != nil {
		cs.logger.Error("ConsumerService", "Failed to mark book failed", map[string]interface{}{"book_id": bookId, "error": err})
	}
	if cs.eventPublisher != nil {
		if err := cs.eventPublisher.Publish(ctx, events.NewBookIngestFailed(bookId, cause.Error())); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to publish BOOK_INGEST_FAILED event", map[string]interface{}{"error": err})
		}
	}
}

// anchorText takes the opening words of a passage as the locator the
// reader UI scrolls to.
func anchorText(text string) string {
	text = strings.TrimSpace(text)
	words := strings.Fields(text)
	if len(words) > 8 {
		words = words[:8]
	}
	anchor := strings.Join(words, " ")
	if len(anchor) > 120 {
		anchor = anchor[:120]
	}
	return anchor
}
