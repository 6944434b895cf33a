package bootstrap

import (
	"context"
	"log"

	"book-companion-be/internal/config"
	"book-companion-be/internal/controller"
	"book-companion-be/internal/pkg/logger"
	"book-companion-be/internal/repository/implementation"
	"book-companion-be/internal/repository/memory"
	"book-companion-be/internal/repository/unitofwork"
	"book-companion-be/internal/service"
	"book-companion-be/pkg/embedding"
	"book-companion-be/pkg/llm/factory"
	pktNats "book-companion-be/pkg/nats"
	"book-companion-be/pkg/rag/answer"
	"book-companion-be/pkg/rag/retrieve"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	BookController     controller.IBookController
	QAController       controller.IQAController
	PositionController controller.IPositionController
	BookmarkController controller.IBookmarkController
	SettingsController controller.ISettingsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger *logger.ZapLogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory reader sessions
	sessionRepo := memory.NewSessionRepository()

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. RAG pipeline
	retriever := retrieve.NewRetriever(
		embeddingProvider,
		implementation.NewChunkRepository(db),
		log.Default(),
	)
	streamer := answer.NewStreamer(llmProvider)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Ingest.Topic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ingest.Topic,
		uowFactory,
		embeddingProvider,
		natsPub,
		sysLogger,
		cfg.Ingest.ChunkTokens,
		cfg.Ingest.EmbedBatchSize,
	)

	positionService := service.NewPositionService(uowFactory, rdb, sysLogger)
	bookService := service.NewBookService(uowFactory, publisherService, natsPub, sessionRepo, positionService, sysLogger)
	qaService := service.NewQAService(
		uowFactory,
		sessionRepo,
		positionService,
		retriever,
		streamer,
		natsPub,
		sysLogger,
		cfg.Ai.LLMModel,
	)
	settingsService := service.NewSettingsService(uowFactory, cfg.Ai.LLMModel)
	bookmarkService := service.NewBookmarkService(uowFactory)

	return &Container{
		BookController:     controller.NewBookController(bookService),
		QAController:       controller.NewQAController(qaService),
		PositionController: controller.NewPositionController(positionService),
		BookmarkController: controller.NewBookmarkController(bookmarkService),
		SettingsController: controller.NewSettingsController(settingsService),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
