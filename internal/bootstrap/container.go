package bootstrap

import (
	"context"
	"log"
	"time"

	"fiberops-assistant-be/internal/config"
	"fiberops-assistant-be/internal/controller"
	"fiberops-assistant-be/internal/handler"
	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/pkg/mailer"
	"fiberops-assistant-be/internal/pkg/serverutils"
	"fiberops-assistant-be/internal/repository/cache"
	"fiberops-assistant-be/internal/repository/contract"
	"fiberops-assistant-be/internal/repository/memory"
	"fiberops-assistant-be/internal/service"
	"fiberops-assistant-be/internal/websocket"
	"fiberops-assistant-be/pkg/llm/factory"
	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"
	"fiberops-assistant-be/pkg/prompt"
	"fiberops-assistant-be/pkg/sheets"

	pktNats "fiberops-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ProjectController   controller.IProjectController
	DataController      controller.IDataController
	AssistantController controller.IAssistantController
	DataStatusHandler   *handler.DataStatusHandler

	// Background Services (Exposed for main.go to run)
	Store           *projectdata.Store
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub
	Mirror          contract.SnapshotMirrorRepository

	Logger logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 1. Project data core
	projectRules := project.DefaultRules()
	if cfg.Sheets.RulesPath != "" {
		rules, err := project.LoadRules(cfg.Sheets.RulesPath)
		if err != nil {
			log.Fatalf("[FATAL] Failed to load roster rules: %v", err)
		}
		projectRules = rules
	}
	fetcher := sheets.NewFetcher(cfg.Sheets.FetchTimeout)
	fetcher.LocateGrace = cfg.Sheets.LocateGrace
	store := projectdata.NewStore(
		fetcher,
		projectdata.Sources{
			ProjectURL:    cfg.Sheets.ProjectURL,
			LocateURL:     cfg.Sheets.LocateURL,
			ProjectFormat: sheets.Format(cfg.Sheets.ProjectFormat),
			LocateFormat:  sheets.Format(cfg.Sheets.LocateFormat),
		},
		locate.NewIndexer(locate.DefaultRules(), sysLogger),
		project.NewAggregator(projectRules, sysLogger),
		sysLogger,
	)
	c.Store = store

	// 2. Infrastructure
	// Redis
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb = redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, running without mirror and cluster relay: %v", err)
		rdb.Close()
		rdb = nil
	}
	cancel()
	if rdb != nil {
		c.Mirror = cache.NewSnapshotMirror(rdb, cache.DefaultSnapshotKey, cfg.Sheets.MirrorTTL)
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		c.closers = append(c.closers, natsPub.Close)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WSLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	publisherService := service.NewPublisherService(cfg.Sheets.RefreshTopic, pubSub)
	store.OnRefresh(func(o projectdata.Outcome) {
		if err := publisherService.PublishRefresh(context.Background(), o); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to publish refresh outcome", map[string]interface{}{"error": err.Error()})
		}
	})

	deps := service.ConsumerDeps{
		Source:      store,
		Mirror:      c.Mirror,
		Broadcaster: c.WebSocketHub,
		Mailer: mailer.NewAlertMailer(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.SMTP.AlertTo,
		),
		Logger: sysLogger,
	}
	if natsPub != nil {
		deps.Events = natsPub
	}
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Sheets.RefreshTopic, deps)

	// 4. Assistant
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	knowledgeBase, err := prompt.LoadKnowledgeBase(cfg.Ai.KnowledgeBasePath)
	if err != nil {
		log.Printf("[WARN] %v", err)
	}

	sessionRepo := memory.NewSessionRepository(cfg.Ai.SessionTTL)

	projectService := service.NewProjectService(store)
	assistantService := service.NewAssistantService(
		store,
		llmProvider,
		sessionRepo,
		knowledgeBase,
		cfg.Ai.SessionTTL,
		sysLogger,
	)

	// 5. Controllers
	c.ProjectController = controller.NewProjectController(projectService)
	c.DataController = controller.NewDataController(projectService, serverutils.NewJwtMiddleware(cfg.App.JWTSecret))
	c.AssistantController = controller.NewAssistantController(assistantService)
	c.DataStatusHandler = handler.NewDataStatusHandler(projectService, c.WebSocketHub, wsLogger)

	return c
}

// Start launches the hub, the refresh consumer and the refresh loop. They stop when ctx is done.
func (c *Container) Start(ctx context.Context, interval time.Duration) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	WarmStart(ctx, c.Store, c.Mirror, c.Logger)
	go c.Store.Loop(ctx, interval)
	return nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
