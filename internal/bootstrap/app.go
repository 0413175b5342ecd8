package bootstrap

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"docuchat/internal/api"
	"docuchat/internal/app"
	"docuchat/internal/cache"
	"docuchat/internal/config"
	"docuchat/internal/pkg/logger"
)

// App wires the client engine together: configuration, logging, the API
// client, and the session and ingestion services built on top of it.
type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	Client        *api.Client
	Timeline      *app.Timeline
	Conversations *cache.ConversationCache
	Session       *app.ChatSession
	Ingest        *app.IngestService

	StartedAt time.Time
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	log := logger.New(cfg.Log.File, cfg.Log.Console)

	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.APITimeout(),
	})
	timeline := app.NewTimeline()
	conversations := cache.NewConversationCache(cfg.ConversationsTTL())
	session := app.NewChatSession(client, timeline, conversations, log)
	ingest := app.NewIngestService(client, timeline, cfg.PollInterval(), log)

	return &App{
		Config:        cfg,
		Logger:        log,
		Client:        client,
		Timeline:      timeline,
		Conversations: conversations,
		Session:       session,
		Ingest:        ingest,
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() {
	if a.Ingest != nil {
		a.Ingest.StopAll()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
