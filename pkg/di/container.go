// Package di wires the application's dependencies explicitly. There are no
// module-level singletons: everything hangs off the container built at
// startup.
package di

import (
	"ai-agent-platform/backend/internal/ai"
	"ai-agent-platform/backend/internal/repository"
	"ai-agent-platform/backend/internal/service"
	"ai-agent-platform/backend/internal/storage"
	"ai-agent-platform/backend/pkg/config"
	"ai-agent-platform/backend/pkg/logger"

	"github.com/openai/openai-go/option"
	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *logger.Logger

	Store    *storage.Store
	AIClient ai.Client

	AgentService   *service.AgentService
	SessionService *service.SessionService
	VoiceService   *service.VoiceService
}

// New creates a new dependency injection container. The AI client may be
// passed in (tests inject fakes); when nil, an OpenAI-backed client is
// constructed from configuration.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger, aiClient ai.Client) (*Container, error) {
	store, err := storage.New(cfg.Audio.Dir)
	if err != nil {
		return nil, err
	}

	if aiClient == nil {
		opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAI.APIKey)}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		aiClient = ai.NewOpenAIClient(ai.Defaults{
			Model:       cfg.OpenAI.DefaultModel,
			Temperature: cfg.OpenAI.DefaultTemperature,
			MaxTokens:   cfg.OpenAI.DefaultMaxTokens,
		}, opts...)
	}

	agentRepo := repository.NewGormAgentRepository(db)
	sessionRepo := repository.NewGormSessionRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	audioMetaRepo := repository.NewGormAudioMetadataRepository(db)

	agentService := service.NewAgentService(agentRepo, log)
	sessionService := service.NewSessionService(agentRepo, sessionRepo, messageRepo, aiClient, log)
	voiceService := service.NewVoiceService(sessionService, audioMetaRepo, store, aiClient, cfg.OpenAI.TTSVoice, log)

	return &Container{
		DB:             db,
		Config:         cfg,
		Logger:         log,
		Store:          store,
		AIClient:       aiClient,
		AgentService:   agentService,
		SessionService: sessionService,
		VoiceService:   voiceService,
	}, nil
}
