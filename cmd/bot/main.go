package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/benjiemalinao87/myknowledgebase/internal/assistant"
	"github.com/benjiemalinao87/myknowledgebase/internal/bot"
	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/metrics"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/benjiemalinao87/myknowledgebase/internal/persona"
	"github.com/benjiemalinao87/myknowledgebase/internal/storage"
	"github.com/benjiemalinao87/myknowledgebase/pkg/config"
	"github.com/benjiemalinao87/myknowledgebase/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	records, err := seedRecords(cfg.Personas.SeedFile)
	if err != nil {
		log.Fatal("Failed to load personas", zap.Error(err))
	}
	added, err := storage.SeedPersonas(ctx, store, records)
	if err != nil {
		log.Fatal("Failed to seed personas", zap.Error(err))
	}
	log.Info("Personas ready", zap.Int("seeded", added), zap.Int("catalogue", len(records)))

	var generator assistant.Generator
	if cfg.OpenAI.APIKey != "" {
		generator = assistant.NewOpenAIGenerator(assistant.OpenAIConfig{
			APIKey:           cfg.OpenAI.APIKey,
			BaseURL:          cfg.OpenAI.BaseURL,
			Model:            cfg.OpenAI.Model,
			MaxTokens:        cfg.OpenAI.MaxTokens,
			Temperature:      cfg.OpenAI.Temperature,
			PresencePenalty:  cfg.OpenAI.PresencePenalty,
			FrequencyPenalty: cfg.OpenAI.FrequencyPenalty,
		}, log)
	} else {
		log.Warn("No OpenAI API key configured, replies use the fallback text")
	}

	svc := assistant.NewService(store, generator, datetime.NewCalendar(datetime.SystemClock{}), assistant.Options{
		Timezone:        cfg.Assistant.Timezone,
		BusinessHours:   cfg.Assistant.BusinessHours,
		BusinessStart:   cfg.Assistant.BusinessStart,
		BusinessEnd:     cfg.Assistant.BusinessEnd,
		DefaultPersona:  cfg.Assistant.DefaultPersona,
		HistoryLimit:    cfg.Assistant.HistoryLimit,
		RememberHistory: cfg.Assistant.RememberHistory,
		SMSMode:         cfg.Assistant.SMSMode,
		ResponseLength:  cfg.Assistant.ResponseLength,
		KnowledgeLimit:  cfg.Assistant.KnowledgeLimit,
		UseAI:           cfg.Assistant.UseAI,
	}, log)

	metricsServer := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, svc, log)
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(ctx); err != nil {
		log.Error("Bot error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}

func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Storage, error) {
	var store storage.Storage
	if cfg.Database.UseInMemory {
		log.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		log.Info("Using PostgreSQL storage", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))
		pg, err := storage.NewPostgresStorage(ctx, storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		store = pg
	}

	if !cfg.Redis.Enabled {
		return store, nil
	}
	client, err := storage.NewRedisClient(ctx, storage.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, persona cache disabled", zap.Error(err))
		return store, nil
	}
	log.Info("Persona cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.PersonaTTL))
	return storage.NewPersonaCache(store, client, cfg.Redis.PersonaTTL, log), nil
}

func seedRecords(path string) ([]models.PersonaRecord, error) {
	if path != "" {
		return persona.LoadSeedFile(path)
	}
	return persona.BuiltinRecords()
}
