package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/grocerybot/backend/config"
	httpDelivery "github.com/grocerybot/backend/internal/delivery/http"
	"github.com/grocerybot/backend/internal/domain"
	"github.com/grocerybot/backend/internal/infrastructure/cache"
	"github.com/grocerybot/backend/internal/infrastructure/gemini"
	"github.com/grocerybot/backend/internal/infrastructure/openai"
	"github.com/grocerybot/backend/internal/infrastructure/storage"
	"github.com/grocerybot/backend/internal/infrastructure/telegram"
	"github.com/grocerybot/backend/internal/usecase"
)

// App is the fully wired application
type App struct {
	Router  *gin.Engine
	Service *usecase.GroceryService
	closers []io.Closer
}

// New builds every dependency described by cfg. Call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	lists, err := a.newListRepository(ctx, cfg.Store)
	if err != nil {
		a.Close()
		return nil, err
	}

	reformatter, reformatCache, err := a.newReformatter(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var notifier domain.Notifier
	if cfg.Telegram.BotToken != "" {
		client := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.BaseURL)
		client.SetDebug(cfg.Server.Environment == "development")
		notifier = client
	}

	parser := usecase.NewLineParser(usecase.ParserConfig{
		QuantityPolicy:     usecase.QuantityPolicy(cfg.Parser.QuantityPolicy),
		StrictCategories:   cfg.Parser.StrictCategories,
		EnableDebugLogging: cfg.Parser.Debug,
	})

	a.Service = usecase.NewGroceryService(
		parser,
		reformatter,
		reformatCache,
		lists,
		notifier,
		usecase.GroceryServiceConfig{
			CacheTTL:         cfg.Cache.TTL,
			SendReplies:      cfg.Telegram.SendReplies,
			SendConfirmation: cfg.Telegram.SendConfirmation,
			ConfirmationText: cfg.Telegram.ConfirmationText,
			NoItemsText:      cfg.Telegram.NoItemsText,
			FailureText:      cfg.Telegram.FailureText,
		},
	)

	log.Printf("Parser: quantity=%s, strict categories=%v",
		cfg.Parser.QuantityPolicy, cfg.Parser.StrictCategories)
	log.Printf("Replies: failures=%v, confirmation=%v",
		cfg.Telegram.SendReplies, cfg.Telegram.SendConfirmation)

	a.Router = httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(a.Service))

	return a, nil
}

// newListRepository opens the configured grocery list store
func (a *App) newListRepository(ctx context.Context, cfg config.StoreConfig) (domain.ListRepository, error) {
	log.Printf("Store Type: %s", cfg.Type)

	switch cfg.Type {
	case "mongo":
		s, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("mongo store: %w", err)
		}
		a.closers = append(a.closers, s)
		return s, nil
	case "sqlite":
		s, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		log.Printf("WARNING: memory store in use - grocery lists are lost on restart")
		return storage.NewMemoryStore(), nil
	}
}

// newReformatter builds the text generator client and its cache, or nils when reformatting is off
func (a *App) newReformatter(ctx context.Context, cfg *config.Config) (domain.Reformatter, domain.CacheRepository, error) {
	if !cfg.Reformat.Enabled {
		log.Printf("Reformat: disabled")
		return nil, nil, nil
	}

	debug := cfg.Server.Environment == "development"
	var reformatter domain.Reformatter
	switch cfg.Reformat.Provider {
	case "gemini":
		client := gemini.NewClient(gemini.Config{
			APIKey:        cfg.Reformat.APIKey,
			Model:         cfg.Reformat.Model,
			BaseURL:       cfg.Reformat.BaseURL,
			Timeout:       cfg.Reformat.Timeout,
			RatePerSecond: cfg.Reformat.RatePerSecond,
		})
		client.SetDebug(debug)
		reformatter = client
	default:
		client := openai.NewClient(openai.Config{
			APIKey:        cfg.Reformat.APIKey,
			Model:         cfg.Reformat.Model,
			BaseURL:       cfg.Reformat.BaseURL,
			Timeout:       cfg.Reformat.Timeout,
			RatePerSecond: cfg.Reformat.RatePerSecond,
		})
		client.SetDebug(debug)
		reformatter = client
	}
	log.Printf("Reformat: provider=%s model=%q", cfg.Reformat.Provider, cfg.Reformat.Model)

	log.Printf("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)
	if cfg.Cache.Type == "redis" {
		c, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		a.closers = append(a.closers, c)
		return reformatter, c, nil
	}

	c := cache.NewMemoryCache(0)
	a.closers = append(a.closers, c)
	return reformatter, c, nil
}

// Close releases stores and caches
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
