package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"dispatch_parser/internal/config"
	"dispatch_parser/internal/engine"
	"dispatch_parser/internal/keywords"
	"dispatch_parser/internal/llm"
	"dispatch_parser/internal/logging"
	"dispatch_parser/internal/parsers/delegated"
	"dispatch_parser/internal/storage"
)

const serviceName = "dispatch_parser"

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Options{
		Service:     serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
}

// loadKeywords reads the configured keyword table, or the built-in one.
func loadKeywords(cfg *config.Config) (*keywords.Compiled, error) {
	if cfg.KeywordsPath == "" {
		return keywords.Default().Compile(), nil
	}
	table, err := keywords.Load(cfg.KeywordsPath)
	if err != nil {
		return nil, err
	}
	return table.Compile(), nil
}

// newDelegate returns the configured model client, or nil in keyword mode.
func newDelegate(cfg *config.Config) delegated.Completer {
	if cfg.ParsingMode != config.ModeLLM {
		return nil
	}
	switch cfg.LLMProvider {
	case "anthropic":
		return llm.NewAnthropic(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	default:
		return llm.NewOpenAI(openai.NewClient(cfg.OpenAIAPIKey), cfg.LLMModel, cfg.LLMTimeout)
	}
}

func buildEngine(cfg *config.Config, logger zerolog.Logger, observer engine.Observer) (*engine.Engine, error) {
	table, err := loadKeywords(cfg)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithLocation(loc),
		engine.WithObserver(observer),
	}
	if d := newDelegate(cfg); d != nil {
		opts = append(opts, engine.WithDelegate(d))
	}

	logger.Info().
		Str("keywords", table.Version).
		Str("mode", cfg.ParsingMode).
		Str("timezone", loc.String()).
		Msg("engine ready")
	return engine.New(table, opts...), nil
}

// openStore opens the configured store. It returns nil when storage is disabled.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageNone:
		return nil, nil
	case config.StoragePostgres:
		pg, err := storage.OpenPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := pg.CreateSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		return pg, nil
	default:
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return db, nil
	}
}
