package cli

import (
	"context"

	"go.uber.org/zap"

	"sales_dashboard/internal/config"
	"sales_dashboard/internal/insights"
	"sales_dashboard/internal/sales"
	"sales_dashboard/internal/store"
)

// app holds the services every command works with.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	repo      *sales.Repository
	requester *insights.Requester
	closeConn func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := store.Open(ctx, store.Options{
		Backend: store.Backend(cfg.Backend),
		URL:     cfg.SupabaseURL,
		Key:     cfg.SupabaseKey,
		DSN:     cfg.DatabaseURL,
		Timeout: cfg.RequestTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open backend", zap.String("backend", cfg.Backend), zap.Error(err))
		return nil, err
	}

	var gen insights.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := insights.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("AI insights unavailable", zap.Error(err))
		} else {
			logger.Info("AI insights enabled", zap.String("generator", g.Name()))
			gen = g
		}
	} else {
		logger.Info("GEMINI_API_KEY not set; AI insights disabled")
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		repo:      sales.NewRepository(conn, logger),
		requester: insights.NewRequester(gen, cfg.RequestTimeout, logger),
		closeConn: conn.Close,
	}, nil
}

func (a *app) Close() error {
	defer a.logger.Sync()
	return a.closeConn()
}
