package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"portfolioRiskBot/internal/config"
	"portfolioRiskBot/internal/logger"
	"portfolioRiskBot/internal/marketdata"
	"portfolioRiskBot/internal/server"
	"portfolioRiskBot/internal/session"
	"portfolioRiskBot/internal/telegram"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal().Err(err).Msg("config: dotenv")
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config: load")
	}
	logger.Init("portfolio-risk-bot", cfg.LogLevel, cfg.LogPretty)

	data := marketdata.NewCache(marketdata.NewYahoo(), cfg.CacheTTL)
	logger.Info().Dur("ttl", cfg.CacheTTL).Str("benchmark", cfg.BenchmarkSymbol).Msg("marketdata: yahoo provider ready")

	tg, err := telegram.NewBot(cfg, data, session.NewSessions())
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram: init")
	}
	logger.Info().Str("webhook", cfg.WebhookPublicURL).Msg("telegram: bot initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := server.NewHTTPMux(tg.WebhookHandler) // registers /telegram/webhook
	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("http: listening")
	if err := server.ListenAndServe(ctx, addr, mux); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
