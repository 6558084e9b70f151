package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"portfolioRiskBot/internal/config"
	"portfolioRiskBot/internal/logger"
	"portfolioRiskBot/internal/marketdata"
	"portfolioRiskBot/internal/openai"
	"portfolioRiskBot/internal/session"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

func NewBot(cfg config.Config, data marketdata.Provider, sessions *session.Sessions) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}

	// set webhook
	webhook, err := tgbotapi.NewWebhook(cfg.WebhookPublicURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	logger.Info().Str("webhook", cfg.WebhookPublicURL).Msg("telegram: webhook set")

	h := NewHandlers(api, data, sessions, openai.NewAnalyst(cfg.OpenAIKey), cfg.Analysis)
	return &Bot{api: api, h: h}, nil
}

// WebhookHandler decodes Telegram updates (registered at /telegram/webhook).
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	serveUpdate(w, r, b.h)
}

func serveUpdate(w http.ResponseWriter, r *http.Request, h *Handlers) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	if update.Message == nil {
		logger.Debug().Int("update_id", update.UpdateID).Msg("webhook: non-message update received")
		w.WriteHeader(http.StatusOK)
		return
	}
	ev := logger.Debug().Int64("chat_id", update.Message.Chat.ID).Str("text", update.Message.Text)
	if update.Message.From != nil {
		ev = ev.Int64("from", update.Message.From.ID)
	}
	ev.Msg("webhook: message")
	go h.HandleMessage(update.Message)
	w.WriteHeader(http.StatusOK)
}
