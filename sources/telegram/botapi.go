package telegram

import (
	"net/http"

	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func NewBotAPI(log *tracing.Logger, config *configuration.Config, client *http.Client) *tgbotapi.BotAPI {
	endpoint := config.Telegram.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(config.Telegram.BotToken, endpoint, client)
	if err != nil {
		log.F("Failed to initialize telegram bot", tracing.InnerError, err)
	}

	if config.Telegram.APIEndpoint != "" {
		log.I("Telegram bot initialized with custom API endpoint", "api_endpoint", config.Telegram.APIEndpoint)
	} else {
		log.I("Telegram bot initialized with default API endpoint")
	}

	return bot
}
