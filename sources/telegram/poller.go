package telegram

import (
	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

type Poller struct {
	bot     *tgbotapi.BotAPI
	log     *tracing.Logger
	config  *configuration.Config
	handler *TelegramHandler
}

func NewPoller(bot *tgbotapi.BotAPI, log *tracing.Logger, config *configuration.Config, handler *TelegramHandler) *Poller {
	return &Poller{bot: bot, log: log, config: config, handler: handler}
}

func (x *Poller) allowedUpdates() []string {
	if len(x.config.Telegram.AllowedUpdates) > 0 {
		return x.config.Telegram.AllowedUpdates
	}
	return []string{
		tgbotapi.UpdateTypeMessage,
		tgbotapi.UpdateTypeCallbackQuery,
		tgbotapi.UpdateTypePreCheckoutQuery,
	}
}

func (x *Poller) Start() {
	update := tgbotapi.NewUpdate(0)
	update.Timeout = x.config.Telegram.PollerTimeout
	update.AllowedUpdates = x.allowedUpdates()

	for update := range x.bot.GetUpdatesChan(update) {
		log := x.log.With(
			tracing.UpdateId, update.UpdateID,
			tracing.CorrelationId, uuid.NewString(),
		)

		if user := update.SentFrom(); user != nil {
			log = log.With(
				tracing.UserId, user.ID,
				tracing.UserName, user.UserName,
			)
		}

		switch {
		case update.PreCheckoutQuery != nil:
			// Answered inline: the provider deadline is hard and the
			// approval is a pure catalog lookup.
			x.handler.HandlePreCheckout(log, update.PreCheckoutQuery)

		case update.CallbackQuery != nil:
			go x.handler.HandleCallback(log, update.CallbackQuery)

		case update.Message != nil:
			msg := update.Message
			log = log.With(
				tracing.ChatType, msg.Chat.Type,
				tracing.ChatId, msg.Chat.ID,
				tracing.MessageId, msg.MessageID,
				tracing.MessageDate, msg.Date,
			)
			go x.handler.HandleMessage(log, msg)
		}
	}
}

func (x *Poller) Stop() {
	x.bot.StopReceivingUpdates()
}
