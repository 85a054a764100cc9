package telegram

import (
	"blackcenter/sources/catalog"
	"blackcenter/sources/configuration"
	"blackcenter/sources/metrics"
	"blackcenter/sources/texting/transform"
	"blackcenter/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// starsCurrency is the provider code for Telegram Stars. Star invoices carry
// an empty provider token.
const starsCurrency = "XTR"

type Diplomat struct {
	bot     *tgbotapi.BotAPI
	config  *configuration.Config
	metrics *metrics.MetricsService
}

func NewDiplomat(bot *tgbotapi.BotAPI, config *configuration.Config, metrics *metrics.MetricsService) *Diplomat {
	return &Diplomat{bot: bot, config: config, metrics: metrics}
}

func (x *Diplomat) chunkSize() int {
	if x.config.Telegram.DiplomatChunkSize > 0 {
		return x.config.Telegram.DiplomatChunkSize
	}
	return 4096
}

func (x *Diplomat) Reply(logger *tracing.Logger, msg *tgbotapi.Message, text string) {
	defer tracing.ProfilePoint(logger, "Diplomat reply completed", "diplomat.reply")()

	for _, chunk := range transform.Chunks(text, x.chunkSize()) {
		chattable := tgbotapi.NewMessage(msg.Chat.ID, chunk)
		chattable.ReplyToMessageID = msg.MessageID

		if _, err := x.bot.Send(chattable); err != nil {
			logger.E("Message chunk sending error", tracing.InnerError, err)
			x.metrics.RecordMessageSent("error")
			break
		}
		x.metrics.RecordMessageSent("success")
	}
}

func (x *Diplomat) ReplyWithKeyboard(logger *tracing.Logger, msg *tgbotapi.Message, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	defer tracing.ProfilePoint(logger, "Diplomat reply with keyboard completed", "diplomat.reply_keyboard")()

	chattable := tgbotapi.NewMessage(msg.Chat.ID, text)
	chattable.ReplyMarkup = keyboard

	if _, err := x.bot.Send(chattable); err != nil {
		logger.E("Keyboard message sending error", tracing.InnerError, err)
		x.metrics.RecordMessageSent("error")
		return
	}
	x.metrics.RecordMessageSent("success")
}

func (x *Diplomat) SendText(logger *tracing.Logger, chatID int64, text string) error {
	defer tracing.ProfilePoint(logger, "Diplomat send text completed", "diplomat.send_text")()

	for _, chunk := range transform.Chunks(text, x.chunkSize()) {
		msg := tgbotapi.NewMessage(chatID, chunk)

		if _, err := x.bot.Send(msg); err != nil {
			logger.E("Message chunk sending error", tracing.InnerError, err)
			x.metrics.RecordMessageSent("error")
			return err
		}
		x.metrics.RecordMessageSent("success")
	}
	return nil
}

func (x *Diplomat) SendMarkdown(logger *tracing.Logger, chatID int64, text string) error {
	defer tracing.ProfilePoint(logger, "Diplomat send markdown completed", "diplomat.send_markdown")()

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := x.bot.Send(msg); err != nil {
		logger.E("Markdown message sending error", tracing.InnerError, err)
		x.metrics.RecordMessageSent("error")
		return err
	}
	x.metrics.RecordMessageSent("success")
	return nil
}

// SendInvoice issues a Stars invoice for the offer. The offer id travels as
// the opaque invoice payload and comes back in pre-checkout and confirmation.
func (x *Diplomat) SendInvoice(logger *tracing.Logger, chatID int64, offer catalog.Offer) error {
	defer tracing.ProfilePoint(logger, "Diplomat send invoice completed", "diplomat.send_invoice", tracing.OfferId, offer.ID)()

	invoice := tgbotapi.NewInvoice(
		chatID,
		offer.Name,
		offer.Description,
		offer.ID,
		"",
		"start",
		starsCurrency,
		[]tgbotapi.LabeledPrice{{Label: offer.Name, Amount: offer.PriceStars}},
	)
	invoice.SuggestedTipAmounts = []int{}

	if _, err := x.bot.Request(invoice); err != nil {
		logger.E("Invoice sending error", tracing.InnerError, err, tracing.OfferId, offer.ID)
		x.metrics.RecordInvoiceIssued(offer.ID, "error")
		return err
	}

	x.metrics.RecordInvoiceIssued(offer.ID, "success")
	return nil
}

func (x *Diplomat) AnswerCallback(logger *tracing.Logger, callbackID, text string, alert bool) {
	callback := tgbotapi.NewCallback(callbackID, text)
	callback.ShowAlert = alert

	if _, err := x.bot.Request(callback); err != nil {
		logger.W("Failed to answer callback query", tracing.InnerError, err)
	}
}

// AnswerPreCheckout must stay local-only on the caller side: the provider
// enforces a response deadline and an unanswered query counts as a rejection.
func (x *Diplomat) AnswerPreCheckout(logger *tracing.Logger, queryID string, ok bool, reason string) {
	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
		ErrorMessage:       reason,
	}

	if _, err := x.bot.Request(answer); err != nil {
		logger.E("Failed to answer pre-checkout query", tracing.InnerError, err)
	}
}
