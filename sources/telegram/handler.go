package telegram

import (
	"blackcenter/sources/catalog"
	"blackcenter/sources/configuration"
	"blackcenter/sources/features"
	"blackcenter/sources/metrics"
	"blackcenter/sources/reconciler"
	"blackcenter/sources/texting"
	"blackcenter/sources/throttler"
	"blackcenter/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramHandler struct {
	diplomat   *Diplomat
	catalog    *catalog.Catalog
	reconciler *reconciler.Reconciler
	features   *features.FeatureManager
	throttler  *throttler.Throttler
	counter    *metrics.PurchaseCounter
	metrics    *metrics.MetricsService
	config     *configuration.Config
}

func NewTelegramHandler(diplomat *Diplomat, cat *catalog.Catalog, rec *reconciler.Reconciler, fm *features.FeatureManager, throttler *throttler.Throttler, counter *metrics.PurchaseCounter, ms *metrics.MetricsService, config *configuration.Config) *TelegramHandler {
	return &TelegramHandler{
		diplomat:   diplomat,
		catalog:    cat,
		reconciler: rec,
		features:   fm,
		throttler:  throttler,
		counter:    counter,
		metrics:    ms,
		config:     config,
	}
}

func (x *TelegramHandler) upgradeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, offer := range x.catalog.Ordered() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(offer.Name, offer.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (x *TelegramHandler) HandleMessage(log *tracing.Logger, msg *tgbotapi.Message) {
	defer tracing.ProfilePoint(log, "Telegram handler message completed", "telegram.handler.message")()

	if msg.SuccessfulPayment != nil {
		x.HandlePayment(log, msg)
		return
	}

	if !msg.IsCommand() {
		return
	}

	log = log.With(tracing.CommandIssued, msg.Command())
	x.metrics.RecordCommandUsed(msg.Command())

	switch msg.Command() {
	case "start":
		x.HandleStartCommand(log, msg)
	case "upgrade":
		x.HandleUpgradeCommand(log, msg)
	case "sales":
		x.HandleSalesCommand(log, msg)
	default:
		log.I("Ignoring unknown command")
	}
}

func (x *TelegramHandler) HandleStartCommand(log *tracing.Logger, msg *tgbotapi.Message) {
	if !x.throttler.IsAllowed(msg.From.ID) {
		log.W("User exceeded rate throttler")
		return
	}

	x.diplomat.ReplyWithKeyboard(log, msg, texting.MsgWelcome, x.upgradeKeyboard())
}

func (x *TelegramHandler) HandleUpgradeCommand(log *tracing.Logger, msg *tgbotapi.Message) {
	if !x.throttler.IsAllowed(msg.From.ID) {
		log.W("User exceeded rate throttler")
		return
	}

	x.diplomat.ReplyWithKeyboard(log, msg, texting.MsgChooseUpgrade, x.upgradeKeyboard())
}

// HandleCallback validates an offer selection against the catalog and issues
// the invoice. An invalid selection aborts back to the menu with an inline
// alert and never creates an invoice.
func (x *TelegramHandler) HandleCallback(log *tracing.Logger, cb *tgbotapi.CallbackQuery) {
	defer tracing.ProfilePoint(log, "Telegram handler callback completed", "telegram.handler.callback", tracing.OfferId, cb.Data)()

	offer, ok := x.catalog.Lookup(cb.Data)
	if !ok {
		log.W("Invalid offer selected")
		x.diplomat.AnswerCallback(log, cb.ID, texting.MsgInvalidOption, true)
		return
	}

	x.diplomat.AnswerCallback(log, cb.ID, "", false)

	if cb.Message == nil {
		log.W("Callback query without message, cannot issue invoice")
		return
	}

	if !x.features.IsEnabledDefault(features.FeaturePurchases, true) {
		log.W("Purchases feature is disabled")
		x.diplomat.Reply(log, cb.Message, texting.MsgPurchasesDisabled)
		return
	}

	if err := x.diplomat.SendInvoice(log, cb.Message.Chat.ID, offer); err != nil {
		x.diplomat.Reply(log, cb.Message, texting.MsgInvoiceFailed)
	}
}

// PreCheckoutDecision approves a payload iff it still resolves in the
// catalog. It is deliberately a pure catalog lookup: the provider deadline
// leaves no room for remote I/O.
func PreCheckoutDecision(cat *catalog.Catalog, payload string) (bool, string) {
	if _, ok := cat.Lookup(payload); !ok {
		return false, "Invalid payload"
	}
	return true, ""
}

func (x *TelegramHandler) HandlePreCheckout(log *tracing.Logger, query *tgbotapi.PreCheckoutQuery) {
	ok, reason := PreCheckoutDecision(x.catalog, query.InvoicePayload)

	result := "approved"
	if !ok {
		result = "rejected"
		log.W("Rejecting pre-checkout for unknown payload", tracing.OfferId, query.InvoicePayload)
	}

	x.metrics.RecordPreCheckout(result)
	x.diplomat.AnswerPreCheckout(log, query.ID, ok, reason)
}

func (x *TelegramHandler) HandlePayment(log *tracing.Logger, msg *tgbotapi.Message) {
	payment := msg.SuccessfulPayment

	username := msg.From.FirstName
	if msg.From.UserName != "" {
		username = "@" + msg.From.UserName
	}

	log = log.With(
		tracing.OfferId, payment.InvoicePayload,
		tracing.ChargeRef, payment.TelegramPaymentChargeID,
	)
	log.I("Payment confirmed", tracing.PriceStars, payment.TotalAmount)

	confirmation := reconciler.Confirmation{
		Identity:   msg.From.ID,
		ChatID:     msg.Chat.ID,
		Username:   username,
		OfferID:    payment.InvoicePayload,
		ChargeRef:  payment.TelegramPaymentChargeID,
		AmountPaid: payment.TotalAmount,
	}

	if _, err := x.reconciler.Reconcile(log, confirmation); err != nil {
		// Both sides were already notified by the reconciler.
		log.E("Reconciliation failed", tracing.InnerError, err)
	}
}
