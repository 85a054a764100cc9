package telegram

import (
	"fmt"

	"blackcenter/sources/texting"
	"blackcenter/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleSalesCommand reports the process-lifetime purchase tally. The tally
// resets on restart and is not a source of truth for billing.
func (x *TelegramHandler) HandleSalesCommand(log *tracing.Logger, msg *tgbotapi.Message) {
	if !x.isOperator(msg.Chat.ID) {
		log.W("Non-operator attempted sales command")
		x.diplomat.Reply(log, msg, texting.MsgSalesNoAccess)
		return
	}

	if msg.CommandArguments() == "" {
		x.SalesCommandSummary(log, msg)
		return
	}

	var cmd SalesCmd
	ctx, err := x.ParseKongCommand(log, msg, &cmd)
	if err != nil {
		x.diplomat.Reply(log, msg, "Usage: /sales [summary | user <id>]")
		return
	}

	switch ctx.Command() {
	case "summary":
		x.SalesCommandSummary(log, msg)
	case "user <id>":
		x.SalesCommandUser(log, msg, cmd.User.ID)
	}
}

func (x *TelegramHandler) SalesCommandSummary(log *tracing.Logger, msg *tgbotapi.Message) {
	snapshot := x.counter.Snapshot()
	x.diplomat.Reply(log, msg, fmt.Sprintf(
		"Purchases since process start: %s across %s buyers.",
		texting.Numberify(x.counter.Total()), texting.Numberify(int64(len(snapshot))),
	))
}

func (x *TelegramHandler) SalesCommandUser(log *tracing.Logger, msg *tgbotapi.Message, userID int64) {
	x.diplomat.Reply(log, msg, fmt.Sprintf(
		"Purchases for %d since process start: %s.",
		userID, texting.Numberify(x.counter.Count(userID)),
	))
}
