package telegram

import (
	"errors"

	"blackcenter/sources/texting"
	"blackcenter/sources/tracing"

	"github.com/alecthomas/kong"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (x *TelegramHandler) ParseCmd(cmd interface{}, args string) (*kong.Context, error) {
	parser, err := kong.New(cmd)
	if err != nil {
		return nil, err
	}
	return parser.Parse(texting.ParseCmdArgs(args))
}

func (x *TelegramHandler) ParseKongCommand(log *tracing.Logger, msg *tgbotapi.Message, cmd interface{}) (*kong.Context, error) {
	args := msg.CommandArguments()
	if args == "" {
		return nil, errors.New("command arguments are empty")
	}

	ctx, err := x.ParseCmd(cmd, args)
	if err != nil {
		log.W("Error parsing command", tracing.InnerError, err)
		return nil, err
	}
	return ctx, nil
}

func (x *TelegramHandler) isOperator(chatID int64) bool {
	for _, operator := range x.config.Operators.ChatIDs {
		if operator == chatID {
			return true
		}
	}
	return false
}
