package notify

import (
	"blackcenter/sources/configuration"
	"blackcenter/sources/tracing"
)

// Sender is the outbound messaging surface the fan-out needs. The telegram
// diplomat satisfies it.
type Sender interface {
	SendText(logger *tracing.Logger, chatID int64, text string) error
	SendMarkdown(logger *tracing.Logger, chatID int64, text string) error
}

// Notifier delivers reconciliation outcomes to the purchaser and to the
// configured operator recipients. Every delivery is best-effort: a failed send
// is logged and never surfaces to the caller, and one operator's failure never
// aborts the rest of the batch.
type Notifier struct {
	sender    Sender
	operators []int64
	log       *tracing.Logger
}

func NewNotifier(sender Sender, config *configuration.Config, log *tracing.Logger) *Notifier {
	return &Notifier{sender: sender, operators: config.Operators.ChatIDs, log: log}
}

func (x *Notifier) NotifyPurchaser(logger *tracing.Logger, chatID int64, text string) {
	if err := x.sender.SendText(logger, chatID, text); err != nil {
		logger.E("Failed to notify purchaser", tracing.InnerError, err, tracing.ChatId, chatID)
	}
}

func (x *Notifier) NotifyOperators(logger *tracing.Logger, text string) {
	defer tracing.ProfilePoint(logger, "Operator fan-out completed", "notify.operators")()

	failed := 0
	for _, operator := range x.operators {
		if err := x.sender.SendMarkdown(logger, operator, text); err != nil {
			logger.E("Failed to notify operator", tracing.InnerError, err, tracing.RecipientId, operator)
			failed++
		}
	}

	if failed > 0 {
		logger.W("Operator fan-out finished with failures", "failed_count", failed, "total_count", len(x.operators))
	}
}
