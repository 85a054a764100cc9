package throttler

import (
	"context"
	"fmt"
	"time"

	"blackcenter/sources/configuration"
	"blackcenter/sources/platform"
	"blackcenter/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// Throttler rate-limits menu and purchase commands per user. It never guards
// payment confirmations: money already moved by then.
type Throttler struct {
	client *redis.Client
	config *configuration.Config
	log    *tracing.Logger
	ctx    context.Context
}

func NewThrottler(client *redis.Client, config *configuration.Config, log *tracing.Logger) *Throttler {
	ctx := context.Background()
	return &Throttler{client: client, config: config, log: log, ctx: ctx}
}

func (x *Throttler) IsAllowed(userId int64) bool {
	ctx, cancel := platform.ContextTimeout(x.ctx)
	defer cancel()

	key := fmt.Sprintf("throttle:%d", userId)

	limit := x.config.Throttler.Limit
	if limit <= 0 {
		limit = time.Second
	}

	success, err := x.client.SetNX(ctx, key, time.Now().Unix(), limit).Result()
	if err != nil {
		x.log.E("Error setting throttle key", tracing.InnerError, err)
		return true
	}

	return success
}
